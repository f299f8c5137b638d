package speech

import (
	"context"

	"github.com/kailas-cloud/resumechat/internal/domain/speech"
)

// Provider synthesizes and transcribes speech.
type Provider interface {
	Synthesize(ctx context.Context, voiceID, modelID, text string, vs speech.VoiceSettings) ([]byte, error)
	Transcribe(ctx context.Context, audio speech.Audio, modelID string) (speech.Transcription, error)
}
