package speech

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/resumechat/internal/domain/speech"
	"github.com/kailas-cloud/resumechat/internal/logger"
)

// Config holds voice and model selection.
type Config struct {
	VoiceID         string
	ModelID         string
	TranscribeModel string
	MinInterval     time.Duration
	Voice           speech.VoiceSettings
	RecordingTTL    time.Duration
}

// Service converts between text and speech.
type Service struct {
	provider   Provider
	cfg        Config
	limiter    *rate.Limiter
	recordings *Recordings
	logger     *zap.Logger
}

// New creates a speech service. Synthesis calls are spaced at least
// cfg.MinInterval apart.
func New(p Provider, cfg Config, l *zap.Logger) *Service {
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = time.Second
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{
		provider:   p,
		cfg:        cfg,
		limiter:    rate.NewLimiter(rate.Every(cfg.MinInterval), 1),
		recordings: NewRecordings(cfg.RecordingTTL),
		logger:     l,
	}
}

// Synthesize speaks text with voiceID, or the configured voice when voiceID is
// empty. Failures are reported in the envelope, never as an error.
func (s *Service) Synthesize(ctx context.Context, text, voiceID string) speech.Synthesis {
	log := logger.FromContextOr(ctx, s.logger)

	clean := CleanText(text)
	if clean == "" {
		return speech.Synthesis{Error: "no text to synthesize"}
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return speech.Synthesis{Error: fmt.Sprintf("rate limiter: %v", err)}
	}

	if voiceID == "" {
		voiceID = s.cfg.VoiceID
	}
	audio, err := s.provider.Synthesize(ctx, voiceID, s.cfg.ModelID, clean, s.cfg.Voice)
	if err != nil {
		log.Warn("Speech synthesis failed", zap.Error(err))
		return speech.Synthesis{Error: err.Error()}
	}
	return speech.Synthesis{Success: true, Audio: audio, MimeType: speech.MimeMPEG}
}

// Transcribe converts a complete upload to text.
func (s *Service) Transcribe(ctx context.Context, data []byte, contentType string) (speech.Transcription, error) {
	audio, err := PrepareAudio(data, contentType)
	if err != nil {
		return speech.Transcription{}, err
	}

	logger.FromContextOr(ctx, s.logger).Debug("Transcribing audio",
		zap.String("filename", audio.Filename),
		zap.String("mime_type", audio.MimeType),
		zap.Int("bytes", len(audio.Data)),
	)
	t, err := s.provider.Transcribe(ctx, audio, s.cfg.TranscribeModel)
	if err != nil {
		return speech.Transcription{}, fmt.Errorf("transcribe: %w", err)
	}
	return t, nil
}

// StartRecording opens a buffered recording.
func (s *Service) StartRecording(contentType string) string {
	return s.recordings.Start(contentType)
}

// AppendRecording buffers one uploaded chunk.
func (s *Service) AppendRecording(id string, chunk []byte) error {
	return s.recordings.Append(id, chunk)
}

// StopRecording closes the recording and transcribes what was buffered.
func (s *Service) StopRecording(ctx context.Context, id string) (speech.Transcription, error) {
	data, contentType, err := s.recordings.Stop(id)
	if err != nil {
		return speech.Transcription{}, err
	}
	return s.Transcribe(ctx, data, contentType)
}

// CancelRecording discards a recording.
func (s *Service) CancelRecording(id string) {
	s.recordings.Cancel(id)
}
