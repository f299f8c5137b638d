package speech

// Size limits applied before transcription.
const (
	MinRecordingBytes = 1000     // roughly one second of compressed speech
	MinAudioBytes     = 100      // after container conversion
	MaxAudioBytes     = 25 << 20 // provider upload cap
)

// MimeMPEG is the synthesis output type.
const MimeMPEG = "audio/mpeg"

// VoiceSettings shape the synthesized voice.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	SpeakerBoost    bool    `json:"use_speaker_boost"`
}

// Synthesis is the success/failure envelope returned by text-to-speech.
// It never carries a Go error: failures are described in Error.
type Synthesis struct {
	Success  bool
	Audio    []byte
	MimeType string
	Error    string
}

// Audio is a payload ready for the transcription endpoint.
type Audio struct {
	Data     []byte
	MimeType string
	Filename string
}

// Transcription is the text recognized from an audio payload.
type Transcription struct {
	Text string
}
