// Package elevenlabs talks to the ElevenLabs text-to-speech and
// speech-to-text HTTP APIs.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumechat/internal/domain"
	"github.com/kailas-cloud/resumechat/internal/domain/speech"
	"github.com/kailas-cloud/resumechat/internal/metrics"
)

const (
	opSynthesize = "synthesize"
	opTranscribe = "transcribe"

	maxErrorBody = 4 << 10
)

// Config holds connection settings.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// Client is an ElevenLabs API client.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates an ElevenLabs client.
func NewClient(cfg Config) *Client {
	t := cfg.Timeout
	if t <= 0 {
		t = 30 * time.Second
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: t},
		logger:  cfg.Logger,
	}
}

type synthesizeRequest struct {
	Text          string               `json:"text"`
	ModelID       string               `json:"model_id"`
	VoiceSettings speech.VoiceSettings `json:"voice_settings"`
}

// Synthesize converts text to MPEG audio with the given voice.
func (c *Client) Synthesize(
	ctx context.Context, voiceID, modelID, text string, vs speech.VoiceSettings,
) ([]byte, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("elevenlabs API key not configured: %w", domain.ErrProviderUnavailable)
	}

	body, err := json.Marshal(synthesizeRequest{Text: text, ModelID: modelID, VoiceSettings: vs})
	if err != nil {
		return nil, fmt.Errorf("marshal synthesis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/text-to-speech/"+voiceID, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build synthesis request: %w", err)
	}
	req.Header.Set("Accept", speech.MimeMPEG)
	req.Header.Set("Content-Type", "application/json")

	audio, err := c.do(req, opSynthesize)
	if err != nil {
		return nil, err
	}
	metrics.SpeechAudioBytes.WithLabelValues(opSynthesize).Observe(float64(len(audio)))
	return audio, nil
}

// Transcribe uploads audio as multipart form data and returns the recognized text.
func (c *Client) Transcribe(ctx context.Context, audio speech.Audio, modelID string) (speech.Transcription, error) {
	if c.apiKey == "" {
		return speech.Transcription{}, fmt.Errorf("elevenlabs API key not configured: %w", domain.ErrSpeechProvider)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, audio.Filename))
	if audio.MimeType != "" {
		h.Set("Content-Type", audio.MimeType)
	}
	part, err := mw.CreatePart(h)
	if err != nil {
		return speech.Transcription{}, fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(audio.Data); err != nil {
		return speech.Transcription{}, fmt.Errorf("write file part: %w", err)
	}
	if err := mw.WriteField("model_id", modelID); err != nil {
		return speech.Transcription{}, fmt.Errorf("write model field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return speech.Transcription{}, fmt.Errorf("close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/speech-to-text", &buf)
	if err != nil {
		return speech.Transcription{}, fmt.Errorf("build transcription request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	metrics.SpeechAudioBytes.WithLabelValues(opTranscribe).Observe(float64(len(audio.Data)))

	raw, err := c.do(req, opTranscribe)
	if err != nil {
		return speech.Transcription{}, err
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return speech.Transcription{}, fmt.Errorf("decode transcription: %v: %w", err, domain.ErrSpeechProvider)
	}
	return speech.Transcription{Text: out.Text}, nil
}

// do sends req with credentials and returns the response body of a 2xx reply.
func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	req.Header.Set("xi-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.SpeechRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SpeechRequestsTotal.WithLabelValues(op, "error").Inc()
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s request: %w", op, ctxErr)
		}
		return nil, fmt.Errorf("%s request: %v: %w", op, err, domain.ErrSpeechProvider)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		metrics.SpeechRequestsTotal.WithLabelValues(op, "error").Inc()
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("Speech provider error",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", detail),
		)
		return nil, fmt.Errorf("%s API error %d: %s: %w",
			op, resp.StatusCode, strings.TrimSpace(string(detail)), statusError(resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.SpeechRequestsTotal.WithLabelValues(op, "error").Inc()
		return nil, fmt.Errorf("read %s response: %v: %w", op, err, domain.ErrSpeechProvider)
	}
	metrics.SpeechRequestsTotal.WithLabelValues(op, "success").Inc()
	return data, nil
}

func statusError(status int) error {
	switch status {
	case http.StatusTooManyRequests:
		return domain.ErrRateLimited
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusUnprocessableEntity:
		return domain.ErrInvalidAudio
	default:
		return domain.ErrSpeechProvider
	}
}

