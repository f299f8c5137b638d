package speech

import (
	"encoding/binary"
	"fmt"
	"mime"
	"strconv"
	"strings"

	"github.com/kailas-cloud/resumechat/internal/domain"
	"github.com/kailas-cloud/resumechat/internal/domain/speech"
)

// Raw PCM defaults when the content type carries no parameters.
const (
	defaultSampleRate = 44100
	defaultChannels   = 1
	wavHeaderSize     = 44
)

// PrepareAudio converts a buffered upload into a payload the transcription
// endpoint accepts and enforces the size limits.
func PrepareAudio(data []byte, contentType string) (speech.Audio, error) {
	audio, err := convert(data, contentType)
	if err != nil {
		return speech.Audio{}, err
	}
	if len(audio.Data) < speech.MinAudioBytes {
		return speech.Audio{}, fmt.Errorf("%d bytes: %w", len(audio.Data), domain.ErrAudioTooSmall)
	}
	if len(audio.Data) > speech.MaxAudioBytes {
		return speech.Audio{}, fmt.Errorf("%d bytes: %w", len(audio.Data), domain.ErrAudioTooLarge)
	}
	return audio, nil
}

func convert(data []byte, contentType string) (speech.Audio, error) {
	mt, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt, params = strings.ToLower(strings.TrimSpace(contentType)), nil
	}

	switch {
	case strings.Contains(mt, "wav"):
		return speech.Audio{Data: data, MimeType: mt, Filename: "recording.wav"}, nil
	case strings.Contains(mt, "mp3"), strings.Contains(mt, "mpeg"):
		return speech.Audio{Data: data, MimeType: mt, Filename: "recording.mp3"}, nil
	case strings.Contains(mt, "mp4"):
		return speech.Audio{Data: data, MimeType: mt, Filename: "recording.mp4"}, nil
	case mt == "audio/pcm", mt == "audio/l16":
		rate, channels, err := pcmFormat(params)
		if err != nil {
			return speech.Audio{}, err
		}
		// L16 is big-endian on the wire, WAV wants little-endian.
		wav := WrapPCM(data, rate, channels, mt == "audio/l16")
		return speech.Audio{Data: wav, MimeType: "audio/wav", Filename: "recording.wav"}, nil
	default:
		if mt == "" {
			mt = "audio/webm"
		}
		return speech.Audio{Data: data, MimeType: mt, Filename: "recording.webm"}, nil
	}
}

func pcmFormat(params map[string]string) (rate, channels int, err error) {
	rate, channels = defaultSampleRate, defaultChannels
	if v, ok := params["rate"]; ok {
		if rate, err = strconv.Atoi(v); err != nil || rate <= 0 {
			return 0, 0, fmt.Errorf("bad sample rate %q: %w", v, domain.ErrInvalidAudio)
		}
	}
	if v, ok := params["channels"]; ok {
		if channels, err = strconv.Atoi(v); err != nil || channels <= 0 {
			return 0, 0, fmt.Errorf("bad channel count %q: %w", v, domain.ErrInvalidAudio)
		}
	}
	return rate, channels, nil
}

// WrapPCM prefixes 16-bit PCM samples with a RIFF/WAVE header. A trailing odd
// byte is dropped.
func WrapPCM(pcm []byte, sampleRate, channels int, bigEndian bool) []byte {
	n := len(pcm) &^ 1
	out := make([]byte, wavHeaderSize+n)

	le := binary.LittleEndian
	copy(out[0:], "RIFF")
	le.PutUint32(out[4:], uint32(36+n))
	copy(out[8:], "WAVE")
	copy(out[12:], "fmt ")
	le.PutUint32(out[16:], 16)
	le.PutUint16(out[20:], 1) // PCM
	le.PutUint16(out[22:], uint16(channels))
	le.PutUint32(out[24:], uint32(sampleRate))
	le.PutUint32(out[28:], uint32(sampleRate*channels*2))
	le.PutUint16(out[32:], uint16(channels*2))
	le.PutUint16(out[34:], 16)
	copy(out[36:], "data")
	le.PutUint32(out[40:], uint32(n))

	body := out[wavHeaderSize:]
	copy(body, pcm[:n])
	if bigEndian {
		for i := 0; i < n; i += 2 {
			body[i], body[i+1] = body[i+1], body[i]
		}
	}
	return out
}
