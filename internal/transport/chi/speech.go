package chi

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/resumechat/internal/domain"
	"github.com/kailas-cloud/resumechat/internal/domain/speech"
)

// maxAudioBody leaves room for multipart framing around the largest upload.
const maxAudioBody = speech.MaxAudioBytes + 1<<20

// Synthesize handles POST /speech/synthesize. Provider failures are reported
// in the envelope with 200.
func (s *Server) Synthesize(w http.ResponseWriter, r *http.Request) {
	var req SynthesizeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res := s.svc.Speech.Synthesize(r.Context(), req.Text, req.VoiceID)
	writeJSON(w, http.StatusOK, SpeechResponse{
		Success:  res.Success,
		Audio:    res.Audio,
		MimeType: res.MimeType,
		Error:    res.Error,
	})
}

// Transcribe handles POST /speech/transcribe with a multipart "file" part.
func (s *Server) Transcribe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAudioBody)
	if err := r.ParseMultipartForm(maxAudioBody); err != nil {
		s.audioBodyError(w, err)
		return
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, `multipart field "file" is required`)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		s.audioBodyError(w, err)
		return
	}

	t, err := s.svc.Speech.Transcribe(r.Context(), data, hdr.Header.Get("Content-Type"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TranscriptionResponse{Text: t.Text})
}

// StartRecording handles POST /speech/recordings.
func (s *Server) StartRecording(w http.ResponseWriter, r *http.Request) {
	var req RecordingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	id := s.svc.Speech.StartRecording(req.MimeType)
	writeJSON(w, http.StatusCreated, RecordingResponse{ID: id})
}

// AppendRecording handles POST /speech/recordings/{id}/chunks with a raw body.
func (s *Server) AppendRecording(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, speech.MaxAudioBytes)
	chunk, err := io.ReadAll(r.Body)
	if err != nil {
		s.audioBodyError(w, err)
		return
	}
	if err := s.svc.Speech.AppendRecording(chi.URLParam(r, "id"), chunk); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StopRecording handles POST /speech/recordings/{id}/stop.
func (s *Server) StopRecording(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Speech.StopRecording(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TranscriptionResponse{Text: t.Text})
}

// CancelRecording handles DELETE /speech/recordings/{id}.
func (s *Server) CancelRecording(w http.ResponseWriter, r *http.Request) {
	s.svc.Speech.CancelRecording(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) audioBodyError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusBadRequest, CodeInvalidAudio, domain.ErrAudioTooLarge.Error())
		return
	}
	writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid audio upload")
}
