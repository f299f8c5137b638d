package chi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumechat/internal/domain"
	"github.com/kailas-cloud/resumechat/internal/logger"
)

// ErrorCode is the machine-readable error identifier in API responses.
type ErrorCode string

// API error codes.
const (
	CodeBadRequest        ErrorCode = "bad_request"
	CodeValidationFailed  ErrorCode = "validation_failed"
	CodeUnauthorized      ErrorCode = "unauthorized"
	CodeDocumentNotFound  ErrorCode = "document_not_found"
	CodeSessionNotFound   ErrorCode = "session_not_found"
	CodeInvalidToken      ErrorCode = "invalid_access_token"
	CodeNoRecording       ErrorCode = "no_active_recording"
	CodeVectorDimMismatch ErrorCode = "vector_dim_mismatch"
	CodeInvalidAudio      ErrorCode = "invalid_audio"
	CodeRateLimited       ErrorCode = "rate_limited"
	CodeQuotaExceeded     ErrorCode = "quota_exceeded"
	CodeProviderError     ErrorCode = "provider_error"
	CodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

type sentinelRule struct {
	err    error
	status int
	code   ErrorCode
}

// Order matters: an error joined with several sentinels takes the first
// match, so caller-facing causes (rate limit, quota) precede the generic
// provider failures they are wrapped with.
var sentinelRules = []sentinelRule{
	{domain.ErrDocumentNotFound, http.StatusNotFound, CodeDocumentNotFound},
	{domain.ErrSessionNotFound, http.StatusNotFound, CodeSessionNotFound},
	{domain.ErrInvalidAccessToken, http.StatusNotFound, CodeInvalidToken},
	{domain.ErrNoActiveRecording, http.StatusNotFound, CodeNoRecording},
	{domain.ErrVectorDimMismatch, http.StatusBadRequest, CodeVectorDimMismatch},
	{domain.ErrInvalidInput, http.StatusBadRequest, CodeValidationFailed},
	{domain.ErrRecordingTooShort, http.StatusBadRequest, CodeInvalidAudio},
	{domain.ErrAudioTooSmall, http.StatusBadRequest, CodeInvalidAudio},
	{domain.ErrAudioTooLarge, http.StatusBadRequest, CodeInvalidAudio},
	{domain.ErrInvalidAudio, http.StatusBadRequest, CodeInvalidAudio},
	{domain.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited},
	{domain.ErrQuotaExceeded, http.StatusPaymentRequired, CodeQuotaExceeded},
	{domain.ErrUnauthorized, http.StatusBadGateway, CodeProviderError},
	{domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeProviderError},
	{domain.ErrProviderUnavailable, http.StatusBadGateway, CodeProviderError},
	{domain.ErrProviderDegraded, http.StatusBadGateway, CodeProviderError},
	{domain.ErrSpeechProvider, http.StatusBadGateway, CodeProviderError},
}

func defaultErrorHandlers() []errorHandler {
	hs := make([]errorHandler, len(sentinelRules))
	for i, rule := range sentinelRules {
		hs[i] = sentinelHandler(rule.err, rule.status, rule.code)
	}
	return hs
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	for _, rule := range sentinelRules {
		if errors.Is(err, rule.err) {
			return rule.err.Error()
		}
	}
	return "internal error"
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
