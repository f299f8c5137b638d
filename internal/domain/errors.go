package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput signals a malformed request value.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDocumentNotFound signals a missing document chunk.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrSessionNotFound signals that no active session exists.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidAccessToken signals an unknown access token.
	ErrInvalidAccessToken = errors.New("invalid access token")

	// ErrRateLimited signals that a provider throttled the request.
	ErrRateLimited = errors.New("rate limited")
	// ErrUnauthorized signals that a provider rejected our credentials.
	ErrUnauthorized = errors.New("provider rejected credentials")
	// ErrQuotaExceeded signals an exhausted provider token budget.
	ErrQuotaExceeded = errors.New("provider token quota exceeded")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrProviderUnavailable signals missing credentials or a failed provider call.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrProviderDegraded signals a successful call with an unusable result.
	ErrProviderDegraded = errors.New("provider returned an unusable response")
	// ErrValidationFailure marks a follow-up candidate that is not grounded in context.
	ErrValidationFailure = errors.New("candidate not grounded in context")

	// ErrNoActiveRecording signals a stop on a recording that is not buffering.
	ErrNoActiveRecording = errors.New("no active recording")
	// ErrRecordingTooShort signals a recording below the minimum duration.
	ErrRecordingTooShort = errors.New("recording too short, please speak for at least 1 second")
	// ErrAudioTooSmall signals a converted payload too small to transcribe.
	ErrAudioTooSmall = errors.New("audio file too small, please try recording again")
	// ErrAudioTooLarge signals a payload above the provider upload limit.
	ErrAudioTooLarge = errors.New("audio file too large, please record a shorter message")
	// ErrInvalidAudio signals that the provider rejected the audio or voice settings.
	ErrInvalidAudio = errors.New("invalid audio format or voice settings")
	// ErrSpeechProvider signals an unrecoverable speech provider failure.
	ErrSpeechProvider = errors.New("speech provider error")
)
