package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kailas-cloud/resumechat/internal/domain"
)

// parseAPIError extracts a readable error from an API failure and wraps it with
// fallback (the sentinel the caller maps to 502). Rate-limit and credential
// failures additionally carry ErrRateLimited / ErrUnauthorized.
func parseAPIError(kind string, err error, fallback error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return fmt.Errorf("%s API error %d: %s: %w",
			kind, reqErr.HTTPStatusCode, detail, statusError(reqErr.HTTPStatusCode, fallback))
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s API error %d: %s: %w",
			kind, apiErr.HTTPStatusCode, apiErr.Message, statusError(apiErr.HTTPStatusCode, fallback))
	}

	// context cancellation stays visible to callers
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s request: %w: %w", kind, err, fallback)
	}

	return fmt.Errorf("%s request failed: %v: %w", kind, err, fallback)
}

func statusError(status int, fallback error) error {
	switch status {
	case http.StatusTooManyRequests:
		return errors.Join(domain.ErrRateLimited, fallback)
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.Join(domain.ErrUnauthorized, fallback)
	default:
		return fallback
	}
}

// extractDetail reads the "detail" field used by some OpenAI-compatible providers.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
