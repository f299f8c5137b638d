package chat

import (
	"context"
	"fmt"
)

// Role of a chat-completion message.
type Role string

// Chat roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a chat-completion request.
type Message struct {
	Role    Role
	Content string
}

// Turn is a prior conversation message supplied as context to the composer.
type Turn struct {
	Role      Role
	Content   string
	Timestamp int64
}

// Params are the per-call sampling settings.
type Params struct {
	Call             string // composition step, used for metrics and logs
	Model            string
	Temperature      float32
	MaxTokens        int
	PresencePenalty  float32
	FrequencyPenalty float32
	TopP             float32
}

// Completion is the text returned by a chat call with its token usage.
type Completion struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}

// Completer performs a single chat-completion call.
type Completer interface {
	Complete(ctx context.Context, p Params, msgs []Message) (Completion, error)
}

// Draft is the typed outcome of one primary provider call: a text or an error.
type Draft struct {
	Provider string
	Text     string
	Err      error
}

// OK reports whether the draft carries usable text.
func (d Draft) OK() bool { return d.Err == nil && d.Text != "" }

// Render returns the draft text, or the failure marker the merge prompt expects.
func (d Draft) Render() string {
	if d.OK() {
		return d.Text
	}
	return FailureMarker(d.Provider)
}

// FailureMarker is the literal placed in the merge prompt for a failed provider.
func FailureMarker(provider string) string {
	return fmt.Sprintf("Error generating %s response", provider)
}
