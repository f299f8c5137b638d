package domain

import (
	"context"
	"sync"
)

type requestUsageKey struct{}

// RequestUsage collects provider token usage for a single HTTP request.
// The handler puts a pointer into the context before calling the service;
// provider adapters add to it; the handler reads it for response headers.
// Primary and secondary chat calls run concurrently, hence the mutex.
type RequestUsage struct {
	mu              sync.Mutex
	embeddingTokens int
	chatTokens      int
	embeddingUsed   bool // true if embedding was called, even on a cache hit with 0 tokens
}

// NewContextWithUsage returns a context with an attached usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *RequestUsage) {
	u := &RequestUsage{}
	return context.WithValue(ctx, requestUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *RequestUsage {
	u, _ := ctx.Value(requestUsageKey{}).(*RequestUsage)
	return u
}

// AddEmbeddingTokens records consumed embedding tokens.
func (u *RequestUsage) AddEmbeddingTokens(n int) {
	if u == nil {
		return
	}
	u.mu.Lock()
	u.embeddingTokens += n
	u.embeddingUsed = true
	u.mu.Unlock()
}

// AddChatTokens records consumed chat-completion tokens.
func (u *RequestUsage) AddChatTokens(n int) {
	if u == nil {
		return
	}
	u.mu.Lock()
	u.chatTokens += n
	u.mu.Unlock()
}

// EmbeddingTokens returns the embedding token total and whether embedding ran at all.
func (u *RequestUsage) EmbeddingTokens() (int, bool) {
	if u == nil {
		return 0, false
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.embeddingTokens, u.embeddingUsed
}

// ChatTokens returns the chat-completion token total.
func (u *RequestUsage) ChatTokens() int {
	if u == nil {
		return 0
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.chatTokens
}
