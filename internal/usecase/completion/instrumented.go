// Package completion decorates chat-completion providers with the shared
// per-provider token budget.
package completion

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumechat/internal/domain/chat"
)

// BudgetChecker is the local interface for budget enforcement.
type BudgetChecker interface {
	Check(ctx context.Context) error
	Record(tokens int64)
}

// InstrumentedCompleter wraps a Completer with budget enforcement.
type InstrumentedCompleter struct {
	inner    chat.Completer
	provider string
	budget   BudgetChecker
	logger   *zap.Logger
}

// NewInstrumentedCompleter wraps inner. budget may be nil (unlimited).
func NewInstrumentedCompleter(
	inner chat.Completer, provider string, budget BudgetChecker, logger *zap.Logger,
) *InstrumentedCompleter {
	return &InstrumentedCompleter{inner: inner, provider: provider, budget: budget, logger: logger}
}

// Complete checks the budget, delegates, then records prompt+completion tokens.
func (c *InstrumentedCompleter) Complete(
	ctx context.Context, p chat.Params, msgs []chat.Message,
) (chat.Completion, error) {
	if c.budget != nil {
		if err := c.budget.Check(ctx); err != nil {
			c.logger.Warn("Chat budget exceeded",
				zap.String("provider", c.provider),
				zap.String("call", p.Call),
				zap.Error(err),
			)
			return chat.Completion{}, fmt.Errorf("budget check: %w", err)
		}
	}

	res, err := c.inner.Complete(ctx, p, msgs)
	if err != nil {
		return chat.Completion{}, err
	}
	if c.budget != nil {
		c.budget.Record(int64(res.PromptTokens + res.CompletionTokens))
	}
	return res, nil
}
