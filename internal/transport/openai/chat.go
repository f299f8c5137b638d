package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/resumechat/internal/domain"
	"github.com/kailas-cloud/resumechat/internal/domain/chat"
	"github.com/kailas-cloud/resumechat/internal/metrics"
)

// ChatCompleter implements chat.Completer over any OpenAI-compatible
// chat endpoint (OpenAI itself, Cohere's compatibility API).
type ChatCompleter struct {
	client   *openai.Client
	provider string
	user     string
	logger   *zap.Logger
}

// NewChatCompleter creates a chat-completion adapter. cfg.Model and
// cfg.Dimensions are ignored: the model comes with each call's Params.
func NewChatCompleter(cfg *Config) *ChatCompleter {
	return &ChatCompleter{
		client:   newClient(cfg.APIKey, cfg.BaseURL),
		provider: cfg.Provider,
		user:     cfg.User,
		logger:   cfg.Logger,
	}
}

// Provider returns the configured provider name.
func (c *ChatCompleter) Provider() string { return c.provider }

// Complete sends one chat-completion request. An empty reply is ErrProviderDegraded.
func (c *ChatCompleter) Complete(ctx context.Context, p chat.Params, msgs []chat.Message) (chat.Completion, error) {
	req := openai.ChatCompletionRequest{
		Model:            p.Model,
		Messages:         toOpenAIMessages(msgs),
		MaxTokens:        p.MaxTokens,
		Temperature:      p.Temperature,
		TopP:             p.TopP,
		PresencePenalty:  p.PresencePenalty,
		FrequencyPenalty: p.FrequencyPenalty,
		User:             c.user,
	}

	call := p.Call
	if call == "" {
		call = "default"
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)
	metrics.ChatRequestDuration.WithLabelValues(c.provider, call).Observe(duration.Seconds())

	if err != nil {
		metrics.ChatRequestsTotal.WithLabelValues(c.provider, call, "error").Inc()
		return chat.Completion{}, parseAPIError("chat", err, domain.ErrProviderUnavailable)
	}

	metrics.ChatTokensTotal.WithLabelValues(c.provider, p.Model, "prompt").Add(float64(resp.Usage.PromptTokens))
	metrics.ChatTokensTotal.WithLabelValues(c.provider, p.Model, "completion").Add(float64(resp.Usage.CompletionTokens))
	domain.UsageFromContext(ctx).AddChatTokens(resp.Usage.TotalTokens)

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		metrics.ChatRequestsTotal.WithLabelValues(c.provider, call, "empty").Inc()
		return chat.Completion{}, fmt.Errorf("%s returned no content: %w", c.provider, domain.ErrProviderDegraded)
	}

	metrics.ChatRequestsTotal.WithLabelValues(c.provider, call, "success").Inc()
	c.logger.Debug("Chat completion finished",
		zap.String("provider", c.provider),
		zap.String("call", call),
		zap.String("model", p.Model),
		zap.Duration("duration", duration),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)

	return chat.Completion{
		Text:             strings.TrimSpace(resp.Choices[0].Message.Content),
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels.
func (c *ChatCompleter) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func toOpenAIMessages(msgs []chat.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(msgs))
	for i, m := range msgs {
		out[i] = openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content}
	}
	return out
}
