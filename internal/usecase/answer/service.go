// Package answer composes a grounded reply from two chat providers and a merge pass.
package answer

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/resumechat/internal/domain/chat"
	"github.com/kailas-cloud/resumechat/internal/domain/search/result"
	"github.com/kailas-cloud/resumechat/internal/logger"
	"github.com/kailas-cloud/resumechat/internal/metrics"
)

// Retriever finds grounding chunks for a query.
type Retriever interface {
	Search(ctx context.Context, query string) ([]result.Result, error)
}

// Call binds a completer to its sampling settings and the display name used
// in the merge prompt's failure marker.
type Call struct {
	Name      string
	Completer chat.Completer
	Params    chat.Params
}

// Config holds composition settings.
type Config struct {
	Subject      string
	HistoryLimit int
	CallTimeout  time.Duration
}

// Service is the answer composer.
type Service struct {
	retriever Retriever
	primary   Call
	secondary Call
	merge     Call
	cfg       Config
	logger    *zap.Logger
}

// New creates an answer composer.
func New(r Retriever, primary, secondary, merge Call, cfg Config, l *zap.Logger) *Service {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 6
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 30 * time.Second
	}
	primary.Params.Call, secondary.Params.Call, merge.Params.Call = "primary", "secondary", "merge"
	return &Service{retriever: r, primary: primary, secondary: secondary, merge: merge, cfg: cfg, logger: l}
}

// Answer returns the reply to content. It never fails: every failure path
// degrades to a fixed apology or to the best available draft.
func (s *Service) Answer(ctx context.Context, content string, history []chat.Turn) string {
	log := logger.FromContextOr(ctx, s.logger)

	docs, err := s.retriever.Search(ctx, content)
	if err != nil {
		log.Error("Retrieval failed", zap.Error(err))
		metrics.AnswerOutcomeTotal.WithLabelValues("search_error").Inc()
		return ReplySearchError
	}
	if len(docs) == 0 {
		metrics.AnswerOutcomeTotal.WithLabelValues("no_context").Inc()
		return ReplyNoContext
	}

	grounding := strings.Join(result.Texts(docs), "\n\n")
	history = TrimHistory(history, s.cfg.HistoryLimit)

	first, second := s.drafts(ctx, grounding, content, history)
	for _, d := range []chat.Draft{first, second} {
		if !d.OK() {
			log.Warn("Draft failed", zap.String("provider", d.Provider), zap.Error(d.Err))
		}
	}

	switch {
	case !first.OK() && !second.OK():
		metrics.AnswerOutcomeTotal.WithLabelValues("all_failed").Inc()
		return ReplyAllFailed
	case !first.OK():
		metrics.AnswerOutcomeTotal.WithLabelValues("secondary_only").Inc()
	case !second.OK():
		metrics.AnswerOutcomeTotal.WithLabelValues("primary_only").Inc()
	}

	merged, err := s.complete(ctx, s.merge, mergeMessages(s.cfg.Subject, first, second))
	if err != nil {
		log.Warn("Merge failed, returning best draft", zap.Error(err))
		metrics.AnswerOutcomeTotal.WithLabelValues("merge_failed").Inc()
		if first.OK() {
			return first.Text
		}
		return second.Text
	}
	if first.OK() && second.OK() {
		metrics.AnswerOutcomeTotal.WithLabelValues("merged").Inc()
	}
	return merged
}

// drafts runs the primary and secondary calls concurrently. Neither failure
// cancels the other; each outcome is captured in its Draft.
func (s *Service) drafts(ctx context.Context, grounding, question string, history []chat.Turn) (chat.Draft, chat.Draft) {
	first := chat.Draft{Provider: s.primary.Name}
	second := chat.Draft{Provider: s.secondary.Name}

	var g errgroup.Group
	g.Go(func() error {
		first.Text, first.Err = s.complete(ctx, s.primary,
			primaryMessages(s.cfg.Subject, grounding, question, history))
		return nil
	})
	g.Go(func() error {
		second.Text, second.Err = s.complete(ctx, s.secondary,
			secondaryMessages(s.cfg.Subject, grounding, question))
		return nil
	})
	_ = g.Wait()

	return first, second
}

func (s *Service) complete(ctx context.Context, c Call, msgs []chat.Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()

	res, err := c.Completer.Complete(ctx, c.Params, msgs)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// TrimHistory keeps the last limit user/assistant turns, dropping other roles.
func TrimHistory(history []chat.Turn, limit int) []chat.Turn {
	kept := make([]chat.Turn, 0, len(history))
	for _, t := range history {
		if t.Role == chat.RoleUser || t.Role == chat.RoleAssistant {
			kept = append(kept, t)
		}
	}
	if len(kept) > limit {
		kept = kept[len(kept)-limit:]
	}
	return kept
}
