// Package followup suggests next questions that the resume corpus can answer.
package followup

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumechat/internal/domain"
	"github.com/kailas-cloud/resumechat/internal/domain/chat"
	"github.com/kailas-cloud/resumechat/internal/domain/search/result"
	"github.com/kailas-cloud/resumechat/internal/logger"
	"github.com/kailas-cloud/resumechat/internal/metrics"
)

// ValidationQuery is the broad query used to ground follow-up questions.
const ValidationQuery = "resume experience work project achievement skills education"

// Retriever finds grounding chunks for a query.
type Retriever interface {
	Search(ctx context.Context, query string) ([]result.Result, error)
}

// Config holds generation settings.
type Config struct {
	Subject         string
	MaxQuestions    int
	EmployerKeyword string
	RoleWords       []string
	CallTimeout     time.Duration
}

// Service generates follow-up questions.
type Service struct {
	retriever Retriever
	completer chat.Completer
	params    chat.Params
	catalog   Catalog
	cfg       Config
	logger    *zap.Logger
}

// New creates a follow-up generator.
func New(r Retriever, c chat.Completer, p chat.Params, catalog Catalog, cfg Config, l *zap.Logger) *Service {
	if cfg.MaxQuestions <= 0 {
		cfg.MaxQuestions = 4
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 30 * time.Second
	}
	p.Call = "followup"
	return &Service{retriever: r, completer: c, params: p, catalog: catalog, cfg: cfg, logger: l}
}

// Suggested returns the predefined question/answer pairs.
func (s *Service) Suggested() []Suggestion { return s.catalog.Suggested }

// Generate returns questions answerable from the corpus. It never fails:
// any problem yields the fallback list.
func (s *Service) Generate(ctx context.Context, answer string, history []chat.Turn) []string {
	log := logger.FromContextOr(ctx, s.logger)

	if s.isShortcut(answer) && len(s.catalog.Shortcut) > 0 {
		metrics.FollowUpOutcomeTotal.WithLabelValues("shortcut").Inc()
		return s.catalog.Shortcut
	}

	docs, err := s.retriever.Search(ctx, ValidationQuery)
	if err != nil || len(docs) == 0 {
		log.Warn("No grounding context for follow-ups", zap.Error(err))
		return s.fallback()
	}
	grounding := strings.Join(result.Texts(docs), "\n\n")

	candidates, err := s.candidates(ctx, grounding, answer, history)
	if err != nil {
		log.Warn("Follow-up generation failed", zap.Error(err))
		return s.fallback()
	}

	lower := strings.ToLower(grounding)
	valid := make([]string, 0, len(candidates))
	for _, q := range candidates {
		if !grounded(q, lower) {
			log.Debug("Follow-up rejected", zap.String("question", q), zap.Error(domain.ErrValidationFailure))
			continue
		}
		valid = append(valid, q)
		if len(valid) == s.cfg.MaxQuestions {
			break
		}
	}
	if len(valid) == 0 {
		return s.fallback()
	}

	metrics.FollowUpOutcomeTotal.WithLabelValues("generated").Inc()
	return valid
}

func (s *Service) fallback() []string {
	metrics.FollowUpOutcomeTotal.WithLabelValues("fallback").Inc()
	return s.catalog.fallback(s.cfg.MaxQuestions)
}

// isShortcut reports whether answer names the employer together with a role word.
func (s *Service) isShortcut(answer string) bool {
	if s.cfg.EmployerKeyword == "" || !strings.Contains(answer, s.cfg.EmployerKeyword) {
		return false
	}
	lower := strings.ToLower(answer)
	for _, w := range s.cfg.RoleWords {
		if strings.Contains(lower, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

func (s *Service) candidates(ctx context.Context, grounding, answer string, history []chat.Turn) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()

	res, err := s.completer.Complete(ctx, s.params, s.messages(grounding, answer, history))
	if err != nil {
		return nil, err
	}
	return parseQuestions(res.Text)
}

func (s *Service) messages(grounding, answer string, history []chat.Turn) []chat.Message {
	var recent strings.Builder
	for _, t := range history[max(0, len(history)-4):] {
		fmt.Fprintf(&recent, "%s: %s\n", t.Role, t.Content)
	}

	system := fmt.Sprintf(`You suggest follow-up questions about %s's professional background.
Only suggest questions that can be answered from this resume content:

%s

Return at most %d short questions as a JSON array of strings and nothing else.`,
		s.cfg.Subject, grounding, s.cfg.MaxQuestions)

	user := fmt.Sprintf("Recent conversation:\n%s\nLatest answer:\n%s", recent.String(), answer)
	return []chat.Message{
		{Role: chat.RoleSystem, Content: system},
		{Role: chat.RoleUser, Content: user},
	}
}

// parseQuestions decodes the first JSON array in text.
func parseQuestions(text string) ([]string, error) {
	start := strings.Index(text, "[")
	if start < 0 {
		return nil, fmt.Errorf("no JSON array in reply: %w", domain.ErrProviderDegraded)
	}
	var qs []string
	if err := json.NewDecoder(strings.NewReader(text[start:])).Decode(&qs); err != nil {
		return nil, fmt.Errorf("decode questions: %v: %w", err, domain.ErrProviderDegraded)
	}
	out := qs[:0]
	for _, q := range qs {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	return out, nil
}
