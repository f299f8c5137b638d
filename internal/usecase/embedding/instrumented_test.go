package embedding

import (
	"context"
	"errors"
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumechat/internal/domain"
	"github.com/kailas-cloud/resumechat/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterEmbeddingMetrics()
	os.Exit(m.Run())
}

var errProvider = errors.New("provider down")

// sentenceEmbedder returns one fixed vector per text and tokensPer tokens per text.
type sentenceEmbedder struct {
	tokensPer  int
	err        error
	batchSizes []int
}

func (s *sentenceEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if s.err != nil {
		return domain.EmbeddingResult{}, s.err
	}
	return domain.EmbeddingResult{Embedding: []float32{1, 0}, PromptTokens: s.tokensPer, TotalTokens: s.tokensPer}, nil
}

func (s *sentenceEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	s.batchSizes = append(s.batchSizes, len(texts))
	if s.err != nil {
		return domain.BatchEmbeddingResult{}, s.err
	}
	out := domain.BatchEmbeddingResult{Embeddings: make([][]float32, len(texts))}
	for i := range texts {
		out.Embeddings[i] = []float32{1, 0}
	}
	out.PromptTokens = s.tokensPer * len(texts)
	out.TotalTokens = out.PromptTokens
	return out, nil
}

// singleEmbedder has no batch endpoint.
type singleEmbedder struct{ calls int }

func (s *singleEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	s.calls++
	return domain.EmbeddingResult{Embedding: []float32{0, 1}, TotalTokens: 3}, nil
}

func TestInstrumentedEmbedder_Embed(t *testing.T) {
	tests := []struct {
		name       string
		inner      *sentenceEmbedder
		exhausted  bool
		action     BudgetAction
		wantErr    error
		wantTokens int64
	}{
		{name: "records tokens", inner: &sentenceEmbedder{tokensPer: 40}, action: BudgetActionReject, wantTokens: 40},
		{name: "provider error", inner: &sentenceEmbedder{err: errProvider}, action: BudgetActionReject, wantErr: errProvider},
		{name: "reject when exhausted", inner: &sentenceEmbedder{tokensPer: 40}, exhausted: true, action: BudgetActionReject, wantErr: domain.ErrQuotaExceeded},
		{name: "warn when exhausted", inner: &sentenceEmbedder{tokensPer: 40}, exhausted: true, action: BudgetActionWarn, wantTokens: 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			budget := NewBudgetTracker("openai", 1000, 0, tt.action, zap.NewNop())
			if tt.exhausted {
				budget.Record(1000)
			}
			before := budget.DailyUsed()

			p := NewInstrumentedEmbedder(tt.inner, "openai", "text-embedding-ada-002", budget, zap.NewNop())
			res, err := p.Embed(context.Background(), "Led the SAP S/4HANA migration.")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if budget.DailyUsed() != before {
					t.Error("expected no tokens recorded on failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(res.Embedding) != 2 {
				t.Errorf("expected 2 dimensions, got %d", len(res.Embedding))
			}
			if got := budget.DailyUsed() - before; got != tt.wantTokens {
				t.Errorf("recorded %d tokens, want %d", got, tt.wantTokens)
			}
		})
	}
}

func TestInstrumentedEmbedder_NilBudget(t *testing.T) {
	p := NewInstrumentedEmbedder(&sentenceEmbedder{tokensPer: 5}, "openai", "m", nil, zap.NewNop())

	if _, err := p.Embed(context.Background(), "skills"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := p.BatchEmbed(context.Background(), nil)
	if err != nil || res.Embeddings != nil {
		t.Fatalf("expected empty result for no texts, got %+v, %v", res, err)
	}
}

func TestInstrumentedEmbedder_BatchEmbed_ResumeSentences(t *testing.T) {
	inner := &sentenceEmbedder{tokensPer: 12}
	budget := NewBudgetTracker("openai", 0, 100000, BudgetActionReject, zap.NewNop())
	p := NewInstrumentedEmbedder(inner, "openai", "m", budget, zap.NewNop())

	sentences := []string{
		"Product manager at SAP since 2021.",
		"Owned the analytics roadmap.",
		"Previously a data engineer.",
	}
	res, err := p.BatchEmbed(context.Background(), sentences)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embeddings) != len(sentences) || res.TotalTokens != 36 {
		t.Errorf("unexpected aggregate: %d embeddings, %d tokens", len(res.Embeddings), res.TotalTokens)
	}
	if len(inner.batchSizes) != 1 {
		t.Errorf("expected one provider call, got %v", inner.batchSizes)
	}
	if budget.MonthlyUsed() != 36 {
		t.Errorf("expected 36 monthly tokens, got %d", budget.MonthlyUsed())
	}
}

func TestInstrumentedEmbedder_BatchEmbed_SplitsLargeInput(t *testing.T) {
	inner := &sentenceEmbedder{tokensPer: 1}
	p := NewInstrumentedEmbedder(inner, "openai", "m", nil, zap.NewNop())

	texts := make([]string, MaxAPIBatchSize+10)
	res, err := p.BatchEmbed(context.Background(), texts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inner.batchSizes) != 2 || inner.batchSizes[0] != MaxAPIBatchSize || inner.batchSizes[1] != 10 {
		t.Errorf("unexpected request sizes: %v", inner.batchSizes)
	}
	if len(res.Embeddings) != len(texts) || res.TotalTokens != len(texts) {
		t.Errorf("unexpected aggregate: %d embeddings, %d tokens", len(res.Embeddings), res.TotalTokens)
	}
}

func TestInstrumentedEmbedder_BatchEmbed_BudgetRunsOutMidway(t *testing.T) {
	inner := &sentenceEmbedder{tokensPer: 1}
	budget := NewBudgetTracker("openai", MaxAPIBatchSize, 0, BudgetActionReject, zap.NewNop())
	p := NewInstrumentedEmbedder(inner, "openai", "m", budget, zap.NewNop())

	_, err := p.BatchEmbed(context.Background(), make([]string, MaxAPIBatchSize+1))
	if !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	if len(inner.batchSizes) != 1 {
		t.Errorf("expected the second request to be refused, got %v", inner.batchSizes)
	}
}

func TestInstrumentedEmbedder_BatchEmbed_ProviderError(t *testing.T) {
	p := NewInstrumentedEmbedder(&sentenceEmbedder{err: errProvider}, "openai", "m", nil, zap.NewNop())

	if _, err := p.BatchEmbed(context.Background(), []string{"a"}); !errors.Is(err, errProvider) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestInstrumentedEmbedder_BatchEmbed_FallsBackToSingleCalls(t *testing.T) {
	inner := &singleEmbedder{}
	p := NewInstrumentedEmbedder(inner, "cohere", "m", nil, zap.NewNop())

	res, err := p.BatchEmbed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 2 || len(res.Embeddings) != 2 || res.TotalTokens != 6 {
		t.Errorf("unexpected fallback: calls=%d embeddings=%d tokens=%d", inner.calls, len(res.Embeddings), res.TotalTokens)
	}
}

func TestInstrumentedEmbedder_SharedTrackerAcrossCallers(t *testing.T) {
	budget := NewBudgetTracker("openai", 100, 0, BudgetActionReject, zap.NewNop())
	query := NewInstrumentedEmbedder(&sentenceEmbedder{tokensPer: 60}, "openai", "m", budget, zap.NewNop())

	if _, err := query.Embed(context.Background(), "q1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Chat completions for the same provider draw on the same tracker.
	budget.Record(60)

	if _, err := query.Embed(context.Background(), "q2"); !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded after shared usage, got %v", err)
	}
}
