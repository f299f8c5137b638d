package embcache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/resumechat/internal/domain"
)

func vec3() domain.EmbeddingResult {
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3}, PromptTokens: 10, TotalTokens: 10}
}

func TestEmbed_MissThenHit(t *testing.T) {
	inner := &mockEmbedder{result: vec3()}
	ce, _ := newTestCachedEmbedder(t, inner, 0)
	ctx := context.Background()

	first, err := ce.Embed(ctx, "What did Eda build at SAP?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.TotalTokens != 10 {
		t.Errorf("miss should report inner tokens, got %d", first.TotalTokens)
	}

	second, err := ce.Embed(ctx, "What did Eda build at SAP?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner called %d times, want 1", inner.calls)
	}
	if second.TotalTokens != 0 {
		t.Errorf("hit must report zero tokens, got %d", second.TotalTokens)
	}
	if len(second.Embedding) != 3 || second.Embedding[2] != 0.3 {
		t.Errorf("unexpected cached vector: %v", second.Embedding)
	}
}

func TestEmbed_KeyIsModelScoped(t *testing.T) {
	inner := &mockEmbedder{result: vec3()}
	ce, ms := newTestCachedEmbedder(t, inner, 0)

	if _, err := ce.Embed(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for k := range ms.data {
		if !strings.HasPrefix(k, "resumechat:emb_cache:text-embedding-ada-002:") {
			t.Errorf("unexpected cache key: %s", k)
		}
	}
}

func TestEmbed_TTLApplied(t *testing.T) {
	inner := &mockEmbedder{result: vec3()}
	ce, ms := newTestCachedEmbedder(t, inner, time.Hour)

	if _, err := ce.Embed(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for k, ttl := range ms.ttls {
		if ttl != time.Hour {
			t.Errorf("key %s ttl = %v, want 1h", k, ttl)
		}
	}
	if len(ms.ttls) != 1 {
		t.Errorf("expected one TTL write, got %d", len(ms.ttls))
	}
}

func TestEmbed_InnerError(t *testing.T) {
	inner := &mockEmbedder{err: domain.ErrEmbeddingProviderError}
	ce, ms := newTestCachedEmbedder(t, inner, 0)

	if _, err := ce.Embed(context.Background(), "x"); !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if len(ms.data) != 0 {
		t.Error("failed embeddings must not be cached")
	}
}

func TestBatchEmbed_OnlyMissesGoUpstream(t *testing.T) {
	inner := &mockEmbedder{result: vec3()}
	ce, _ := newTestCachedEmbedder(t, inner, 0)
	ctx := context.Background()

	if _, err := ce.Embed(ctx, "cached"); err != nil {
		t.Fatalf("warm-up: %v", err)
	}

	res, err := ce.BatchEmbed(ctx, []string{"new-1", "cached", "new-2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embeddings) != 3 {
		t.Fatalf("expected 3 embeddings, got %d", len(res.Embeddings))
	}
	for i, e := range res.Embeddings {
		if len(e) != 3 {
			t.Errorf("embedding %d missing", i)
		}
	}
	if len(inner.batchSeen) != 2 || inner.batchSeen[0] != "new-1" || inner.batchSeen[1] != "new-2" {
		t.Errorf("upstream saw %v, want only misses", inner.batchSeen)
	}
	if res.TotalTokens != 20 {
		t.Errorf("TotalTokens = %d, want 20", res.TotalTokens)
	}
}

func TestBatchEmbed_AllHitsSkipUpstream(t *testing.T) {
	inner := &mockEmbedder{result: vec3()}
	ce, _ := newTestCachedEmbedder(t, inner, 0)
	ctx := context.Background()

	if _, err := ce.BatchEmbed(ctx, []string{"a", "b"}); err != nil {
		t.Fatalf("warm-up: %v", err)
	}
	res, err := ce.BatchEmbed(ctx, []string{"b", "a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.batchCalls != 1 {
		t.Errorf("batchCalls = %d, want 1", inner.batchCalls)
	}
	if res.TotalTokens != 0 {
		t.Errorf("all hits must report zero tokens, got %d", res.TotalTokens)
	}
}

func TestBatchEmbed_InnerError(t *testing.T) {
	inner := &mockEmbedder{result: vec3(), batchErr: errors.New("upstream down")}
	ce, _ := newTestCachedEmbedder(t, inner, 0)

	if _, err := ce.BatchEmbed(context.Background(), []string{"a"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestBatchEmbed_Empty(t *testing.T) {
	inner := &mockEmbedder{}
	ce, _ := newTestCachedEmbedder(t, inner, 0)

	res, err := ce.BatchEmbed(context.Background(), nil)
	if err != nil || len(res.Embeddings) != 0 {
		t.Fatalf("BatchEmbed(nil) = %+v, %v", res, err)
	}
	if inner.batchCalls != 0 {
		t.Error("empty input must not call upstream")
	}
}
