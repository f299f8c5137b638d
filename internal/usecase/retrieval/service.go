package retrieval

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumechat/internal/domain/search/result"
	"github.com/kailas-cloud/resumechat/internal/logger"
	"github.com/kailas-cloud/resumechat/internal/metrics"
)

// Search paths, recorded in metrics.RetrievalPathTotal.
const (
	PathVector          = "vector"
	PathHybrid          = "hybrid"
	PathKeyword         = "keyword"
	PathKeywordFallback = "keyword_fallback"
	PathEmpty           = "empty"
)

// Config holds hybrid search tuning.
type Config struct {
	VectorThreshold float64 // top similarity above this skips the keyword scan
	CandidateLimit  int
}

// Service is the hybrid retrieval component: vector search first, keyword
// substring scan when the best vector match is weak or vector search fails.
type Service struct {
	vectors VectorSearcher
	chunks  ChunkScanner
	embed   Embedder
	cfg     Config
	logger  *zap.Logger
}

// New creates a retrieval service.
func New(vectors VectorSearcher, chunks ChunkScanner, embed Embedder, cfg Config, l *zap.Logger) *Service {
	if cfg.CandidateLimit <= 0 {
		cfg.CandidateLimit = 50
	}
	if cfg.VectorThreshold <= 0 {
		cfg.VectorThreshold = 0.7
	}
	return &Service{vectors: vectors, chunks: chunks, embed: embed, cfg: cfg, logger: l}
}

// Search returns relevance-ranked, deduplicated chunks for query. An empty
// result means no grounding is available; the only error returned is a
// cancelled or expired context.
func (s *Service) Search(ctx context.Context, query string) ([]result.Result, error) {
	log := logger.FromContextOr(ctx, s.logger)

	vec, vecErr := s.vectorSearch(ctx, query)
	if vecErr == nil && len(vec) > 0 && vec[0].Score() > s.cfg.VectorThreshold {
		return s.done(PathVector, vec), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kw, kwErr := s.keywordSearch(ctx, query)
	switch {
	case vecErr != nil && kwErr != nil:
		log.Warn("Retrieval failed on both paths",
			zap.NamedError("vector_error", vecErr), zap.NamedError("keyword_error", kwErr))
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return s.done(PathEmpty, nil), nil
	case vecErr != nil:
		log.Warn("Vector search failed, using keyword results only", zap.Error(vecErr))
		return s.done(PathKeywordFallback, kw), nil
	case kwErr != nil:
		log.Warn("Keyword scan failed, using vector results only", zap.Error(kwErr))
		return s.done(PathVector, vec), nil
	case len(vec) == 0:
		return s.done(PathKeyword, kw), nil
	default:
		return s.done(PathHybrid, merge(vec, kw)), nil
	}
}

func (s *Service) done(path string, rs []result.Result) []result.Result {
	if len(rs) == 0 {
		path = PathEmpty
	}
	metrics.RetrievalPathTotal.WithLabelValues(path).Inc()
	metrics.RetrievalResults.Observe(float64(len(rs)))
	return rs
}

func (s *Service) vectorSearch(ctx context.Context, query string) ([]result.Result, error) {
	emb, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}
	rs, err := s.vectors.SearchKNN(ctx, emb.Embedding, s.cfg.CandidateLimit)
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}
	return rs, nil
}

// keywordSearch keeps chunks containing query as a case-insensitive
// substring. Scores depend on scan position and match count, so a chunk's
// score shifts when unrelated chunks are added or removed.
func (s *Service) keywordSearch(ctx context.Context, query string) ([]result.Result, error) {
	chunks, err := s.chunks.ScanAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan chunks: %w", err)
	}

	needle := strings.ToLower(query)
	var matched []int
	for i := range chunks {
		if strings.Contains(strings.ToLower(chunks[i].Content()), needle) {
			matched = append(matched, i)
		}
	}

	out := make([]result.Result, len(matched))
	for rank, idx := range matched {
		c := &chunks[idx]
		out[rank] = result.New(c.ID(), c.Content(), 1-float64(rank)/float64(len(matched)))
	}
	return out, nil
}

// merge keeps every vector hit, appends keyword hits with unseen ids and
// sorts descending by score (stable, so vector hits win ties).
func merge(vec, kw []result.Result) []result.Result {
	seen := make(map[string]struct{}, len(vec))
	out := make([]result.Result, 0, len(vec)+len(kw))
	for i := range vec {
		seen[vec[i].ID()] = struct{}{}
		out = append(out, vec[i])
	}
	for i := range kw {
		if _, dup := seen[kw[i].ID()]; !dup {
			out = append(out, kw[i])
		}
	}
	slices.SortStableFunc(out, func(a, b result.Result) int {
		switch {
		case a.Score() > b.Score():
			return -1
		case a.Score() < b.Score():
			return 1
		default:
			return 0
		}
	})
	return out
}
