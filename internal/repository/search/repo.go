package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/resumechat/internal/db"
	"github.com/kailas-cloud/resumechat/internal/domain/search/result"
	"github.com/kailas-cloud/resumechat/internal/repository/document"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements the vector side of retrieval.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// SearchKNN returns up to k chunks nearest to vector, best first.
// Scores are cosine similarities in [0,1].
func (r *Repo) SearchKNN(ctx context.Context, vector []float32, k int) ([]result.Result, error) {
	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    document.IndexName,
		Vector:       vector,
		K:            k,
		ReturnFields: []string{"content"},
	})
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}
	return parseKNNResults(sr), nil
}

func parseKNNResults(sr *db.SearchResult) []result.Result {
	if sr == nil || len(sr.Entries) == 0 {
		return nil
	}

	results := make([]result.Result, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		results = append(results, result.New(
			document.IDFromKey(entry.Key),
			entry.Fields["content"],
			entry.Score,
		))
	}
	return results
}
