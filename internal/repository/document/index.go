package document

import (
	"github.com/kailas-cloud/resumechat/internal/db"
)

// HNSWConfig holds vector index build parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// buildIndex describes the chunk index: HNSW/COSINE over __vector plus
// a sortable created_at used for insertion-order scans.
func buildIndex(dim int, hnsw HNSWConfig) (*db.IndexDefinition, error) {
	return db.NewIndex(IndexName).
		Prefix(KeyPrefix).
		Tag(fieldName).
		Numeric(fieldCreatedAt, true).
		VectorHNSW(fieldVector, dim, db.DistanceCosine, hnsw.M, hnsw.EFConstruct).
		Build()
}
