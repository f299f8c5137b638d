package retrieval

import (
	"context"

	"github.com/kailas-cloud/resumechat/internal/domain"
	domdoc "github.com/kailas-cloud/resumechat/internal/domain/document"
	"github.com/kailas-cloud/resumechat/internal/domain/search/result"
)

// VectorSearcher runs nearest-neighbor lookups on the chunk index.
type VectorSearcher interface {
	SearchKNN(ctx context.Context, vector []float32, k int) ([]result.Result, error)
}

// ChunkScanner returns every stored chunk in insertion order.
type ChunkScanner interface {
	ScanAll(ctx context.Context) ([]domdoc.Chunk, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
