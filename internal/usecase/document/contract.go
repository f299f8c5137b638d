package document

import (
	"context"

	"github.com/kailas-cloud/resumechat/internal/domain"
	domdoc "github.com/kailas-cloud/resumechat/internal/domain/document"
)

// Repository defines the storage contract for resume chunks.
type Repository interface {
	EnsureIndex(ctx context.Context) (bool, error)
	Insert(ctx context.Context, c *domdoc.Chunk) error
	Get(ctx context.Context, id string) (domdoc.Chunk, error)
	ScanAll(ctx context.Context) ([]domdoc.Chunk, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int, error)
	Count(ctx context.Context) (int, error)
}

// Embedder vectorizes one or many texts.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
	BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}
