package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/resumechat/internal/domain"
	domdoc "github.com/kailas-cloud/resumechat/internal/domain/document"
	"github.com/kailas-cloud/resumechat/internal/logger"
)

// Service manages resume chunks with automatic vectorization.
type Service struct {
	repo    Repository
	embed   Embedder
	chunker *Chunker
	dim     int
	logger  *zap.Logger
}

// New creates a document service. dim is the expected embedding length.
func New(repo Repository, embed Embedder, dim int, l *zap.Logger) *Service {
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{repo: repo, embed: embed, chunker: NewChunker(embed), dim: dim, logger: l}
}

// EnsureIndex creates the vector index if it is missing.
func (s *Service) EnsureIndex(ctx context.Context) (bool, error) {
	created, err := s.repo.EnsureIndex(ctx)
	if err != nil {
		return false, fmt.Errorf("ensure index: %w", err)
	}
	return created, nil
}

// Upload embeds content and stores it as a new chunk.
func (s *Service) Upload(ctx context.Context, name, content string) (domdoc.Chunk, error) {
	c, err := newChunk(name, content)
	if err != nil {
		return domdoc.Chunk{}, err
	}

	res, err := s.embed.Embed(ctx, content)
	if err != nil {
		return domdoc.Chunk{}, fmt.Errorf("vectorize document: %w", err)
	}
	return s.insert(ctx, c.WithVector(res.Embedding))
}

// Store inserts a chunk with a precomputed embedding.
func (s *Service) Store(ctx context.Context, name, content string, vector []float32) (domdoc.Chunk, error) {
	c, err := newChunk(name, content)
	if err != nil {
		return domdoc.Chunk{}, err
	}
	return s.insert(ctx, c.WithVector(vector))
}

// Ingest splits text into semantic chunks, embeds them in one batch and
// stores each as a new chunk.
func (s *Service) Ingest(ctx context.Context, name, text string) ([]domdoc.Chunk, error) {
	log := logger.FromContextOr(ctx, s.logger)

	parts, fellBack := s.chunker.Split(ctx, text)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if fellBack {
		log.Warn("Semantic chunking failed, used paragraph chunks", zap.String("name", name))
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("no text to ingest: %w", domain.ErrInvalidInput)
	}

	chunks := make([]domdoc.Chunk, len(parts))
	for i, p := range parts {
		c, err := newChunk(name, p)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
		chunks[i] = c
	}

	res, err := s.embed.BatchEmbed(ctx, parts)
	if err != nil {
		return nil, fmt.Errorf("vectorize chunks: %w", err)
	}
	if len(res.Embeddings) != len(chunks) {
		return nil, fmt.Errorf("vectorize chunks: got %d embeddings for %d chunks: %w",
			len(res.Embeddings), len(chunks), domain.ErrEmbeddingProviderError)
	}

	out := make([]domdoc.Chunk, 0, len(chunks))
	for i := range chunks {
		stored, err := s.insert(ctx, chunks[i].WithVector(res.Embeddings[i]))
		if err != nil {
			return out, fmt.Errorf("chunk %d: %w", i, err)
		}
		out = append(out, stored)
	}

	log.Info("Document ingested",
		zap.String("name", name),
		zap.Int("chunks", len(out)),
		zap.Bool("paragraph_fallback", fellBack),
	)
	return out, nil
}

func (s *Service) insert(ctx context.Context, c domdoc.Chunk) (domdoc.Chunk, error) {
	if s.dim > 0 && len(c.Vector()) != s.dim {
		return domdoc.Chunk{}, fmt.Errorf(
			"vector dimension mismatch: got %d, want %d: %w",
			len(c.Vector()), s.dim, domain.ErrVectorDimMismatch,
		)
	}
	if err := s.repo.Insert(ctx, &c); err != nil {
		return domdoc.Chunk{}, fmt.Errorf("insert chunk: %w", err)
	}
	return c, nil
}

// Get returns a chunk by id.
func (s *Service) Get(ctx context.Context, id string) (domdoc.Chunk, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return domdoc.Chunk{}, fmt.Errorf("get document: %w", err)
	}
	return c, nil
}

// List returns every chunk in insertion order.
func (s *Service) List(ctx context.Context) ([]domdoc.Chunk, error) {
	chunks, err := s.repo.ScanAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return chunks, nil
}

// Delete removes a chunk.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// Clear removes every chunk and returns how many were deleted.
func (s *Service) Clear(ctx context.Context) (int, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return n, fmt.Errorf("clear documents: %w", err)
	}
	return n, nil
}

// Count returns the number of indexed chunks.
func (s *Service) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

func newChunk(name, content string) (domdoc.Chunk, error) {
	c, err := domdoc.New(uuid.NewString(), name, content)
	if err != nil {
		return domdoc.Chunk{}, errors.Join(domain.ErrInvalidInput, err)
	}
	return c, nil
}
