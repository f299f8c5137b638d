package document

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/kailas-cloud/resumechat/internal/db"
	"github.com/kailas-cloud/resumechat/internal/domain"
	domdoc "github.com/kailas-cloud/resumechat/internal/domain/document"
)

// store is the consumer interface for chunks (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	DelMany(ctx context.Context, keys []string) (int, error)
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Repo implements usecase/document.Repository and the keyword-scan side of retrieval.
type Repo struct {
	store store
	dim   int
	hnsw  HNSWConfig
}

// New creates a chunk repository for vectors of the given dimensionality.
func New(s store, dim int, hnsw HNSWConfig) *Repo {
	return &Repo{store: s, dim: dim, hnsw: hnsw}
}

// EnsureIndex creates the vector index if it does not exist yet.
// Returns true when the index was created by this call.
func (r *Repo) EnsureIndex(ctx context.Context) (bool, error) {
	exists, err := r.store.IndexExists(ctx, IndexName)
	if err != nil {
		return false, fmt.Errorf("check index: %w", err)
	}
	if exists {
		return false, nil
	}

	def, err := buildIndex(r.dim, r.hnsw)
	if err != nil {
		return false, fmt.Errorf("build index: %w", err)
	}
	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return false, nil
		}
		return false, fmt.Errorf("create index: %w", err)
	}
	return true, nil
}

// Insert stores a chunk. Chunks are never updated in place.
func (r *Repo) Insert(ctx context.Context, c *domdoc.Chunk) error {
	if len(c.Vector()) != r.dim {
		return fmt.Errorf("chunk %s has %d dims, index expects %d: %w",
			c.ID(), len(c.Vector()), r.dim, domain.ErrVectorDimMismatch)
	}

	key := docKey(c.ID())
	if err := r.store.HSet(ctx, key, toHash(c)); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// Get returns a chunk by id.
func (r *Repo) Get(ctx context.Context, id string) (domdoc.Chunk, error) {
	key := docKey(id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domdoc.Chunk{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(m) == 0 {
		return domdoc.Chunk{}, domain.ErrDocumentNotFound
	}
	return fromHash(id, m), nil
}

// ScanAll returns every chunk ordered by insertion time (oldest first).
func (r *Repo) ScanAll(ctx context.Context) ([]domdoc.Chunk, error) {
	keys, err := r.keys(ctx)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}

	chunks := make([]domdoc.Chunk, 0, len(hashes))
	for i, m := range hashes {
		if len(m) == 0 {
			continue // deleted between SCAN and HGETALL
		}
		chunks = append(chunks, fromHash(IDFromKey(keys[i]), m))
	}

	sort.SliceStable(chunks, func(i, j int) bool {
		if chunks[i].CreatedAt() != chunks[j].CreatedAt() {
			return chunks[i].CreatedAt() < chunks[j].CreatedAt()
		}
		return chunks[i].ID() < chunks[j].ID()
	})
	return chunks, nil
}

// Delete removes a chunk by id.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := docKey(id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrDocumentNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// DeleteAll removes every chunk and returns how many were deleted.
func (r *Repo) DeleteAll(ctx context.Context) (int, error) {
	keys, err := r.keys(ctx)
	if err != nil {
		return 0, err
	}
	n, err := r.store.DelMany(ctx, keys)
	if err != nil {
		return 0, fmt.Errorf("delete chunks: %w", err)
	}
	return n, nil
}

// Count returns the number of indexed chunks.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, IndexName, "*")
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return n, nil
}

func (r *Repo) keys(ctx context.Context) ([]string, error) {
	keys, err := r.store.Scan(ctx, KeyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan chunks: %w", err)
	}
	return keys, nil
}
