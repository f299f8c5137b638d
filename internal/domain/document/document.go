package document

import (
	"fmt"
	"time"
)

// MaxContentSize is the maximum chunk content size in bytes.
const MaxContentSize = 163840 // 160KB

// MaxNameLength bounds the human-readable source name.
const MaxNameLength = 256

// Chunk is a stored unit of resume text with its embedding (immutable value object).
// Chunks are never updated in place: delete and re-upload is the only mutation.
type Chunk struct {
	id        string
	name      string
	content   string
	vector    []float32
	createdAt int64 // unix millis, fixes the keyword scan order
}

// New validates and creates a Chunk without a vector.
// The id is assigned by the caller (the service generates a fresh one per upload).
func New(id, name, content string) (Chunk, error) {
	if id == "" {
		return Chunk{}, fmt.Errorf("chunk ID is required")
	}
	if name == "" {
		return Chunk{}, fmt.Errorf("name is required")
	}
	if len(name) > MaxNameLength {
		return Chunk{}, fmt.Errorf("name too long (max %d)", MaxNameLength)
	}
	if content == "" {
		return Chunk{}, fmt.Errorf("content is required")
	}
	if len(content) > MaxContentSize {
		return Chunk{}, fmt.Errorf("content too large (max %d bytes)", MaxContentSize)
	}

	return Chunk{
		id:        id,
		name:      name,
		content:   content,
		createdAt: time.Now().UnixMilli(),
	}, nil
}

// Reconstruct creates a Chunk without validation (storage hydration).
func Reconstruct(id, name, content string, vector []float32, createdAt int64) Chunk {
	return Chunk{id: id, name: name, content: content, vector: vector, createdAt: createdAt}
}

// ID returns the chunk identifier.
func (c *Chunk) ID() string { return c.id }

// Name returns the source document name.
func (c *Chunk) Name() string { return c.name }

// Content returns the chunk text.
func (c *Chunk) Content() string { return c.content }

// Vector returns the embedding vector.
func (c *Chunk) Vector() []float32 { return c.vector }

// CreatedAt returns the insertion timestamp (unix millis).
func (c *Chunk) CreatedAt() int64 { return c.createdAt }

// WithVector returns a copy with the given vector set.
func (c *Chunk) WithVector(v []float32) Chunk {
	return Chunk{id: c.id, name: c.name, content: c.content, vector: v, createdAt: c.createdAt}
}
