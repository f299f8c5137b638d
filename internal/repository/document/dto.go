package document

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/kailas-cloud/resumechat/internal/domain"
	domdoc "github.com/kailas-cloud/resumechat/internal/domain/document"
)

// Hash field names of a stored chunk.
const (
	fieldName      = "name"
	fieldContent   = "content"
	fieldCreatedAt = "created_at"
	fieldVector    = "__vector"
)

// KeyPrefix is the key prefix shared by all chunk hashes.
const KeyPrefix = domain.KeyPrefix + "doc:"

// IndexName is the FT index over chunk hashes.
const IndexName = domain.KeyPrefix + "doc:idx"

func docKey(id string) string { return KeyPrefix + id }

// IDFromKey strips the chunk key prefix.
func IDFromKey(key string) string { return strings.TrimPrefix(key, KeyPrefix) }

func toHash(c *domdoc.Chunk) map[string]string {
	return map[string]string{
		fieldName:      c.Name(),
		fieldContent:   c.Content(),
		fieldCreatedAt: strconv.FormatInt(c.CreatedAt(), 10),
		fieldVector:    encodeVector(c.Vector()),
	}
}

func fromHash(id string, m map[string]string) domdoc.Chunk {
	createdAt, _ := strconv.ParseInt(m[fieldCreatedAt], 10, 64)
	var vec []float32
	if raw, ok := m[fieldVector]; ok {
		vec = decodeVector(raw)
	}
	return domdoc.Reconstruct(id, m[fieldName], m[fieldContent], vec, createdAt)
}

// encodeVector packs float32 values little-endian, the HASH vector field layout.
func encodeVector(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

func decodeVector(s string) []float32 {
	b := []byte(s)
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}
