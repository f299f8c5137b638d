package document

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Chunking parameters.
const (
	SimilarityThreshold = 0.7
	MinChunkSize        = 200
	MaxChunkSize        = 2000
	FallbackChunkSize   = 1000
	comparisonWindow    = 3
)

var sentenceEnd = regexp.MustCompile(`[.!?]+`)

// Chunker splits text into semantically coherent chunks.
type Chunker struct {
	embed Embedder
}

// NewChunker creates a chunker that measures sentence similarity with embed.
func NewChunker(embed Embedder) *Chunker {
	return &Chunker{embed: embed}
}

// Split groups sentences while each new sentence stays similar to the tail
// of the current chunk. Any embedding failure switches to paragraph chunking;
// the bool reports whether that happened.
func (c *Chunker) Split(ctx context.Context, text string) ([]string, bool) {
	chunks, err := c.semantic(ctx, text)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false
		}
		return ParagraphChunks(text, FallbackChunkSize), true
	}
	return chunks, false
}

func (c *Chunker) semantic(ctx context.Context, text string) ([]string, error) {
	sentences := Sentences(text)
	if len(sentences) == 0 {
		return nil, nil
	}

	res, err := c.embed.BatchEmbed(ctx, sentences)
	if err != nil {
		return nil, err
	}
	vectors := res.Embeddings
	if len(vectors) != len(sentences) {
		return nil, fmt.Errorf("got %d sentence embeddings, want %d", len(vectors), len(sentences))
	}

	var chunks []string
	current := []int{0}
	for i := 1; i < len(sentences); i++ {
		window := current[max(0, len(current)-comparisonWindow):]
		sim, err := c.similarity(ctx, sentences, vectors, window, i)
		if err != nil {
			return nil, err
		}

		currentText := joinSentences(sentences, current)
		switch {
		case sim >= SimilarityThreshold && len(currentText) < MaxChunkSize:
			current = append(current, i)
		case len(currentText) >= MinChunkSize:
			chunks = append(chunks, currentText)
			current = []int{i}
		default:
			current = append(current, i)
		}
	}
	return append(chunks, joinSentences(sentences, current)), nil
}

// similarity compares sentence i with the joined window. A one-sentence
// window reuses the precomputed vector.
func (c *Chunker) similarity(
	ctx context.Context, sentences []string, vectors [][]float32, window []int, i int,
) (float64, error) {
	if len(window) == 1 {
		return Cosine(vectors[window[0]], vectors[i]), nil
	}
	res, err := c.embed.Embed(ctx, joinSentences(sentences, window))
	if err != nil {
		return 0, err
	}
	return Cosine(res.Embedding, vectors[i]), nil
}

// Sentences splits on runs of . ! ? and drops blank pieces.
func Sentences(text string) []string {
	var out []string
	for _, s := range sentenceEnd.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func joinSentences(sentences []string, idx []int) string {
	parts := make([]string, len(idx))
	for i, j := range idx {
		parts[i] = sentences[j]
	}
	return strings.Join(parts, " ")
}

// ParagraphChunks packs non-blank lines into chunks of about size characters.
func ParagraphChunks(text string, size int) []string {
	var chunks, current []string
	n := 0
	for _, p := range strings.Split(text, "\n") {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if n+len(p) > size && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n"))
			current, n = nil, 0
		}
		current = append(current, p)
		n += len(p)
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, "\n"))
	}
	return chunks
}

// Cosine returns the cosine similarity of a and b, 0 for a zero vector.
func Cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range min(len(a), len(b)) {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
