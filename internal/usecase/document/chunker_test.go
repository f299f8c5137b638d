package document

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestSentences(t *testing.T) {
	got := Sentences("Hello there! How are you?? Fine...  ")
	want := []string{"Hello there", "How are you", "Fine"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCosine(t *testing.T) {
	if got := Cosine([]float32{1, 0}, []float32{1, 0}); math.Abs(got-1) > 1e-9 {
		t.Errorf("identical vectors: got %g", got)
	}
	if got := Cosine([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Errorf("orthogonal vectors: got %g", got)
	}
	if got := Cosine([]float32{0, 0}, []float32{1, 1}); got != 0 {
		t.Errorf("zero vector: got %g", got)
	}
}

func TestParagraphChunks(t *testing.T) {
	a := strings.Repeat("a", 600)
	b := strings.Repeat("b", 600)
	got := ParagraphChunks(a+"\n\n  \n"+b+"\nshort", 1000)
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(got))
	}
	if got[0] != a || got[1] != b+"\nshort" {
		t.Errorf("unexpected chunks: %q", got)
	}
}

// topicVec points SAP text and hiking text in orthogonal directions.
func topicVec(text string) []float32 {
	var v [2]float32
	if strings.Contains(text, "SAP") {
		v[0] = 1
	}
	if strings.Contains(strings.ToLower(text), "hiking") {
		v[1] = 1
	}
	return v[:]
}

func newTopicEmbedder() *mockEmbedder {
	return &mockEmbedder{vecFn: topicVec}
}

func TestChunker_SplitsOnTopicChange(t *testing.T) {
	sap := strings.Repeat("SAP work ", 25) // over MinChunkSize
	text := sap + ". More SAP. Hobbies include hiking"

	chunks, fellBack := NewChunker(newTopicEmbedder()).Split(context.Background(), text)
	if fellBack {
		t.Fatal("did not expect fallback")
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %q", len(chunks), chunks)
	}
	if !strings.HasSuffix(chunks[0], "More SAP") || chunks[1] != "Hobbies include hiking" {
		t.Errorf("unexpected chunks: %q", chunks)
	}
}

func TestChunker_SmallChunkAbsorbsDissimilar(t *testing.T) {
	chunks, _ := NewChunker(newTopicEmbedder()).Split(context.Background(), "SAP. Hiking")
	if len(chunks) != 1 || chunks[0] != "SAP Hiking" {
		t.Errorf("expected one merged chunk, got %q", chunks)
	}
}

func TestChunker_FallbackOnEmbedError(t *testing.T) {
	e := &mockEmbedder{err: errors.New("provider down")}

	chunks, fellBack := NewChunker(e).Split(context.Background(), "first line.\nsecond line.")
	if !fellBack {
		t.Fatal("expected paragraph fallback")
	}
	if len(chunks) != 1 || chunks[0] != "first line.\nsecond line." {
		t.Errorf("unexpected chunks: %q", chunks)
	}
}

func TestChunker_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := &mockEmbedder{err: context.Canceled}

	chunks, fellBack := NewChunker(e).Split(ctx, "text")
	if chunks != nil || fellBack {
		t.Errorf("expected no chunks on cancel, got %q fallback=%v", chunks, fellBack)
	}
}
