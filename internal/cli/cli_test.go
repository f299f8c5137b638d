package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kailas-cloud/resumechat/internal/domain"
	"github.com/kailas-cloud/resumechat/internal/domain/chat"
	domdoc "github.com/kailas-cloud/resumechat/internal/domain/document"
	"github.com/kailas-cloud/resumechat/internal/domain/search/result"
)

type stubDocuments struct {
	ingestFn   func(ctx context.Context, name, text string) ([]domdoc.Chunk, error)
	chunks     []domdoc.Chunk
	deleted    []string
	cleared    bool
	indexCalls int
}

func (s *stubDocuments) EnsureIndex(_ context.Context) (bool, error) {
	s.indexCalls++
	return s.indexCalls == 1, nil
}

func (s *stubDocuments) Ingest(ctx context.Context, name, text string) ([]domdoc.Chunk, error) {
	return s.ingestFn(ctx, name, text)
}

func (s *stubDocuments) List(_ context.Context) ([]domdoc.Chunk, error) { return s.chunks, nil }

func (s *stubDocuments) Delete(_ context.Context, id string) error {
	if id == "missing" {
		return domain.ErrDocumentNotFound
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubDocuments) Clear(_ context.Context) (int, error) {
	s.cleared = true
	return len(s.chunks), nil
}

type stubSearcher struct {
	query   string
	results []result.Result
}

func (s *stubSearcher) Search(_ context.Context, query string) ([]result.Result, error) {
	s.query = query
	return s.results, nil
}

type stubAnswerer struct{ question string }

func (s *stubAnswerer) Answer(_ context.Context, content string, _ []chat.Turn) string {
	s.question = content
	return "Eda led the platform team."
}

func run(t *testing.T, svc Services, stdin string, args ...string) (string, error) {
	t.Helper()
	released := false
	root := NewRootCommand(func(context.Context) (Services, func(), error) {
		return svc, func() { released = true }, nil
	})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	if err == nil && !released {
		t.Error("expected services to be released")
	}
	return out.String(), err
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	root := NewRootCommand(nil)
	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"ingest", "list", "delete", "clear", "search", "ask"} {
		if !names[want] {
			t.Errorf("missing subcommand %q", want)
		}
	}
}

func TestIngest_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.txt")
	if err := os.WriteFile(path, []byte("Worked at SAP. Led product."), 0o600); err != nil {
		t.Fatal(err)
	}

	var gotName, gotText string
	docs := &stubDocuments{ingestFn: func(_ context.Context, name, text string) ([]domdoc.Chunk, error) {
		gotName, gotText = name, text
		return []domdoc.Chunk{domdoc.Reconstruct("c1", name, text, nil, 1)}, nil
	}}

	out, err := run(t, Services{Documents: docs}, "", "ingest", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotName != "resume" {
		t.Errorf("expected name from file, got %q", gotName)
	}
	if gotText != "Worked at SAP. Led product." {
		t.Errorf("unexpected text: %q", gotText)
	}
	if !strings.Contains(out, "Created chunk index") || !strings.Contains(out, "Stored 1 chunks from resume") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestIngest_FromStdinWithName(t *testing.T) {
	var gotName string
	docs := &stubDocuments{ingestFn: func(_ context.Context, name, _ string) ([]domdoc.Chunk, error) {
		gotName = name
		return nil, nil
	}}

	if _, err := run(t, Services{Documents: docs}, "text", "ingest", "-", "--name", "cv"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotName != "cv" {
		t.Errorf("expected flag name, got %q", gotName)
	}
}

func TestIngest_ServiceError(t *testing.T) {
	docs := &stubDocuments{ingestFn: func(context.Context, string, string) ([]domdoc.Chunk, error) {
		return nil, domain.ErrInvalidInput
	}}

	_, err := run(t, Services{Documents: docs}, "", "ingest", "-")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestIngest_RequiresArg(t *testing.T) {
	_, err := run(t, Services{}, "", "ingest")
	if err == nil || !strings.Contains(err.Error(), "accepts 1 arg(s)") {
		t.Fatalf("expected arg error, got %v", err)
	}
}

func TestList(t *testing.T) {
	long := strings.Repeat("word ", 40)
	docs := &stubDocuments{chunks: []domdoc.Chunk{
		domdoc.Reconstruct("c1", "resume", long, nil, 1),
		domdoc.Reconstruct("c2", "resume", "short", nil, 2),
	}}

	out, err := run(t, Services{Documents: docs}, "", "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Index(out, "c1") > strings.Index(out, "c2") {
		t.Error("expected insertion order")
	}
	if !strings.Contains(out, "...") {
		t.Error("expected long content to be truncated")
	}
	if !strings.Contains(out, "Total: 2 chunks") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestList_Empty(t *testing.T) {
	out, err := run(t, Services{Documents: &stubDocuments{}}, "", "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No chunks stored") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestDelete(t *testing.T) {
	docs := &stubDocuments{}
	if _, err := run(t, Services{Documents: docs}, "", "delete", "c1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs.deleted) != 1 || docs.deleted[0] != "c1" {
		t.Errorf("unexpected deletes: %v", docs.deleted)
	}

	_, err := run(t, Services{Documents: docs}, "", "delete", "missing")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestClear_RequiresConfirmation(t *testing.T) {
	docs := &stubDocuments{}
	if _, err := run(t, Services{Documents: docs}, "", "clear"); err == nil {
		t.Fatal("expected error without --yes")
	}
	if docs.cleared {
		t.Error("expected nothing cleared")
	}

	out, err := run(t, Services{Documents: docs}, "", "clear", "--yes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !docs.cleared || !strings.Contains(out, "Deleted 0 chunks") {
		t.Errorf("unexpected result: cleared=%v out=%s", docs.cleared, out)
	}
}

func TestSearch_JoinsArgs(t *testing.T) {
	s := &stubSearcher{results: []result.Result{result.New("c1", "Led the SAP rollout", 0.91)}}

	out, err := run(t, Services{Search: s}, "", "search", "SAP", "rollout")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.query != "SAP rollout" {
		t.Errorf("unexpected query: %q", s.query)
	}
	if !strings.Contains(out, "[0.910] c1") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestSearch_NoResults(t *testing.T) {
	out, err := run(t, Services{Search: &stubSearcher{}}, "", "search", "nothing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No matching chunks") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestAsk(t *testing.T) {
	a := &stubAnswerer{}
	out, err := run(t, Services{Answer: a}, "", "ask", "what", "does", "Eda", "do?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.question != "what does Eda do?" {
		t.Errorf("unexpected question: %q", a.question)
	}
	if !strings.Contains(out, "Eda led the platform team.") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestOpenError(t *testing.T) {
	root := NewRootCommand(func(context.Context) (Services, func(), error) {
		return Services{}, nil, errors.New("database not ready")
	})
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"list"})
	if err := root.Execute(); err == nil || !strings.Contains(err.Error(), "database not ready") {
		t.Fatalf("expected open error, got %v", err)
	}
}

func TestNilOpener(t *testing.T) {
	root := NewRootCommand(nil)
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"list"})
	if err := root.Execute(); !errors.Is(err, errNotConfigured) {
		t.Fatalf("expected errNotConfigured, got %v", err)
	}
}
