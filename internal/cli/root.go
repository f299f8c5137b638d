// Package cli implements the resumectl operator commands.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/resumechat/internal/domain/chat"
	domdoc "github.com/kailas-cloud/resumechat/internal/domain/document"
	"github.com/kailas-cloud/resumechat/internal/domain/search/result"
	"github.com/kailas-cloud/resumechat/internal/version"
)

// Documents manages stored resume chunks.
type Documents interface {
	EnsureIndex(ctx context.Context) (bool, error)
	Ingest(ctx context.Context, name, text string) ([]domdoc.Chunk, error)
	List(ctx context.Context) ([]domdoc.Chunk, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) (int, error)
}

// Searcher runs hybrid retrieval.
type Searcher interface {
	Search(ctx context.Context, query string) ([]result.Result, error)
}

// Answerer composes grounded replies.
type Answerer interface {
	Answer(ctx context.Context, content string, history []chat.Turn) string
}

// Services are the use cases the commands drive.
type Services struct {
	Documents Documents
	Search    Searcher
	Answer    Answerer
}

// Opener connects the services on first use. The returned func releases them.
type Opener func(ctx context.Context) (Services, func(), error)

var errNotConfigured = errors.New("services not configured")

type runner struct {
	open    Opener
	svc     Services
	release func()
}

// NewRootCommand builds the resumectl command tree.
func NewRootCommand(open Opener) *cobra.Command {
	r := &runner{open: open}

	root := &cobra.Command{
		Use:           "resumectl",
		Short:         "Operate the resume chatbot knowledge base",
		Long:          `Ingest resume text, inspect stored chunks, and query the chatbot from the terminal.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(*cobra.Command, []string) {
			if r.release != nil {
				r.release()
				r.release = nil
			}
		},
	}

	root.AddCommand(
		r.ingestCmd(),
		r.listCmd(),
		r.deleteCmd(),
		r.clearCmd(),
		r.searchCmd(),
		r.askCmd(),
	)
	return root
}

// services opens the backing services once per invocation.
func (r *runner) services(ctx context.Context) (Services, error) {
	if r.release != nil {
		return r.svc, nil
	}
	if r.open == nil {
		return Services{}, errNotConfigured
	}
	svc, release, err := r.open(ctx)
	if err != nil {
		return Services{}, err
	}
	if release == nil {
		release = func() {}
	}
	r.svc, r.release = svc, release
	return svc, nil
}
