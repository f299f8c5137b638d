package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

const previewLen = 80

func (r *runner) ingestCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "ingest [file]",
		Short: "Chunk, embed and store a resume text file",
		Long:  `Reads a text file ("-" for stdin), splits it into semantic chunks and stores each with its embedding.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = sourceName(args[0])
			}

			ctx := cmd.Context()
			svc, err := r.services(ctx)
			if err != nil {
				return err
			}
			created, err := svc.Documents.EnsureIndex(ctx)
			if err != nil {
				return fmt.Errorf("failed to ensure index: %w", err)
			}
			if created {
				cmd.Println("Created chunk index")
			}

			chunks, err := svc.Documents.Ingest(ctx, name, text)
			if err != nil {
				return fmt.Errorf("failed to ingest %s: %w", args[0], err)
			}
			cmd.Printf("Stored %d chunks from %s\n", len(chunks), name)
			for i := range chunks {
				cmd.Printf("  %s  %s\n", chunks[i].ID(), preview(chunks[i].Content()))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Chunk name prefix (default: file name)")
	return cmd
}

func (r *runner) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored chunks in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := r.services(ctx)
			if err != nil {
				return err
			}
			chunks, err := svc.Documents.List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list chunks: %w", err)
			}
			if len(chunks) == 0 {
				cmd.Println("No chunks stored")
				return nil
			}
			for i := range chunks {
				cmd.Printf("%s\n", chunks[i].ID())
				cmd.Printf("  Name:    %s\n", chunks[i].Name())
				cmd.Printf("  Content: %s\n", preview(chunks[i].Content()))
			}
			cmd.Printf("\nTotal: %d chunks\n", len(chunks))
			return nil
		},
	}
}

func (r *runner) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [chunk-id]",
		Short: "Delete one chunk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := r.services(ctx)
			if err != nil {
				return err
			}
			if err := svc.Documents.Delete(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete chunk: %w", err)
			}
			cmd.Printf("Deleted %s\n", args[0])
			return nil
		},
	}
}

func (r *runner) clearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored chunk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to clear without --yes")
			}
			ctx := cmd.Context()
			svc, err := r.services(ctx)
			if err != nil {
				return err
			}
			n, err := svc.Documents.Clear(ctx)
			if err != nil {
				return fmt.Errorf("failed to clear chunks: %w", err)
			}
			cmd.Printf("Deleted %d chunks\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deletion of all chunks")
	return cmd
}

func readSource(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func sourceName(path string) string {
	if path == "-" {
		return "stdin"
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= previewLen {
		return s
	}
	return string(r[:previewLen]) + "..."
}
