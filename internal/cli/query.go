package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (r *runner) searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Run hybrid retrieval and print the ranked chunks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := r.services(ctx)
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			results, err := svc.Search.Search(ctx, query)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
			if len(results) == 0 {
				cmd.Println("No matching chunks")
				return nil
			}
			for i := range results {
				cmd.Printf("%2d. [%.3f] %s\n", i+1, results[i].Score(), results[i].ID())
				cmd.Printf("    %s\n", preview(results[i].Content()))
			}
			return nil
		},
	}
}

func (r *runner) askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the chatbot a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := r.services(ctx)
			if err != nil {
				return err
			}
			cmd.Println(svc.Answer.Answer(ctx, strings.Join(args, " "), nil))
			return nil
		},
	}
}
