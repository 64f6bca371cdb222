package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Divas-Gupta30/rekomme/recommend-agent/internal/graph"
)

func queryCmd() *cobra.Command {
	var query, namespace string
	var sessionID int64
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run one recommendation query and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(query) == "" {
				return fmt.Errorf("please provide -q \"your query\"")
			}
			ctx := cmd.Context()
			d, err := openDeps(ctx, cfg)
			if err != nil {
				return err
			}
			defer d.Close()

			var rec graph.Recorder
			if sessionID > 0 {
				rec = d.messages
			}
			engine, err := newEngine(ctx, cfg, d, rec)
			if err != nil {
				return err
			}

			state, err := engine.Run(ctx, query, namespace, sessionID)
			if err != nil {
				return err
			}
			printState(cmd.OutOrStdout(), state)
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "query text")
	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "namespace (product category) to search")
	cmd.Flags().Int64Var(&sessionID, "session", 0, "chat session id to record the exchange under")
	return cmd
}

func printState(w io.Writer, s *graph.State) {
	steps := make([]string, len(s.Steps))
	for i, st := range s.Steps {
		steps[i] = string(st)
	}
	color.New(color.FgCyan).Fprintf(w, "Steps: %s\n", strings.Join(steps, " -> "))
	color.New(color.FgYellow).Fprintf(w, "Tools: %s\n\n", strings.Join(s.ToolsUsed(), ", "))

	bold := color.New(color.FgGreen, color.Bold)
	for i, p := range s.Result.Products {
		bold.Fprintf(w, "%d. %s\n", i+1, p.Name)
		fmt.Fprintf(w, "   %s\n", p.Reason)
	}
	fmt.Fprintf(w, "\n%s\n", s.Result.ReasoningSummary)
}
