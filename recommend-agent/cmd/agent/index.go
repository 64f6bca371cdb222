package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Divas-Gupta30/rekomme/recommend-agent/internal/ingestion"
)

func indexCmd() *cobra.Command {
	var path, namespace string
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Index a folder of reviews and product notes into the vector store",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := openDeps(ctx, cfg)
			if err != nil {
				return err
			}
			defer d.Close()

			slog.Info("starting indexing", slog.String("path", path), slog.String("namespace", namespace))
			st, err := ingestion.NewIndexer(d.embedder, d.index).IndexDir(ctx, path, namespace)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Indexing complete: %d files, %d chunks, %d skipped.\n", st.Files, st.Chunks, st.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "./data", "path to folder to index")
	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "namespace (product category) to index into")
	return cmd
}
