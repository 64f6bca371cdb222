package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Divas-Gupta30/rekomme/recommend-agent/internal/api"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the search API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			d, err := openDeps(ctx, cfg)
			if err != nil {
				return err
			}
			defer d.Close()

			engine, err := newEngine(ctx, cfg, d, d.messages)
			if err != nil {
				return err
			}
			return api.NewServer(engine, d.messages, cfg.Categories, logger).ListenAndServe(ctx, ":"+cfg.Port)
		},
	}
}
