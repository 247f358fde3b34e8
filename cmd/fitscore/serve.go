package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/fit-scorer/internal/server"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  `Start an HTTP server exposing requirement aggregation, candidate matching, shortlists and candidate indexing.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.warmIndex(ctx); err != nil {
				return err
			}

			srv := server.New(a.engine, server.Config{
				Port:           a.cfg.Server.Port,
				RateLimit:      a.cfg.Server.RateLimit,
				RequestTimeout: a.cfg.Server.RequestTimeout,
				Shortlist:      a.cfg.ShortlistOptions(),
				Logger:         a.logger,
			})
			if err := srv.Start(ctx); err != nil {
				return fmt.Errorf("failed to serve: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().Int("port", 8080, "Port to listen on")

	return cmd
}
