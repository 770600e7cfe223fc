package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/joshharrison/planloom/internal/api"
	"github.com/joshharrison/planloom/internal/ui"
)

func serveCmd() *cobra.Command {
	var flagAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduling HTTP API",
		Long: `Serves POST /api/v1/schedule, POST /api/v1/plan and their
/api/v1/projects/{projectId}/... variants, plus /healthz and /metrics.
Stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !flagJSON {
				ui.PrintLogo()
			}
			gin.SetMode(gin.ReleaseMode)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := api.New(settings.cfg.Server, settings.logger)
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default from config, :7272)")

	return cmd
}
