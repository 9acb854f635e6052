package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/snapcal/internal/contract"
	"github.com/huangsam/snapcal/internal/httpapi"
	"github.com/huangsam/snapcal/internal/source"
	"github.com/spf13/cobra"
)

// serveCmd starts the read-only HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve rankings and heatmaps over a read-only JSON API.",
	Long: `Start an HTTP server that answers every request with a fresh pipeline pass over --source.

Endpoints:
  GET /healthz
  GET /api/weeks            ?mode=&month=&member=&domain=&now=
  GET /api/summary          ?month=&by_month=
  GET /api/heatmap/team     ?now=
  GET /api/heatmap/members  ?now=&member=
  GET /api/report

Query parameters override the configured defaults for that request only.

Examples:
  snapcal serve --source team.yaml
  snapcal serve --source team.yaml --addr 127.0.0.1:9090 --cache-backend redis --cache-db-connect redis://localhost:6379/0`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		server := httpapi.NewServer(cfg, source.NewFileLoader(), cacheManager)
		if err := server.ListenAndServe(ctx, cfg.Addr); err != nil {
			contract.LogFatal("HTTP server failed", err)
		}
	},
}
