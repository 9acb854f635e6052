package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/snapcal/core"
	"github.com/huangsam/snapcal/internal/contract"
	"github.com/spf13/cobra"
)

// reportCmd prints every view of one pipeline pass.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print weekly rankings, range leaderboards and heatmaps together.",
	Long: `Run the whole pipeline once and print every view it produces.

The report is cached by source digest, mode, month, reference day and member
filters, so repeated runs over an unchanged file are served from the cache.

Examples:
  # Full report
  snapcal report --source team.yaml

  # JSON report for a dashboard
  snapcal report --source team.yaml --output json --output-file report.json

  # Parquet files for analytics (writes report.weeks.parquet and friends)
  snapcal report --source team.yaml --output parquet --output-file report`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReport(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build report", err)
		}
	},
}

// watchCmd re-renders the report whenever the source changes.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-render the report whenever the source file changes.",
	Long: `Render the report, then watch the source file and render it again after every save.

Stop with Ctrl+C.

Examples:
  snapcal watch --source team.yaml
  snapcal watch --source team.yaml --month 2025-02 --member Kim`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := core.ExecuteWatch(ctx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot watch source", err)
		}
	},
}
