package cmd

import (
	"github.com/huangsam/snapcal/core"
	"github.com/huangsam/snapcal/internal/contract"
	"github.com/spf13/cobra"
)

// summaryCmd builds the range leaderboards.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show project, module, feature and member leaderboards for a range.",
	Long: `Merge the weekly rankings covered by --month into four leaderboards.

A week belongs to the month that contains its Monday, so a week spanning two
months is only counted once.

Examples:
  # Leaderboards over everything
  snapcal summary --source team.yaml

  # Leaderboards for February
  snapcal summary --source team.yaml --month 2025-02

  # One set of leaderboards per month
  snapcal summary --source team.yaml --by-month --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSummary(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build range summary", err)
		}
	},
}
