package cmd

import (
	"github.com/huangsam/snapcal/core"
	"github.com/huangsam/snapcal/internal/contract"
	"github.com/spf13/cobra"
)

// heatmapCmd draws the activity heatmaps.
var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Draw 52-week team and member activity heatmaps.",
	Long: `Draw activity heatmaps over the 52 weeks ending with the week of --now.

- Team row: number of distinct members active each week
- Member rows: number of completed tasks each week

Every row is scaled against its own maximum into levels 0 to 4.
Weeks after --now are left blank. The month filter does not apply here.

Examples:
  # Heatmaps as of today
  snapcal heatmap --source team.yaml

  # Heatmaps as of the end of last quarter
  snapcal heatmap --source team.yaml --now 2025-03-31

  # Only two members
  snapcal heatmap --source team.yaml --member "Kim,Lee"`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHeatmap(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build heatmaps", err)
		}
	},
}
