package cmd

import (
	"github.com/huangsam/snapcal/core"
	"github.com/huangsam/snapcal/internal/contract"
	"github.com/spf13/cobra"
)

// weeksCmd ranks initiatives and members for every ISO week.
var weeksCmd = &cobra.Command{
	Use:   "weeks",
	Short: "Rank initiatives and members by focus for every week.",
	Long: `Group the normalized snapshot facts by ISO week and rank them by focus score.

Each week shows two rankings:
- Initiatives, grouped by the dimension selected with --mode
- Members, ranked by their total focus that week

Only weeks with activity are listed, in chronological order.

Examples:
  # Weekly project rankings
  snapcal weeks --source team.yaml

  # Rank modules for January only
  snapcal weeks --source team.yaml --mode module --month 2025-01

  # Export to CSV
  snapcal weeks --source team.yaml --output csv --output-file weeks.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteWeeks(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build weekly rankings", err)
		}
	},
}
