package cmd

import (
	"github.com/huangsam/snapcal/internal/mcp"
	"github.com/huangsam/snapcal/internal/source"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the snapcal MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents query weekly rankings,
range leaderboards and heatmaps through standard tools.`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, source.NewFileLoader(), cacheManager)
	},
}
