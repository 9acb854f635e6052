package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/snapcal/core"
	"github.com/huangsam/snapcal/internal/contract"
	"github.com/huangsam/snapcal/internal/source"
	"github.com/spf13/cobra"
)

// sourceCmd groups the commands that inspect snapshot files.
var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Inspect the snapshot source format and files",
	Long: `Describe the accepted snapshot format and check how a file normalizes.

Subcommands:
  schema - Print the JSON Schema of the snapshot format
  check  - Count normalized facts and skipped records per reason

Examples:
  snapcal source schema > snapcal.schema.json
  snapcal source check --source team.yaml`,
}

// sourceSchemaCmd prints the JSON Schema of a snapshot file.
var sourceSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of the snapshot format",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		data, err := source.JSONSchema()
		if err != nil {
			contract.LogFatal("Cannot generate schema", err)
		}
		_, _ = fmt.Fprintln(os.Stdout, string(data))
	},
}

// sourceCheckCmd reports how a snapshot file normalizes.
var sourceCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Count normalized facts and skipped records for a snapshot file",
	Long: `Load --source, normalize it and report how many facts were produced
and why the remaining records were skipped. Nothing is cached or recorded.

Examples:
  snapcal source check --source team.yaml
  cat team.json | snapcal source check --source - --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSourceCheck(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot check source", err)
		}
	},
}
