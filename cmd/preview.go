package cmd

import (
	"github.com/huangsam/basket/core"
	"github.com/huangsam/basket/internal/contract"
	"github.com/spf13/cobra"
)

// previewCmd prints the first records of a dataset.
var previewCmd = &cobra.Command{
	Use:   "preview [file]",
	Short: "Show the columns and first records of a dataset.",
	Long: `Decode a dataset and print its first records without cleaning them.

Use this to check which columns a file has before choosing --basket-fields
and --item-fields for analysis.

Examples:
  # Show the first 5 records
  basket preview sales.csv

  # Show 20 records as JSON
  basket preview sales.json --rows 20 --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: func(_ *cobra.Command, args []string) error {
		return loadConfig(args)
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePreview(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot preview dataset", err)
		}
	},
}
