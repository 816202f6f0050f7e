package cmd

import (
	"github.com/huangsam/basket/core"
	"github.com/huangsam/basket/internal/contract"
	"github.com/spf13/cobra"
)

// analyzeCmd performs co-occurrence analysis on a dataset.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Show the item pairs that occur together most often.",
	Long: `Group records into baskets and rank pairs of items by how often they share a basket.

Each record is cleaned (quotes removed, whitespace collapsed, lowercased) and exact
duplicates are dropped. Records are grouped into baskets by the first present field
among --basket-fields (date by default) and identified by the first present field
among --item-fields (product by default).

A combination is reported when its basket frequency reaches --threshold.
Reads CSV or JSON from the given file, or from stdin when no file is given.

Examples:
  # Analyze a CSV export with the default 5% threshold
  basket analyze sales.csv

  # Only keep pairs present in at least a quarter of all baskets
  basket analyze sales.json --threshold 0.25

  # Group by order instead of date
  basket analyze orders.csv --basket-fields order_id --item-fields sku

  # Export combinations to CSV for spreadsheets
  basket analyze sales.csv --output csv --output-file pairs.csv --percent-sign

  # Track every run in SQLite
  basket analyze sales.csv --analysis-backend sqlite`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAnalyze(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run basket analysis", err)
		}
	},
}
