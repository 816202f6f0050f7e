package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/basket/internal/contract"
	"github.com/huangsam/basket/internal/parquet"
)

// ExecuteAnalysisExport exports every tracked run and combination to Parquet files
// named <outputFile>.analysis_runs.parquet and <outputFile>.combinations.parquet.
func ExecuteAnalysisExport(mgr contract.StoreManager, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := mgr.GetAnalysisStore()
	if store == nil {
		return errors.New("analysis tracking is not configured. Set --analysis-backend")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get analysis status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no analysis data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total analysis runs: %d\n", status.TotalRuns)
	fmt.Printf("Total combination records: %d\n", status.TableSizes[combinationsTable])

	runs, err := store.GetAllAnalysisRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve analysis runs: %w", err)
	}
	combos, err := store.GetAllCombinations()
	if err != nil {
		return fmt.Errorf("failed to retrieve combinations: %w", err)
	}

	parquetRuns := parquet.ConvertAnalysisRunRecords(runs)
	runsFile := outputFile + ".analysis_runs.parquet"
	if err := parquet.WriteAnalysisRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write analysis runs: %w", err)
	}
	fmt.Printf("Exported %d analysis runs to: %s\n", len(parquetRuns), runsFile)

	parquetCombos := parquet.ConvertCombinationRecords(combos)
	combosFile := outputFile + ".combinations.parquet"
	if err := parquet.WriteCombinationsParquet(parquetCombos, combosFile); err != nil {
		return fmt.Errorf("failed to write combinations: %w", err)
	}
	fmt.Printf("Exported %d combinations to: %s\n", len(parquetCombos), combosFile)

	return nil
}
