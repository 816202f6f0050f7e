// Package parquet provides data structures and functions for exporting basket
// analysis data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/basket/schema"
	"github.com/parquet-go/parquet-go"
)

// AnalysisRun represents a single tracked analysis run with its summary.
// This struct maps to the basket_analysis_runs database table.
type AnalysisRun struct {
	// AnalysisID is the unique identifier for this analysis run
	AnalysisID int64 `parquet:"analysis_id,snappy"`

	// RunUUID is the globally unique identifier of the run
	RunUUID string `parquet:"run_uuid,snappy"`

	// StartTime is when the analysis began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the analysis completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the analysis run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	TotalRecords            int32   `parquet:"total_records,snappy"`
	AnalyzedBaskets         int32   `parquet:"analyzed_baskets,snappy"`
	UniqueItems             int32   `parquet:"unique_items,snappy"`
	SignificantCombinations int32   `parquet:"significant_combinations,snappy"`
	Threshold               float64 `parquet:"threshold,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// Combination is one significant item pair of an analysis.
// This struct maps to the basket_combinations database table. Ad-hoc
// exports of a single result carry an AnalysisID of zero.
type Combination struct {
	AnalysisID  int64   `parquet:"analysis_id,snappy"`
	Combination string  `parquet:"combination,snappy"`
	Count       int32   `parquet:"count,snappy"`
	Frequency   float64 `parquet:"frequency,snappy"`
	Percentage  string  `parquet:"percentage,snappy"`
}

// WriteAnalysisRunsParquet writes a slice of AnalysisRun structs to a Parquet file.
func WriteAnalysisRunsParquet(data []AnalysisRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteCombinationsParquet writes a slice of Combination structs to a Parquet file.
func WriteCombinationsParquet(data []Combination, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet creates outputPath and writes rows using the schema inferred from T's struct tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertAnalysisRunRecords converts schema.AnalysisRunRecord to AnalysisRun for Parquet export.
func ConvertAnalysisRunRecords(records []schema.AnalysisRunRecord) []AnalysisRun {
	result := make([]AnalysisRun, len(records))
	for i, record := range records {
		result[i] = AnalysisRun{
			AnalysisID:              record.AnalysisID,
			RunUUID:                 record.RunUUID,
			StartTime:               record.StartTime,
			EndTime:                 record.EndTime,
			RunDurationMs:           record.RunDurationMs,
			TotalRecords:            record.TotalRecords,
			AnalyzedBaskets:         record.AnalyzedBaskets,
			UniqueItems:             record.UniqueItems,
			SignificantCombinations: record.SignificantCombinations,
			Threshold:               record.Threshold,
			ConfigParams:            record.ConfigParams,
		}
	}
	return result
}

// ConvertCombinationRecords converts stored combinations for Parquet export.
func ConvertCombinationRecords(records []schema.CombinationRecord) []Combination {
	result := make([]Combination, len(records))
	for i, record := range records {
		result[i] = Combination{
			AnalysisID:  record.AnalysisID,
			Combination: record.Combination,
			Count:       record.Count,
			Frequency:   record.Frequency,
			Percentage:  record.Percentage,
		}
	}
	return result
}

// ConvertFrequencyStats converts the combinations of a single result.
func ConvertFrequencyStats(stats []schema.FrequencyStat) []Combination {
	result := make([]Combination, len(stats))
	for i, s := range stats {
		result[i] = Combination{
			Combination: s.Combination,
			Count:       int32(s.Count),
			Frequency:   s.Frequency,
			Percentage:  s.Percentage,
		}
	}
	return result
}
