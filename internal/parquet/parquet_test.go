package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/basket/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readAll reads every row of a Parquet file written with T's schema.
func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func sampleRuns() []AnalysisRun {
	start := time.Date(2025, 3, 1, 10, 0, 0, 123456789, time.UTC)
	end := start.Add(1500 * time.Millisecond)
	duration := int32(1500)
	params := `{"threshold":0.05}`
	return []AnalysisRun{
		{
			AnalysisID:              1,
			RunUUID:                 "0b6f1c9e-5a43-4c84-9d0e-3b0f7a6e2c11",
			StartTime:               start,
			EndTime:                 &end,
			RunDurationMs:           &duration,
			TotalRecords:            120,
			AnalyzedBaskets:         14,
			UniqueItems:             9,
			SignificantCombinations: 6,
			Threshold:               0.05,
			ConfigParams:            &params,
		},
		{
			AnalysisID: 2,
			RunUUID:    "4f1f5d4e-8f0a-4a3c-b1f5-9d3e6a7b8c90",
			StartTime:  start.Add(time.Hour),
			Threshold:  0.2,
		},
	}
}

func TestAnalysisRunStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(AnalysisRun))
	require.NotNil(t, s)

	for _, colName := range []string{
		"analysis_id", "run_uuid", "start_time", "end_time", "run_duration_ms",
		"total_records", "analyzed_baskets", "unique_items", "significant_combinations",
		"threshold", "config_params",
	} {
		_, ok := s.Lookup(colName)
		assert.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestCombinationStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(Combination))
	for _, colName := range []string{"analysis_id", "combination", "count", "frequency", "percentage"} {
		_, ok := s.Lookup(colName)
		assert.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestWriteAnalysisRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "analysis_runs.parquet")
	data := sampleRuns()
	require.NoError(t, WriteAnalysisRunsParquet(data, outputPath))

	got := readAll[AnalysisRun](t, outputPath)
	require.Len(t, got, len(data))

	assert.Equal(t, data[0].RunUUID, got[0].RunUUID)
	assert.Equal(t, data[0].TotalRecords, got[0].TotalRecords)
	assert.Equal(t, data[0].SignificantCombinations, got[0].SignificantCombinations)
	require.NotNil(t, got[0].EndTime)
	assert.WithinDuration(t, *data[0].EndTime, *got[0].EndTime, time.Nanosecond)
	require.NotNil(t, got[0].ConfigParams)
	assert.Equal(t, *data[0].ConfigParams, *got[0].ConfigParams)

	assert.Nil(t, got[1].EndTime)
	assert.Nil(t, got[1].RunDurationMs)
	assert.Nil(t, got[1].ConfigParams)
	assert.InDelta(t, 0.2, got[1].Threshold, 1e-9)
}

func TestWriteCombinationsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "combinations.parquet")
	stats := []schema.FrequencyStat{
		{Combination: "bread + milk", Count: 3, Frequency: 0.75, Percentage: "75.0"},
		{Combination: "eggs + milk", Count: 1, Frequency: 0.25, Percentage: "25.0"},
	}
	require.NoError(t, WriteCombinationsParquet(ConvertFrequencyStats(stats), outputPath))

	got := readAll[Combination](t, outputPath)
	require.Len(t, got, 2)
	assert.Equal(t, "bread + milk", got[0].Combination)
	assert.Equal(t, int32(3), got[0].Count)
	assert.InDelta(t, 0.75, got[0].Frequency, 1e-9)
	assert.Equal(t, "25.0", got[1].Percentage)
	assert.Zero(t, got[1].AnalysisID)
}

func TestWriteParquet_EmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteCombinationsParquet([]Combination{}, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")
}

func TestWriteParquet_InvalidPath(t *testing.T) {
	err := WriteAnalysisRunsParquet(sampleRuns(), "/nonexistent/directory/output.parquet")
	require.Error(t, err)
}

func TestConvertRecords(t *testing.T) {
	end := time.Now()
	runs := ConvertAnalysisRunRecords([]schema.AnalysisRunRecord{
		{AnalysisID: 7, RunUUID: "u", StartTime: end.Add(-time.Second), EndTime: &end, TotalRecords: 4, Threshold: 0.5},
	})
	require.Len(t, runs, 1)
	assert.Equal(t, int64(7), runs[0].AnalysisID)
	assert.Equal(t, int32(4), runs[0].TotalRecords)
	assert.Equal(t, &end, runs[0].EndTime)

	combos := ConvertCombinationRecords([]schema.CombinationRecord{
		{AnalysisID: 7, Combination: "a + b", Count: 2, Frequency: 1, Percentage: "100.0"},
	})
	require.Len(t, combos, 1)
	assert.Equal(t, int64(7), combos[0].AnalysisID)
	assert.Equal(t, "100.0", combos[0].Percentage)
}
