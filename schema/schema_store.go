package schema

import "time"

// AnalysisRunRecord represents a row from the basket_analysis_runs table.
type AnalysisRunRecord struct {
	AnalysisID              int64
	RunUUID                 string
	StartTime               time.Time
	EndTime                 *time.Time
	RunDurationMs           *int32
	TotalRecords            int32
	AnalyzedBaskets         int32
	UniqueItems             int32
	SignificantCombinations int32
	Threshold               float64
	ConfigParams            *string
}

// CombinationRecord represents a row from the basket_combinations table.
type CombinationRecord struct {
	AnalysisID  int64
	Combination string
	Count       int32
	Frequency   float64
	Percentage  string
}
