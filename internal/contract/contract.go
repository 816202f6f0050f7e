// Package contract provides interfaces and shared utilities for basket's internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/basket/schema"
)

// StoreManager defines the interface for reaching the persistence stores.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetAnalysisStore() AnalysisStore
}

// AnalysisStore defines the interface for tracking analysis runs and their combinations.
type AnalysisStore interface {
	// BeginAnalysis creates a new analysis run and returns its unique ID
	BeginAnalysis(startTime time.Time, threshold float64, configParams map[string]any) (int64, error)

	// EndAnalysis updates the analysis run with the summary of its result
	EndAnalysis(analysisID int64, endTime time.Time, result schema.AnalysisResult) error

	// RecordCombinations stores the significant combinations of a run
	RecordCombinations(analysisID int64, stats []schema.FrequencyStat) error

	// GetStatus returns status information about the analysis store
	GetStatus() (schema.AnalysisStatus, error)

	// GetAllAnalysisRuns returns every stored run ordered by ID
	GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error)

	// GetAllCombinations returns every stored combination ordered by run and key
	GetAllCombinations() ([]schema.CombinationRecord, error)

	// Close closes the underlying connection
	Close() error
}
