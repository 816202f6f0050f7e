package iocache

import (
	"time"

	"github.com/huangsam/basket/internal/contract"
	"github.com/huangsam/basket/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetAnalysisStore implements the StoreManager interface.
func (m *MockStoreManager) GetAnalysisStore() contract.AnalysisStore {
	args := m.Called()
	if store := args.Get(0); store != nil {
		return store.(contract.AnalysisStore)
	}
	return nil
}

// MockAnalysisStore is a mock implementation of AnalysisStore for testing.
type MockAnalysisStore struct {
	mock.Mock
}

var _ contract.AnalysisStore = &MockAnalysisStore{} // Compile-time check

// BeginAnalysis implements the AnalysisStore interface.
func (m *MockAnalysisStore) BeginAnalysis(startTime time.Time, threshold float64, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, threshold, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndAnalysis implements the AnalysisStore interface.
func (m *MockAnalysisStore) EndAnalysis(analysisID int64, endTime time.Time, result schema.AnalysisResult) error {
	args := m.Called(analysisID, endTime, result)
	return args.Error(0)
}

// RecordCombinations implements the AnalysisStore interface.
func (m *MockAnalysisStore) RecordCombinations(analysisID int64, stats []schema.FrequencyStat) error {
	args := m.Called(analysisID, stats)
	return args.Error(0)
}

// GetStatus implements the AnalysisStore interface.
func (m *MockAnalysisStore) GetStatus() (schema.AnalysisStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.AnalysisStatus), args.Error(1)
}

// GetAllAnalysisRuns implements the AnalysisStore interface.
func (m *MockAnalysisStore) GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.AnalysisRunRecord)
	return runs, args.Error(1)
}

// GetAllCombinations implements the AnalysisStore interface.
func (m *MockAnalysisStore) GetAllCombinations() ([]schema.CombinationRecord, error) {
	args := m.Called()
	combos, _ := args.Get(0).([]schema.CombinationRecord)
	return combos, args.Error(1)
}

// Close implements the AnalysisStore interface.
func (m *MockAnalysisStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
