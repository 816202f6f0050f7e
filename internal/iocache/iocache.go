// Package iocache persists analysis runs and their combinations in SQL databases.
package iocache

import (
	"sync"

	"github.com/huangsam/basket/internal/contract"
)

// StoreManagerImpl holds the stores opened for this process.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointers during initialization
	analysis     contract.AnalysisStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// GetAnalysisStore returns the analysis AnalysisStore.
func (mgr *StoreManagerImpl) GetAnalysisStore() contract.AnalysisStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.analysis
}
