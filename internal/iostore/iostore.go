// Package iostore persists analysis history: profile snapshots, alert
// history, run records and the read-only content catalog. It supports
// SQLite, MySQL and PostgreSQL backends plus a no-op mode.
package iostore

import (
	"sync"

	"github.com/preflighthq/preflight/internal/contract"
)

// HistoryStoreManager manages the persistence stores behind one handle.
type HistoryStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	profiles     contract.ProfileStore
	alerts       contract.AlertStore
	runs         contract.RunStore
}

var _ contract.StoreManager = &HistoryStoreManager{} // Compile-time check

// GetProfileStore returns the profile snapshot store.
func (mgr *HistoryStoreManager) GetProfileStore() contract.ProfileStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.profiles
}

// GetAlertStore returns the alert history store.
func (mgr *HistoryStoreManager) GetAlertStore() contract.AlertStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.alerts
}

// GetRunStore returns the run history store.
func (mgr *HistoryStoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
