package iostore

import (
	"time"

	"github.com/preflighthq/preflight/internal/contract"
	"github.com/preflighthq/preflight/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetProfileStore implements the StoreManager interface.
func (m *MockStoreManager) GetProfileStore() contract.ProfileStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ProfileStore)
	return store
}

// GetAlertStore implements the StoreManager interface.
func (m *MockStoreManager) GetAlertStore() contract.AlertStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.AlertStore)
	return store
}

// GetRunStore implements the StoreManager interface.
func (m *MockStoreManager) GetRunStore() contract.RunStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RunStore)
	return store
}

// MockProfileStore is a mock implementation of ProfileStore for testing.
type MockProfileStore struct {
	mock.Mock
}

var _ contract.ProfileStore = &MockProfileStore{} // Compile-time check

// SaveProfile implements the ProfileStore interface.
func (m *MockProfileStore) SaveProfile(rec schema.ProfileRecord) error {
	args := m.Called(rec)
	return args.Error(0)
}

// LatestProfiles implements the ProfileStore interface.
func (m *MockProfileStore) LatestProfiles(analysisID string, limit int) ([]schema.ProfileRecord, error) {
	args := m.Called(analysisID, limit)
	records, _ := args.Get(0).([]schema.ProfileRecord)
	return records, args.Error(1)
}

// Close implements the ProfileStore interface.
func (m *MockProfileStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockAlertStore is a mock implementation of AlertStore for testing.
type MockAlertStore struct {
	mock.Mock
}

var _ contract.AlertStore = &MockAlertStore{} // Compile-time check

// SaveAlert implements the AlertStore interface.
func (m *MockAlertStore) SaveAlert(alert schema.Alert) error {
	args := m.Called(alert)
	return args.Error(0)
}

// RecentCategories implements the AlertStore interface.
func (m *MockAlertStore) RecentCategories(userID, analysisID string, since time.Time) (map[schema.AlertCategory]struct{}, error) {
	args := m.Called(userID, analysisID, since)
	categories, _ := args.Get(0).(map[schema.AlertCategory]struct{})
	return categories, args.Error(1)
}

// ListAlerts implements the AlertStore interface.
func (m *MockAlertStore) ListAlerts(userID, analysisID string) ([]schema.Alert, error) {
	args := m.Called(userID, analysisID)
	alerts, _ := args.Get(0).([]schema.Alert)
	return alerts, args.Error(1)
}

// ListAllAlerts implements the AlertStore interface.
func (m *MockAlertStore) ListAllAlerts() ([]schema.Alert, error) {
	args := m.Called()
	alerts, _ := args.Get(0).([]schema.Alert)
	return alerts, args.Error(1)
}

// MarkRead implements the AlertStore interface.
func (m *MockAlertStore) MarkRead(alertID string, at time.Time) error {
	args := m.Called(alertID, at)
	return args.Error(0)
}

// Close implements the AlertStore interface.
func (m *MockAlertStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ contract.RunStore = &MockRunStore{} // Compile-time check

// BeginRun implements the RunStore interface.
func (m *MockRunStore) BeginRun(rec schema.RunRecord) (int64, error) {
	args := m.Called(rec)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the RunStore interface.
func (m *MockRunStore) EndRun(runID int64, endTime time.Time, filesScanned, score int, status schema.VerdictStatus) error {
	args := m.Called(runID, endTime, filesScanned, score, status)
	return args.Error(0)
}

// FindAnalysis implements the RunStore interface.
func (m *MockRunStore) FindAnalysis(analysisID string) (string, string, error) {
	args := m.Called(analysisID)
	return args.String(0), args.String(1), args.Error(2)
}

// ListRuns implements the RunStore interface.
func (m *MockRunStore) ListRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
