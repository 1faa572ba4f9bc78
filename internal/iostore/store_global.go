package iostore

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/preflighthq/preflight/internal/contract"
	"github.com/preflighthq/preflight/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &HistoryStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once

	sharedConn *storeConn // set once by InitStores
)

// globalConn returns the shared connection behind the global Manager.
func globalConn() *storeConn {
	Manager.RLock()
	defer Manager.RUnlock()
	return sharedConn
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for history storage.
func GetHistoryDBFilePath() string {
	return contract.GetHistoryDBFilePath()
}

// InitStores initializes the global store manager. The backend can be
// NoneBackend to disable persistence entirely; every store then becomes a
// no-op and analyses still run.
func InitStores(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		conn, err := openStoreConn(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize history stores: %w", err)
			return
		}

		Manager.Lock()
		defer Manager.Unlock()
		sharedConn = conn
		Manager.profiles = &ProfileStoreImpl{conn: conn}
		Manager.alerts = &AlertStoreImpl{conn: conn}
		Manager.runs = &RunStoreImpl{conn: conn}
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.profiles != nil {
			_ = Manager.profiles.Close()
		}
		if Manager.alerts != nil {
			_ = Manager.alerts.Close()
		}
		if Manager.runs != nil {
			_ = Manager.runs.Close()
		}
	})
}

// ClearHistory clears all stored history for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the history tables.
// For NoneBackend, it does nothing.
func ClearHistory(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		return dropHistoryTables("mysql", connStr)

	case schema.PostgreSQLBackend:
		return dropHistoryTables("pgx", connStr)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported history backend for clearing: %s", backend)
	}
}

// dropHistoryTables connects to the SQL database and drops every history table.
func dropHistoryTables(driverName, connStr string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	for _, table := range []string{runsTable, profilesTable, alertsTable, catalogTable} {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", table)
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
