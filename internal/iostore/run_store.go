package iostore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/preflighthq/preflight/internal/contract"
	"github.com/preflighthq/preflight/schema"
)

// RunStoreImpl implements the RunStore interface.
type RunStoreImpl struct {
	conn *storeConn
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// BeginRun creates a new run row and returns its unique ID.
func (rs *RunStoreImpl) BeginRun(rec schema.RunRecord) (int64, error) {
	if rs.conn.db == nil {
		return 0, nil
	}

	quotedTableName := quoteTableName(runsTable, rs.conn.backend)

	var runID int64
	var err error
	switch rs.conn.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (analysis_id, user_id, source_locator, start_time, config_params) VALUES ($1, $2, $3, $4, $5) RETURNING run_id`, quotedTableName)
		err = rs.conn.db.QueryRow(query, rec.AnalysisID, rec.UserID, rec.SourceLocator, rec.StartTime.UTC(), rec.ConfigParams).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (analysis_id, user_id, source_locator, start_time, config_params) VALUES (?, ?, ?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = rs.conn.db.Exec(query, rec.AnalysisID, rec.UserID, rec.SourceLocator, formatTime(rec.StartTime, rs.conn.backend), rec.ConfigParams)
		if err != nil {
			return 0, fmt.Errorf("failed to insert run: %w", err)
		}
		runID, err = result.LastInsertId()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// EndRun updates the run row with completion data.
func (rs *RunStoreImpl) EndRun(runID int64, endTime time.Time, filesScanned, score int, status schema.VerdictStatus) error {
	if rs.conn.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, rs.conn.backend)

	// Read back start_time to compute the duration.
	var selectQuery string
	switch rs.conn.backend {
	case schema.PostgreSQLBackend:
		selectQuery = fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = $1`, quotedTableName)
	default:
		selectQuery = fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = ?`, quotedTableName)
	}
	row := rs.conn.db.QueryRow(selectQuery, runID)

	var startTime time.Time
	switch rs.conn.backend {
	case schema.SQLiteBackend:
		var startStr string
		if err := row.Scan(&startStr); err != nil {
			return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
		}
		var err error
		startTime, err = parseStoredTime(startStr)
		if err != nil {
			return fmt.Errorf("failed to parse start_time: %w", err)
		}
	default: // MySQL and PostgreSQL store as native datetime
		if err := row.Scan(&startTime); err != nil {
			return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
		}
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	var updateQuery string
	var args []any
	switch rs.conn.backend {
	case schema.PostgreSQLBackend:
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = $1, run_duration_ms = $2, files_scanned = $3, confidence_score = $4, status = $5 WHERE run_id = $6`, quotedTableName)
		args = []any{endTime.UTC(), durationMs, filesScanned, score, string(status), runID}
	default: // SQLite and MySQL
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, files_scanned = ?, confidence_score = ?, status = ? WHERE run_id = ?`, quotedTableName)
		args = []any{formatTime(endTime, rs.conn.backend), durationMs, filesScanned, score, string(status), runID}
	}

	if _, err := rs.conn.db.Exec(updateQuery, args...); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// FindAnalysis returns the stored source locator and user for an analysis so
// a re-check can re-fetch the same source. The newest run wins.
func (rs *RunStoreImpl) FindAnalysis(analysisID string) (string, string, error) {
	if rs.conn.db == nil {
		return "", "", fmt.Errorf("history persistence is disabled; re-check needs a stored analysis")
	}

	quotedTableName := quoteTableName(runsTable, rs.conn.backend)

	var query string
	switch rs.conn.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT source_locator, user_id FROM %s WHERE analysis_id = $1 ORDER BY run_id DESC LIMIT 1`, quotedTableName)
	default:
		query = fmt.Sprintf(`SELECT source_locator, user_id FROM %s WHERE analysis_id = ? ORDER BY run_id DESC LIMIT 1`, quotedTableName)
	}

	var locator, userID string
	err := rs.conn.db.QueryRow(query, analysisID).Scan(&locator, &userID)
	if err == sql.ErrNoRows {
		return "", "", fmt.Errorf("no analysis found with ID %q", analysisID)
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to look up analysis %q: %w", analysisID, err)
	}
	return locator, userID, nil
}

// ListRuns retrieves all run records, oldest first.
func (rs *RunStoreImpl) ListRuns() ([]schema.RunRecord, error) {
	if rs.conn.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(runsTable, rs.conn.backend)
	query := fmt.Sprintf(`SELECT run_id, analysis_id, user_id, source_locator, start_time, end_time, run_duration_ms, files_scanned, confidence_score, status, config_params FROM %s ORDER BY run_id`, quotedTableName)

	rows, err := rs.conn.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var rec schema.RunRecord
		var filesScanned, confidenceScore sql.NullInt32
		var status sql.NullString

		switch rs.conn.backend {
		case schema.SQLiteBackend:
			var startStr string
			var endStr *string
			if err := rows.Scan(&rec.RunID, &rec.AnalysisID, &rec.UserID, &rec.SourceLocator, &startStr, &endStr,
				&rec.RunDurationMs, &filesScanned, &confidenceScore, &status, &rec.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			start, err := parseStoredTime(startStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			rec.StartTime = start
			if endStr != nil {
				end, err := parseStoredTime(*endStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				rec.EndTime = &end
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&rec.RunID, &rec.AnalysisID, &rec.UserID, &rec.SourceLocator, &rec.StartTime, &rec.EndTime,
				&rec.RunDurationMs, &filesScanned, &confidenceScore, &status, &rec.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
		}

		if filesScanned.Valid {
			rec.FilesScanned = filesScanned.Int32
		}
		if confidenceScore.Valid {
			rec.ConfidenceScore = confidenceScore.Int32
		}
		if status.Valid {
			rec.Status = status.String
		}
		results = append(results, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetStatus returns status information about the history store.
func (rs *RunStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:   string(rs.conn.backend),
		Connected: rs.conn.db != nil,
	}
	if rs.conn.db == nil {
		return status, nil
	}

	quotedRuns := quoteTableName(runsTable, rs.conn.backend)
	row := rs.conn.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns))
	if err := row.Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		lastRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns)
		row = rs.conn.db.QueryRow(lastRunQuery)
		switch rs.conn.backend {
		case schema.SQLiteBackend:
			var lastStr string
			if err := row.Scan(&status.LastRunID, &lastStr); err != nil {
				return status, fmt.Errorf("failed to get last run info: %w", err)
			}
			lastTime, err := parseStoredTime(lastStr)
			if err != nil {
				return status, fmt.Errorf("failed to parse last run time: %w", err)
			}
			status.LastRunTime = lastTime
		default:
			if err := row.Scan(&status.LastRunID, &status.LastRunTime); err != nil {
				return status, fmt.Errorf("failed to get last run info: %w", err)
			}
		}

		oldestRunQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedRuns)
		row = rs.conn.db.QueryRow(oldestRunQuery)
		switch rs.conn.backend {
		case schema.SQLiteBackend:
			var oldestStr string
			if err := row.Scan(&oldestStr); err != nil {
				return status, fmt.Errorf("failed to get oldest run time: %w", err)
			}
			oldestTime, err := parseStoredTime(oldestStr)
			if err != nil {
				return status, fmt.Errorf("failed to parse oldest run time: %w", err)
			}
			status.OldestRunTime = oldestTime
		default:
			if err := row.Scan(&status.OldestRunTime); err != nil {
				return status, fmt.Errorf("failed to get oldest run time: %w", err)
			}
		}
	}

	quotedAlerts := quoteTableName(alertsTable, rs.conn.backend)
	row = rs.conn.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedAlerts))
	if err := row.Scan(&status.TotalAlerts); err != nil {
		return status, fmt.Errorf("failed to get total alerts: %w", err)
	}

	return status, nil
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	return rs.conn.close()
}
