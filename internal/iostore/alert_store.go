package iostore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/preflighthq/preflight/internal/contract"
	"github.com/preflighthq/preflight/schema"
)

// AlertStoreImpl implements the AlertStore interface.
type AlertStoreImpl struct {
	conn *storeConn
}

var _ contract.AlertStore = &AlertStoreImpl{} // Compile-time check

// SaveAlert persists one alert.
func (as *AlertStoreImpl) SaveAlert(alert schema.Alert) error {
	if as.conn.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(alertsTable, as.conn.backend)

	var query string
	switch as.conn.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (alert_id, user_id, analysis_id, category, severity, title, body, what_changed, next_step, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`INSERT INTO %s (alert_id, user_id, analysis_id, category, severity, title, body, what_changed, next_step, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, quotedTableName)
	}

	_, err := as.conn.db.Exec(query,
		alert.ID, alert.UserID, alert.AnalysisID, string(alert.Category), string(alert.Severity),
		alert.Title, alert.Body, alert.WhatChanged, alert.NextStep, formatTime(alert.CreatedAt, as.conn.backend))
	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}
	return nil
}

// RecentCategories returns the set of categories already notified for this
// (user, analysis) since the given time. This backs the cooldown skip.
func (as *AlertStoreImpl) RecentCategories(userID, analysisID string, since time.Time) (map[schema.AlertCategory]struct{}, error) {
	categories := map[schema.AlertCategory]struct{}{}
	if as.conn.db == nil {
		return categories, nil
	}

	quotedTableName := quoteTableName(alertsTable, as.conn.backend)

	var query string
	switch as.conn.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT DISTINCT category FROM %s WHERE user_id = $1 AND analysis_id = $2 AND created_at >= $3`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`SELECT DISTINCT category FROM %s WHERE user_id = ? AND analysis_id = ? AND created_at >= ?`, quotedTableName)
	}

	rows, err := as.conn.db.Query(query, userID, analysisID, formatTime(since, as.conn.backend))
	if err != nil {
		return nil, fmt.Errorf("failed to query recent alert categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("failed to scan alert category: %w", err)
		}
		categories[schema.AlertCategory(category)] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alert categories: %w", err)
	}
	return categories, nil
}

// ListAlerts returns the alerts for a user, newest first. An empty analysisID
// lists across all of the user's analyses.
func (as *AlertStoreImpl) ListAlerts(userID, analysisID string) ([]schema.Alert, error) {
	if as.conn.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(alertsTable, as.conn.backend)

	var query string
	args := []any{userID}
	switch as.conn.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`%s WHERE user_id = $1`, alertSelectClause(quotedTableName))
		if analysisID != "" {
			query += ` AND analysis_id = $2`
			args = append(args, analysisID)
		}
	default: // SQLite and MySQL
		query = fmt.Sprintf(`%s WHERE user_id = ?`, alertSelectClause(quotedTableName))
		if analysisID != "" {
			query += ` AND analysis_id = ?`
			args = append(args, analysisID)
		}
	}
	query += ` ORDER BY created_at DESC`

	rows, err := as.conn.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return as.scanAlerts(rows)
}

// ListAllAlerts returns every stored alert, newest first. Used by export.
func (as *AlertStoreImpl) ListAllAlerts() ([]schema.Alert, error) {
	if as.conn.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(alertsTable, as.conn.backend)
	query := fmt.Sprintf(`%s ORDER BY created_at DESC`, alertSelectClause(quotedTableName))

	rows, err := as.conn.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return as.scanAlerts(rows)
}

// MarkRead stamps an alert as read.
func (as *AlertStoreImpl) MarkRead(alertID string, at time.Time) error {
	if as.conn.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(alertsTable, as.conn.backend)

	var query string
	switch as.conn.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`UPDATE %s SET read_at = $1 WHERE alert_id = $2 AND read_at IS NULL`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`UPDATE %s SET read_at = ? WHERE alert_id = ? AND read_at IS NULL`, quotedTableName)
	}

	result, err := as.conn.db.Exec(query, formatTime(at, as.conn.backend), alertID)
	if err != nil {
		return fmt.Errorf("failed to mark alert read: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("alert %s not found or already read", alertID)
	}
	return nil
}

// Close closes the underlying connection.
func (as *AlertStoreImpl) Close() error {
	return as.conn.close()
}

func alertSelectClause(quotedTableName string) string {
	return fmt.Sprintf(`SELECT alert_id, user_id, analysis_id, category, severity, title, body, what_changed, next_step, created_at, read_at FROM %s`, quotedTableName)
}

func (as *AlertStoreImpl) scanAlerts(rows *sql.Rows) ([]schema.Alert, error) {
	var results []schema.Alert
	for rows.Next() {
		var alert schema.Alert
		var category, severity string

		switch as.conn.backend {
		case schema.SQLiteBackend:
			var createdStr string
			var readStr *string
			if err := rows.Scan(&alert.ID, &alert.UserID, &alert.AnalysisID, &category, &severity,
				&alert.Title, &alert.Body, &alert.WhatChanged, &alert.NextStep, &createdStr, &readStr); err != nil {
				return nil, fmt.Errorf("failed to scan alert: %w", err)
			}
			created, err := parseStoredTime(createdStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse created_at: %w", err)
			}
			alert.CreatedAt = created
			if readStr != nil {
				read, err := parseStoredTime(*readStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse read_at: %w", err)
				}
				alert.ReadAt = &read
			}
		default: // MySQL and PostgreSQL store as native datetime
			if err := rows.Scan(&alert.ID, &alert.UserID, &alert.AnalysisID, &category, &severity,
				&alert.Title, &alert.Body, &alert.WhatChanged, &alert.NextStep, &alert.CreatedAt, &alert.ReadAt); err != nil {
				return nil, fmt.Errorf("failed to scan alert: %w", err)
			}
		}

		alert.Category = schema.AlertCategory(category)
		alert.Severity = schema.AlertSeverity(severity)
		results = append(results, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alerts: %w", err)
	}
	return results, nil
}
