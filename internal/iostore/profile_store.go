package iostore

import (
	"encoding/json"
	"fmt"

	"github.com/preflighthq/preflight/internal/contract"
	"github.com/preflighthq/preflight/schema"
)

// ProfileStoreImpl implements the ProfileStore interface.
type ProfileStoreImpl struct {
	conn *storeConn
}

var _ contract.ProfileStore = &ProfileStoreImpl{} // Compile-time check

// SaveProfile appends one profile snapshot. Snapshots are append-only; the
// newest row is "current" and the one before it is what a re-check diffs against.
func (ps *ProfileStoreImpl) SaveProfile(rec schema.ProfileRecord) error {
	if ps.conn.db == nil {
		return nil
	}

	stackJSON, err := json.Marshal(rec.Stack)
	if err != nil {
		return fmt.Errorf("failed to marshal stack profile: %w", err)
	}
	behaviorJSON, err := json.Marshal(rec.Behavior)
	if err != nil {
		return fmt.Errorf("failed to marshal behavior profile: %w", err)
	}

	quotedTableName := quoteTableName(profilesTable, ps.conn.backend)

	var query string
	switch ps.conn.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (analysis_id, user_id, captured_at, stack_json, behavior_json) VALUES ($1, $2, $3, $4, $5)`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`INSERT INTO %s (analysis_id, user_id, captured_at, stack_json, behavior_json) VALUES (?, ?, ?, ?, ?)`, quotedTableName)
	}

	_, err = ps.conn.db.Exec(query, rec.AnalysisID, rec.UserID, formatTime(rec.CapturedAt, ps.conn.backend), string(stackJSON), string(behaviorJSON))
	if err != nil {
		return fmt.Errorf("failed to insert profile snapshot: %w", err)
	}
	return nil
}

// LatestProfiles returns up to limit snapshots for the analysis, newest first.
func (ps *ProfileStoreImpl) LatestProfiles(analysisID string, limit int) ([]schema.ProfileRecord, error) {
	if ps.conn.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 1
	}

	quotedTableName := quoteTableName(profilesTable, ps.conn.backend)

	var query string
	switch ps.conn.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT analysis_id, user_id, captured_at, stack_json, behavior_json FROM %s WHERE analysis_id = $1 ORDER BY profile_id DESC LIMIT $2`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`SELECT analysis_id, user_id, captured_at, stack_json, behavior_json FROM %s WHERE analysis_id = ? ORDER BY profile_id DESC LIMIT ?`, quotedTableName)
	}

	rows, err := ps.conn.db.Query(query, analysisID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query profile snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ProfileRecord
	for rows.Next() {
		var rec schema.ProfileRecord
		var stackJSON, behaviorJSON string

		switch ps.conn.backend {
		case schema.SQLiteBackend:
			var capturedStr string
			if err := rows.Scan(&rec.AnalysisID, &rec.UserID, &capturedStr, &stackJSON, &behaviorJSON); err != nil {
				return nil, fmt.Errorf("failed to scan profile snapshot: %w", err)
			}
			captured, err := parseStoredTime(capturedStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse captured_at: %w", err)
			}
			rec.CapturedAt = captured
		default: // MySQL and PostgreSQL store as native datetime
			if err := rows.Scan(&rec.AnalysisID, &rec.UserID, &rec.CapturedAt, &stackJSON, &behaviorJSON); err != nil {
				return nil, fmt.Errorf("failed to scan profile snapshot: %w", err)
			}
		}

		if err := json.Unmarshal([]byte(stackJSON), &rec.Stack); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stack profile: %w", err)
		}
		if err := json.Unmarshal([]byte(behaviorJSON), &rec.Behavior); err != nil {
			return nil, fmt.Errorf("failed to unmarshal behavior profile: %w", err)
		}
		results = append(results, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profile snapshots: %w", err)
	}
	return results, nil
}

// Close closes the underlying connection.
func (ps *ProfileStoreImpl) Close() error {
	return ps.conn.close()
}
