package iostore

import (
	"fmt"

	"github.com/preflighthq/preflight/schema"
)

// catalogSeed is the read-only content catalog. The judgment engine embeds
// its own rule-to-template mapping and never reads these rows; the catalog
// exists so future localization or content editing has a home in the data
// layer rather than in code.
var catalogSeed = []schema.CatalogEntry{
	{Kind: "risk", Key: "db_contention", Title: "Database contention", Body: "The app writes to its database a lot, and the database handles one write at a time."},
	{Kind: "risk", Key: "cost_explosion", Title: "Surprise hosting bill", Body: "Pay-per-use hosting can invert from cheap to expensive under sustained traffic."},
	{Kind: "risk", Key: "dependency_risk", Title: "Outside services can break things", Body: "Every extra outside package or service is another place a failure can come from."},
	{Kind: "risk", Key: "jobs_block_requests", Title: "Background work slows the app", Body: "Scheduled work in the serving process competes with visitors for resources."},
	{Kind: "risk", Key: "scaling_risk", Title: "Hard to add a second server", Body: "In-memory state stops working the moment the app runs on more than one machine."},
	{Kind: "platform", Key: "render", Title: "Render", Body: "Low-ceremony generalist hosting that grows with the app."},
	{Kind: "platform", Key: "vercel", Title: "Vercel", Body: "Frontend and serverless oriented hosting with instant deploys."},
	{Kind: "platform", Key: "railway", Title: "Railway", Body: "Full-stack hosting with one-click managed databases."},
	{Kind: "platform", Key: "fly", Title: "Fly.io", Body: "Full machines with global distribution; friendly to stateful apps."},
	{Kind: "next_step", Key: "do_nothing", Title: "You're good, do nothing", Body: "Nothing needs attention right now."},
	{Kind: "next_step", Key: "watch_one_thing", Title: "Watch one thing", Body: "One area is worth a periodic glance; no action needed yet."},
	{Kind: "next_step", Key: "small_upgrade", Title: "One small upgrade", Body: "One contained change now prevents a painful one later."},
}

// seedCatalog inserts the catalog rows, skipping any that already exist.
func seedCatalog(conn *storeConn) error {
	if conn.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(catalogTable, conn.backend)

	var query string
	switch conn.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (kind, entry_key, title, body) VALUES ($1, $2, $3, $4) ON CONFLICT (kind, entry_key) DO NOTHING`, quotedTableName)
	case schema.MySQLBackend:
		query = fmt.Sprintf(`INSERT IGNORE INTO %s (kind, entry_key, title, body) VALUES (?, ?, ?, ?)`, quotedTableName)
	default: // SQLite
		query = fmt.Sprintf(`INSERT OR IGNORE INTO %s (kind, entry_key, title, body) VALUES (?, ?, ?, ?)`, quotedTableName)
	}

	for _, entry := range catalogSeed {
		if _, err := conn.db.Exec(query, entry.Kind, entry.Key, entry.Title, entry.Body); err != nil {
			return fmt.Errorf("failed to seed catalog entry %s/%s: %w", entry.Kind, entry.Key, err)
		}
	}
	return nil
}

// ListCatalog returns all catalog entries ordered by kind then key.
// Requires InitStores to have been called with a real backend.
func ListCatalog() ([]schema.CatalogEntry, error) {
	conn := globalConn()
	if conn == nil || conn.db == nil {
		return nil, fmt.Errorf("history persistence is disabled; no catalog available")
	}

	quotedTableName := quoteTableName(catalogTable, conn.backend)
	query := fmt.Sprintf(`SELECT kind, entry_key, title, body FROM %s ORDER BY kind, entry_key`, quotedTableName)

	rows, err := conn.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.CatalogEntry
	for rows.Next() {
		var entry schema.CatalogEntry
		if err := rows.Scan(&entry.Kind, &entry.Key, &entry.Title, &entry.Body); err != nil {
			return nil, fmt.Errorf("failed to scan catalog entry: %w", err)
		}
		results = append(results, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catalog: %w", err)
	}
	return results, nil
}
