package auditlog

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"thebits/vscale/internal/database"
)

// timeLayout stores UTC timestamps at fixed width so that text order in
// SQLite matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// schemaComponent names the audit log's migrations in the shared database.
const schemaComponent = "auditlog"

// migrations are applied in order by database.Migrate.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS audit_log (
        id            INTEGER PRIMARY KEY AUTOINCREMENT,
        timestamp     TEXT    NOT NULL,
        command       TEXT    NOT NULL,
        args          TEXT    NOT NULL DEFAULT '',
        provider      TEXT    NOT NULL DEFAULT '',
        resource_type TEXT    NOT NULL DEFAULT '',
        resource_id   TEXT    NOT NULL DEFAULT '',
        resource_name TEXT    NOT NULL DEFAULT '',
        outcome       TEXT    NOT NULL DEFAULT '',
        detail        TEXT    NOT NULL DEFAULT '',
        duration_ms   INTEGER NOT NULL DEFAULT 0
    );
    CREATE INDEX IF NOT EXISTS idx_audit_log_timestamp ON audit_log(timestamp);
    CREATE INDEX IF NOT EXISTS idx_audit_log_resource ON audit_log(resource_type, resource_id);`,

	`ALTER TABLE audit_log ADD COLUMN zone TEXT NOT NULL DEFAULT '';
    ALTER TABLE audit_log ADD COLUMN error_code TEXT NOT NULL DEFAULT '';
    CREATE INDEX IF NOT EXISTS idx_audit_log_zone ON audit_log(zone);
    CREATE INDEX IF NOT EXISTS idx_audit_log_error_code ON audit_log(error_code);`,
}

const selectColumns = `SELECT id, timestamp, command, args, provider, resource_type, resource_id,
        resource_name, zone, outcome, detail, error_code, duration_ms FROM audit_log`

// Filter selects audit entries. Empty fields match everything; a
// non-positive Limit returns all matches.
type Filter struct {
	Command      string
	Provider     string
	ResourceType string
	ResourceID   string
	Zone         string
	Outcome      string
	ErrorCode    string
	Since        time.Time
	Limit        int
}

func (f Filter) where() (string, []any) {
	var clauses []string
	var args []any
	eq := func(column, value string) {
		if value != "" {
			clauses = append(clauses, column+" = ?")
			args = append(args, value)
		}
	}
	eq("command", f.Command)
	eq("provider", f.Provider)
	eq("resource_type", f.ResourceType)
	eq("resource_id", f.ResourceID)
	eq("zone", f.Zone)
	eq("outcome", f.Outcome)
	eq("error_code", f.ErrorCode)
	if !f.Since.IsZero() {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, f.Since.UTC().Format(timeLayout))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// Repository defines the persistence interface for audit entries.
type Repository interface {
	Save(entry *AuditEntry) error
	Query(filter Filter) ([]AuditEntry, error)
	Prune(olderThan time.Duration) (int64, error)
	Close() error
}

// SQLiteRepository implements Repository backed by the local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// Open creates or opens the audit repository at the default path.
func Open() (*SQLiteRepository, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("auditlog: %w", err)
	}
	return OpenAt(path)
}

// OpenAt creates or opens the audit repository at path and migrates it.
func OpenAt(path string) (*SQLiteRepository, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("auditlog: %w", err)
	}
	if err := database.Migrate(db, schemaComponent, migrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("auditlog: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// Save inserts entry and sets its ID.
func (r *SQLiteRepository) Save(entry *AuditEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	result, err := r.db.Exec(`
        INSERT INTO audit_log (timestamp, command, args, provider, resource_type, resource_id,
            resource_name, zone, outcome, detail, error_code, duration_ms)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Timestamp.UTC().Format(timeLayout), entry.Command, entry.Args, entry.Provider,
		entry.ResourceType, entry.ResourceID, entry.ResourceName, entry.Zone,
		entry.Outcome, entry.Detail, entry.ErrorCode, entry.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("auditlog: insert failed: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("auditlog: failed to get last insert ID: %w", err)
	}
	entry.ID = id
	return nil
}

// Query returns the entries matching filter, newest first.
func (r *SQLiteRepository) Query(filter Filter) ([]AuditEntry, error) {
	where, args := filter.where()
	query := selectColumns + where + " ORDER BY timestamp DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("auditlog: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// Prune deletes entries older than the given duration.
func (r *SQLiteRepository) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Format(timeLayout)
	result, err := r.db.Exec(`DELETE FROM audit_log WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("auditlog: delete failed: %w", err)
	}
	return result.RowsAffected()
}

// Close releases database resources.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func scanRows(rows *sql.Rows) ([]AuditEntry, error) {
	var entries []AuditEntry
	for rows.Next() {
		var entry AuditEntry
		var ts string
		err := rows.Scan(
			&entry.ID, &ts, &entry.Command, &entry.Args, &entry.Provider,
			&entry.ResourceType, &entry.ResourceID, &entry.ResourceName, &entry.Zone,
			&entry.Outcome, &entry.Detail, &entry.ErrorCode, &entry.DurationMs,
		)
		if err != nil {
			return nil, fmt.Errorf("auditlog: scan failed: %w", err)
		}
		entry.Timestamp, err = time.Parse(timeLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("auditlog: entry %d has bad timestamp %q: %w", entry.ID, ts, err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
