// Package database opens the local SQLite store that sits next to the
// vscale config file, and applies per-component schema migrations to it.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"thebits/vscale/internal/config"

	_ "modernc.org/sqlite"
)

const dbFile = "vscale.db"

var pathOverride string

// SetPath overrides the default database path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override. Intended for testing.
func ResetPath() { pathOverride = "" }

// DefaultPath returns the database path: vscale.db in the directory holding
// the config file.
func DefaultPath() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	cfgPath, err := config.Path()
	if err != nil {
		return "", fmt.Errorf("database: %w", err)
	}
	return filepath.Join(filepath.Dir(cfgPath), dbFile), nil
}

// Open opens the SQLite database at path, creating its directory. Writers
// wait on a locked database instead of failing, since several vscale
// processes may record audit entries at once.
func Open(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("database: failed to create directory %s: %w", dir, err)
	}

	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("database: failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database: failed to open %s: %w", path, err)
	}
	return db, nil
}

// Migrate brings the schema owned by component up to date. steps[i] is the
// SQL for version i+1; steps already applied are skipped, and each new step
// runs in its own transaction together with the version bump.
func Migrate(db *sql.DB, component string, steps []string) error {
	const ddl = `CREATE TABLE IF NOT EXISTS schema_version (
        component TEXT PRIMARY KEY,
        version   INTEGER NOT NULL
    )`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("database: failed to create schema_version: %w", err)
	}

	current, err := SchemaVersion(db, component)
	if err != nil {
		return err
	}

	for i := current; i < len(steps); i++ {
		version := i + 1
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("database: %s migration %d: %w", component, version, err)
		}
		if _, err := tx.Exec(steps[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("database: %s migration %d failed: %w", component, version, err)
		}
		_, err = tx.Exec(`INSERT INTO schema_version (component, version) VALUES (?, ?)
            ON CONFLICT(component) DO UPDATE SET version = excluded.version`, component, version)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("database: %s migration %d: %w", component, version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("database: %s migration %d: %w", component, version, err)
		}
	}
	return nil
}

// SchemaVersion returns the last migration applied for component, or 0.
func SchemaVersion(db *sql.DB, component string) (int, error) {
	var version int
	err := db.QueryRow(`SELECT version FROM schema_version WHERE component = ?`, component).Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("database: failed to read %s schema version: %w", component, err)
	}
	return version, nil
}
