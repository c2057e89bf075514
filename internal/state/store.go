package state

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (kv table only)
// 1 - Added sessions table
const currentSchemaVersion = 1

// Store provides durable storage for calculator state.
// Uses SQLite with WAL mode for concurrent read access.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations automatically.
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Store, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Session returns a Backend scoped to the named session.
func (s *Store) Session(name string) Backend {
	return &sessionBackend{store: s, session: name}
}

// SessionInfo describes a session known to the store.
type SessionInfo struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Keys      int       `json:"keys"`
}

// Sessions lists every session that has saved state, ordered by name.
func (s *Store) Sessions(ctx context.Context) ([]SessionInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.name, s.created_at, COUNT(kv.key)
		FROM sessions s
		LEFT JOIN kv ON kv.session = s.name
		GROUP BY s.name, s.created_at
		ORDER BY s.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []SessionInfo
	for rows.Next() {
		var (
			info    SessionInfo
			created int64
		)
		if err := rows.Scan(&info.Name, &created, &info.Keys); err != nil {
			return nil, fmt.Errorf("list sessions: scan: %w", err)
		}
		info.CreatedAt = time.UnixMilli(created).UTC()
		sessions = append(sessions, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// loadState reads the documents stored under keys for one session.
// Keys that were never saved are absent from the result.
func (s *Store) loadState(ctx context.Context, session string, keys []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	for _, key := range keys {
		var value string
		err := s.db.QueryRowContext(ctx, `
			SELECT value FROM kv WHERE session = ? AND key = ?
		`, session, key).Scan(&value)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load state %q: %w", key, err)
		}
		out[key] = []byte(value)
	}
	return out, nil
}

// saveState upserts every key in a single transaction.
func (s *Store) saveState(ctx context.Context, session string, values map[string][]byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save state: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	now := s.now().UnixMilli()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (name, created_at) VALUES (?, ?)
		ON CONFLICT(name) DO NOTHING
	`, session, now)
	if err != nil {
		return fmt.Errorf("save state: register session: %w", err)
	}

	for key, value := range values {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO kv (session, key, value, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(session, key) DO UPDATE SET
				value = excluded.value,
				updated_at = excluded.updated_at
		`, session, key, string(value), now)
		if err != nil {
			return fmt.Errorf("save state %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save state: commit: %w", err)
	}
	return nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
// This function is idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 adds the sessions table and backfills it from existing kv rows.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			name       TEXT    PRIMARY KEY,
			created_at INTEGER NOT NULL
		);
		INSERT OR IGNORE INTO sessions (name, created_at)
		SELECT session, MIN(updated_at) FROM kv GROUP BY session;
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
