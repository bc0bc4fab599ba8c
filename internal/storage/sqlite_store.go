package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/lockinhq/lockin/internal/logger"
	"github.com/lockinhq/lockin/internal/models"
)

const sqliteSchemaVersion = 1

// SQLiteStore keeps the document as a single row in a SQLite database. The
// row-per-document shape mirrors the remote store, which makes it the better
// provider when the same file is shared with other tooling.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("create config directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, p := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemoryStore creates an in-memory store for testing.
func NewMemoryStore() (*SQLiteStore, error) {
	return NewSQLiteStore(":memory:")
}

func (s *SQLiteStore) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	if version >= sqliteSchemaVersion {
		return nil
	}

	const ddl = `
	CREATE TABLE IF NOT EXISTS document (
		id         INTEGER PRIMARY KEY CHECK (id = 1),
		doc        TEXT NOT NULL,
		updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);
	`
	if _, err := s.db.Exec(ddl); err != nil {
		return err
	}

	_, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", sqliteSchemaVersion))
	return err
}

func (s *SQLiteStore) Load() (models.AppState, error) {
	var doc string
	err := s.db.QueryRow("SELECT doc FROM document WHERE id = 1").Scan(&doc)
	if err == sql.ErrNoRows {
		return models.AppState{}, ErrNotFound
	}
	if err != nil {
		return models.AppState{}, fmt.Errorf("load document: %w", err)
	}

	var state models.AppState
	if err := json.Unmarshal([]byte(doc), &state); err != nil {
		logger.Error("Stored document is malformed, callers will fall back to defaults", "error", err)
		return models.AppState{}, fmt.Errorf("failed to parse storage: %w", err)
	}
	return withCollections(state), nil
}

func (s *SQLiteStore) Save(state models.AppState) error {
	doc, err := json.Marshal(withCollections(state))
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO document (id, doc, updated_at)
		VALUES (1, ?, strftime('%Y-%m-%dT%H:%M:%SZ','now'))
		ON CONFLICT (id) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		string(doc),
	)
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
