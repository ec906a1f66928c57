package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/ppc-cli/internal/model"
)

// SQLiteStore keeps settings as a JSON blob in a key-value table.
type SQLiteStore struct {
	db       *sql.DB
	defaults model.Settings
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "settings: open sqlite")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "settings: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, defaults: model.DefaultSettings()}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

// Migrate creates the key-value table.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "settings: migrate")
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get returns the blob stored under key, or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "settings: get %s", key)
	}
	return []byte(value), nil
}

// Put upserts the blob stored under key.
func (s *SQLiteStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), time.Now().UTC(),
	)
	return eris.Wrapf(err, "settings: put %s", key)
}

// Delete removes key. Missing keys are not an error.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	return eris.Wrapf(err, "settings: delete %s", key)
}

// Load reads the settings blob over the defaults.
func (s *SQLiteStore) Load(ctx context.Context) (model.Settings, error) {
	out := s.defaults
	blob, err := s.Get(ctx, Key)
	if eris.Is(err, ErrNotFound) {
		return out, nil
	}
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(blob, &out); err != nil {
		return s.defaults, eris.Wrap(err, "settings: decode blob")
	}
	return out, nil
}

// Save stores the settings blob.
func (s *SQLiteStore) Save(ctx context.Context, st model.Settings) error {
	blob, err := json.Marshal(st)
	if err != nil {
		return eris.Wrap(err, "settings: encode blob")
	}
	return s.Put(ctx, Key, blob)
}

// Reset deletes the settings blob.
func (s *SQLiteStore) Reset(ctx context.Context) error {
	return s.Delete(ctx, Key)
}
