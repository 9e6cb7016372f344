// Package store provides the persistent key-value medium backing iffidb.
// Each logical collection (records, audit log, session) lives under a single
// key as a JSON blob, so reads and writes are atomic at key granularity.
// The store also owns the change notifier that views subscribe to.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Storage keys for the three logical collections.
const (
	KeyRecords = "iffidb_records"
	KeyLogs    = "iffidb_logs"
	KeyUser    = "iffidb_user"
)

// Store wraps a single-file SQLite database as a durable key-value medium.
// Read-modify-write sequences against a collection go through Locked so two
// operations racing between read and write cannot lose an update.
type Store struct {
	db       *sql.DB
	mu       sync.Mutex
	logger   *zap.Logger
	notifier *Notifier
}

// Open initializes the SQLite database at the given path, creating the
// parent directory and schema as needed.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logger.Debug("Failed to set sqlite busy_timeout", zap.Error(err))
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logger.Debug("Failed to set sqlite journal_mode=WAL", zap.Error(err))
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		logger.Debug("Failed to set sqlite synchronous=NORMAL", zap.Error(err))
	}

	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger.Debug("Store opened", zap.String("path", path))
	return &Store{db: db, logger: logger, notifier: NewNotifier(logger)}, nil
}

// Notifier returns the change notifier owned by this store.
func (s *Store) Notifier() *Notifier {
	return s.notifier
}

// Read decodes the value stored under key into v. It reports false when the
// key is absent or the stored value is malformed; corrupt data is discarded,
// never surfaced as an error.
func (s *Store) Read(key string, v any) (bool, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		s.logger.Warn("Discarding corrupt stored value",
			zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}

// Write serializes v and stores it under key, replacing any prior value.
func (s *Store) Write(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode value for key %q: %w", key, err)
	}
	_, err = s.db.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, string(raw))
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// Delete removes the value stored under key, if any.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

// Locked runs fn while holding the store mutation lock. Callers wrap their
// read-modify-write sequences in Locked; single reads and writes do not
// need it. fn must not call Locked again.
func (s *Store) Locked(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.logger.Debug("Closing store database connection")
	return s.db.Close()
}
