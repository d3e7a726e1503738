// Package storage persists the task collection as a single JSON blob
// under one key in a local sqlite key-value table. The store is a
// best-effort mirror of the in-memory collection, never the source of
// truth: load falls back to empty, save failures are swallowed.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"agenda/internal/logger"
	"agenda/internal/task"
)

const tasksKey = "tasks"

type Store struct {
	db  *sql.DB
	log *zap.Logger
}

func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("data path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, log: logger.Named("storage")}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL
);`
	_, err := s.db.Exec(ddl)
	return err
}

// Load returns the persisted collection. A missing row, a read error
// or a decode error all degrade to an empty collection; the caller
// never sees a failure.
func (s *Store) Load() []task.Task {
	var blob []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?;`, tasksKey).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		s.log.Warn("load failed, starting empty", zap.Error(err))
		return nil
	}
	var tasks []task.Task
	if err := json.Unmarshal(blob, &tasks); err != nil {
		s.log.Warn("decode failed, starting empty", zap.Error(err))
		return nil
	}
	return tasks
}

// Save overwrites the persisted collection with the given snapshot.
// Best effort: on any failure the previous blob stays in place and the
// call is a no-op.
func (s *Store) Save(tasks []task.Task) {
	blob, err := json.Marshal(tasks)
	if err != nil {
		s.log.Error("encode failed, skipping save", zap.Error(err))
		return
	}
	_, err = s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value;`,
		tasksKey, blob,
	)
	if err != nil {
		s.log.Error("save failed", zap.Error(err))
	}
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
