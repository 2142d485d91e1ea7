package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"sched/internal/calendar"
	appLog "sched/internal/log"
)

// SQLiteStore snapshots the same JSON document into a single-row table.
// It exists for users who prefer one database file to a loose document;
// the calendar semantics are identical to FileStore.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		path = DefaultSQLitePath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &StorageError{Op: "mkdir", Path: path, Err: err}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StorageError{Op: "open", Path: path, Err: err}
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS calendar (
		slot INTEGER PRIMARY KEY CHECK (slot = 1),
		document BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, &StorageError{Op: "create table", Path: path, Err: err}
	}
	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) Load(ctx context.Context) (*calendar.Calendar, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT document FROM calendar WHERE slot = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		if err := s.put(ctx, emptyDocument()); err != nil {
			return nil, err
		}
		appLog.Info("created empty calendar", "path", s.path, "backend", "sqlite")
		return calendar.New(), nil
	}
	if err != nil {
		return nil, &StorageError{Op: "select", Path: s.path, Err: err}
	}

	cal, err := decodeDocument(data)
	if err != nil {
		return nil, &DecodeError{Path: s.path, Err: err}
	}
	appLog.Debug("calendar loaded", "path", s.path, "backend", "sqlite", "count", cal.Len())
	return cal, nil
}

func (s *SQLiteStore) Save(ctx context.Context, cal *calendar.Calendar) error {
	data, err := encodeDocument(cal)
	if err != nil {
		return &StorageError{Op: "encode", Path: s.path, Err: err}
	}
	if err := s.put(ctx, data); err != nil {
		return err
	}
	appLog.Debug("calendar saved", "path", s.path, "backend", "sqlite", "count", cal.Len())
	return nil
}

func (s *SQLiteStore) put(ctx context.Context, data []byte) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO calendar(slot, document) VALUES(1, ?) ON CONFLICT(slot) DO UPDATE SET document = excluded.document`,
		data); err != nil {
		return &StorageError{Op: "upsert", Path: s.path, Err: err}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB exposes the handle for tests.
func (s *SQLiteStore) DB() *sql.DB { return s.db }
