package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"sched/internal/calendar"
	appLog "sched/internal/log"
)

// FileStore keeps the calendar as a single JSON document on disk.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultJSONPath
	}
	return &FileStore{path: path}
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(_ context.Context) (*calendar.Calendar, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: materialize an empty document.
			cal := calendar.New()
			if err := s.write(emptyDocument()); err != nil {
				return nil, err
			}
			appLog.Info("created empty calendar", "path", s.path)
			return cal, nil
		}
		return nil, &StorageError{Op: "read", Path: s.path, Err: err}
	}

	cal, err := decodeDocument(data)
	if err != nil {
		return nil, &DecodeError{Path: s.path, Err: err}
	}
	appLog.Debug("calendar loaded", "path", s.path, "count", cal.Len(), "next_id", cal.NextID())
	return cal, nil
}

func (s *FileStore) Save(_ context.Context, cal *calendar.Calendar) error {
	data, err := encodeDocument(cal)
	if err != nil {
		return &StorageError{Op: "encode", Path: s.path, Err: err}
	}
	if err := s.write(data); err != nil {
		return err
	}
	appLog.Debug("calendar saved", "path", s.path, "count", cal.Len())
	return nil
}

func (s *FileStore) Close() error { return nil }

// write replaces the document atomically via a temp file in the same
// directory and a rename.
func (s *FileStore) write(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &StorageError{Op: "mkdir", Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".sched-*.tmp")
	if err != nil {
		return &StorageError{Op: "create temp", Path: s.path, Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return &StorageError{Op: "sync", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &StorageError{Op: "close", Path: s.path, Err: err}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return &StorageError{Op: "chmod", Path: s.path, Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return &StorageError{Op: "rename", Path: s.path, Err: err}
	}
	return nil
}
