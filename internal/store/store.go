// Package store loads and saves the calendar document. Each command opens
// a Store, loads once, and saves at most once.
//
// There is no locking between processes: two commands racing on the same
// file can lose an update. Writes replace the document atomically, so a
// reader never observes a torn file.
package store

import (
	"context"
	"errors"
	"fmt"

	"sched/internal/calendar"
	"sched/internal/config"
)

// Store is the persistence gateway for a single calendar document.
type Store interface {
	// Load returns the stored calendar. A missing document is created empty
	// and returned as an empty calendar.
	Load(ctx context.Context) (*calendar.Calendar, error)
	// Save replaces the stored document with cal.
	Save(ctx context.Context, cal *calendar.Calendar) error
	// Path is the resolved location of the document, after defaults.
	Path() string
	Close() error
}

// Default document locations, relative to the working directory, used when
// no path is configured.
const (
	DefaultJSONPath   = "schedule.json"
	DefaultSQLitePath = "schedule.db"
)

var (
	ErrStorage = errors.New("storage error")
	ErrDecode  = errors.New("decode error")
)

// StorageError wraps an I/O failure on the underlying store.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// DecodeError reports a stored document that does not have the expected
// shape. No partial recovery is attempted.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// Open returns the backend selected by cfg.
func Open(cfg config.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendJSON, "":
		return NewFileStore(cfg.Path), nil
	case config.BackendSQLite:
		s, err := NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
