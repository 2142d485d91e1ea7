package calendar

import (
	"errors"
	"fmt"
	"time"

	"sched/internal/model"
)

// Sentinels for errors.Is; the typed errors below carry the details and
// are retrieved with errors.As.
var (
	ErrConflict        = errors.New("schedule conflict")
	ErrNotFound        = errors.New("schedule not found")
	ErrInvalidInterval = errors.New("invalid schedule interval")
	ErrDuplicateID     = errors.New("duplicate schedule id")
	ErrIDOverflow      = errors.New("schedule id out of range")
)

// ConflictError is returned by Add when the candidate overlaps an existing
// appointment.
type ConflictError struct {
	Candidate model.Appointment
	Existing  model.Appointment
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("schedule conflicts with %d %q (%s - %s)",
		e.Existing.ID, e.Existing.Subject,
		model.FormatDisplay(e.Existing.Start), model.FormatDisplay(e.Existing.End))
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// NotFoundError is returned by Delete when no appointment has the id.
type NotFoundError struct {
	ID uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("schedule not found (id: %d)", e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InvalidIntervalError is returned by Add when end does not come after start.
type InvalidIntervalError struct {
	Start, End time.Time
}

func (e *InvalidIntervalError) Error() string {
	return fmt.Sprintf("schedule end %s must be after start %s",
		model.FormatDisplay(e.End), model.FormatDisplay(e.Start))
}

func (e *InvalidIntervalError) Is(target error) bool { return target == ErrInvalidInterval }

// DuplicateIDError is returned by Restore when two stored appointments
// share an id.
type DuplicateIDError struct {
	ID uint64
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate schedule id %d", e.ID)
}

func (e *DuplicateIDError) Is(target error) bool { return target == ErrDuplicateID }

// IDOverflowError is returned by Restore for a stored id of MaxUint64 and
// by Add once the id counter has reached it.
type IDOverflowError struct {
	ID uint64
}

func (e *IDOverflowError) Error() string {
	return fmt.Sprintf("schedule id %d is out of range", e.ID)
}

func (e *IDOverflowError) Is(target error) bool { return target == ErrIDOverflow }
