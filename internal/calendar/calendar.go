// Package calendar owns the ordered collection of appointments and keeps it
// free of overlaps and duplicate ids.
package calendar

import (
	"math"
	"slices"
	"time"

	appLog "sched/internal/log"
	"sched/internal/model"
)

// Calendar is an ordered set of non-overlapping appointments. The zero
// value is not usable; construct with New or Restore.
type Calendar struct {
	schedules []model.Appointment

	// nextID is the id the next Add assigns. It only grows, so ids freed
	// by Delete are never handed out again.
	nextID uint64
}

func New() *Calendar {
	return &Calendar{schedules: []model.Appointment{}}
}

// Restore rebuilds a calendar from decoded storage. nextID is raised to at
// least one past the highest stored id, which covers documents written
// before the counter was persisted.
func Restore(apps []model.Appointment, nextID uint64) (*Calendar, error) {
	seen := make(map[uint64]struct{}, len(apps))
	if n := uint64(len(apps)); nextID < n {
		nextID = n
	}
	for _, a := range apps {
		if a.ID == math.MaxUint64 {
			return nil, &IDOverflowError{ID: a.ID}
		}
		if _, dup := seen[a.ID]; dup {
			return nil, &DuplicateIDError{ID: a.ID}
		}
		seen[a.ID] = struct{}{}
		if a.ID >= nextID {
			nextID = a.ID + 1
		}
	}
	schedules := make([]model.Appointment, len(apps))
	copy(schedules, apps)
	return &Calendar{schedules: schedules, nextID: nextID}, nil
}

// List returns a copy of the appointments in insertion order.
func (c *Calendar) List() []model.Appointment {
	return slices.Clone(c.schedules)
}

func (c *Calendar) Len() int { return len(c.schedules) }

func (c *Calendar) NextID() uint64 { return c.nextID }

// Add validates and appends a new appointment. On any error the calendar
// is left untouched.
func (c *Calendar) Add(subject string, start, end time.Time) (model.Appointment, error) {
	if !start.Before(end) {
		return model.Appointment{}, &InvalidIntervalError{Start: start, End: end}
	}

	// MaxUint64 is never assigned so the counter cannot wrap onto a used id.
	if c.nextID == math.MaxUint64 {
		return model.Appointment{}, &IDOverflowError{ID: c.nextID}
	}

	candidate := model.New(c.nextID, subject, start, end)
	for _, existing := range c.schedules {
		if existing.Intersects(candidate) {
			appLog.Debug("schedule conflict", "candidate", candidate.Subject, "existing_id", existing.ID)
			return model.Appointment{}, &ConflictError{Candidate: candidate, Existing: existing}
		}
	}

	c.schedules = append(c.schedules, candidate)
	c.nextID++
	return candidate, nil
}

// Delete removes the first appointment with the given id, keeping the order
// of the rest.
func (c *Calendar) Delete(id uint64) error {
	i := slices.IndexFunc(c.schedules, func(a model.Appointment) bool { return a.ID == id })
	if i < 0 {
		return &NotFoundError{ID: id}
	}
	c.schedules = slices.Delete(c.schedules, i, i+1)
	return nil
}
