package model

import "time"

// Appointment is a single scheduled interval. Values are immutable once
// created; the only way to change one is to delete it and add another.
type Appointment struct {
	// ID is assigned by the calendar at creation time and never reused.
	ID uint64

	Subject string

	// Start / End are naive wall-clock times carried in time.UTC.
	Start time.Time
	End   time.Time
}

// New builds an Appointment without validating it. Interval checks belong
// to the calendar.
func New(id uint64, subject string, start, end time.Time) Appointment {
	return Appointment{
		ID:      id,
		Subject: subject,
		Start:   start,
		End:     end,
	}
}

// Intersects reports whether the two half-open intervals [Start, End)
// overlap. An appointment ending exactly when the other starts does not
// intersect it.
func (a Appointment) Intersects(other Appointment) bool {
	return a.Start.Before(other.End) && other.Start.Before(a.End)
}

func (a Appointment) Duration() time.Duration {
	return a.End.Sub(a.Start)
}
