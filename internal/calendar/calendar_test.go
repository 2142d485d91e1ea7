package calendar

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"sched/internal/model"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 1, 1, hour, minute, 0, 0, time.UTC)
}

func mustAdd(t *testing.T, c *Calendar, subject string, start, end time.Time) model.Appointment {
	t.Helper()
	a, err := c.Add(subject, start, end)
	if err != nil {
		t.Fatalf("add %q: %v", subject, err)
	}
	return a
}

func threeAppointments() []model.Appointment {
	return []model.Appointment{
		model.New(0, "existing", at(18, 15), at(19, 15)),
		model.New(1, "existing", at(19, 45), at(20, 45)),
		model.New(2, "existing", at(20, 15), at(21, 15)),
	}
}

func TestAddAssignsSequentialIDs(t *testing.T) {
	c := New()
	first := mustAdd(t, c, "breakfast", at(8, 0), at(9, 0))
	second := mustAdd(t, c, "standup", at(9, 0), at(9, 15))

	if first.ID != 0 || second.ID != 1 {
		t.Fatalf("ids = %d, %d; want 0, 1", first.ID, second.ID)
	}
	got := c.List()
	if len(got) != 2 || got[0] != first || got[1] != second {
		t.Fatalf("list = %+v", got)
	}
	if c.NextID() != 2 {
		t.Fatalf("next id = %d, want 2", c.NextID())
	}
}

func TestAddBackToBackDoesNotConflict(t *testing.T) {
	c := New()
	mustAdd(t, c, "a", at(18, 0), at(19, 0))
	mustAdd(t, c, "b", at(19, 0), at(20, 0))
	if c.Len() != 2 {
		t.Fatalf("len = %d, want 2", c.Len())
	}
}

func TestAddRejectsSingleConflictWithoutPartialInsert(t *testing.T) {
	c := New()
	a := mustAdd(t, c, "a", at(8, 0), at(9, 0))
	b := mustAdd(t, c, "b", at(19, 0), at(20, 0))
	before := c.List()

	_, err := c.Add("c", at(18, 15), at(19, 15))
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected *ConflictError, got %T", err)
	}
	if conflict.Existing != b {
		t.Fatalf("conflict existing = %+v, want %+v", conflict.Existing, b)
	}
	if conflict.Candidate.Subject != "c" {
		t.Fatalf("conflict candidate = %+v", conflict.Candidate)
	}
	if !reflect.DeepEqual(c.List(), before) || c.List()[0] != a {
		t.Fatalf("calendar mutated by rejected add: %+v", c.List())
	}
	if c.NextID() != 2 {
		t.Fatalf("rejected add consumed an id: next = %d", c.NextID())
	}
}

func TestAddContainmentConflicts(t *testing.T) {
	c := New()
	mustAdd(t, c, "outer", at(18, 30), at(20, 15))
	if _, err := c.Add("inner", at(19, 0), at(20, 0)); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict for contained interval, got %v", err)
	}
}

func TestAddRejectsInvalidInterval(t *testing.T) {
	cases := []struct {
		name       string
		start, end time.Time
	}{
		{name: "end before start", start: at(10, 0), end: at(9, 0)},
		{name: "zero length", start: at(10, 0), end: at(10, 0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := New()
			_, err := c.Add("bad", tc.start, tc.end)
			if !errors.Is(err, ErrInvalidInterval) {
				t.Fatalf("expected invalid interval, got %v", err)
			}
			var ie *InvalidIntervalError
			if !errors.As(err, &ie) || !ie.Start.Equal(tc.start) || !ie.End.Equal(tc.end) {
				t.Fatalf("unexpected error payload: %#v", err)
			}
			if c.Len() != 0 || c.NextID() != 0 {
				t.Fatalf("calendar mutated: len=%d next=%d", c.Len(), c.NextID())
			}
		})
	}
}

func TestAddAllowsEmptySubject(t *testing.T) {
	c := New()
	if _, err := c.Add("", at(10, 0), at(11, 0)); err != nil {
		t.Fatalf("empty subject: %v", err)
	}
}

func TestDeletePreservesOrder(t *testing.T) {
	c, err := Restore(threeAppointments(), 3)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	all := threeAppointments()

	steps := []struct {
		id   uint64
		want []model.Appointment
	}{
		{id: 0, want: all[1:]},
		{id: 1, want: all[2:]},
		{id: 2, want: []model.Appointment{}},
	}
	for _, step := range steps {
		if err := c.Delete(step.id); err != nil {
			t.Fatalf("delete %d: %v", step.id, err)
		}
		if got := c.List(); !reflect.DeepEqual(got, step.want) {
			t.Fatalf("after delete %d: got %+v, want %+v", step.id, got, step.want)
		}
	}
}

func TestDeleteMissingLeavesCalendarUnchanged(t *testing.T) {
	c, err := Restore(threeAppointments(), 3)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	before := c.List()

	err = c.Delete(42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.ID != 42 {
		t.Fatalf("unexpected error payload: %#v", err)
	}
	if !reflect.DeepEqual(c.List(), before) {
		t.Fatalf("calendar mutated by failed delete")
	}
}

func TestDeletedIDIsNotReused(t *testing.T) {
	c := New()
	mustAdd(t, c, "a", at(8, 0), at(9, 0))
	mustAdd(t, c, "b", at(9, 0), at(10, 0))
	mustAdd(t, c, "c", at(10, 0), at(11, 0))

	if err := c.Delete(1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	added := mustAdd(t, c, "d", at(12, 0), at(13, 0))
	if added.ID != 3 {
		t.Fatalf("new id = %d, want 3 (ids must not be reused)", added.ID)
	}

	ids := map[uint64]bool{}
	for _, a := range c.List() {
		if ids[a.ID] {
			t.Fatalf("duplicate id %d", a.ID)
		}
		ids[a.ID] = true
	}
}

func TestListIsIdempotentAndDetached(t *testing.T) {
	c, err := Restore(threeAppointments(), 3)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	first := c.List()
	second := c.List()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("list not idempotent")
	}
	first[0].Subject = "mutated"
	if c.List()[0].Subject != "existing" {
		t.Fatalf("List must return a copy")
	}
}

func TestRestore(t *testing.T) {
	t.Run("derives next id from stored ids", func(t *testing.T) {
		apps := []model.Appointment{
			model.New(0, "a", at(8, 0), at(9, 0)),
			model.New(5, "b", at(9, 0), at(10, 0)),
		}
		c, err := Restore(apps, 0)
		if err != nil {
			t.Fatalf("restore: %v", err)
		}
		if c.NextID() != 6 {
			t.Fatalf("next id = %d, want 6", c.NextID())
		}
	})

	t.Run("keeps larger persisted counter", func(t *testing.T) {
		c, err := Restore(threeAppointments(), 10)
		if err != nil {
			t.Fatalf("restore: %v", err)
		}
		if c.NextID() != 10 {
			t.Fatalf("next id = %d, want 10", c.NextID())
		}
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		apps := []model.Appointment{
			model.New(2, "a", at(8, 0), at(9, 0)),
			model.New(2, "b", at(9, 0), at(10, 0)),
		}
		_, err := Restore(apps, 0)
		var dup *DuplicateIDError
		if !errors.As(err, &dup) || dup.ID != 2 {
			t.Fatalf("expected duplicate id 2, got %v", err)
		}
		if !errors.Is(err, ErrDuplicateID) {
			t.Fatalf("errors.Is(ErrDuplicateID) = false")
		}
	})

	t.Run("empty", func(t *testing.T) {
		c, err := Restore(nil, 0)
		if err != nil {
			t.Fatalf("restore: %v", err)
		}
		if got := c.List(); got == nil || len(got) != 0 {
			t.Fatalf("expected empty non-nil list, got %#v", got)
		}
	})
}

func TestRestoreRejectsMaxID(t *testing.T) {
	apps := []model.Appointment{
		model.New(0, "a", at(8, 0), at(9, 0)),
		model.New(math.MaxUint64, "b", at(9, 0), at(10, 0)),
	}
	c, err := Restore(apps, 0)
	if !errors.Is(err, ErrIDOverflow) {
		t.Fatalf("expected id overflow, got %v", err)
	}
	var oe *IDOverflowError
	if !errors.As(err, &oe) || oe.ID != math.MaxUint64 {
		t.Fatalf("unexpected error payload: %#v", err)
	}
	if c != nil {
		t.Fatalf("expected no calendar on error")
	}
}

func TestAddStopsAtExhaustedCounter(t *testing.T) {
	c, err := Restore([]model.Appointment{model.New(0, "a", at(8, 0), at(9, 0))}, math.MaxUint64-1)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}

	last := mustAdd(t, c, "b", at(9, 0), at(10, 0))
	if last.ID != math.MaxUint64-1 {
		t.Fatalf("id = %d, want MaxUint64-1", last.ID)
	}
	before := c.List()

	_, err = c.Add("c", at(11, 0), at(12, 0))
	if !errors.Is(err, ErrIDOverflow) {
		t.Fatalf("expected id overflow, got %v", err)
	}
	if !reflect.DeepEqual(c.List(), before) || c.NextID() != math.MaxUint64 {
		t.Fatalf("calendar mutated: len=%d next=%d", c.Len(), c.NextID())
	}
	for _, a := range c.List() {
		if a.ID == 0 && a.Subject != "a" {
			t.Fatalf("id 0 was reassigned to %q", a.Subject)
		}
	}
}

func TestErrorMessages(t *testing.T) {
	existing := model.New(3, "dinner", at(19, 0), at(20, 0))
	cases := []struct {
		err  error
		want string
	}{
		{err: &ConflictError{Existing: existing}, want: `schedule conflicts with 3 "dinner" (2024-01-01 19:00:00 - 2024-01-01 20:00:00)`},
		{err: &NotFoundError{ID: 9}, want: "schedule not found (id: 9)"},
		{err: &InvalidIntervalError{Start: at(10, 0), End: at(9, 0)}, want: "schedule end 2024-01-01 09:00:00 must be after start 2024-01-01 10:00:00"},
		{err: &DuplicateIDError{ID: 4}, want: "duplicate schedule id 4"},
		{err: &IDOverflowError{ID: math.MaxUint64}, want: "schedule id 18446744073709551615 is out of range"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("Error() = %q, want %q", got, tc.want)
		}
	}
}
