package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"sched/internal/calendar"
	"sched/internal/model"
)

// document is the on-disk shape:
//
//	{"next_id": 3, "schedules": [{"id": 0, "subject": "...", "start": "2024-01-01T19:00:00", "end": "..."}]}
//
// next_id is optional on read so older documents still load.
type document struct {
	NextID    *uint64           `json:"next_id,omitempty"`
	Schedules *[]appointmentDTO `json:"schedules"`
}

// appointmentDTO uses pointers so missing fields can be told apart from
// zero values.
type appointmentDTO struct {
	ID      *uint64 `json:"id"`
	Subject *string `json:"subject"`
	Start   *string `json:"start"`
	End     *string `json:"end"`
}

func encodeDocument(cal *calendar.Calendar) ([]byte, error) {
	apps := cal.List()
	dtos := make([]appointmentDTO, 0, len(apps))
	for _, a := range apps {
		id, subject := a.ID, a.Subject
		start, end := model.FormatStored(a.Start), model.FormatStored(a.End)
		dtos = append(dtos, appointmentDTO{ID: &id, Subject: &subject, Start: &start, End: &end})
	}
	next := cal.NextID()
	return json.MarshalIndent(document{NextID: &next, Schedules: &dtos}, "", "  ")
}

func emptyDocument() []byte {
	data, _ := encodeDocument(calendar.New())
	return data
}

func decodeDocument(data []byte) (*calendar.Calendar, error) {
	var doc document
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after document")
	}
	if doc.Schedules == nil {
		return nil, errors.New("missing field \"schedules\"")
	}

	apps := make([]model.Appointment, 0, len(*doc.Schedules))
	for i, dto := range *doc.Schedules {
		a, err := dto.toModel()
		if err != nil {
			return nil, fmt.Errorf("schedules[%d]: %w", i, err)
		}
		apps = append(apps, a)
	}

	var next uint64
	if doc.NextID != nil {
		next = *doc.NextID
	}
	return calendar.Restore(apps, next)
}

func (d appointmentDTO) toModel() (model.Appointment, error) {
	switch {
	case d.ID == nil:
		return model.Appointment{}, errors.New("missing field \"id\"")
	case d.Subject == nil:
		return model.Appointment{}, errors.New("missing field \"subject\"")
	case d.Start == nil:
		return model.Appointment{}, errors.New("missing field \"start\"")
	case d.End == nil:
		return model.Appointment{}, errors.New("missing field \"end\"")
	}
	start, err := model.ParseStored(*d.Start)
	if err != nil {
		return model.Appointment{}, fmt.Errorf("start: %w", err)
	}
	end, err := model.ParseStored(*d.End)
	if err != nil {
		return model.Appointment{}, fmt.Errorf("end: %w", err)
	}
	return model.New(*d.ID, *d.Subject, start, end), nil
}
