package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// StorageLayout is the zone-less form written to the schedule document.
	// Fractional seconds are emitted only when non-zero.
	StorageLayout = "2006-01-02T15:04:05.999999999"

	// DisplayLayout is used for console output.
	DisplayLayout = "2006-01-02 15:04:05"
)

// inputLayouts are tried in order by ParseNaive. Fractional seconds after
// the seconds field are accepted by time.Parse without being in the layout.
var inputLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseNaive parses a local date-time without zone information. The result
// is carried in time.UTC so comparisons are plain wall-clock comparisons.
func ParseNaive(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty date-time")
	}
	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date-time %q (want YYYY-MM-DDTHH:MM[:SS])", v)
}

// ParseStored parses a timestamp from the schedule document. It is stricter
// than ParseNaive: seconds are required and the separator must be 'T'.
func ParseStored(v string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02T15:04:05", v, time.UTC)
}

func FormatStored(t time.Time) string {
	return t.Format(StorageLayout)
}

func FormatDisplay(t time.Time) string {
	return t.Format(DisplayLayout)
}
