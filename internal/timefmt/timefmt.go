// Package timefmt renders backend timestamps for display. Dates keep the
// calendar day as recorded; times of day are always shown in the reference
// timezone, regardless of the viewer's clock.
package timefmt

import (
	"fmt"
	"time"
)

const referenceZone = "Europe/Vienna"

var refLoc *time.Location

func init() {
	loc, err := time.LoadLocation(referenceZone)
	if err != nil {
		panic(fmt.Sprintf("timefmt: failed to load %s: %v", referenceZone, err))
	}
	refLoc = loc
}

// Location returns the reference timezone.
func Location() *time.Location {
	return refLoc
}

// ParseError reports a timestamp that is not valid ISO-8601.
type ParseError struct {
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid timestamp %q: %v", e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// layouts accepted from the backend: zone-qualified, naive (treated as UTC)
// and date-only.
var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parse(ts string) (time.Time, error) {
	var lastErr error
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, ts, time.UTC)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, &ParseError{Value: ts, Err: lastErr}
}

// FormatDate formats an ISO-8601 timestamp as DD.MM.YYYY.
func FormatDate(ts string) (string, error) {
	t, err := parse(ts)
	if err != nil {
		return "", err
	}
	return t.Format("02.01.2006"), nil
}

// FormatTime formats an ISO-8601 timestamp as HH:MM in the reference
// timezone.
func FormatTime(ts string) (string, error) {
	t, err := parse(ts)
	if err != nil {
		return "", err
	}
	return t.In(refLoc).Format("15:04"), nil
}

// DateKey returns the calendar-date component (YYYY-MM-DD) of a timestamp,
// used as the grouping key for the day view.
func DateKey(ts string) (string, error) {
	t, err := parse(ts)
	if err != nil {
		return "", err
	}
	return t.Format("2006-01-02"), nil
}
