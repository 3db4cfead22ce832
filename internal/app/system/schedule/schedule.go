// Package schedule parses a study group's schedule string into an inclusive
// date window and checks session times against it.
//
// A schedule is two dates joined by Delimiter, e.g. "2025-01-01 - 2025-01-31".
// The window starts at midnight of the first date and runs through the last
// instant of the second date.
package schedule

import (
	"strings"
	"time"

	"github.com/dalemusser/studyhub/internal/domain/studyerr"
)

const (
	// Delimiter separates the start and end dates.
	Delimiter = " - "
	// DateLayout is the layout of each date token.
	DateLayout = "2006-01-02"
	// DateTimeLayout is the layout of a session date-time.
	DateTimeLayout = "2006-01-02 15:04"
)

// Window is an inclusive [Start, End] range. End is the last representable
// instant of the final day.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether Start <= t <= End.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Parse parses s with dates interpreted in UTC.
func Parse(s string) (Window, error) {
	return ParseIn(s, time.UTC)
}

// ParseIn parses s with dates interpreted in loc. A nil loc means UTC.
func ParseIn(s string, loc *time.Location) (Window, error) {
	if loc == nil {
		loc = time.UTC
	}
	parts := strings.Split(s, Delimiter)
	if len(parts) != 2 {
		return Window{}, studyerr.New(studyerr.KindMalformedSchedule, "%q: want two dates separated by %q", s, Delimiter)
	}

	start, err := time.ParseInLocation(DateLayout, strings.TrimSpace(parts[0]), loc)
	if err != nil {
		return Window{}, studyerr.New(studyerr.KindMalformedSchedule, "%q: bad start date", s)
	}
	endDay, err := time.ParseInLocation(DateLayout, strings.TrimSpace(parts[1]), loc)
	if err != nil {
		return Window{}, studyerr.New(studyerr.KindMalformedSchedule, "%q: bad end date", s)
	}
	if start.After(endDay) {
		return Window{}, studyerr.New(studyerr.KindMalformedSchedule, "%q: start is after end", s)
	}

	// AddDate keeps the end-of-day correct across DST changes in loc.
	end := endDay.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return Window{Start: start, End: end}, nil
}

// ParseDateTime parses a session date-time ("2025-01-15 10:00") in loc.
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateTimeLayout, strings.TrimSpace(s), loc)
}
