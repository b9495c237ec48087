// Package display renders server-provided values for the operator.
package display

import (
	"strings"
	"time"
)

const (
	// DateLayout renders as e.g. "Mar 4, 2025 09:15".
	DateLayout = "Jan 2, 2006 15:04"

	Missing = "-"
	Invalid = "Invalid Date"
)

var acceptedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	time.DateOnly,
	time.RFC1123Z,
	time.RFC1123,
}

// Formatter renders timestamps in a fixed location.
type Formatter struct {
	Location *time.Location
}

// Local formats in the machine's local time zone.
var Local = Formatter{Location: time.Local}

// FormatDate formats s with the Local formatter.
func FormatDate(s string) string {
	return Local.FormatDate(s)
}

// FormatDate returns Missing for an empty input, Invalid when no accepted
// layout parses it, and DateLayout in f.Location otherwise.
func (f Formatter) FormatDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Missing
	}
	t, ok := ParseTime(s, f.location())
	if !ok {
		return Invalid
	}
	return t.In(f.location()).Format(DateLayout)
}

// ParseTime tries each accepted layout. Layouts without a zone are read in loc.
func ParseTime(s string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range acceptedLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (f Formatter) location() *time.Location {
	if f.Location == nil {
		return time.Local
	}
	return f.Location
}
