package logquery

import (
	"strings"
	"time"
)

// Layouts accepted for dates. Only the date part is kept.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"01/02/2006",
}

var timeLayouts = []string{
	"15:04",
	"15:04:05",
	"15:04:05.9999999",
}

// ParseDate returns midnight of the given date in loc, or nil when s is blank
// or matches no known layout.
func ParseDate(s string, loc *time.Location) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
			return &d
		}
	}
	return nil
}

// ParseTimeOfDay returns the offset from midnight, or nil when s is blank or
// not a valid clock time.
func ParseTimeOfDay(s string) *time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second +
				time.Duration(t.Nanosecond())
			return &d
		}
	}
	return nil
}
