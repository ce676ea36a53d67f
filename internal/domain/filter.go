package domain

import "time"

// SortDirection orders entries ascending or descending.
type SortDirection int

const (
	SortAscending SortDirection = iota
	SortDescending
)

func (d SortDirection) String() string {
	if d == SortAscending {
		return "Ascending"
	}
	return "Descending"
}

// SortField selects the column a column sort applies to.
type SortField int

const (
	SortFieldNone SortField = iota
	SortFieldTimestamp
	SortFieldLevel
	SortFieldMessage
)

func (f SortField) String() string {
	switch f {
	case SortFieldTimestamp:
		return "Timestamp"
	case SortFieldLevel:
		return "Level"
	case SortFieldMessage:
		return "Message"
	default:
		return "None"
	}
}

// ColumnSort is the secondary, caller-applied total reorder.
type ColumnSort struct {
	Field     SortField
	Direction SortDirection
}

// Toggle returns the column sort that results from selecting field: the same
// field flips direction, a different field starts descending.
func (c ColumnSort) Toggle(field SortField) ColumnSort {
	if c.Field == field {
		if c.Direction == SortAscending {
			return ColumnSort{Field: field, Direction: SortDescending}
		}
		return ColumnSort{Field: field, Direction: SortAscending}
	}
	return ColumnSort{Field: field, Direction: SortDescending}
}

// EndOfDayPrecision is the step below the next midnight that an end bound
// without a time of day resolves to (23:59:59.9999999).
const EndOfDayPrecision = 100 * time.Nanosecond

// FilterOptions is the predicate configuration for one filter invocation.
type FilterOptions struct {
	Levels         []Level
	ExcludedLevels []Level
	SearchText     string
	ExclusionText  string

	// StartDate and EndDate carry only a date (midnight in Location). The
	// matching *Time fields are offsets from midnight.
	StartDate *time.Time
	StartTime *time.Duration
	EndDate   *time.Time
	EndTime   *time.Duration

	SortDirection SortDirection
}

// StartBound combines the start date and time of day. A missing time means midnight.
func (o FilterOptions) StartBound() (time.Time, bool) {
	if o.StartDate == nil {
		return time.Time{}, false
	}
	if o.StartTime != nil {
		return atTimeOfDay(*o.StartDate, *o.StartTime), true
	}
	return midnight(*o.StartDate, 0), true
}

// EndBound combines the end date and time of day. A missing time means the
// last instant of that day.
func (o FilterOptions) EndBound() (time.Time, bool) {
	if o.EndDate == nil {
		return time.Time{}, false
	}
	if o.EndTime != nil {
		return atTimeOfDay(*o.EndDate, *o.EndTime), true
	}
	return midnight(*o.EndDate, 1).Add(-EndOfDayPrecision), true
}

// Bounds are wall-clock values in the date's location, so days are stepped
// on the calendar rather than by adding 24h, which drifts across DST changes.
func midnight(date time.Time, addDays int) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d+addDays, 0, 0, 0, 0, date.Location())
}

func atTimeOfDay(date time.Time, tod time.Duration) time.Time {
	y, m, d := date.Date()
	h := int(tod / time.Hour)
	tod -= time.Duration(h) * time.Hour
	mi := int(tod / time.Minute)
	tod -= time.Duration(mi) * time.Minute
	sec := int(tod / time.Second)
	tod -= time.Duration(sec) * time.Second
	return time.Date(y, m, d, h, mi, sec, int(tod), date.Location())
}

// NewFilterOptions returns options with the default descending primary sort.
func NewFilterOptions() FilterOptions {
	return FilterOptions{SortDirection: SortDescending}
}
