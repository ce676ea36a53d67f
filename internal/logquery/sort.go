package logquery

import (
	"cmp"
	"slices"
	"strings"

	"github.com/V4T54L/logviewer/internal/domain"
)

func ordered(dir domain.SortDirection, c int) int {
	if dir == domain.SortDescending {
		return -c
	}
	return c
}

// SortByTimestamp stably orders entries in place by timestamp.
func SortByTimestamp(entries []domain.LogEntry, dir domain.SortDirection) {
	slices.SortStableFunc(entries, func(a, b domain.LogEntry) int {
		return ordered(dir, a.Timestamp.Compare(b.Timestamp))
	})
}

// ApplyColumnSort reorders entries in place by the selected column. The
// previous order only survives among equal keys.
func ApplyColumnSort(entries []domain.LogEntry, cs domain.ColumnSort) {
	var compare func(a, b domain.LogEntry) int

	switch cs.Field {
	case domain.SortFieldTimestamp:
		compare = func(a, b domain.LogEntry) int { return a.Timestamp.Compare(b.Timestamp) }
	case domain.SortFieldLevel:
		compare = func(a, b domain.LogEntry) int { return cmp.Compare(a.Level, b.Level) }
	case domain.SortFieldMessage:
		compare = func(a, b domain.LogEntry) int { return strings.Compare(a.Message, b.Message) }
	default:
		return
	}

	slices.SortStableFunc(entries, func(a, b domain.LogEntry) int {
		return ordered(cs.Direction, compare(a, b))
	})
}
