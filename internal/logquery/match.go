package logquery

import (
	"slices"
	"strings"
	"time"

	"github.com/V4T54L/logviewer/internal/domain"
)

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

func containsAll(text string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(text, strings.ToLower(t)) {
			return false
		}
	}
	return true
}

// MatchesQuery reports whether an entry belongs in the result of an inclusion
// query. Any negative term rejects, every phrase must be present, and at
// least one positive term must be present when there are any. An empty set
// matches nothing; callers skip the predicate for a blank query.
func MatchesQuery(entry domain.LogEntry, q domain.QueryTermSet) bool {
	text := strings.ToLower(entry.FullText)

	if containsAny(text, q.NegativeTerms) {
		return false
	}
	if !containsAll(text, q.QuotedPhrases) {
		return false
	}
	if len(q.PositiveTerms) > 0 && !containsAny(text, q.PositiveTerms) {
		return false
	}
	return !q.IsEmpty()
}

// MatchesExclusionQuery reports whether an exclusion query removes the entry.
// A present phrase or positive term removes it. Negative terms only protect
// entries and never remove anything.
func MatchesExclusionQuery(entry domain.LogEntry, q domain.QueryTermSet) bool {
	text := strings.ToLower(entry.FullText)

	if containsAny(text, q.QuotedPhrases) {
		return true
	}
	if containsAny(text, q.PositiveTerms) {
		return true
	}
	if containsAny(text, q.NegativeTerms) {
		return false
	}
	return false
}

// LevelIncluded is true when levels is empty or holds the entry's level.
func LevelIncluded(entry domain.LogEntry, levels []domain.Level) bool {
	return len(levels) == 0 || slices.Contains(levels, entry.Level)
}

// LevelNotExcluded is true when excluded is empty or lacks the entry's level.
func LevelNotExcluded(entry domain.LogEntry, excluded []domain.Level) bool {
	return len(excluded) == 0 || !slices.Contains(excluded, entry.Level)
}

// InTimeRange checks the inclusive [start, end] window; a nil bound is open.
func InTimeRange(entry domain.LogEntry, start, end *time.Time) bool {
	if start != nil && entry.Timestamp.Before(*start) {
		return false
	}
	if end != nil && entry.Timestamp.After(*end) {
		return false
	}
	return true
}
