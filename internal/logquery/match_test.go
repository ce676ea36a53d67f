package logquery

import (
	"testing"
	"time"

	"github.com/V4T54L/logviewer/internal/domain"
)

func entryWithText(text string) domain.LogEntry {
	return domain.LogEntry{FullText: text}
}

func TestMatchesQuery(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		query string
		want  bool
	}{
		{"Positive term present", "[..] Connection TIMEOUT reached", "timeout", true},
		{"Any positive term is enough", "disk full", "timeout disk", true},
		{"No positive term present", "all good", "timeout disk", false},
		{"Negative term rejects", "timeout on health check", "timeout -health", false},
		{"Negative term absent", "timeout on login", "timeout -health", true},
		{"All phrases required", "user foo bar logged in", `"foo bar" "logged in"`, true},
		{"Missing phrase", "user foo bar", `"foo bar" "logged in"`, false},
		{"Phrase case insensitive", "User Foo Bar", `"foo BAR"`, true},
		{"Phrase plus positive", "foo bar baz", `"foo bar" qux`, false},
		{"Only negatives pass when absent", "clean line", "-noise", true},
		{"Empty set matches nothing", "anything", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchesQuery(entryWithText(tt.text), ParseQuery(tt.query))
			if got != tt.want {
				t.Errorf("MatchesQuery(%q, %q) = %v, want %v", tt.text, tt.query, got, tt.want)
			}
		})
	}
}

func TestMatchesExclusionQuery(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		query string
		want  bool
	}{
		{"Positive term excludes", "please drop me", "drop", true},
		{"Negative term keeps", "please keep me", "-keep", false},
		{"Phrase excludes", "health check ok", `"health check"`, true},
		{"Phrase absent", "health ok", `"health check"`, false},
		{"Positive wins over negative", "drop but keep", "drop -keep", true},
		{"Nothing matches", "unrelated", "drop -keep", false},
		{"Empty set excludes nothing", "anything", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchesExclusionQuery(entryWithText(tt.text), ParseQuery(tt.query))
			if got != tt.want {
				t.Errorf("MatchesExclusionQuery(%q, %q) = %v, want %v", tt.text, tt.query, got, tt.want)
			}
		})
	}
}

func TestLevelPredicates(t *testing.T) {
	e := domain.LogEntry{Level: domain.LevelWarn}

	if !LevelIncluded(e, nil) {
		t.Error("empty inclusion set should not constrain")
	}
	if !LevelIncluded(e, []domain.Level{domain.LevelError, domain.LevelWarn}) {
		t.Error("WRN should be included")
	}
	if LevelIncluded(e, []domain.Level{domain.LevelError}) {
		t.Error("WRN should not be included by {ERR}")
	}
	if !LevelNotExcluded(e, nil) {
		t.Error("empty exclusion set should not constrain")
	}
	if LevelNotExcluded(e, []domain.Level{domain.LevelWarn}) {
		t.Error("WRN should be excluded by {WRN}")
	}
}

func TestInTimeRange(t *testing.T) {
	day := time.Date(2025, 5, 16, 0, 0, 0, 0, time.UTC)
	opts := domain.FilterOptions{EndDate: &day}
	end, _ := opts.EndBound()

	tests := []struct {
		name string
		ts   time.Time
		want bool
	}{
		{"Last instant of the day", day.Add(24*time.Hour - 100*time.Nanosecond), true},
		{"Last second of the day", day.Add(24*time.Hour - time.Second), true},
		{"Midnight of the next day", day.Add(24 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InTimeRange(domain.LogEntry{Timestamp: tt.ts}, nil, &end); got != tt.want {
				t.Errorf("InTimeRange(%v) = %v, want %v", tt.ts, got, tt.want)
			}
		})
	}

	t.Run("Start bound inclusive", func(t *testing.T) {
		start := day
		if !InTimeRange(domain.LogEntry{Timestamp: day}, &start, nil) {
			t.Error("entry at the start bound should be included")
		}
		if InTimeRange(domain.LogEntry{Timestamp: day.Add(-time.Second)}, &start, nil) {
			t.Error("entry before the start bound should be excluded")
		}
	})
}
