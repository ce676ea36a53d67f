package logquery

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/V4T54L/logviewer/internal/domain"
)

// Pipeline applies FilterOptions to a set of entries.
type Pipeline struct {
	logger *slog.Logger
}

// NewPipeline creates a pipeline that reports per-stage counts to logger.
func NewPipeline(logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{logger: logger}
}

// Filter returns the entries that pass every predicate of opts, ordered by
// timestamp in opts.SortDirection. The input slice is not modified.
//
// Stages run in a fixed order and each sees only the survivors of the
// previous one: level inclusion, level exclusion, start bound, end bound,
// inclusion query, exclusion query, then the primary sort.
func (p *Pipeline) Filter(entries []domain.LogEntry, opts domain.FilterOptions) []domain.LogEntry {
	out := slices.Clone(entries)

	if len(opts.Levels) > 0 {
		out = p.stage(out, "levels", func(e domain.LogEntry) bool {
			return LevelIncluded(e, opts.Levels)
		})
	}

	if len(opts.ExcludedLevels) > 0 {
		out = p.stage(out, "excluded_levels", func(e domain.LogEntry) bool {
			return LevelNotExcluded(e, opts.ExcludedLevels)
		})
	}

	if start, ok := opts.StartBound(); ok {
		out = p.stage(out, "start", func(e domain.LogEntry) bool {
			return InTimeRange(e, &start, nil)
		})
	}

	if end, ok := opts.EndBound(); ok {
		out = p.stage(out, "end", func(e domain.LogEntry) bool {
			return InTimeRange(e, nil, &end)
		})
	}

	if strings.TrimSpace(opts.SearchText) != "" {
		q := ParseQuery(opts.SearchText)
		out = p.stage(out, "search", func(e domain.LogEntry) bool {
			return MatchesQuery(e, q)
		})
	}

	if strings.TrimSpace(opts.ExclusionText) != "" {
		q := ParseQuery(opts.ExclusionText)
		out = p.stage(out, "exclusion", func(e domain.LogEntry) bool {
			return !MatchesExclusionQuery(e, q)
		})
	}

	SortByTimestamp(out, opts.SortDirection)
	return out
}

func (p *Pipeline) stage(in []domain.LogEntry, name string, keep func(domain.LogEntry) bool) []domain.LogEntry {
	before := len(in)
	out := in[:0]
	for _, e := range in {
		if keep(e) {
			out = append(out, e)
		}
	}
	p.logger.Debug("filter stage applied", "stage", name, "before", before, "after", len(out))
	return out
}

var defaultPipeline = NewPipeline(nil)

// Filter runs the default pipeline.
func Filter(entries []domain.LogEntry, opts domain.FilterOptions) []domain.LogEntry {
	return defaultPipeline.Filter(entries, opts)
}
