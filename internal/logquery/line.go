// Package logquery holds the log line grammar, the query syntax and the
// filter/sort pipeline shared by the HTTP service and the CLI.
package logquery

import (
	"fmt"
	"regexp"
	"time"

	"github.com/V4T54L/logviewer/internal/domain"
)

var lineRegex = regexp.MustCompile(`\[([\d-]+ [\d:]+) (\w+)\] (.+)`)

// Accepted timestamp layouts, tried in order.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-1-2 15:04:05",
	"2006-01-02 15:04",
	"2006-1-2 15:4:5",
}

// LineParser turns raw lines into entries. Timestamps carry no zone, so they
// are read as wall-clock values in Location.
type LineParser struct {
	Location *time.Location
}

// NewLineParser returns a parser reading timestamps in loc, UTC when nil.
func NewLineParser(loc *time.Location) *LineParser {
	if loc == nil {
		loc = time.UTC
	}
	return &LineParser{Location: loc}
}

// Parse converts one line. ok is false when the line does not follow the
// bracket grammar. A timestamp that matches the grammar but is not a valid
// date returns an error.
func (p *LineParser) Parse(line, sourceFile string) (entry domain.LogEntry, ok bool, err error) {
	m := lineRegex.FindStringSubmatch(line)
	if m == nil {
		return domain.LogEntry{}, false, nil
	}

	ts, err := p.parseTimestamp(m[1])
	if err != nil {
		return domain.LogEntry{}, false, err
	}

	// Unknown tokens fall back to INF.
	level, _ := domain.ParseLevel(m[2])

	return domain.LogEntry{
		Timestamp:  ts,
		Level:      level,
		Message:    m[3],
		FullText:   line,
		SourceFile: sourceFile,
	}, true, nil
}

func (p *LineParser) parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, raw, p.Location); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", raw)
}

var defaultParser = NewLineParser(time.UTC)

// ParseLine parses a line with UTC timestamps.
func ParseLine(line, sourceFile string) (domain.LogEntry, bool, error) {
	return defaultParser.Parse(line, sourceFile)
}
