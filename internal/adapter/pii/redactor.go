package pii

import (
	"fmt"
	"log/slog"
	"regexp"

	"github.com/V4T54L/logviewer/internal/domain"
)

const RedactedPlaceholder = "[REDACTED]"

// Redactor masks sensitive text in log entries before they leave the server.
type Redactor struct {
	patterns []*regexp.Regexp
	logger   *slog.Logger
}

// NewRedactor compiles the given patterns. A pattern with a capture group
// masks only the first group; otherwise the whole match is masked.
func NewRedactor(patterns []string, logger *slog.Logger) (*Redactor, error) {
	r := &Redactor{logger: logger}
	for _, p := range patterns {
		if p == "" {
			continue
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction pattern %q: %w", p, err)
		}
		r.patterns = append(r.patterns, re)
	}
	return r, nil
}

// Redact rewrites Message and FullText of each entry in place and returns how
// many entries were changed.
func (r *Redactor) Redact(entries []domain.LogEntry) int {
	if len(r.patterns) == 0 {
		return 0
	}

	changed := 0
	for i := range entries {
		msg := r.mask(entries[i].Message)
		full := r.mask(entries[i].FullText)
		if msg != entries[i].Message || full != entries[i].FullText {
			entries[i].Message = msg
			entries[i].FullText = full
			changed++
		}
	}

	if changed > 0 {
		r.logger.Debug("redacted log entries", "count", changed)
	}
	return changed
}

func (r *Redactor) mask(s string) string {
	for _, re := range r.patterns {
		if re.NumSubexp() == 0 {
			s = re.ReplaceAllLiteralString(s, RedactedPlaceholder)
			continue
		}
		s = re.ReplaceAllStringFunc(s, func(match string) string {
			loc := re.FindStringSubmatchIndex(match)
			if len(loc) < 4 || loc[2] < 0 {
				return match
			}
			return match[:loc[2]] + RedactedPlaceholder + match[loc[3]:]
		})
	}
	return s
}
