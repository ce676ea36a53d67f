package domain

import (
	"fmt"
	"time"
)

// Level is the severity of a parsed log line. The declaration order is the
// ordering used when sorting by level.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = [...]string{"TRACE", "DEBUG", "INF", "WRN", "ERR", "FATAL"}

// Levels lists every known level in ordinal order.
func Levels() []Level {
	return []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError, LevelFatal}
}

func (l Level) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel matches a level token exactly, case included.
func ParseLevel(s string) (Level, bool) {
	for i, name := range levelNames {
		if name == s {
			return Level(i), true
		}
	}
	return LevelInfo, false
}

// MarshalText encodes the level by name.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes a level by name and rejects unknown names.
func (l *Level) UnmarshalText(b []byte) error {
	parsed, ok := ParseLevel(string(b))
	if !ok {
		return fmt.Errorf("unknown log level %q", string(b))
	}
	*l = parsed
	return nil
}

// LogEntry is one structurally parsed log line.
type LogEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	Level      Level     `json:"level"`
	Message    string    `json:"message"`
	FullText   string    `json:"fullText"`
	SourceFile string    `json:"sourceFile"`
}
