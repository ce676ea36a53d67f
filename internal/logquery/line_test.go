package logquery

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/V4T54L/logviewer/internal/domain"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		wantOK      bool
		wantErr     bool
		wantTime    time.Time
		wantLevel   domain.Level
		wantMessage string
	}{
		{
			name:        "Standard line",
			line:        "[2025-05-16 00:44:03 INF] hello world",
			wantOK:      true,
			wantTime:    time.Date(2025, 5, 16, 0, 44, 3, 0, time.UTC),
			wantLevel:   domain.LevelInfo,
			wantMessage: "hello world",
		},
		{
			name:        "Error level",
			line:        "[2025-05-16 10:00:00 ERR] boom",
			wantOK:      true,
			wantTime:    time.Date(2025, 5, 16, 10, 0, 0, 0, time.UTC),
			wantLevel:   domain.LevelError,
			wantMessage: "boom",
		},
		{
			name:        "Unknown level defaults to INF",
			line:        "[2025-05-16 10:00:00 WEIRD] odd",
			wantOK:      true,
			wantTime:    time.Date(2025, 5, 16, 10, 0, 0, 0, time.UTC),
			wantLevel:   domain.LevelInfo,
			wantMessage: "odd",
		},
		{
			name:        "Level match is case sensitive",
			line:        "[2025-05-16 10:00:00 err] lower",
			wantOK:      true,
			wantTime:    time.Date(2025, 5, 16, 10, 0, 0, 0, time.UTC),
			wantLevel:   domain.LevelInfo,
			wantMessage: "lower",
		},
		{
			name:        "Prefix before bracket",
			line:        "app1 [2025-05-16 10:00:00 WRN] careful",
			wantOK:      true,
			wantTime:    time.Date(2025, 5, 16, 10, 0, 0, 0, time.UTC),
			wantLevel:   domain.LevelWarn,
			wantMessage: "careful",
		},
		{
			name:   "No bracket block",
			line:   "   at Foo.Bar() in Program.cs:line 12",
			wantOK: false,
		},
		{
			name:   "Empty message",
			line:   "[2025-05-16 10:00:00 INF] ",
			wantOK: false,
		},
		{
			name:    "Malformed timestamp",
			line:    "[2025-13-45 99:99:99 INF] bad date",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, ok, err := ParseLine(tt.line, "app.log")
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLine() error = %v, wantErr %v", err, tt.wantErr)
			}
			if ok != tt.wantOK {
				t.Fatalf("ParseLine() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if !entry.Timestamp.Equal(tt.wantTime) {
				t.Errorf("timestamp = %v, want %v", entry.Timestamp, tt.wantTime)
			}
			if entry.Level != tt.wantLevel {
				t.Errorf("level = %v, want %v", entry.Level, tt.wantLevel)
			}
			if entry.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", entry.Message, tt.wantMessage)
			}
			if entry.FullText != tt.line {
				t.Errorf("fullText = %q, want %q", entry.FullText, tt.line)
			}
			if entry.SourceFile != "app.log" {
				t.Errorf("sourceFile = %q, want app.log", entry.SourceFile)
			}
		})
	}
}

func TestLineParser_Location(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	p := NewLineParser(loc)

	entry, ok, err := p.Parse("[2025-05-16 00:44:03 INF] hi", "a.log")
	if err != nil || !ok {
		t.Fatalf("Parse() ok=%v err=%v", ok, err)
	}
	if entry.Timestamp.Location() != loc {
		t.Errorf("location = %v, want %v", entry.Timestamp.Location(), loc)
	}
	if entry.Timestamp.Hour() != 0 {
		t.Errorf("wall clock hour = %d, want 0", entry.Timestamp.Hour())
	}
}

func TestParseAll(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Drops non matching lines", func(t *testing.T) {
		var b strings.Builder
		for i := 0; i < 1000; i++ {
			switch i {
			case 10, 500, 999:
				b.WriteString("   continuation line\n")
			default:
				fmt.Fprintf(&b, "[2025-05-16 00:00:%02d INF] line %d\n", i%60, i)
			}
		}

		entries, stats, err := NewLineParser(nil).ParseAll(strings.NewReader(b.String()), "big.log", logger)
		if err != nil {
			t.Fatalf("ParseAll() error = %v", err)
		}
		if len(entries) != 997 {
			t.Errorf("got %d entries, want 997", len(entries))
		}
		if stats.Lines != 1000 || stats.Skipped != 3 || stats.Parsed != 997 {
			t.Errorf("unexpected stats: %+v", stats)
		}
	})

	t.Run("Bad timestamp does not abort", func(t *testing.T) {
		input := "[2025-05-16 00:00:01 INF] one\r\n[2025-99-99 00:00:02 INF] bad\r\n[2025-05-16 00:00:03 ERR] three\r\n"
		entries, stats, err := NewLineParser(nil).ParseAll(strings.NewReader(input), "crlf.log", logger)
		if err != nil {
			t.Fatalf("ParseAll() error = %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("got %d entries, want 2", len(entries))
		}
		if stats.Failed != 1 {
			t.Errorf("failed = %d, want 1", stats.Failed)
		}
		if entries[0].Message != "one" || entries[1].Message != "three" {
			t.Errorf("unexpected messages: %q, %q", entries[0].Message, entries[1].Message)
		}
	})

	t.Run("Over-long line is skipped and reading continues", func(t *testing.T) {
		long := "[2025-05-16 00:00:02 INF] " + strings.Repeat("x", maxLineLength+1)
		input := "[2025-05-16 00:00:01 INF] before\n" + long + "\n[2025-05-16 00:00:03 WRN] after\n[2025-05-16 00:00:04 ERR] last"
		entries, stats, err := NewLineParser(nil).ParseAll(strings.NewReader(input), "huge.log", logger)
		if err != nil {
			t.Fatalf("ParseAll() error = %v", err)
		}
		if got := messagesOf(entries); !slices.Equal(got, []string{"before", "after", "last"}) {
			t.Errorf("got messages %q", got)
		}
		if stats.Lines != 4 || stats.Parsed != 3 || stats.Failed != 1 {
			t.Errorf("unexpected stats: %+v", stats)
		}
	})

	t.Run("Line at the length limit is kept", func(t *testing.T) {
		prefix := "[2025-05-16 00:00:01 INF] "
		line := prefix + strings.Repeat("y", maxLineLength-len(prefix))
		entries, stats, err := NewLineParser(nil).ParseAll(strings.NewReader(line+"\r\n"), "edge.log", logger)
		if err != nil {
			t.Fatalf("ParseAll() error = %v", err)
		}
		if len(entries) != 1 || stats.Failed != 0 {
			t.Errorf("expected one entry, got %d (stats %+v)", len(entries), stats)
		}
	})

	t.Run("Strips byte order mark", func(t *testing.T) {
		input := "\ufeff[2025-05-16 00:00:01 INF] first\n"
		entries, _, err := NewLineParser(nil).ParseAll(strings.NewReader(input), "bom.log", logger)
		if err != nil {
			t.Fatalf("ParseAll() error = %v", err)
		}
		if len(entries) != 1 || strings.HasPrefix(entries[0].FullText, "\ufeff") {
			t.Errorf("expected one entry without BOM, got %+v", entries)
		}
	})
}

func messagesOf(entries []domain.LogEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Message
	}
	return out
}
