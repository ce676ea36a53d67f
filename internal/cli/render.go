package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/V4T54L/logviewer/internal/domain"
)

// Renderer writes entries to an output stream.
type Renderer interface {
	Render(entry domain.LogEntry) error
}

var (
	styleTrace = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Faint(true)
	styleDebug = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Faint(true)
	styleInfo  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleError = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleFatal = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("196")).
			Bold(true)
	styleSource = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Faint(true)
	styleHeader = lipgloss.NewStyle().Bold(true).Underline(true)
)

func styleLevelTag(level domain.Level) string {
	padded := fmt.Sprintf("%-5s", level.String())
	switch level {
	case domain.LevelTrace:
		return styleTrace.Render(padded)
	case domain.LevelDebug:
		return styleDebug.Render(padded)
	case domain.LevelWarn:
		return styleWarn.Render(padded)
	case domain.LevelError:
		return styleError.Render(padded)
	case domain.LevelFatal:
		return styleFatal.Render(padded)
	default:
		return styleInfo.Render(padded)
	}
}

// TextRenderer prints entries with severity-based colors.
type TextRenderer struct {
	w          io.Writer
	showSource bool
}

// NewTextRenderer returns a Renderer writing coloured text to w. showSource
// prefixes each line with the file it came from.
func NewTextRenderer(w io.Writer, showSource bool) *TextRenderer {
	return &TextRenderer{w: w, showSource: showSource}
}

func (r *TextRenderer) Render(entry domain.LogEntry) error {
	ts := entry.Timestamp.Format("2006-01-02 15:04:05")
	tag := styleLevelTag(entry.Level)

	var err error
	if r.showSource {
		_, err = fmt.Fprintf(r.w, "%s %s %s %s\n", ts, tag, styleSource.Render(entry.SourceFile), entry.Message)
	} else {
		_, err = fmt.Fprintf(r.w, "%s %s %s\n", ts, tag, entry.Message)
	}
	return err
}

type jsonEntry struct {
	Timestamp time.Time    `json:"timestamp"`
	Level     domain.Level `json:"level"`
	Message   string       `json:"message"`
	File      string       `json:"file,omitempty"`
}

// JSONRenderer prints each entry as one JSON object per line.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer writing JSON lines to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(w)}
}

func (r *JSONRenderer) Render(entry domain.LogEntry) error {
	return r.enc.Encode(jsonEntry{
		Timestamp: entry.Timestamp,
		Level:     entry.Level,
		Message:   entry.Message,
		File:      entry.SourceFile,
	})
}

func newRenderer(format string, w io.Writer, showSource bool) (Renderer, error) {
	switch format {
	case "json":
		return NewJSONRenderer(w), nil
	case "text", "":
		return NewTextRenderer(w, showSource), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
