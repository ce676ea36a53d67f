package logquery

import (
	"bufio"
	"io"
	"log/slog"
	"strings"

	"github.com/V4T54L/logviewer/internal/domain"
)

const (
	initialLineBuffer = 64 * 1024
	maxLineLength     = 4 * 1024 * 1024
)

// ReadStats summarises one ParseAll call.
type ReadStats struct {
	Lines   int
	Parsed  int
	Skipped int
	Failed  int
}

// ParseAll reads every line of r. Lines outside the grammar are skipped and
// lines with a bad timestamp or longer than maxLineLength are logged and
// skipped; none of them stops the read. The returned error is only set for
// I/O failures, together with everything parsed before it.
func (p *LineParser) ParseAll(r io.Reader, sourceFile string, logger *slog.Logger) ([]domain.LogEntry, ReadStats, error) {
	var (
		entries []domain.LogEntry
		stats   ReadStats
	)

	lr := newLineReader(r)
	for {
		line, tooLong, err := lr.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return entries, stats, err
		}

		stats.Lines++
		if tooLong {
			stats.Failed++
			logger.Warn("skipped over-long log line", "file", sourceFile, "line", stats.Lines, "limit_bytes", maxLineLength)
			continue
		}
		if stats.Lines == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		entry, ok, err := p.Parse(line, sourceFile)
		if err != nil {
			stats.Failed++
			logger.Warn("failed to parse log line", "file", sourceFile, "line", stats.Lines, "error", err)
			continue
		}
		if !ok {
			stats.Skipped++
			continue
		}
		entries = append(entries, entry)
		stats.Parsed++
	}

	return entries, stats, nil
}

// lineReader yields lines without their \n or \r\n ending. A line longer
// than maxLineLength is consumed up to its newline and reported as too long
// instead of being buffered.
type lineReader struct {
	br  *bufio.Reader
	buf []byte
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{br: bufio.NewReaderSize(r, initialLineBuffer)}
}

func (lr *lineReader) next() (string, bool, error) {
	lr.buf = lr.buf[:0]
	tooLong := false
	read := 0

	for {
		chunk, err := lr.br.ReadSlice('\n')
		read += len(chunk)
		if !tooLong {
			if len(lr.buf)+len(chunk) > maxLineLength+2 {
				tooLong = true
				lr.buf = lr.buf[:0]
			} else {
				lr.buf = append(lr.buf, chunk...)
			}
		}

		switch {
		case err == bufio.ErrBufferFull:
			continue
		case err == io.EOF && read == 0:
			return "", false, io.EOF
		case err != nil && err != io.EOF:
			return "", false, err
		}

		if tooLong {
			return "", true, nil
		}
		line := strings.TrimSuffix(string(lr.buf), "\n")
		line = strings.TrimSuffix(line, "\r")
		if len(line) > maxLineLength {
			return "", true, nil
		}
		return line, false, nil
	}
}
