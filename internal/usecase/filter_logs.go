package usecase

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/V4T54L/logviewer/internal/adapter/metrics"
	"github.com/V4T54L/logviewer/internal/domain"
	"github.com/V4T54L/logviewer/internal/logquery"
)

const tracerName = "logviewer/usecase"

// FilterRequest is a validated filter invocation against files on disk.
type FilterRequest struct {
	Folder     string
	Files      []string
	Options    domain.FilterOptions
	ColumnSort domain.ColumnSort
}

// FilterResult is the ordered outcome of a filter. TotalCount is the full
// match count even when Entries is cut to the display limit.
type FilterResult struct {
	Entries        []domain.LogEntry
	TotalCount     int
	DisplayedCount int
}

// EntryRedactor masks sensitive text in entries about to be returned.
type EntryRedactor interface {
	Redact(entries []domain.LogEntry) int
}

// FilterLogsUseCase reads log files and runs them through the pipeline.
type FilterLogsUseCase struct {
	folders      *FolderUseCase
	files        domain.LogFileRepository
	parser       *logquery.LineParser
	pipeline     *logquery.Pipeline
	displayLimit int
	redactor     EntryRedactor
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

// NewFilterLogsUseCase creates a new FilterLogsUseCase. displayLimit <= 0
// returns every matching entry.
func NewFilterLogsUseCase(
	folders *FolderUseCase,
	files domain.LogFileRepository,
	parser *logquery.LineParser,
	displayLimit int,
	m *metrics.Metrics,
	logger *slog.Logger,
) *FilterLogsUseCase {
	return &FilterLogsUseCase{
		folders:      folders,
		files:        files,
		parser:       parser,
		pipeline:     logquery.NewPipeline(logger),
		displayLimit: displayLimit,
		metrics:      m,
		logger:       logger,
	}
}

// WithRedactor masks returned entries. Matching still sees the original text.
func (uc *FilterLogsUseCase) WithRedactor(r EntryRedactor) *FilterLogsUseCase {
	uc.redactor = r
	return uc
}

// Filter reads the requested files, filters their union once, and applies
// the column sort.
func (uc *FilterLogsUseCase) Filter(ctx context.Context, req FilterRequest) (*FilterResult, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "FilterLogs")
	defer span.End()
	span.SetAttributes(attribute.String("folder", req.Folder), attribute.Int("files", len(req.Files)))

	folder, err := uc.folders.FindFolder(ctx, req.Folder)
	if err != nil {
		return nil, err
	}

	entries, _, err := uc.ReadEntries(ctx, folder, req.Files)
	if err != nil {
		return nil, err
	}

	return uc.Apply(entries, req.Options, req.ColumnSort), nil
}

// Apply filters an in-memory entry set. entries is left untouched so cached
// snapshots can be filtered concurrently.
func (uc *FilterLogsUseCase) Apply(entries []domain.LogEntry, opts domain.FilterOptions, cs domain.ColumnSort) *FilterResult {
	filtered := uc.pipeline.Filter(entries, opts)
	logquery.ApplyColumnSort(filtered, cs)

	total := len(filtered)
	if uc.displayLimit > 0 && total > uc.displayLimit {
		filtered = filtered[:uc.displayLimit]
	}
	if uc.redactor != nil {
		uc.redactor.Redact(filtered)
	}

	if uc.metrics != nil {
		uc.metrics.MatchedEntries.Observe(float64(total))
	}
	uc.logger.Debug("filtered log entries", "input", len(entries), "matched", total, "displayed", len(filtered))

	return &FilterResult{
		Entries:        filtered,
		TotalCount:     total,
		DisplayedCount: len(filtered),
	}
}

// ReadEntries parses each file on its own and concatenates the results.
// Missing or unreadable files contribute nothing; an invalid file name fails
// the whole call. It also returns the absolute paths that were read.
func (uc *FilterLogsUseCase) ReadEntries(ctx context.Context, folder domain.LogFolder, files []string) ([]domain.LogEntry, []string, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ReadEntries")
	defer span.End()

	sources := make([]string, len(files))
	for i, name := range files {
		path, err := uc.files.Resolve(folder.Path, name)
		if err != nil {
			return nil, nil, err
		}
		sources[i] = path
	}

	var all []domain.LogEntry
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		all = append(all, uc.readFile(ctx, folder, name)...)
	}

	span.SetAttributes(attribute.Int("entries", len(all)))
	return all, sources, nil
}

func (uc *FilterLogsUseCase) readFile(ctx context.Context, folder domain.LogFolder, name string) []domain.LogEntry {
	rc, err := uc.files.Open(ctx, folder.Path, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			uc.logger.Warn("log file does not exist", "folder", folder.Name, "file", name)
		} else {
			uc.logger.Error("failed to open log file", "folder", folder.Name, "file", name, "error", err)
		}
		if uc.metrics != nil {
			uc.metrics.FileReadErrors.Inc()
		}
		return nil
	}
	defer rc.Close()

	entries, stats, err := uc.parser.ParseAll(rc, name, uc.logger)
	if err != nil {
		uc.logger.Error("error reading log file", "folder", folder.Name, "file", name, "error", err)
		if uc.metrics != nil {
			uc.metrics.FileReadErrors.Inc()
		}
	}

	if uc.metrics != nil {
		uc.metrics.LinesTotal.WithLabelValues("parsed").Add(float64(stats.Parsed))
		uc.metrics.LinesTotal.WithLabelValues("skipped").Add(float64(stats.Skipped))
		uc.metrics.LinesTotal.WithLabelValues("failed").Add(float64(stats.Failed))
	}
	uc.logger.Info("parsed log file", "folder", folder.Name, "file", name, "entries", stats.Parsed, "lines", stats.Lines)

	return entries
}
