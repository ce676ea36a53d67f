package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/V4T54L/logviewer/internal/adapter/metrics"
	"github.com/V4T54L/logviewer/internal/domain"
	"github.com/V4T54L/logviewer/internal/usecase"
)

const (
	msgInvalidRequest   = "Invalid request"
	msgFolderFileNeeded = "Folder and file are required"
	msgFilterFailed     = "An error occurred while filtering logs"
	msgResponseFailed   = "Error creating response"
	msgUnknownFolder    = "Unknown folder"
	msgInvalidFileName  = "Invalid file name"
	msgSnapshotNotFound = "Snapshot not found or expired"
)

// LogFilterer runs a filter against files on disk.
type LogFilterer interface {
	Filter(ctx context.Context, req usecase.FilterRequest) (*usecase.FilterResult, error)
}

// SnapshotService creates and filters cached snapshots.
type SnapshotService interface {
	Create(ctx context.Context, folder string, files []string) (*domain.Snapshot, error)
	Filter(ctx context.Context, id string, opts domain.FilterOptions, cs domain.ColumnSort) (*usecase.FilterResult, error)
	Delete(ctx context.Context, id string) error
}

// LogsHandler serves the filter endpoints. Every outcome, failures included,
// is a 200 with a success flag so the UI always gets a result or a message.
type LogsHandler struct {
	filterer  LogFilterer
	snapshots SnapshotService
	location  *time.Location
	maxBody   int64
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewLogsHandler creates a new LogsHandler.
func NewLogsHandler(filterer LogFilterer, snapshots SnapshotService, loc *time.Location, maxBody int64, m *metrics.Metrics, logger *slog.Logger) *LogsHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &LogsHandler{
		filterer:  filterer,
		snapshots: snapshots,
		location:  loc,
		maxBody:   maxBody,
		metrics:   m,
		logger:    logger,
	}
}

// FilterLogs reads, filters and sorts log files.
// POST /api/logs/filter
func (h *LogsHandler) FilterLogs(w http.ResponseWriter, r *http.Request) {
	defer h.recoverPanic(w, "file")

	var req filterLogsRequest
	if err := h.decode(w, r, &req); err != nil {
		h.logger.Warn("failed to decode filter request", "error", err)
		h.fail(w, "file", "invalid", msgInvalidRequest)
		return
	}

	files := req.fileNames()
	if req.Folder == "" || len(files) == 0 {
		h.logger.Warn("folder or file is empty", "folder", req.Folder, "files", files)
		h.fail(w, "file", "invalid", msgFolderFileNeeded)
		return
	}

	opts, cs := req.FilterOptions.toDomain(h.location)
	h.logger.Info("filter logs requested",
		"folder", req.Folder,
		"files", files,
		"search", opts.SearchText,
		"sort_field", cs.Field.String(),
		"sort_direction", cs.Direction.String(),
	)

	result, err := h.filterer.Filter(r.Context(), usecase.FilterRequest{
		Folder:     req.Folder,
		Files:      files,
		Options:    opts,
		ColumnSort: cs,
	})
	if err != nil {
		h.failFromError(w, "file", err, "folder", req.Folder, "files", files)
		return
	}

	h.succeed(w, "file", filterLogsResponse{
		Success:        true,
		Logs:           toRows(result.Entries, len(files) > 1),
		TotalCount:     result.TotalCount,
		DisplayedCount: result.DisplayedCount,
	})
}

// CreateSnapshot reads files into a cached snapshot.
// POST /api/snapshots
func (h *LogsHandler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	defer h.recoverPanic(w, "snapshot")

	var req filterLogsRequest
	if err := h.decode(w, r, &req); err != nil {
		h.fail(w, "snapshot", "invalid", msgInvalidRequest)
		return
	}

	files := req.fileNames()
	if req.Folder == "" || len(files) == 0 {
		h.fail(w, "snapshot", "invalid", msgFolderFileNeeded)
		return
	}

	snap, err := h.snapshots.Create(r.Context(), req.Folder, files)
	if err != nil {
		h.failFromError(w, "snapshot", err, "folder", req.Folder, "files", files)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, createSnapshotResponse{
		Success:    true,
		SnapshotID: snap.ID,
		Folder:     snap.Folder.Name,
		Files:      snap.Files,
		TotalCount: len(snap.Entries),
		CreatedAt:  snap.CreatedAt,
	})
}

// FilterSnapshot filters a cached snapshot with the same options as FilterLogs.
// POST /api/snapshots/{id}/filter
func (h *LogsHandler) FilterSnapshot(w http.ResponseWriter, r *http.Request) {
	defer h.recoverPanic(w, "snapshot")
	id := chi.URLParam(r, "id")

	var req snapshotFilterRequest
	if err := h.decode(w, r, &req); err != nil {
		h.fail(w, "snapshot", "invalid", msgInvalidRequest)
		return
	}

	opts, cs := req.FilterOptions.toDomain(h.location)
	result, err := h.snapshots.Filter(r.Context(), id, opts, cs)
	if err != nil {
		h.failFromError(w, "snapshot", err, "snapshot_id", id)
		return
	}

	h.succeed(w, "snapshot", filterLogsResponse{
		Success:        true,
		Logs:           toRows(result.Entries, true),
		TotalCount:     result.TotalCount,
		DisplayedCount: result.DisplayedCount,
		SnapshotID:     id,
	})
}

// DeleteSnapshot drops a cached snapshot.
// DELETE /api/snapshots/{id}
func (h *LogsHandler) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.snapshots.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			respondWithJSON(w, h.logger, http.StatusNotFound, failureResponse{Message: msgSnapshotNotFound})
			return
		}
		respondWithJSON(w, h.logger, http.StatusInternalServerError, failureResponse{Message: msgFilterFailed})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decode reads the body under the size limit. An empty body is an error.
func (h *LogsHandler) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBody))
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return errors.New("empty request body")
	}
	return json.Unmarshal(body, v)
}

func (h *LogsHandler) failFromError(w http.ResponseWriter, source string, err error, attrs ...any) {
	switch {
	case errors.Is(err, domain.ErrFolderNotFound):
		h.fail(w, source, "invalid", msgUnknownFolder)
	case errors.Is(err, domain.ErrInvalidFileName):
		h.fail(w, source, "invalid", msgInvalidFileName)
	case errors.Is(err, domain.ErrSnapshotNotFound):
		h.fail(w, source, "invalid", msgSnapshotNotFound)
	default:
		h.logger.Error("error filtering logs", append(attrs, "error", err)...)
		h.fail(w, source, "error", msgFilterFailed)
	}
}

// recoverPanic turns a panic inside a filter into the generic failure response.
func (h *LogsHandler) recoverPanic(w http.ResponseWriter, source string) {
	if rec := recover(); rec != nil {
		h.logger.Error("panic while filtering logs", "panic", rec)
		h.fail(w, source, "error", msgFilterFailed)
	}
}

func (h *LogsHandler) fail(w http.ResponseWriter, source, outcome, message string) {
	if h.metrics != nil {
		h.metrics.FilterRequestsTotal.WithLabelValues(source, outcome).Inc()
	}
	respondWithJSON(w, h.logger, http.StatusOK, failureResponse{Success: false, Message: message})
}

func (h *LogsHandler) succeed(w http.ResponseWriter, source string, resp filterLogsResponse) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(resp); err != nil {
		h.logger.Error("error creating JSON response", "error", err)
		h.fail(w, source, "error", msgResponseFailed)
		return
	}
	if h.metrics != nil {
		h.metrics.FilterRequestsTotal.WithLabelValues(source, "success").Inc()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
