package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/V4T54L/logviewer/internal/adapter/api/middleware"
	"github.com/V4T54L/logviewer/internal/domain"
)

// FolderService manages configured folders.
type FolderService interface {
	ListFolders(ctx context.Context) ([]domain.LogFolder, error)
	AddFolder(ctx context.Context, folder domain.LogFolder) (bool, error)
	RemoveFolder(ctx context.Context, name string) (int, error)
	ListFiles(ctx context.Context, folder string) ([]domain.LogFileInfo, error)
}

// FolderHandler handles HTTP requests for folder administration and browsing.
type FolderHandler struct {
	folders FolderService
	logger  *slog.Logger
}

// NewFolderHandler creates a new FolderHandler.
func NewFolderHandler(folders FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{folders: folders, logger: logger}
}

// ListFolders returns the configured folders.
// GET /api/folders
func (h *FolderHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.folders.ListFolders(r.Context())
	if err != nil {
		h.storeError(w, "failed to list folders", err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, folders)
}

// AddFolder adds a folder; an existing name is left unchanged.
// POST /api/folders
func (h *FolderHandler) AddFolder(w http.ResponseWriter, r *http.Request) {
	var folder domain.LogFolder
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64*1024)).Decode(&folder); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "Bad Request: Failed to decode JSON")
		return
	}

	added, err := h.folders.AddFolder(r.Context(), folder)
	if errors.Is(err, domain.ErrInvalidFolder) {
		respondWithError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.storeError(w, "failed to add folder", err)
		return
	}

	status := http.StatusCreated
	if !added {
		status = http.StatusOK
	}
	h.logger.Info("folder add requested",
		"name", folder.Name,
		"path", folder.Path,
		"added", added,
		"user", middleware.UserFromContext(r.Context()),
	)
	respondWithJSON(w, h.logger, status, map[string]any{"added": added, "folder": folder})
}

// RemoveFolder removes every folder with the given name.
// DELETE /api/folders/{name}
func (h *FolderHandler) RemoveFolder(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	removed, err := h.folders.RemoveFolder(r.Context(), name)
	if err != nil {
		h.storeError(w, "failed to remove folder", err)
		return
	}
	if removed == 0 {
		respondWithError(w, h.logger, http.StatusNotFound, "folder not found")
		return
	}
	h.logger.Info("folder removed", "name", name, "count", removed, "user", middleware.UserFromContext(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// ListFiles returns the log files of a folder, newest first.
// GET /api/folders/{name}/files
func (h *FolderHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	files, err := h.folders.ListFiles(r.Context(), name)
	if errors.Is(err, domain.ErrFolderNotFound) {
		respondWithError(w, h.logger, http.StatusNotFound, "folder not found")
		return
	}
	if err != nil {
		h.storeError(w, "failed to list files", err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, files)
}

func (h *FolderHandler) storeError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, "error", err)
	if errors.Is(err, domain.ErrStoreUnavailable) {
		respondWithError(w, h.logger, http.StatusServiceUnavailable, "folder store unavailable")
		return
	}
	respondWithError(w, h.logger, http.StatusInternalServerError, "Internal server error")
}
