package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/V4T54L/logviewer/internal/domain"
)

const filePerm = 0o644

// FolderRepository keeps the folder list in an indented JSON file. Every read
// goes back to disk so edits made by hand are picked up.
type FolderRepository struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

// NewFolderRepository creates a repository backed by the file at path.
func NewFolderRepository(path string, logger *slog.Logger) *FolderRepository {
	return &FolderRepository{
		path:   path,
		logger: logger.With("component", "jsonfile_folder_repository"),
	}
}

// ListFolders reads the file. A missing file is an empty list.
func (r *FolderRepository) ListFolders(ctx context.Context) ([]domain.LogFolder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return []domain.LogFolder{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read folder file %s: %w", r.path, err)
	}

	folders := []domain.LogFolder{}
	if err := json.Unmarshal(data, &folders); err != nil {
		return nil, fmt.Errorf("failed to decode folder file %s: %w", r.path, err)
	}
	return folders, nil
}

// SaveFolders rewrites the file through a temp file and rename so readers
// never see a partial list.
func (r *FolderRepository) SaveFolders(ctx context.Context, folders []domain.LogFolder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if folders == nil {
		folders = []domain.LogFolder{}
	}
	data, err := json.MarshalIndent(folders, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode folders: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("failed to create folder file directory: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, filePerm); err != nil {
		return fmt.Errorf("failed to write folder file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace folder file: %w", err)
	}

	r.logger.Info("saved log folders", "path", r.path, "count", len(folders))
	return nil
}
