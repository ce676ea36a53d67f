package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/V4T54L/logviewer/internal/domain"
)

// FolderUseCase manages the configured log folders and their file listings.
// Changes to the folder list are serialized so concurrent adds and removes
// do not overwrite each other.
type FolderUseCase struct {
	mu     sync.Mutex
	repo   domain.FolderRepository
	files  domain.LogFileRepository
	logger *slog.Logger
}

// NewFolderUseCase creates a new FolderUseCase.
func NewFolderUseCase(repo domain.FolderRepository, files domain.LogFileRepository, logger *slog.Logger) *FolderUseCase {
	return &FolderUseCase{
		repo:   repo,
		files:  files,
		logger: logger,
	}
}

// Seed stores seed when the repository holds no folders yet.
func (uc *FolderUseCase) Seed(ctx context.Context, seed []domain.LogFolder) error {
	if len(seed) == 0 {
		return nil
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()

	current, err := uc.repo.ListFolders(ctx)
	if err != nil {
		return err
	}
	if len(current) > 0 {
		return nil
	}
	uc.logger.Info("seeding log folders", "count", len(seed))
	return uc.repo.SaveFolders(ctx, seed)
}

// ListFolders returns every configured folder.
func (uc *FolderUseCase) ListFolders(ctx context.Context) ([]domain.LogFolder, error) {
	return uc.repo.ListFolders(ctx)
}

// FindFolder looks a folder up by name, then by configured path. Requests
// can only reach directories that are configured.
func (uc *FolderUseCase) FindFolder(ctx context.Context, ident string) (domain.LogFolder, error) {
	folders, err := uc.repo.ListFolders(ctx)
	if err != nil {
		return domain.LogFolder{}, err
	}
	for _, f := range folders {
		if f.Name == ident {
			return f, nil
		}
	}
	for _, f := range folders {
		if f.Path == ident {
			return f, nil
		}
	}
	return domain.LogFolder{}, fmt.Errorf("%w: %q", domain.ErrFolderNotFound, ident)
}

// AddFolder appends a folder unless one with the same name exists. It
// reports whether the folder was added.
func (uc *FolderUseCase) AddFolder(ctx context.Context, folder domain.LogFolder) (bool, error) {
	folder.Name = strings.TrimSpace(folder.Name)
	folder.Path = strings.TrimSpace(folder.Path)
	if folder.Name == "" || folder.Path == "" {
		return false, domain.ErrInvalidFolder
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	folders, err := uc.repo.ListFolders(ctx)
	if err != nil {
		return false, err
	}
	for _, f := range folders {
		if f.Name == folder.Name {
			uc.logger.Info("log folder already exists, skipping", "name", folder.Name)
			return false, nil
		}
	}

	if err := uc.repo.SaveFolders(ctx, append(folders, folder)); err != nil {
		return false, err
	}
	uc.logger.Info("added log folder", "name", folder.Name, "path", folder.Path)
	return true, nil
}

// RemoveFolder deletes every folder named name and returns how many went.
func (uc *FolderUseCase) RemoveFolder(ctx context.Context, name string) (int, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	folders, err := uc.repo.ListFolders(ctx)
	if err != nil {
		return 0, err
	}

	kept := make([]domain.LogFolder, 0, len(folders))
	for _, f := range folders {
		if f.Name != name {
			kept = append(kept, f)
		}
	}
	removed := len(folders) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	if err := uc.repo.SaveFolders(ctx, kept); err != nil {
		return 0, err
	}
	uc.logger.Info("removed log folder", "name", name, "count", removed)
	return removed, nil
}

// ListFiles lists the log files of a configured folder.
func (uc *FolderUseCase) ListFiles(ctx context.Context, ident string) ([]domain.LogFileInfo, error) {
	folder, err := uc.FindFolder(ctx, ident)
	if err != nil {
		return nil, err
	}
	return uc.files.ListFiles(ctx, folder.Path)
}
