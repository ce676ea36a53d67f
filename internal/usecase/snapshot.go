package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/V4T54L/logviewer/internal/domain"
)

// SnapshotUseCase reads files once into a cached snapshot which can then be
// filtered many times with the same pipeline as a direct filter.
type SnapshotUseCase struct {
	filter  *FilterLogsUseCase
	folders *FolderUseCase
	cache   domain.SnapshotCache
	watcher domain.FileWatcher
	logger  *slog.Logger
}

// NewSnapshotUseCase creates a new SnapshotUseCase. watcher may be nil.
func NewSnapshotUseCase(filter *FilterLogsUseCase, folders *FolderUseCase, cache domain.SnapshotCache, watcher domain.FileWatcher, logger *slog.Logger) *SnapshotUseCase {
	return &SnapshotUseCase{
		filter:  filter,
		folders: folders,
		cache:   cache,
		watcher: watcher,
		logger:  logger,
	}
}

// Create reads the files of a folder into a new snapshot.
func (uc *SnapshotUseCase) Create(ctx context.Context, folderIdent string, files []string) (*domain.Snapshot, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "CreateSnapshot")
	defer span.End()

	folder, err := uc.folders.FindFolder(ctx, folderIdent)
	if err != nil {
		return nil, err
	}

	entries, sources, err := uc.filter.ReadEntries(ctx, folder, files)
	if err != nil {
		return nil, err
	}

	snap := &domain.Snapshot{
		ID:        uuid.NewString(),
		Folder:    folder,
		Files:     files,
		Sources:   sources,
		Entries:   entries,
		CreatedAt: time.Now().UTC(),
	}
	uc.cache.Put(snap)

	if uc.watcher != nil {
		if err := uc.watcher.Watch(sources...); err != nil {
			uc.logger.Warn("failed to watch snapshot sources", "snapshot_id", snap.ID, "error", err)
		}
	}

	uc.logger.Info("created snapshot", "snapshot_id", snap.ID, "folder", folder.Name, "files", len(files), "entries", len(entries))
	return snap, nil
}

// Filter runs the pipeline over a cached snapshot without touching disk.
func (uc *SnapshotUseCase) Filter(ctx context.Context, id string, opts domain.FilterOptions, cs domain.ColumnSort) (*FilterResult, error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "FilterSnapshot")
	defer span.End()

	snap, ok := uc.cache.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, id)
	}
	return uc.filter.Apply(snap.Entries, opts, cs), nil
}

// Delete drops a snapshot from the cache.
func (uc *SnapshotUseCase) Delete(ctx context.Context, id string) error {
	if _, ok := uc.cache.Get(id); !ok {
		return fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, id)
	}
	uc.cache.Remove(id)
	return nil
}
