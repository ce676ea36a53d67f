package domain

import (
	"context"
	"io"
)

// FolderRepository persists the configured log folders.
// Implementations: JSON side-file, Redis, PostgreSQL.
type FolderRepository interface {
	// ListFolders returns the configured folders in insertion order.
	ListFolders(ctx context.Context) ([]LogFolder, error)

	// SaveFolders replaces the full folder list.
	SaveFolders(ctx context.Context, folders []LogFolder) error
}

// LogFileRepository gives access to log files on disk.
type LogFileRepository interface {
	// ListFiles returns the log files of a folder, newest-modified first.
	// A missing directory yields an empty list.
	ListFiles(ctx context.Context, folderPath string) ([]LogFileInfo, error)

	// Open returns a reader over the decoded content of one file.
	Open(ctx context.Context, folderPath, fileName string) (io.ReadCloser, error)

	// Resolve returns the absolute path of a file after validating its name.
	Resolve(folderPath, fileName string) (string, error)
}

// FileWatcher reports changes to files backing cached snapshots.
type FileWatcher interface {
	Watch(paths ...string) error
}

// SnapshotCache keeps snapshots for repeated local filtering.
type SnapshotCache interface {
	Put(snapshot *Snapshot)
	Get(id string) (*Snapshot, bool)
	Remove(id string)
	// InvalidateFile drops every snapshot built from the given absolute file path.
	InvalidateFile(path string) int
}
