package domain

import "errors"

var (
	ErrFolderNotFound     = errors.New("log folder not found")
	ErrInvalidFolder      = errors.New("folder name and path are required")
	ErrInvalidFileName    = errors.New("invalid log file name")
	ErrSnapshotNotFound   = errors.New("snapshot not found or expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrStoreUnavailable   = errors.New("folder store not available")
)
