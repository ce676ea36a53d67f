package domain

import "time"

// LogFolder is a named directory the viewer may browse.
type LogFolder struct {
	Name string `json:"name" toml:"name"`
	Path string `json:"path" toml:"path"`
}

// LogFileInfo describes one log file inside a folder.
type LogFileInfo struct {
	FileName         string    `json:"fileName"`
	CreationDate     time.Time `json:"creationDate"`
	ModificationDate time.Time `json:"modificationDate"`
	FileSizeBytes    int64     `json:"fileSizeBytes"`
}

// Snapshot is an unfiltered set of entries read once and filtered repeatedly.
type Snapshot struct {
	ID        string
	Folder    LogFolder
	Files     []string
	Sources   []string // absolute paths of Files
	Entries   []LogEntry
	CreatedAt time.Time
}
