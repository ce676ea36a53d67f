package mocks

import (
	"context"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/V4T54L/logviewer/internal/domain"
)

// MockFolderRepository is an in-memory domain.FolderRepository for testing.
type MockFolderRepository struct {
	mu        sync.Mutex
	Folders   []domain.LogFolder
	SaveCalls int
	ListErr   error
	SaveErr   error
}

func (m *MockFolderRepository) ListFolders(ctx context.Context) ([]domain.LogFolder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]domain.LogFolder{}, m.Folders...), nil
}

func (m *MockFolderRepository) SaveFolders(ctx context.Context, folders []domain.LogFolder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.SaveCalls++
	m.Folders = append([]domain.LogFolder{}, folders...)
	return nil
}

// MockLogFileRepository serves file contents from memory, keyed by
// "folderPath/fileName".
type MockLogFileRepository struct {
	mu       sync.Mutex
	Contents map[string]string
	Listing  []domain.LogFileInfo
	OpenErr  error
	Opened   []string
}

func (m *MockLogFileRepository) ListFiles(ctx context.Context, folderPath string) ([]domain.LogFileInfo, error) {
	return m.Listing, nil
}

func (m *MockLogFileRepository) Open(ctx context.Context, folderPath, fileName string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	p, err := m.Resolve(folderPath, fileName)
	if err != nil {
		return nil, err
	}
	m.Opened = append(m.Opened, p)
	content, ok := m.Contents[p]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

func (m *MockLogFileRepository) Resolve(folderPath, fileName string) (string, error) {
	if fileName == "" || !fs.ValidPath(fileName) {
		return "", domain.ErrInvalidFileName
	}
	return path.Join(folderPath, fileName), nil
}

// MockFileWatcher records watched paths.
type MockFileWatcher struct {
	mu      sync.Mutex
	Watched []string
	Err     error
}

func (m *MockFileWatcher) Watch(paths ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Watched = append(m.Watched, paths...)
	return nil
}
