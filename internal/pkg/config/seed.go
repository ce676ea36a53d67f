package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/V4T54L/logviewer/internal/domain"
)

type folderSeed struct {
	Folders []domain.LogFolder `toml:"folders"`
}

// LoadFolderSeed reads the initial folder list from a TOML file of
// [[folders]] tables. A missing file yields no folders.
func LoadFolderSeed(path string) ([]domain.LogFolder, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read folder seed %s: %w", path, err)
	}

	var seed folderSeed
	if err := toml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse folder seed %s: %w", path, err)
	}
	return seed.Folders, nil
}
