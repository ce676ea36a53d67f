package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/V4T54L/logviewer/internal/domain"
)

// FolderRepository stores the folder list as one JSON value under a key.
type FolderRepository struct {
	client *redis.Client
	key    string
	logger *slog.Logger
}

// NewFolderRepository creates a Redis-backed folder repository.
func NewFolderRepository(client *redis.Client, key string, logger *slog.Logger) *FolderRepository {
	return &FolderRepository{
		client: client,
		key:    key,
		logger: logger.With("component", "redis_folder_repository"),
	}
}

// ListFolders returns the stored list; an unset key is an empty list.
func (r *FolderRepository) ListFolders(ctx context.Context) ([]domain.LogFolder, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.LogFolder{}, nil
	}
	if err != nil {
		r.logger.Error("failed to read folders from redis", "key", r.key, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	folders := []domain.LogFolder{}
	if err := json.Unmarshal(data, &folders); err != nil {
		return nil, fmt.Errorf("failed to decode folders at key %s: %w", r.key, err)
	}
	return folders, nil
}

// SaveFolders overwrites the stored list.
func (r *FolderRepository) SaveFolders(ctx context.Context, folders []domain.LogFolder) error {
	if folders == nil {
		folders = []domain.LogFolder{}
	}
	data, err := json.Marshal(folders)
	if err != nil {
		return fmt.Errorf("failed to encode folders: %w", err)
	}

	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		r.logger.Error("failed to write folders to redis", "key", r.key, "error", err)
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}
