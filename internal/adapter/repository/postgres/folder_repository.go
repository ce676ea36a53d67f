package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"github.com/V4T54L/logviewer/internal/domain"
)

const schema = `CREATE TABLE IF NOT EXISTS log_folders (
	position INTEGER PRIMARY KEY,
	name     TEXT NOT NULL,
	path     TEXT NOT NULL
)`

// FolderRepository stores the folder list in the log_folders table.
type FolderRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewFolderRepository creates a PostgreSQL folder repository.
func NewFolderRepository(db *sql.DB, logger *slog.Logger) *FolderRepository {
	return &FolderRepository{
		db:     db,
		logger: logger.With("component", "postgres_folder_repository"),
	}
}

// EnsureSchema creates the table when it is missing.
func (r *FolderRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create log_folders table: %w", err)
	}
	return nil
}

// ListFolders returns folders in their stored order.
func (r *FolderRepository) ListFolders(ctx context.Context) ([]domain.LogFolder, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, path FROM log_folders ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	folders := []domain.LogFolder{}
	for rows.Next() {
		var f domain.LogFolder
		if err := rows.Scan(&f.Name, &f.Path); err != nil {
			return nil, fmt.Errorf("failed to scan log folder: %w", err)
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

// SaveFolders replaces the table contents in one transaction using COPY.
func (r *FolderRepository) SaveFolders(ctx context.Context, folders []domain.LogFolder) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer tx.Rollback() // Rollback is a no-op if the transaction is committed

	if _, err := tx.ExecContext(ctx, `DELETE FROM log_folders`); err != nil {
		return fmt.Errorf("failed to clear log folders: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("log_folders", "position", "name", "path"))
	if err != nil {
		return fmt.Errorf("failed to prepare copy statement: %w", err)
	}
	defer stmt.Close()

	for i, f := range folders {
		if _, err := stmt.ExecContext(ctx, i, f.Name, f.Path); err != nil {
			return fmt.Errorf("failed to copy log folder %q: %w", f.Name, err)
		}
	}

	// Flush the COPY buffer.
	if _, err := stmt.ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to flush copy statement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit log folders: %w", err)
	}

	r.logger.Info("saved log folders", "count", len(folders))
	return nil
}
