package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/V4T54L/logviewer/internal/domain"
)

// DefaultPatterns are the file patterns listed when none are configured.
var DefaultPatterns = []string{"*.txt", "*.log", "*.LOG"}

// LogFileRepository implements domain.LogFileRepository on the local disk.
type LogFileRepository struct {
	patterns []string
	logger   *slog.Logger
}

// NewLogFileRepository creates a repository listing files matching patterns.
func NewLogFileRepository(patterns []string, logger *slog.Logger) (*LogFileRepository, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid file pattern %q", p)
		}
	}
	return &LogFileRepository{
		patterns: patterns,
		logger:   logger.With("component", "log_file_repository"),
	}, nil
}

// ResolvePath turns a configured folder path into a usable one. Rooted
// paths are used as-is, a leading slash or backslash is taken relative to
// the root of the working directory's volume, anything else is left alone.
func ResolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "/") || strings.HasPrefix(path, `\`) {
		cwd, err := os.Getwd()
		if err != nil {
			return path
		}
		root := filepath.VolumeName(cwd) + string(filepath.Separator)
		return filepath.Join(root, strings.TrimLeft(path, `/\`))
	}
	return path
}

// ListFiles returns the matching files of folderPath, newest-modified first.
// Missing or unreadable directories give an empty list.
func (r *LogFileRepository) ListFiles(ctx context.Context, folderPath string) ([]domain.LogFileInfo, error) {
	base := ResolvePath(folderPath)
	files := []domain.LogFileInfo{}

	info, err := os.Stat(base)
	if err != nil || !info.IsDir() {
		r.logger.Warn("directory does not exist", "path", base, "error", err)
		return files, nil
	}

	fsys := os.DirFS(base)
	seen := make(map[string]struct{})

	for _, pattern := range r.patterns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			r.logger.Error("failed to glob files", "pattern", pattern, "path", base, "error", err)
			continue
		}
		r.logger.Debug("found files matching pattern", "pattern", pattern, "path", base, "count", len(matches))

		for _, name := range matches {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}

			fi, err := fs.Stat(fsys, name)
			if err != nil {
				r.logger.Error("failed to stat file", "file", name, "error", err)
				continue
			}
			files = append(files, domain.LogFileInfo{
				FileName:         filepath.ToSlash(name),
				CreationDate:     creationTime(fi),
				ModificationDate: fi.ModTime(),
				FileSizeBytes:    fi.Size(),
			})
		}
	}

	slices.SortStableFunc(files, func(a, b domain.LogFileInfo) int {
		return b.ModificationDate.Compare(a.ModificationDate)
	})

	return files, nil
}

// Resolve validates fileName and joins it onto the folder path. Names may
// point into subdirectories but never outside the folder.
func (r *LogFileRepository) Resolve(folderPath, fileName string) (string, error) {
	name := filepath.ToSlash(fileName)
	if name == "" || strings.Contains(fileName, `\`) || !fs.ValidPath(name) {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidFileName, fileName)
	}

	abs, err := filepath.Abs(filepath.Join(ResolvePath(folderPath), filepath.FromSlash(name)))
	if err != nil {
		return "", err
	}
	return abs, nil
}

// Open returns the decoded content of a log file. Files ending in .gz or .zst
// are decompressed on the fly.
func (r *LogFileRepository) Open(ctx context.Context, folderPath, fileName string) (io.ReadCloser, error) {
	path, err := r.Resolve(folderPath, fileName)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	rc, err := decode(f, path)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to open compressed file %s: %w", path, err)
	}
	return rc, nil
}

func decode(f *os.File, path string) (io.ReadCloser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		return &stackedReadCloser{Reader: zr, closers: []io.Closer{zr, f}}, nil
	case ".zst":
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, err
		}
		zr := dec.IOReadCloser()
		return &stackedReadCloser{Reader: zr, closers: []io.Closer{zr, f}}, nil
	default:
		return f, nil
	}
}

// stackedReadCloser closes a decoder and its underlying file together.
type stackedReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedReadCloser) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
