// Package scanner discovers git repositories below a root directory.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"sort"

	"github.com/spf13/afero"
)

// DefaultMaxDepth is the deepest directory level visited below the root.
const DefaultMaxDepth = 3

const gitDir = ".git"

// ErrNotDirectory is returned when the scan root is not a directory.
var ErrNotDirectory = errors.New("scan root is not a directory")

// Scanner walks a directory tree looking for repositories. A directory that
// holds a .git directory is reported and not descended into.
type Scanner struct {
	Fs       afero.Fs
	MaxDepth int
	Skip     []string
	Logger   *slog.Logger
}

// New creates a Scanner over the OS filesystem.
func New(maxDepth int, skip []string) *Scanner {
	return &Scanner{
		Fs:       afero.NewOsFs(),
		MaxDepth: maxDepth,
		Skip:     skip,
	}
}

// Scan returns the sorted absolute paths of the repositories under root.
// Unreadable directories are skipped.
func (s *Scanner) Scan(ctx context.Context, root string) ([]string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}

	info, err := s.Fs.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", abs, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, abs)
	}

	var repos []string

	if err := s.scanDir(ctx, abs, 0, &repos); err != nil {
		return nil, err
	}

	sort.Strings(repos)

	return repos, nil
}

func (s *Scanner) scanDir(ctx context.Context, dir string, depth int, repos *[]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth > s.MaxDepth {
		return nil
	}

	entries, err := afero.ReadDir(s.Fs, dir)
	if err != nil {
		s.logger().DebugContext(ctx, "skipping unreadable directory", "path", dir, "error", err)

		return nil
	}

	for _, e := range entries {
		if e.Name() == gitDir && e.IsDir() {
			*repos = append(*repos, dir)

			return nil
		}
	}

	for _, e := range entries {
		if !e.IsDir() || slices.Contains(s.Skip, e.Name()) || e.Name() == gitDir {
			continue
		}

		if err := s.scanDir(ctx, filepath.Join(dir, e.Name()), depth+1, repos); err != nil {
			return err
		}
	}

	return nil
}

func (s *Scanner) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}

	return s.Logger
}
