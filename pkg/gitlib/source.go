package gitlib

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/commitlog"
	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/stats"
	"github.com/Sumatoshi-tech/codeme/pkg/framework"
)

// Source serves the history of one repository. Log and baseline queries
// share one handle under a lock; authorship queries open their own handle
// so they can run concurrently.
type Source struct {
	mu   sync.Mutex
	repo *Repository
	path string
}

// Open opens the Source of the repository containing path.
func Open(path string) (*Source, error) {
	repo, err := OpenRepository(path)
	if err != nil {
		return nil, err
	}

	return &Source{repo: repo, path: path}, nil
}

// Opener adapts Open to framework.Opener.
func Opener(path string) (framework.Source, error) {
	src, err := Open(path)
	if err != nil {
		return nil, err
	}

	return src, nil
}

// Close releases the repository handle.
func (s *Source) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.repo.Free()
}

// Identity returns user.email, falling back to user.name.
func (s *Source) Identity(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range []string{"user.email", "user.name"} {
		if v := strings.TrimSpace(s.repo.ConfigString(key)); v != "" {
			return v, nil
		}
	}

	return "", framework.ErrNoIdentity
}

// ProjectName derives a name from the origin URL, else the directory name.
func (s *Source) ProjectName(_ context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name := nameFromURL(s.repo.RemoteURL("origin")); name != "" {
		return name
	}

	dir := s.repo.Workdir()
	if dir == "" {
		dir = s.path
	}

	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	return filepath.Base(filepath.Clean(dir))
}

func nameFromURL(url string) string {
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	url = strings.TrimSuffix(url, ".git")

	if i := strings.LastIndexAny(url, "/:"); i >= 0 {
		url = url[i+1:]
	}

	return url
}

// RawLog returns "hash|RFC3339|subject" lines of the matching
// commits across all refs, newest first.
func (s *Source) RawLog(ctx context.Context, author string, p framework.Period) (string, error) {
	var b strings.Builder

	err := s.eachAuthorCommit(ctx, author, p, func(c *Commit) error {
		b.WriteString(c.Hash().String())
		b.WriteByte('|')
		b.WriteString(c.Author().When.Format(time.RFC3339))
		b.WriteByte('|')
		b.WriteString(c.Subject())
		b.WriteByte('\n')

		return nil
	})
	if err != nil {
		return "", err
	}

	return b.String(), nil
}

// RawDiffStat returns one block per matching commit. Merge commits
// produce an empty block.
func (s *Source) RawDiffStat(ctx context.Context, author string, p framework.Period) (string, error) {
	var b strings.Builder

	err := s.eachAuthorCommit(ctx, author, p, func(c *Commit) error {
		b.WriteString(commitlog.BlockSeparator)
		b.WriteString(c.Hash().String())
		b.WriteByte('\n')

		if c.NumParents() > 1 {
			return nil
		}

		files, err := s.commitNumStat(c)
		if err != nil {
			return err
		}

		WriteNumStat(&b, files)

		return nil
	})
	if err != nil {
		return "", err
	}

	return b.String(), nil
}

// BaselineProjectStats counts all commits of the period and their
// distinct author emails.
func (s *Source) BaselineProjectStats(ctx context.Context, p framework.Period) (stats.ProjectStats, error) {
	commits := 0
	authors := make(map[string]struct{})

	err := s.eachCommit(ctx, func(c *Commit) error {
		sig := c.Author()
		if !p.Contains(sig.When) {
			return nil
		}

		commits++
		authors[strings.ToLower(sig.Email)] = struct{}{}

		return nil
	})
	if err != nil {
		return stats.ProjectStats{}, err
	}

	return stats.NewProjectStats(commits, len(authors)), nil
}

func (s *Source) eachAuthorCommit(ctx context.Context, author string, p framework.Period, fn func(*Commit) error) error {
	matcher := NewAuthorMatcher(author)

	return s.eachCommit(ctx, func(c *Commit) error {
		sig := c.Author()
		if !p.Contains(sig.When) || !matcher.Match(sig) {
			return nil
		}

		return fn(c)
	})
}

// eachCommit walks every ref newest first.
func (s *Source) eachCommit(ctx context.Context, fn func(*Commit) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	walk, err := s.repo.WalkAll()
	if err != nil {
		return err
	}
	defer walk.Free()

	var cbErr error

	iterErr := walk.Iterate(func(c *Commit) bool {
		if cbErr = ctx.Err(); cbErr != nil {
			return false
		}

		cbErr = fn(c)

		return cbErr == nil
	})
	if cbErr != nil {
		return cbErr
	}

	return iterErr
}

func (s *Source) commitNumStat(c *Commit) ([]FileStat, error) {
	tree, err := c.Tree()
	if err != nil {
		return nil, err
	}
	defer tree.Free()

	var parentTree *Tree

	if c.NumParents() == 1 {
		parent, parentErr := c.Parent(0)
		if parentErr != nil {
			return nil, parentErr
		}
		defer parent.Free()

		parentTree, err = parent.Tree()
		if err != nil {
			return nil, err
		}
		defer parentTree.Free()
	}

	diff, err := s.repo.DiffTreeToTree(parentTree, tree)
	if err != nil {
		return nil, fmt.Errorf("diff %s: %w", c.Hash().Short(), err)
	}
	defer diff.Free()

	return diff.NumStat()
}
