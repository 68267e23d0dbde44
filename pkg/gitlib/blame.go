package gitlib

import (
	"context"
	"fmt"
	"strings"

	git2go "github.com/libgit2/git2go/v34"

	"github.com/Sumatoshi-tech/codeme/pkg/framework"
)

var _ framework.Source = (*Source)(nil)

// BlameAuthors returns one "Name <email>" line per line of the HEAD
// version of path.
func (s *Source) BlameAuthors(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	repo, err := OpenRepository(s.path)
	if err != nil {
		return "", err
	}
	defer repo.Free()

	opts, err := git2go.DefaultBlameOptions()
	if err != nil {
		return "", fmt.Errorf("blame options: %w", err)
	}

	blame, err := repo.Native().BlameFile(path, &opts)
	if err != nil {
		return "", fmt.Errorf("blame %s: %w", path, err)
	}

	defer func() { _ = blame.Free() }()

	var b strings.Builder

	for i := range blame.HunkCount() {
		hunk, hunkErr := blame.HunkByIndex(i)
		if hunkErr != nil {
			return "", fmt.Errorf("blame %s hunk %d: %w", path, i, hunkErr)
		}

		id := signatureOf(hunk.FinalSignature).Identity()

		for range int(hunk.LinesInHunk) {
			b.WriteString(id)
			b.WriteByte('\n')
		}
	}

	return b.String(), nil
}

// DistinctAuthorCount counts the distinct author emails of the HEAD
// commits that changed path. A merge counts only when path differs from
// every parent.
func (s *Source) DistinctAuthorCount(ctx context.Context, path string) (int, error) {
	repo, err := OpenRepository(s.path)
	if err != nil {
		return 0, err
	}
	defer repo.Free()

	walk, err := repo.WalkHead()
	if err != nil {
		return 0, err
	}
	defer walk.Free()

	authors := make(map[string]struct{})

	var cbErr error

	iterErr := walk.Iterate(func(c *Commit) bool {
		if cbErr = ctx.Err(); cbErr != nil {
			return false
		}

		var touched bool

		touched, cbErr = touchesPath(c, path)
		if cbErr != nil {
			return false
		}

		if touched {
			authors[strings.ToLower(c.Author().Email)] = struct{}{}
		}

		return true
	})
	if cbErr != nil {
		return 0, cbErr
	}

	if iterErr != nil {
		return 0, iterErr
	}

	return len(authors), nil
}

func touchesPath(c *Commit, path string) (bool, error) {
	id, present, err := entryAt(c, path)
	if err != nil {
		return false, err
	}

	if c.NumParents() == 0 {
		return present, nil
	}

	for i := range c.NumParents() {
		parent, parentErr := c.Parent(i)
		if parentErr != nil {
			return false, parentErr
		}

		pid, pPresent, pErr := entryAt(parent, path)
		parent.Free()

		if pErr != nil {
			return false, pErr
		}

		if pPresent == present && pid == id {
			return false, nil
		}
	}

	return true, nil
}

func entryAt(c *Commit, path string) (Hash, bool, error) {
	tree, err := c.Tree()
	if err != nil {
		return Hash{}, false, err
	}
	defer tree.Free()

	id, ok := tree.EntryID(path)

	return id, ok, nil
}
