package gitlib

import (
	"errors"
	"fmt"
	"os"

	git2go "github.com/libgit2/git2go/v34"

	"github.com/Sumatoshi-tech/codeme/pkg/framework"
)

// ErrNotRepository is returned when a path exists but is not inside a git repository.
var ErrNotRepository = errors.New("not a git repository")

// Repository wraps a libgit2 repository.
type Repository struct {
	repo *git2go.Repository
	path string
}

// OpenRepository opens the repository containing path, searching parent
// directories the way git does.
func OpenRepository(path string) (*Repository, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", framework.ErrRepoNotFound, path)
	}

	repo, err := git2go.OpenRepositoryExtended(path, 0, "")
	if err != nil {
		if git2go.IsErrorCode(err, git2go.ErrorCodeNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, path)
		}

		return nil, fmt.Errorf("open repository: %w", err)
	}

	return &Repository{repo: repo, path: path}, nil
}

// Path returns the path the repository was opened with.
func (r *Repository) Path() string {
	return r.path
}

// Workdir returns the working directory, empty for bare repositories.
func (r *Repository) Workdir() string {
	return r.repo.Workdir()
}

// Free releases the repository resources.
func (r *Repository) Free() {
	if r.repo != nil {
		r.repo.Free()
		r.repo = nil
	}
}

// Head returns the HEAD reference target.
func (r *Repository) Head() (Hash, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return Hash{}, fmt.Errorf("get HEAD: %w", err)
	}
	defer ref.Free()

	return HashFromOid(ref.Target()), nil
}

// WalkAll creates a time-sorted walker over every ref and HEAD.
func (r *Repository) WalkAll() (*RevWalk, error) {
	walk, err := r.repo.Walk()
	if err != nil {
		return nil, fmt.Errorf("create revwalk: %w", err)
	}

	walk.Sorting(git2go.SortTime)

	// An unborn HEAD or an empty ref namespace only narrows the walk.
	_ = walk.PushGlob("*")
	_ = walk.PushHead()

	return &RevWalk{walk: walk, repo: r}, nil
}

// WalkHead creates a time-sorted walker over the history of HEAD.
func (r *Repository) WalkHead() (*RevWalk, error) {
	walk, err := r.repo.Walk()
	if err != nil {
		return nil, fmt.Errorf("create revwalk: %w", err)
	}

	walk.Sorting(git2go.SortTime)

	err = walk.PushHead()
	if err != nil {
		walk.Free()

		return nil, fmt.Errorf("push HEAD to revwalk: %w", err)
	}

	return &RevWalk{walk: walk, repo: r}, nil
}

// DiffTreeToTree computes the diff between two trees. A nil tree is empty.
func (r *Repository) DiffTreeToTree(oldTree, newTree *Tree) (*Diff, error) {
	opts, err := git2go.DefaultDiffOptions()
	if err != nil {
		return nil, fmt.Errorf("get diff options: %w", err)
	}

	var oldT, newT *git2go.Tree
	if oldTree != nil {
		oldT = oldTree.tree
	}

	if newTree != nil {
		newT = newTree.tree
	}

	diff, err := r.repo.DiffTreeToTree(oldT, newT, &opts)
	if err != nil {
		return nil, fmt.Errorf("diff trees: %w", err)
	}

	return &Diff{diff: diff}, nil
}

// ConfigString returns a config value across all config levels, empty
// when unset.
func (r *Repository) ConfigString(name string) string {
	cfg, err := r.repo.Config()
	if err != nil {
		return ""
	}
	defer cfg.Free()

	value, err := cfg.LookupString(name)
	if err != nil {
		return ""
	}

	return value
}

// RemoteURL returns the URL of the named remote, empty when absent.
func (r *Repository) RemoteURL(name string) string {
	remote, err := r.repo.Remotes.Lookup(name)
	if err != nil {
		return ""
	}
	defer remote.Free()

	return remote.Url()
}

// Native returns the underlying libgit2 repository.
func (r *Repository) Native() *git2go.Repository {
	return r.repo
}
