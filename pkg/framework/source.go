package framework

import (
	"context"
	"errors"
	"time"

	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/collaboration"
	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/stats"
)

// Sentinel errors shared by sources and the runner.
var (
	// ErrNoData is returned when the author has no commits in the period.
	ErrNoData = errors.New("no commits found in the selected period")
	// ErrRepoNotFound is returned when the repository path does not exist.
	ErrRepoNotFound = errors.New("repository not found")
	// ErrNoIdentity is returned when no author is given and none is configured.
	ErrNoIdentity = errors.New("no git user configured")
)

// Period is an inclusive time range. A zero bound is open.
type Period struct {
	Since time.Time
	Until time.Time
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	if !p.Since.IsZero() && t.Before(p.Since) {
		return false
	}

	if !p.Until.IsZero() && t.After(p.Until) {
		return false
	}

	return true
}

// Source is the version-control accessor one repository analysis reads from.
type Source interface {
	collaboration.AuthorshipSource

	// Identity returns the configured author identity, email preferred.
	Identity(ctx context.Context) (string, error)
	// ProjectName returns a display name for the repository.
	ProjectName(ctx context.Context) string
	// RawLog returns "hash|timestamp|subject" lines of the author's commits.
	RawLog(ctx context.Context, author string, p Period) (string, error)
	// RawDiffStat returns one diff-stat block per commit of the author.
	RawDiffStat(ctx context.Context, author string, p Period) (string, error)
	// BaselineProjectStats returns the all-author baseline of the period.
	BaselineProjectStats(ctx context.Context, p Period) (stats.ProjectStats, error)
	// Close releases the underlying resources.
	Close()
}

// Opener opens the Source of the repository at path.
type Opener func(path string) (Source, error)
