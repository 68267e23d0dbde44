// Package collaboration samples the most-touched files of a contributor
// and measures how much of their current content belongs to others and
// how many of them have a single historical author.
package collaboration

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/stats"
)

// Default sampling parameters.
const (
	DefaultSampleSize = 10
	DefaultWorkers    = 4
)

const percent = 100.0

// AuthorshipSource answers per-file authorship queries.
type AuthorshipSource interface {
	// BlameAuthors returns one authorship line per current line of path.
	BlameAuthors(ctx context.Context, path string) (string, error)
	// DistinctAuthorCount returns the number of distinct historical authors of path.
	DistinctAuthorCount(ctx context.Context, path string) (int, error)
}

// QueryObserver is notified of every authorship query outcome.
type QueryObserver interface {
	ObserveQuery(ctx context.Context, ok bool)
}

// Result holds the collaboration scores and the counts they derive from.
type Result struct {
	InterweavingScore    float64 `json:"interweaving_score"     yaml:"interweaving_score"`
	SoleMaintenanceIndex float64 `json:"sole_maintenance_index" yaml:"sole_maintenance_index"`
	OthersLines          int     `json:"others_lines"           yaml:"others_lines"`
	AttributedLines      int     `json:"attributed_lines"       yaml:"attributed_lines"`
	SoleMaintained       int     `json:"sole_maintained"        yaml:"sole_maintained"`
	Sampled              int     `json:"sampled"                yaml:"sampled"`
}

// Sampler runs the authorship queries.
type Sampler struct {
	Source     AuthorshipSource
	SampleSize int
	Workers    int
	Logger     *slog.Logger
	Observer   QueryObserver
}

type fileCounts struct {
	others     int
	attributed int
	sole       bool
}

// Sample analyzes the top touched files of s for the given author identity.
// Query failures count as zero data for the file and never abort.
func (sm *Sampler) Sample(ctx context.Context, s *stats.Stats, author string) (Result, error) {
	files := TopFiles(s.Modules, sm.sampleSize())
	partials := make([]fileCounts, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sm.workers())

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			partials[i] = sm.queryFile(gctx, path, author)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var res Result

	res.Sampled = len(files)

	for _, fc := range partials {
		res.OthersLines += fc.others
		res.AttributedLines += fc.attributed

		if fc.sole {
			res.SoleMaintained++
		}
	}

	return res.withScores(), nil
}

func (sm *Sampler) queryFile(ctx context.Context, path, author string) fileCounts {
	var fc fileCounts

	blame, err := sm.Source.BlameAuthors(ctx, path)
	sm.observe(ctx, err == nil)

	if err != nil {
		sm.logger().DebugContext(ctx, "blame query failed", "path", path, "error", err)
	} else {
		fc.attributed, fc.others = CountLines(blame, author)
	}

	authors, err := sm.Source.DistinctAuthorCount(ctx, path)
	sm.observe(ctx, err == nil)

	if err != nil {
		sm.logger().DebugContext(ctx, "author count query failed", "path", path, "error", err)

		return fc
	}

	fc.sole = authors == 1

	return fc
}

func (sm *Sampler) observe(ctx context.Context, ok bool) {
	if sm.Observer != nil {
		sm.Observer.ObserveQuery(ctx, ok)
	}
}

func (sm *Sampler) sampleSize() int {
	if sm.SampleSize <= 0 {
		return DefaultSampleSize
	}

	return sm.SampleSize
}

func (sm *Sampler) workers() int {
	if sm.Workers <= 0 {
		return DefaultWorkers
	}

	return sm.Workers
}

func (sm *Sampler) logger() *slog.Logger {
	if sm.Logger == nil {
		return slog.Default()
	}

	return sm.Logger
}

// CountLines counts the non-empty authorship lines of a blame listing and
// how many of them do not contain the author identity.
func CountLines(blame, author string) (attributed, others int) {
	for line := range strings.SplitSeq(blame, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		attributed++

		if !strings.Contains(line, author) {
			others++
		}
	}

	return attributed, others
}

// TopFiles returns up to k paths ordered by touch count, ties by path.
// A leading "./" is stripped.
func TopFiles(modules map[string]int, k int) []string {
	top := stats.Top(modules, k)
	paths := make([]string, len(top))

	for i, c := range top {
		paths[i] = strings.TrimPrefix(c.Name, "./")
	}

	return paths
}

// Merge pools the raw counts of several results and recomputes the scores.
func Merge(results ...Result) Result {
	var out Result

	for _, r := range results {
		out.OthersLines += r.OthersLines
		out.AttributedLines += r.AttributedLines
		out.SoleMaintained += r.SoleMaintained
		out.Sampled += r.Sampled
	}

	return out.withScores()
}

func (r Result) withScores() Result {
	r.InterweavingScore = 0
	if r.AttributedLines > 0 {
		r.InterweavingScore = percent * float64(r.OthersLines) / float64(r.AttributedLines)
	}

	r.SoleMaintenanceIndex = 0
	if r.Sampled > 0 {
		r.SoleMaintenanceIndex = percent * float64(r.SoleMaintained) / float64(r.Sampled)
	}

	return r
}

