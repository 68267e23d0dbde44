// Package framework runs the profile pipeline over one or more repositories:
// collect, accumulate, sample collaboration, derive metrics, classify and
// assemble the report.
package framework

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/collaboration"
	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/commitlog"
	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/role"
	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/scoring"
	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/sentiment"
	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/stats"
	"github.com/Sumatoshi-tech/codeme/pkg/observability"
	"github.com/Sumatoshi-tech/codeme/pkg/report"
)

// DefaultParallelism bounds concurrently analyzed repositories.
const DefaultParallelism = 4

// Pipeline stage names used for spans and the stage duration metric.
const (
	StageCollect       = "collect"
	StageAccumulate    = "accumulate"
	StageCollaboration = "collaboration"
	StageScore         = "score"
)

// Options tune the pipeline.
type Options struct {
	SampleSize     int
	Workers        int
	Parallelism    int
	Location       *time.Location
	Lexicon        *sentiment.Lexicon
	Thresholds     scoring.Thresholds
	CoreMultiplier float64
	TopKeywords    int
	TopExtensions  int
}

// Request selects what to profile.
type Request struct {
	// Author overrides the repository's configured identity.
	Author string
	Period report.Period
	// SampleSize overrides Options.SampleSize when positive.
	SampleSize int
}

func (r Request) window() Period {
	return Period{Since: r.Period.Since, Until: r.Period.Until}
}

// Runner drives the pipeline.
type Runner struct {
	Open    Opener
	Options Options
	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *observability.AnalysisMetrics
}

// NewRunner creates a Runner with no-op telemetry.
func NewRunner(open Opener, opts Options) *Runner {
	return &Runner{
		Open:    open,
		Options: opts,
		Logger:  observability.Discard(),
		Tracer:  nooptrace.NewTracerProvider().Tracer(""),
	}
}

// repoProfile is the per-repository pipeline output before merging.
type repoProfile struct {
	path          string
	name          string
	author        string
	stats         *stats.Stats
	project       stats.ProjectStats
	collaboration collaboration.Result
}

// Profile analyzes a single repository.
func (r *Runner) Profile(ctx context.Context, path string, req Request) (report.Report, error) {
	ctx, span := r.tracer().Start(ctx, "codeme.profile", trace.WithAttributes(attribute.String("repo.path", path)))
	defer span.End()

	rp, err := r.analyzeRepo(ctx, path, req)
	if err != nil {
		r.Metrics.RecordRepository(ctx, observability.StatusError)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return report.Report{}, err
	}

	r.Metrics.RecordRepository(ctx, observability.StatusOK)

	start := time.Now()

	m := scoring.Derive(scoring.Input{Stats: rp.stats, Collaboration: rp.collaboration, Project: rp.project})
	ratio := report.RoundTenth(report.ContributionRatio(rp.stats.Summary.TotalCommits, rp.project.TotalCommits))

	eval := role.Classify(role.Input{
		Stats:         rp.stats,
		Metrics:       m,
		Collaboration: rp.collaboration,
		Projects: []role.Project{{
			Name:              rp.name,
			ContributionRatio: ratio,
			Authors:           rp.project.TotalAuthors,
			Commits:           rp.stats.Summary.TotalCommits,
		}},
		ContributionRatio: ratio,
		CoreMultiplier:    r.Options.CoreMultiplier,
	})

	rep := report.Build(r.reportInput(req, rp.author, rp.name, rp.stats, rp.project, m, rp.collaboration, eval))

	r.Metrics.RecordStage(ctx, StageScore, time.Since(start))

	return rep, nil
}

// Batch analyzes every repository and merges the results. Repositories
// that fail or have no commits by the author are logged and skipped; the
// merge order follows the sorted paths regardless of completion order.
func (r *Runner) Batch(ctx context.Context, paths []string, req Request) (report.MultiReport, error) {
	ctx, span := r.tracer().Start(ctx, "codeme.batch", trace.WithAttributes(attribute.Int("repo.count", len(paths))))
	defer span.End()

	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	results := make([]*repoProfile, len(sorted))
	failures := make([]error, len(sorted))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism())

	for i, path := range sorted {
		g.Go(func() error {
			rp, err := r.analyzeRepo(gctx, path, req)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}

				failures[i] = err

				return nil
			}

			results[i] = rp

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report.MultiReport{}, err
	}

	var (
		profiles []*repoProfile
		failed   []string
	)

	for i, rp := range results {
		if rp != nil {
			profiles = append(profiles, rp)
			r.Metrics.RecordRepository(ctx, observability.StatusOK)

			continue
		}

		r.Metrics.RecordRepository(ctx, observability.StatusError)

		if !errors.Is(failures[i], ErrNoData) {
			failed = append(failed, sorted[i])
		}

		r.logger().WarnContext(ctx, "repository skipped", "path", sorted[i], "error", failures[i])
	}

	if len(profiles) == 0 {
		return report.MultiReport{}, fmt.Errorf("%w: none of %d repositories produced data", ErrNoData, len(sorted))
	}

	return r.merge(ctx, profiles, failed, req), nil
}

func (r *Runner) merge(ctx context.Context, profiles []*repoProfile, failed []string, req Request) report.MultiReport {
	start := time.Now()

	parts := make([]*stats.Stats, 0, len(profiles))
	baselines := make([]stats.ProjectStats, 0, len(profiles))
	collabs := make([]collaboration.Result, 0, len(profiles))
	projects := make([]role.Project, 0, len(profiles))

	for _, rp := range profiles {
		parts = append(parts, rp.stats)
		baselines = append(baselines, rp.project)
		collabs = append(collabs, rp.collaboration)

		projects = append(projects, role.Project{
			Name:              rp.name,
			ContributionRatio: report.RoundTenth(report.ContributionRatio(rp.stats.Summary.TotalCommits, rp.project.TotalCommits)),
			Authors:           rp.project.TotalAuthors,
			Commits:           rp.stats.Summary.TotalCommits,
		})
	}

	merged := stats.Merge(parts...)
	project := stats.MergeProjectStats(baselines...)
	collab := collaboration.Merge(collabs...)
	ratio := report.RoundTenth(report.ContributionRatio(merged.Summary.TotalCommits, project.TotalCommits))

	m := scoring.Derive(scoring.Input{Stats: merged, Collaboration: collab, Project: project})

	eval := role.Classify(role.Input{
		Stats:             merged,
		Metrics:           m,
		Collaboration:     collab,
		Projects:          projects,
		ContributionRatio: ratio,
		CoreMultiplier:    r.Options.CoreMultiplier,
	})

	author := req.Author
	if author == "" {
		author = profiles[0].author
	}

	in := r.reportInput(req, author, fmt.Sprintf("%d repositories", len(profiles)), merged, project, m, collab, eval)

	rep := report.BuildMulti(report.MultiInput{
		Input:          in,
		Projects:       projects,
		Failed:         failed,
		CoreMultiplier: r.Options.CoreMultiplier,
	})

	r.Metrics.RecordStage(ctx, StageScore, time.Since(start))

	return rep
}

func (r *Runner) reportInput(
	req Request, author, name string, s *stats.Stats, project stats.ProjectStats,
	m scoring.Metrics, collab collaboration.Result, eval role.Evaluation,
) report.Input {
	th := r.thresholds()

	return report.Input{
		User:          author,
		ProjectName:   name,
		Period:        req.Period,
		Stats:         s,
		Project:       project,
		Metrics:       m,
		Radar:         scoring.RadarOf(scoring.RadarInput{Stats: s, Metrics: m, Collaboration: collab}, th),
		Labels:        scoring.Labels(s, m, collab, th),
		Collaboration: collab,
		Evaluation:    eval,
		TopKeywords:   r.Options.TopKeywords,
		TopExtensions: r.Options.TopExtensions,
	}
}

// analyzeRepo runs the per-repository stages.
func (r *Runner) analyzeRepo(ctx context.Context, path string, req Request) (*repoProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := r.Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	author := req.Author
	if author == "" {
		author, err = src.Identity(ctx)
		if err != nil {
			return nil, err
		}
	}

	logger := r.logger().With("repo", path)
	window := req.window()

	var (
		rawLog, rawStat string
		project         stats.ProjectStats
	)

	err = r.stage(ctx, StageCollect, func(ctx context.Context) error {
		var collectErr error

		rawLog, collectErr = src.RawLog(ctx, author, window)
		if collectErr != nil {
			return fmt.Errorf("read log: %w", collectErr)
		}

		rawStat, collectErr = src.RawDiffStat(ctx, author, window)
		if collectErr != nil {
			return fmt.Errorf("read diff stats: %w", collectErr)
		}

		project, collectErr = src.BaselineProjectStats(ctx, window)
		if collectErr != nil {
			return fmt.Errorf("read baseline: %w", collectErr)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	var s *stats.Stats

	err = r.stage(ctx, StageAccumulate, func(ctx context.Context) error {
		entries, parseErr := commitlog.ParseLog(rawLog, r.Options.Location)
		if parseErr != nil {
			logger.DebugContext(ctx, "skipped malformed log lines", "error", parseErr)
		}

		if len(entries) == 0 {
			return fmt.Errorf("%w: %s", ErrNoData, path)
		}

		blocks := commitlog.ParseDiffStat(rawStat)
		pairs := commitlog.Correlate(entries, blocks)

		if dropped := len(blocks) - len(pairs); dropped > 0 {
			logger.DebugContext(ctx, "diff-stat blocks without log entry", "dropped", dropped)
		}

		s = stats.Build(entries, pairs, stats.Options{Lexicon: r.Options.Lexicon, Location: r.Options.Location})
		r.Metrics.RecordCommits(ctx, s.Summary.TotalCommits)

		return nil
	})
	if err != nil {
		return nil, err
	}

	var collab collaboration.Result

	err = r.stage(ctx, StageCollaboration, func(ctx context.Context) error {
		sampler := &collaboration.Sampler{
			Source:     src,
			SampleSize: r.sampleSize(req),
			Workers:    r.Options.Workers,
			Logger:     logger,
			Observer:   r.Metrics,
		}

		var sampleErr error

		collab, sampleErr = sampler.Sample(ctx, s, author)

		return sampleErr
	})
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "repository analyzed",
		"commits", s.Summary.TotalCommits,
		"sampled_files", collab.Sampled,
	)

	return &repoProfile{
		path:          path,
		name:          src.ProjectName(ctx),
		author:        author,
		stats:         s,
		project:       project,
		collaboration: collab,
	}, nil
}

// stage runs fn inside a span and records its duration.
func (r *Runner) stage(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := r.tracer().Start(ctx, "codeme."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)

	r.Metrics.RecordStage(ctx, name, time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return err
}

func (r *Runner) tracer() trace.Tracer {
	if r.Tracer == nil {
		return nooptrace.NewTracerProvider().Tracer("")
	}

	return r.Tracer
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return observability.Discard()
	}

	return r.Logger
}

func (r *Runner) sampleSize(req Request) int {
	if req.SampleSize > 0 {
		return req.SampleSize
	}

	return r.Options.SampleSize
}

func (r *Runner) parallelism() int {
	if r.Options.Parallelism > 0 {
		return r.Options.Parallelism
	}

	return DefaultParallelism
}

func (r *Runner) thresholds() scoring.Thresholds {
	if r.Options.Thresholds == (scoring.Thresholds{}) {
		return scoring.DefaultThresholds()
	}

	return r.Options.Thresholds
}
