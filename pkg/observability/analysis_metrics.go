package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricCommitsTotal      = "codeme.analysis.commits.total"
	metricRepositoriesTotal = "codeme.analysis.repositories.total"
	metricBlameQueriesTotal = "codeme.analysis.blame.queries.total"
	metricStageDuration     = "codeme.analysis.stage.duration.seconds"
)

// AnalysisMetrics holds the profile pipeline instruments. All methods are
// safe on a nil receiver.
type AnalysisMetrics struct {
	commitsTotal      metric.Int64Counter
	repositoriesTotal metric.Int64Counter
	blameQueriesTotal metric.Int64Counter
	stageDuration     metric.Float64Histogram
}

// NewAnalysisMetrics creates the instruments from the given meter.
func NewAnalysisMetrics(mt metric.Meter) (*AnalysisMetrics, error) {
	commits, err := mt.Int64Counter(metricCommitsTotal,
		metric.WithDescription("Commits accumulated into profiles"),
		metric.WithUnit("{commit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricCommitsTotal, err)
	}

	repos, err := mt.Int64Counter(metricRepositoriesTotal,
		metric.WithDescription("Repositories analyzed by outcome"),
		metric.WithUnit("{repository}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRepositoriesTotal, err)
	}

	blame, err := mt.Int64Counter(metricBlameQueriesTotal,
		metric.WithDescription("Per-file authorship queries by outcome"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricBlameQueriesTotal, err)
	}

	stage, err := mt.Float64Histogram(metricStageDuration,
		metric.WithDescription("Pipeline stage duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricStageDuration, err)
	}

	return &AnalysisMetrics{
		commitsTotal:      commits,
		repositoriesTotal: repos,
		blameQueriesTotal: blame,
		stageDuration:     stage,
	}, nil
}

// RecordCommits adds n accumulated commits.
func (am *AnalysisMetrics) RecordCommits(ctx context.Context, n int) {
	if am == nil {
		return
	}

	am.commitsTotal.Add(ctx, int64(n))
}

// RecordRepository counts one repository with the given status.
func (am *AnalysisMetrics) RecordRepository(ctx context.Context, status string) {
	if am == nil {
		return
	}

	am.repositoriesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrStatus, status)))
}

// ObserveQuery counts one authorship query.
func (am *AnalysisMetrics) ObserveQuery(ctx context.Context, ok bool) {
	if am == nil {
		return
	}

	status := StatusOK
	if !ok {
		status = StatusError
	}

	am.blameQueriesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrStatus, status)))
}

// RecordStage records the duration of a pipeline stage.
func (am *AnalysisMetrics) RecordStage(ctx context.Context, stage string, d time.Duration) {
	if am == nil {
		return
	}

	am.stageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String(attrStage, stage)))
}
