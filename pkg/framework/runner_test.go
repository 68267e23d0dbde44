package framework_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/commitlog"
	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/role"
	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/stats"
	"github.com/Sumatoshi-tech/codeme/pkg/framework"
	"github.com/Sumatoshi-tech/codeme/pkg/observability"
	"github.com/Sumatoshi-tech/codeme/pkg/report"
)

var errBlame = errors.New("blame failed")

type fakeSource struct {
	identity string
	name     string
	log      string
	stat     string
	project  stats.ProjectStats
	blame    map[string]string
	authors  map[string]int

	mu       sync.Mutex
	askedFor []string
	closed   bool
}

func (f *fakeSource) Identity(context.Context) (string, error) {
	if f.identity == "" {
		return "", framework.ErrNoIdentity
	}

	return f.identity, nil
}

func (f *fakeSource) ProjectName(context.Context) string { return f.name }

func (f *fakeSource) RawLog(_ context.Context, author string, _ framework.Period) (string, error) {
	f.mu.Lock()
	f.askedFor = append(f.askedFor, author)
	f.mu.Unlock()

	return f.log, nil
}

func (f *fakeSource) RawDiffStat(context.Context, string, framework.Period) (string, error) {
	return f.stat, nil
}

func (f *fakeSource) BaselineProjectStats(context.Context, framework.Period) (stats.ProjectStats, error) {
	return f.project, nil
}

func (f *fakeSource) BlameAuthors(_ context.Context, path string) (string, error) {
	b, ok := f.blame[path]
	if !ok {
		return "", errBlame
	}

	return b, nil
}

func (f *fakeSource) DistinctAuthorCount(_ context.Context, path string) (int, error) {
	n, ok := f.authors[path]
	if !ok {
		return 0, errBlame
	}

	return n, nil
}

func (f *fakeSource) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

func aliceRepo() *fakeSource {
	return &fakeSource{
		identity: "alice@example.com",
		name:     "widgets",
		log: strings.Join([]string{
			"a1b2c3d|2024-01-01T10:00:00Z|feat: add parser",
			"b2c3d4e|2024-01-02T11:00:00Z|fix: broken build",
		}, "\n"),
		stat: commitlog.BlockSeparator + "a1b2c3d\n10\t2\tsrc/parser.go\n" +
			commitlog.BlockSeparator + "b2c3d4e\n3\t1\tsrc/parser.go\n1\t0\tMakefile\n",
		project: stats.NewProjectStats(8, 4),
		blame: map[string]string{
			"src/parser.go": "Alice <alice@example.com>\nAlice <alice@example.com>\nBob <bob@example.com>\n",
			"Makefile":      "Bob <bob@example.com>\n",
		},
		authors: map[string]int{"src/parser.go": 2, "Makefile": 1},
	}
}

func openerOf(sources map[string]*fakeSource) framework.Opener {
	return func(path string) (framework.Source, error) {
		src, ok := sources[path]
		if !ok {
			return nil, framework.ErrRepoNotFound
		}

		return src, nil
	}
}

func TestRunner_Profile(t *testing.T) {
	t.Parallel()

	src := aliceRepo()
	runner := framework.NewRunner(openerOf(map[string]*fakeSource{"/repo": src}), framework.Options{})

	rep, err := runner.Profile(context.Background(), "/repo", framework.Request{})
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", rep.User)
	assert.Equal(t, "widgets", rep.ProjectName)
	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, 2, rep.Overview.Commits)
	assert.Equal(t, 14, rep.Overview.LinesAdded)
	assert.Equal(t, 3, rep.Overview.LinesRemoved)
	assert.Equal(t, 8, rep.Contrast.ProjectTotalCommits)
	assert.InDelta(t, 25.0, rep.Contrast.ContributionRatio, 1e-9)
	assert.Equal(t, 2, rep.Advanced.SampledFiles)
	// 2 of 4 blamed lines are someone else's; Makefile has a single author.
	assert.InDelta(t, 50.0, rep.Advanced.InterweavingScore, 1e-9)
	assert.InDelta(t, 50.0, rep.Advanced.SoleMaintenanceIndex, 1e-9)
	assert.NotEmpty(t, rep.Evaluation.Role)
	assert.True(t, src.closed)
}

func TestRunner_Profile_RequestAuthorOverridesIdentity(t *testing.T) {
	t.Parallel()

	src := aliceRepo()
	runner := framework.NewRunner(openerOf(map[string]*fakeSource{"/repo": src}), framework.Options{})

	rep, err := runner.Profile(context.Background(), "/repo", framework.Request{Author: "Alice"})
	require.NoError(t, err)

	assert.Equal(t, "Alice", rep.User)
	assert.Equal(t, []string{"Alice"}, src.askedFor)
}

func TestRunner_Profile_NoData(t *testing.T) {
	t.Parallel()

	src := aliceRepo()
	src.log = ""
	src.stat = ""

	runner := framework.NewRunner(openerOf(map[string]*fakeSource{"/repo": src}), framework.Options{})

	_, err := runner.Profile(context.Background(), "/repo", framework.Request{})
	require.ErrorIs(t, err, framework.ErrNoData)
}

func TestRunner_Profile_NoIdentity(t *testing.T) {
	t.Parallel()

	src := aliceRepo()
	src.identity = ""

	runner := framework.NewRunner(openerOf(map[string]*fakeSource{"/repo": src}), framework.Options{})

	_, err := runner.Profile(context.Background(), "/repo", framework.Request{})
	require.ErrorIs(t, err, framework.ErrNoIdentity)
}

func TestRunner_Profile_OpenError(t *testing.T) {
	t.Parallel()

	runner := framework.NewRunner(openerOf(nil), framework.Options{})

	_, err := runner.Profile(context.Background(), "/missing", framework.Request{})
	require.ErrorIs(t, err, framework.ErrRepoNotFound)
}

func TestRunner_Profile_MalformedLog(t *testing.T) {
	t.Parallel()

	src := aliceRepo()
	src.log = "a1b2c3d|yesterday|feat: add parser"

	runner := framework.NewRunner(openerOf(map[string]*fakeSource{"/repo": src}), framework.Options{})

	_, err := runner.Profile(context.Background(), "/repo", framework.Request{})
	require.ErrorIs(t, err, framework.ErrNoData)
}

func TestRunner_Profile_MalformedLineSkipped(t *testing.T) {
	t.Parallel()

	src := aliceRepo()
	src.log = "a1b2c3d|yesterday|feat: add parser\nb2c3d4e|2024-01-02T11:00:00Z|fix: broken build"

	runner := framework.NewRunner(openerOf(map[string]*fakeSource{"/repo": src}), framework.Options{})

	rep, err := runner.Profile(context.Background(), "/repo", framework.Request{})
	require.NoError(t, err)

	assert.Equal(t, 1, rep.Overview.Commits)
	assert.Equal(t, 4, rep.Overview.LinesAdded)
	assert.Equal(t, 1, rep.Style.Fix)
}

func TestRunner_Profile_BlameFailuresDoNotAbort(t *testing.T) {
	t.Parallel()

	src := aliceRepo()
	src.blame = nil
	src.authors = nil

	runner := framework.NewRunner(openerOf(map[string]*fakeSource{"/repo": src}), framework.Options{})

	rep, err := runner.Profile(context.Background(), "/repo", framework.Request{})
	require.NoError(t, err)

	assert.Equal(t, 2, rep.Advanced.SampledFiles)
	assert.Zero(t, rep.Advanced.InterweavingScore)
	assert.Zero(t, rep.Advanced.SoleMaintenanceIndex)
}

func TestRunner_Profile_RecordsMetrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	am, err := observability.NewAnalysisMetrics(mp.Meter("test"))
	require.NoError(t, err)

	runner := framework.NewRunner(openerOf(map[string]*fakeSource{"/repo": aliceRepo()}), framework.Options{})
	runner.Metrics = am

	_, err = runner.Profile(context.Background(), "/repo", framework.Request{})
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	sums := map[string]int64{}

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}

	assert.Equal(t, int64(2), sums["codeme.analysis.commits.total"])
	assert.Equal(t, int64(1), sums["codeme.analysis.repositories.total"])
	// Two files, two queries each.
	assert.Equal(t, int64(4), sums["codeme.analysis.blame.queries.total"])
}

func TestRunner_Batch(t *testing.T) {
	t.Parallel()

	bob := &fakeSource{
		identity: "bob@example.com",
		name:     "gadgets",
		log:      "c3d4e5f|2024-01-03T09:00:00Z|refactor: split module",
		stat:     commitlog.BlockSeparator + "c3d4e5f\n4\t6\tlib/core.py\n",
		project:  stats.NewProjectStats(2, 1),
		blame:    map[string]string{"lib/core.py": "Alice <alice@example.com>\n"},
		authors:  map[string]int{"lib/core.py": 1},
	}

	empty := aliceRepo()
	empty.log = ""
	empty.stat = ""

	runner := framework.NewRunner(openerOf(map[string]*fakeSource{
		"/a": aliceRepo(),
		"/b": bob,
		"/e": empty,
	}), framework.Options{Parallelism: 2})

	req := framework.Request{Author: "alice@example.com", Period: report.Period{Label: "all time"}}

	rep, err := runner.Batch(context.Background(), []string{"/b", "/missing", "/e", "/a"}, req)
	require.NoError(t, err)

	assert.Equal(t, 3, rep.Overview.Commits)
	assert.Equal(t, 10, rep.Contrast.ProjectTotalCommits)
	assert.InDelta(t, 30.0, rep.Contrast.ContributionRatio, 1e-9)
	assert.Equal(t, "all time", rep.Period.Label)
	assert.Equal(t, 3, rep.Advanced.SampledFiles)

	require.Len(t, rep.Projects, 2)
	assert.Equal(t, "widgets", rep.Projects[0].Name)
	assert.Equal(t, 2, rep.Projects[0].Commits)
	assert.Equal(t, "gadgets", rep.Projects[1].Name)

	// Repositories without commits by the author are skipped, not failed.
	assert.Equal(t, []string{"/missing"}, rep.Failed)
	assert.Equal(t, 2, rep.Evaluation.Facts.TotalProjects)
}

func TestRunner_Batch_AllFail(t *testing.T) {
	t.Parallel()

	runner := framework.NewRunner(openerOf(nil), framework.Options{})

	_, err := runner.Batch(context.Background(), []string{"/x", "/y"}, framework.Request{Author: "alice"})
	require.ErrorIs(t, err, framework.ErrNoData)
}

func TestRunner_Batch_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := framework.NewRunner(openerOf(map[string]*fakeSource{"/a": aliceRepo()}), framework.Options{})

	_, err := runner.Batch(ctx, []string{"/a"}, framework.Request{})
	require.Error(t, err)
}

func TestPeriod_Contains(t *testing.T) {
	t.Parallel()

	year := report.YearPeriod(2024, nil)
	p := framework.Period{Since: year.Since, Until: year.Until}

	assert.True(t, p.Contains(year.Since))
	assert.True(t, p.Contains(year.Until))
	assert.False(t, p.Contains(year.Since.AddDate(0, 0, -1)))
	assert.True(t, framework.Period{}.Contains(year.Since))
}

func TestRunner_Profile_CoreThresholdUsesReportedRatio(t *testing.T) {
	t.Parallel()

	const commits = 61

	var logLines, stat strings.Builder

	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	for i := range commits {
		hash := fmt.Sprintf("c%03d", i)
		fmt.Fprintf(&logLines, "%s|%s|feat: module %d\n", hash, start.AddDate(0, 0, i).Format(time.RFC3339), i)
		fmt.Fprintf(&stat, "%s%s\n5\t0\tsrc/m%d.go\n", commitlog.BlockSeparator, hash, i)
	}

	// 61 of 339 is 17.99%, reported as 18.0, the core threshold for 10 authors.
	src := &fakeSource{
		identity: "alice@example.com",
		name:     "widgets",
		log:      logLines.String(),
		stat:     stat.String(),
		project:  stats.NewProjectStats(339, 10),
	}

	runner := framework.NewRunner(openerOf(map[string]*fakeSource{"/repo": src}), framework.Options{})

	rep, err := runner.Profile(context.Background(), "/repo", framework.Request{})
	require.NoError(t, err)

	assert.InDelta(t, 18.0, rep.Contrast.ContributionRatio, 1e-9)
	assert.Equal(t, role.CoreOutput, rep.Evaluation.Role)
	assert.Equal(t, 1, rep.Evaluation.Facts.CoreProjectCount)
}
