package role

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/collaboration"
	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/scoring"
	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/stats"
)

func statsWith(commits, added, removed, fixes, refactors int) *stats.Stats {
	s := stats.New()
	s.Summary = stats.Summary{TotalCommits: commits, TotalAdditions: added, TotalDeletions: removed}
	s.Specialized.FixCount = fixes
	s.Style.Fix = fixes
	s.Style.Refactor = refactors

	return s
}

func TestProject_CoreThreshold(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 18.0, Project{Authors: 10}.CoreThreshold(DefaultCoreMultiplier), 1e-9)
	assert.InDelta(t, 180.0, Project{Authors: 0}.CoreThreshold(DefaultCoreMultiplier), 1e-9)
}

func TestClassify_Cascade(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Input
		want ID
	}{
		{
			name: "core output from a single dominant repository",
			in: Input{
				Stats:    statsWith(50, 1000, 100, 0, 0),
				Metrics:  scoring.Metrics{InnovationRatio: 30},
				Projects: []Project{{Name: "api", ContributionRatio: 50, Authors: 4, Commits: 50}},
			},
			want: CoreOutput,
		},
		{
			name: "sole maintainer when innovation is low",
			in: Input{
				Stats:         statsWith(50, 1000, 100, 0, 0),
				Metrics:       scoring.Metrics{InnovationRatio: 10},
				Collaboration: collaboration.Result{SoleMaintenanceIndex: 60},
				Projects:      []Project{{Name: "api", ContributionRatio: 50, Authors: 4, Commits: 50}},
			},
			want: SoleMaintainer,
		},
		{
			name: "support through fixes and removals",
			in: Input{
				Stats:    statsWith(10, 100, 90, 4, 0),
				Projects: []Project{{Name: "api", ContributionRatio: 5, Authors: 4, Commits: 10}},
			},
			want: Support,
		},
		{
			name: "support through refactors",
			in: Input{
				Stats: statsWith(8, 100, 81, 0, 3),
			},
			want: Support,
		},
		{
			name: "collaborative core across several repositories",
			in: Input{
				Stats:   statsWith(100, 5000, 100, 0, 0),
				Metrics: scoring.Metrics{InnovationRatio: 10},
				Projects: []Project{
					{Name: "a", ContributionRatio: 60, Authors: 4, Commits: 30},
					{Name: "b", ContributionRatio: 10, Authors: 4, Commits: 40},
					{Name: "c", ContributionRatio: 10, Authors: 4, Commits: 30},
				},
				ContributionRatio: 20,
			},
			want: CollaborativeCore,
		},
		{
			name: "versatile with two core repositories",
			in: Input{
				Stats:         statsWith(100, 5000, 100, 0, 0),
				Metrics:       scoring.Metrics{InnovationRatio: 20},
				Collaboration: collaboration.Result{SoleMaintenanceIndex: 30},
				Projects: []Project{
					{Name: "a", ContributionRatio: 60, Authors: 4, Commits: 20},
					{Name: "b", ContributionRatio: 60, Authors: 4, Commits: 20},
				},
			},
			want: Versatile,
		},
		{
			name: "growth fallback",
			in: Input{
				Stats: statsWith(3, 30, 1, 0, 0),
			},
			want: Growth,
		},
		{
			name: "growth for empty input",
			in:   Input{},
			want: Growth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Classify(tt.in)

			assert.Equal(t, tt.want, got.Role)
			assert.NotEmpty(t, got.Title)
			assert.NotEmpty(t, got.Narrative)
			assert.NotEmpty(t, got.Evidence)
		})
	}
}

func TestClassify_FactsAndEvidence(t *testing.T) {
	t.Parallel()

	got := Classify(Input{
		Stats:   statsWith(100, 5000, 100, 0, 0),
		Metrics: scoring.Metrics{InnovationRatio: 30},
		Projects: []Project{
			{Name: "a", ContributionRatio: 80, Authors: 4, Commits: 70},
			{Name: "b", ContributionRatio: 5, Authors: 10, Commits: 30},
		},
	})

	require.Equal(t, CoreOutput, got.Role)
	assert.Equal(t, 1, got.Facts.CoreProjectCount)
	assert.Equal(t, 2, got.Facts.TotalProjects)
	assert.InDelta(t, 70.0, got.Facts.CoreProjectRatio, 1e-9)
	assert.Contains(t, got.Evidence[0], "80.0%")
	assert.Contains(t, got.Evidence[1], "30.0%")
}

func TestClassify_CoreRatioBoundaryIsInclusive(t *testing.T) {
	t.Parallel()

	got := Classify(Input{
		Stats:    statsWith(10, 100, 0, 0, 0),
		Metrics:  scoring.Metrics{InnovationRatio: 26},
		Projects: []Project{{Name: "a", ContributionRatio: 50, Authors: 4, Commits: 6}},
	})

	assert.Equal(t, CoreOutput, got.Role)
	assert.InDelta(t, 60.0, got.Facts.CoreProjectRatio, 1e-9)
}

func TestClassify_IsTotal(t *testing.T) {
	t.Parallel()

	valid := map[ID]bool{
		CoreOutput: true, SoleMaintainer: true, Support: true,
		CollaborativeCore: true, Versatile: true, Growth: true,
	}

	for _, commits := range []int{0, 1, 5, 50} {
		for _, innovation := range []float64{0, 19, 26, 100} {
			for _, sole := range []float64{0, 26, 56, 100} {
				for _, ratio := range []float64{0, 16, 45, 100} {
					got := Classify(Input{
						Stats:         statsWith(commits, 10, 9, commits/2, commits/3),
						Metrics:       scoring.Metrics{InnovationRatio: innovation},
						Collaboration: collaboration.Result{SoleMaintenanceIndex: sole},
						Projects: []Project{
							{Name: "a", ContributionRatio: ratio, Authors: 3, Commits: commits},
							{Name: "b", ContributionRatio: ratio / 2, Authors: 2, Commits: 0},
							{Name: "c", ContributionRatio: 1, Authors: 9, Commits: 0},
						},
						ContributionRatio: ratio,
					})

					assert.True(t, valid[got.Role], got.Role)
				}
			}
		}
	}
}

func TestClassify_RatioAtCoreThresholdIsCore(t *testing.T) {
	t.Parallel()

	ev := Classify(Input{
		Stats:             statsWith(61, 305, 0, 0, 0),
		Metrics:           scoring.Metrics{InnovationRatio: 99.9},
		Projects:          []Project{{Name: "widgets", ContributionRatio: 18.0, Authors: 10, Commits: 61}},
		ContributionRatio: 18.0,
	})

	assert.Equal(t, CoreOutput, ev.Role)
	assert.Equal(t, 1, ev.Facts.CoreProjectCount)
}
