// Package scoring derives composite profile metrics, the six-axis radar
// and achievement labels from a finalized activity aggregate.
package scoring

import (
	"math"

	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/collaboration"
	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/stats"
	"github.com/Sumatoshi-tech/codeme/pkg/metrics"
)

const (
	percent      = 100.0
	maxBeat      = 99
	featWeight   = 0.7
	growthWeight = 0.3
	// refinementScale multiplies the removed-to-added refactor ratio.
	refinementScale   = 50.0
	beatScale         = 50.0
	rootModuleWeight  = 10
	extensionWeight   = 5
	stressPenalty     = 10.0
	refinementToRadar = 2.0
)

// Input bundles everything the derivations read.
type Input struct {
	Stats         *stats.Stats
	Collaboration collaboration.Result
	Project       stats.ProjectStats
}

// Metrics holds the composite scores. All percentages are in [0, 100]
// except RefinementImpact, which is unbounded above.
type Metrics struct {
	InnovationRatio  float64 `json:"innovation_ratio"  yaml:"innovation_ratio"`
	RefinementImpact float64 `json:"refinement_impact" yaml:"refinement_impact"`
	CodeHealthIndex  float64 `json:"code_health_index" yaml:"code_health_index"`
	TechBreadth      float64 `json:"tech_breadth"      yaml:"tech_breadth"`
	BeatPercent      int     `json:"beat_percent"      yaml:"beat_percent"`
	StabilityScore   float64 `json:"stability_score"   yaml:"stability_score"`
}

// InnovationRatioMetric blends the feature-commit share with net growth.
type InnovationRatioMetric struct {
	metrics.MetricMeta
}

// NewInnovationRatioMetric creates the innovation ratio metric.
func NewInnovationRatioMetric() *InnovationRatioMetric {
	return &InnovationRatioMetric{
		MetricMeta: metrics.MetricMeta{
			MetricName:        "innovation_ratio",
			MetricDisplayName: "Innovation Ratio",
			MetricDescription: "70% share of feature commits plus 30% net code growth relative to lines added. " +
				"Range 0-100.",
			MetricType: metrics.TypeRatio,
		},
	}
}

// Compute calculates the innovation ratio.
func (m *InnovationRatioMetric) Compute(s *stats.Stats) float64 {
	featRatio := metrics.SafeDiv(float64(s.Style.Feat), float64(s.Summary.TotalCommits), 0)
	netGrowth := max(0, s.Summary.TotalAdditions-s.Summary.TotalDeletions)
	growthRatio := float64(netGrowth) / float64(s.Summary.TotalAdditions+1)

	return metrics.Clamp(percent*(featWeight*featRatio+growthWeight*growthRatio), 0, percent)
}

// RefinementImpactMetric rewards refactors that remove more than they add.
type RefinementImpactMetric struct {
	metrics.MetricMeta
}

// NewRefinementImpactMetric creates the refinement impact metric.
func NewRefinementImpactMetric() *RefinementImpactMetric {
	return &RefinementImpactMetric{
		MetricMeta: metrics.MetricMeta{
			MetricName:        "refinement_impact",
			MetricDisplayName: "Refinement Impact",
			MetricDescription: "50 times the lines removed by refactor commits over the lines they added plus one. " +
				"Zero when refactors removed nothing. Unbounded above.",
			MetricType: metrics.TypeScore,
		},
	}
}

// Compute calculates the refinement impact.
func (m *RefinementImpactMetric) Compute(s *stats.Stats) float64 {
	if s.Specialized.RefactorDel == 0 {
		return 0
	}

	return refinementScale * float64(s.Specialized.RefactorDel) / float64(s.Specialized.RefactorAdd+1)
}

// CodeHealthMetric is the share of commits that are not fixes.
type CodeHealthMetric struct {
	metrics.MetricMeta
}

// NewCodeHealthMetric creates the code health metric.
func NewCodeHealthMetric() *CodeHealthMetric {
	return &CodeHealthMetric{
		MetricMeta: metrics.MetricMeta{
			MetricName:        "code_health_index",
			MetricDisplayName: "Code Health Index",
			MetricDescription: "Percentage of commits that are not fix-styled. Range 0-100.",
			MetricType:        metrics.TypeRatio,
		},
	}
}

// Compute calculates the code health index.
func (m *CodeHealthMetric) Compute(s *stats.Stats) float64 {
	fixShare := float64(s.Specialized.FixCount) / float64(max(s.Summary.TotalCommits, 1))

	return metrics.Clamp(percent*(1-fixShare), 0, percent)
}

// TechBreadthMetric scores the spread over root modules and file types.
type TechBreadthMetric struct {
	metrics.MetricMeta
}

// NewTechBreadthMetric creates the tech breadth metric.
func NewTechBreadthMetric() *TechBreadthMetric {
	return &TechBreadthMetric{
		MetricMeta: metrics.MetricMeta{
			MetricName:        "tech_breadth",
			MetricDisplayName: "Tech Breadth",
			MetricDescription: "10 points per distinct root module plus 5 per distinct file extension, capped at 100.",
			MetricType:        metrics.TypeScore,
		},
	}
}

// Compute calculates the tech breadth.
func (m *TechBreadthMetric) Compute(s *stats.Stats) float64 {
	raw := rootModuleWeight*len(s.RootModules) + extensionWeight*len(s.FileExtensions)

	return metrics.Clamp(float64(raw), 0, percent)
}

// BeatInput is the input of the beat percent metric.
type BeatInput struct {
	TotalCommits        int
	AvgCommitsPerPerson float64
}

// BeatPercentMetric compares output against the average contributor.
type BeatPercentMetric struct {
	metrics.MetricMeta
}

// NewBeatPercentMetric creates the beat percent metric.
func NewBeatPercentMetric() *BeatPercentMetric {
	return &BeatPercentMetric{
		MetricMeta: metrics.MetricMeta{
			MetricName:        "beat_percent",
			MetricDisplayName: "Beat Percent",
			MetricDescription: "50 times commits over the repository's average commits per person, rounded, " +
				"capped at 99. Zero when the average is unknown.",
			MetricType: metrics.TypeScore,
		},
	}
}

// Compute calculates the beat percent.
func (m *BeatPercentMetric) Compute(in BeatInput) int {
	if in.AvgCommitsPerPerson <= 0 {
		return 0
	}

	v := math.Round(beatScale * float64(in.TotalCommits) / in.AvgCommitsPerPerson)

	return int(metrics.Clamp(v, 0, maxBeat))
}

// StabilityMetric penalizes stressful commit subjects.
type StabilityMetric struct {
	metrics.MetricMeta
}

// NewStabilityMetric creates the stability metric.
func NewStabilityMetric() *StabilityMetric {
	return &StabilityMetric{
		MetricMeta: metrics.MetricMeta{
			MetricName:        "stability_score",
			MetricDisplayName: "Stability Score",
			MetricDescription: "100 minus 10 per stressful commit subject, floored at 0.",
			MetricType:        metrics.TypeScore,
		},
	}
}

// Compute calculates the stability score.
func (m *StabilityMetric) Compute(s *stats.Stats) float64 {
	return max(0, percent-stressPenalty*float64(s.Sentiment.Stressful))
}

// Derive computes every composite metric.
func Derive(in Input) Metrics {
	return Metrics{
		InnovationRatio:  NewInnovationRatioMetric().Compute(in.Stats),
		RefinementImpact: NewRefinementImpactMetric().Compute(in.Stats),
		CodeHealthIndex:  NewCodeHealthMetric().Compute(in.Stats),
		TechBreadth:      NewTechBreadthMetric().Compute(in.Stats),
		BeatPercent: NewBeatPercentMetric().Compute(BeatInput{
			TotalCommits:        in.Stats.Summary.TotalCommits,
			AvgCommitsPerPerson: in.Project.AvgCommitsPerPerson,
		}),
		StabilityScore: NewStabilityMetric().Compute(in.Stats),
	}
}

// NewRegistry returns a registry with every profile metric.
func NewRegistry() *metrics.Registry {
	r := metrics.NewRegistry()

	metrics.Register[*stats.Stats, float64](r, NewInnovationRatioMetric())
	metrics.Register[*stats.Stats, float64](r, NewRefinementImpactMetric())
	metrics.Register[*stats.Stats, float64](r, NewCodeHealthMetric())
	metrics.Register[*stats.Stats, float64](r, NewTechBreadthMetric())
	metrics.Register[BeatInput, int](r, NewBeatPercentMetric())
	metrics.Register[*stats.Stats, float64](r, NewStabilityMetric())
	metrics.Register[RadarInput, Radar](r, NewRadarMetric(DefaultThresholds()))

	return r
}
