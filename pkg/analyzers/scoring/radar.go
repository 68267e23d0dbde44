package scoring

import (
	"math"

	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/collaboration"
	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/stats"
	"github.com/Sumatoshi-tech/codeme/pkg/metrics"
)

// Thresholds configures labels and radar saturation.
type Thresholds struct {
	MidnightFraction float64 `mapstructure:"midnight_fraction" json:"midnight_fraction"`
	Interweaving     float64 `mapstructure:"interweaving"      json:"interweaving"`
	SoleMaintenance  float64 `mapstructure:"sole_maintenance"  json:"sole_maintenance"`
	Innovation       float64 `mapstructure:"innovation"        json:"innovation"`
	TechBreadth      float64 `mapstructure:"tech_breadth"      json:"tech_breadth"`
	Refinement       float64 `mapstructure:"refinement"        json:"refinement"`
	LongestDaySpan   float64 `mapstructure:"longest_day_span"  json:"longest_day_span"`
	CodeHealth       float64 `mapstructure:"code_health"       json:"code_health"`
	ActiveCommits    float64 `mapstructure:"active_commits"    json:"active_commits"`
	ActiveLines      float64 `mapstructure:"active_lines"      json:"active_lines"`
}

// Default thresholds.
const (
	DefaultMidnightFraction = 0.15
	DefaultInterweaving     = 40
	DefaultSoleMaintenance  = 60
	DefaultInnovation       = 40
	DefaultTechBreadth      = 70
	DefaultRefinement       = 40
	DefaultLongestDaySpan   = 8
	DefaultCodeHealth       = 85
	DefaultActiveCommits    = 250
	DefaultActiveLines      = 12000
)

// DefaultThresholds returns the built-in thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MidnightFraction: DefaultMidnightFraction,
		Interweaving:     DefaultInterweaving,
		SoleMaintenance:  DefaultSoleMaintenance,
		Innovation:       DefaultInnovation,
		TechBreadth:      DefaultTechBreadth,
		Refinement:       DefaultRefinement,
		LongestDaySpan:   DefaultLongestDaySpan,
		CodeHealth:       DefaultCodeHealth,
		ActiveCommits:    DefaultActiveCommits,
		ActiveLines:      DefaultActiveLines,
	}
}

// Radar is the six-axis profile, each axis a rounded percentage.
type Radar struct {
	Activity      int `json:"activity"      yaml:"activity"`
	Impact        int `json:"impact"        yaml:"impact"`
	Refinement    int `json:"refinement"    yaml:"refinement"`
	Collaboration int `json:"collaboration" yaml:"collaboration"`
	Stability     int `json:"stability"     yaml:"stability"`
	Breadth       int `json:"breadth"       yaml:"breadth"`
}

// Axes returns the axes in display order.
func (r Radar) Axes() []Axis {
	return []Axis{
		{Name: "Activity", Value: r.Activity},
		{Name: "Impact", Value: r.Impact},
		{Name: "Refinement", Value: r.Refinement},
		{Name: "Collaboration", Value: r.Collaboration},
		{Name: "Stability", Value: r.Stability},
		{Name: "Breadth", Value: r.Breadth},
	}
}

// Axis is one named radar value.
type Axis struct {
	Name  string
	Value int
}

// RadarInput is the input of the radar metric.
type RadarInput struct {
	Stats         *stats.Stats
	Metrics       Metrics
	Collaboration collaboration.Result
}

// RadarMetric projects a profile onto six axes.
type RadarMetric struct {
	metrics.MetricMeta

	thresholds Thresholds
}

// NewRadarMetric creates the radar metric.
func NewRadarMetric(th Thresholds) *RadarMetric {
	return &RadarMetric{
		MetricMeta: metrics.MetricMeta{
			MetricName:        "radar",
			MetricDisplayName: "Career Radar",
			MetricDescription: "Activity (commits over the activity saturation point), impact (lines added over the " +
				"impact saturation point), refinement (twice the refinement impact), collaboration (interweaving " +
				"score), stability (mean of code health and stability score) and breadth (tech breadth). " +
				"Every axis is a rounded integer in 0-100.",
			MetricType: metrics.TypeAxis,
		},
		thresholds: th,
	}
}

// Compute calculates the radar axes.
func (m *RadarMetric) Compute(in RadarInput) Radar {
	s := in.Stats

	return Radar{
		Activity:      axis(percent * metrics.SafeDiv(float64(s.Summary.TotalCommits), m.thresholds.ActiveCommits, 0)),
		Impact:        axis(percent * metrics.SafeDiv(float64(s.Summary.TotalAdditions), m.thresholds.ActiveLines, 0)),
		Refinement:    axis(refinementToRadar * in.Metrics.RefinementImpact),
		Collaboration: axis(in.Collaboration.InterweavingScore),
		Stability:     axis((in.Metrics.CodeHealthIndex + in.Metrics.StabilityScore) / 2),
		Breadth:       axis(in.Metrics.TechBreadth),
	}
}

func axis(v float64) int {
	return int(math.Round(metrics.Clamp(v, 0, percent)))
}

// RadarOf computes the radar with the given thresholds.
func RadarOf(in RadarInput, th Thresholds) Radar {
	return NewRadarMetric(th).Compute(in)
}
