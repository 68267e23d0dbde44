package scoring

import (
	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/collaboration"
	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/stats"
)

// Label is an achievement badge id.
type Label string

// Labels in evaluation order.
const (
	LabelNightOwl         Label = "night-owl"
	LabelCollaborationHub Label = "collaboration-hub"
	LabelDomainLord       Label = "domain-lord"
	LabelPioneer          Label = "pioneer"
	LabelGeneralist       Label = "generalist"
	LabelCodeSculptor     Label = "code-sculptor"
	LabelMarathoner       Label = "marathoner"
	LabelAnchor           Label = "anchor"
)

var labelTitles = map[Label]string{
	LabelNightOwl:         "Night Owl",
	LabelCollaborationHub: "Collaboration Hub",
	LabelDomainLord:       "Domain Lord",
	LabelPioneer:          "Pioneer",
	LabelGeneralist:       "Generalist",
	LabelCodeSculptor:     "Code Sculptor",
	LabelMarathoner:       "Marathoner",
	LabelAnchor:           "Anchor",
}

// Title returns the display title of the label.
func (l Label) Title() string {
	if t, ok := labelTitles[l]; ok {
		return t
	}

	return string(l)
}

type labelRule struct {
	label Label
	when  func(s *stats.Stats, m Metrics, c collaboration.Result, th Thresholds) bool
}

// labelRules are independent; any subset may fire.
var labelRules = []labelRule{
	{LabelNightOwl, func(s *stats.Stats, _ Metrics, _ collaboration.Result, th Thresholds) bool {
		return float64(s.Extremes.MidnightCommits) > float64(s.Summary.TotalCommits)*th.MidnightFraction
	}},
	{LabelCollaborationHub, func(_ *stats.Stats, _ Metrics, c collaboration.Result, th Thresholds) bool {
		return c.InterweavingScore > th.Interweaving
	}},
	{LabelDomainLord, func(_ *stats.Stats, _ Metrics, c collaboration.Result, th Thresholds) bool {
		return c.SoleMaintenanceIndex > th.SoleMaintenance
	}},
	{LabelPioneer, func(_ *stats.Stats, m Metrics, _ collaboration.Result, th Thresholds) bool {
		return m.InnovationRatio > th.Innovation
	}},
	{LabelGeneralist, func(_ *stats.Stats, m Metrics, _ collaboration.Result, th Thresholds) bool {
		return m.TechBreadth > th.TechBreadth
	}},
	{LabelCodeSculptor, func(_ *stats.Stats, m Metrics, _ collaboration.Result, th Thresholds) bool {
		return m.RefinementImpact > th.Refinement
	}},
	{LabelMarathoner, func(s *stats.Stats, _ Metrics, _ collaboration.Result, th Thresholds) bool {
		return s.Extremes.LongestDay.Span > th.LongestDaySpan
	}},
	{LabelAnchor, func(_ *stats.Stats, m Metrics, _ collaboration.Result, th Thresholds) bool {
		return m.CodeHealthIndex > th.CodeHealth
	}},
}

// Labels returns the badges earned by the profile, in fixed order.
func Labels(s *stats.Stats, m Metrics, c collaboration.Result, th Thresholds) []Label {
	out := make([]Label, 0, len(labelRules))

	for _, r := range labelRules {
		if r.when(s, m, c, th) {
			out = append(out, r.label)
		}
	}

	return out
}
