package report

import (
	"sort"

	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/role"
)

// ProjectRow is one repository of a multi-repository report.
type ProjectRow struct {
	Name              string  `json:"name"               yaml:"name"`
	Commits           int     `json:"commits"            yaml:"commits"`
	Share             float64 `json:"share"              yaml:"share"`
	ContributionRatio float64 `json:"contribution_ratio" yaml:"contribution_ratio"`
	Authors           int     `json:"authors"            yaml:"authors"`
	Core              bool    `json:"core"               yaml:"core"`
}

// MultiReport is the aggregate profile across repositories.
type MultiReport struct {
	Report `yaml:",inline"`

	Projects []ProjectRow `json:"projects"         yaml:"projects"`
	Failed   []string     `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// MultiInput extends Input with per-repository facts.
type MultiInput struct {
	Input

	Projects       []role.Project
	Failed         []string
	CoreMultiplier float64
}

// BuildMulti assembles the aggregate report. Project rows are sorted by
// commits, descending, ties keeping input order.
func BuildMulti(in MultiInput) MultiReport {
	base := Build(in.Input)

	multiplier := in.CoreMultiplier
	if multiplier <= 0 {
		multiplier = role.DefaultCoreMultiplier
	}

	total := base.Overview.Commits

	rows := make([]ProjectRow, 0, len(in.Projects))
	for _, p := range in.Projects {
		rows = append(rows, ProjectRow{
			Name:              p.Name,
			Commits:           p.Commits,
			Share:             RoundTenth(ContributionRatio(p.Commits, total)),
			ContributionRatio: RoundTenth(p.ContributionRatio),
			Authors:           p.Authors,
			Core:              p.ContributionRatio >= p.CoreThreshold(multiplier),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Commits > rows[j].Commits })

	return MultiReport{Report: base, Projects: rows, Failed: in.Failed}
}
