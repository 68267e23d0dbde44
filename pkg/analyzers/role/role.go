// Package role classifies a contributor into a role archetype with an
// ordered rule cascade. Exactly one role is always produced.
package role

import (
	"fmt"

	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/collaboration"
	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/scoring"
	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/stats"
)

// ID identifies a role archetype.
type ID string

// Roles in cascade order.
const (
	CoreOutput        ID = "core-output"
	SoleMaintainer    ID = "sole-maintainer"
	Support           ID = "support"
	CollaborativeCore ID = "collaborative-core"
	Versatile         ID = "versatile"
	Growth            ID = "growth"
)

// DefaultCoreMultiplier scales the even-share contribution ratio into
// the per-repository core threshold.
const DefaultCoreMultiplier = 1.8

// Cascade thresholds.
const (
	coreRatioMin          = 60.0
	coreInnovationMin     = 25.0
	soleIndexMin          = 55.0
	soleContributionMin   = 30.0
	supportFixRatioMin    = 0.3
	supportRefactorMin    = 0.25
	supportRemovalFactor  = 0.8
	collabProjectsMin     = 3
	collabCoreShareMax    = 0.6
	collabContributionMin = 15.0
	versatileCoreMin      = 2
	versatileInnovation   = 18.0
	versatileSoleIndexMin = 25.0
	percent               = 100.0
)

// Project is one repository's contribution facts.
type Project struct {
	Name string `json:"name" yaml:"name"`
	// ContributionRatio is the author's share of the repository's commits, in percent.
	ContributionRatio float64 `json:"contribution_ratio" yaml:"contribution_ratio"`
	Authors           int     `json:"authors"            yaml:"authors"`
	Commits           int     `json:"commits"            yaml:"commits"`
}

// CoreThreshold returns the contribution ratio at which the repository
// counts as core for the author.
func (p Project) CoreThreshold(multiplier float64) float64 {
	return percent / float64(max(p.Authors, 1)) * multiplier
}

// Input bundles the classifier inputs.
type Input struct {
	Stats         *stats.Stats
	Metrics       scoring.Metrics
	Collaboration collaboration.Result
	Projects      []Project
	// ContributionRatio is the overall share of commits, in percent.
	ContributionRatio float64
	// CoreMultiplier defaults to DefaultCoreMultiplier when zero.
	CoreMultiplier float64
}

// Facts are the numbers the decision was made on.
type Facts struct {
	ContributionRatio    float64 `json:"contribution_ratio"     yaml:"contribution_ratio"`
	SoleMaintenanceIndex float64 `json:"sole_maintenance_index" yaml:"sole_maintenance_index"`
	InnovationRatio      float64 `json:"innovation_ratio"       yaml:"innovation_ratio"`
	FixRatio             float64 `json:"fix_ratio"              yaml:"fix_ratio"`
	RefactorRatio        float64 `json:"refactor_ratio"         yaml:"refactor_ratio"`
	TotalCommits         int     `json:"total_commits"          yaml:"total_commits"`
	TotalProjects        int     `json:"total_projects"         yaml:"total_projects"`
	CoreProjectCount     int     `json:"core_project_count"     yaml:"core_project_count"`
	CoreProjectRatio     float64 `json:"core_project_ratio"     yaml:"core_project_ratio"`
}

// Evaluation is the classifier output.
type Evaluation struct {
	Role      ID       `json:"role"      yaml:"role"`
	Title     string   `json:"title"     yaml:"title"`
	Narrative string   `json:"narrative" yaml:"narrative"`
	Evidence  []string `json:"evidence"  yaml:"evidence"`
	Facts     Facts    `json:"facts"     yaml:"facts"`
}

type coreProject struct {
	Project

	core bool
}

type cascadeState struct {
	in       Input
	facts    Facts
	projects []coreProject
	core     []coreProject
}

type rule struct {
	id        ID
	title     string
	narrative string
	when      func(c *cascadeState) bool
	evidence  func(c *cascadeState) []string
}

// rules are evaluated in order; the first match wins and the last rule
// always matches.
var rules = []rule{
	{
		id:        CoreOutput,
		title:     "Core Output",
		narrative: "The engine of the team, carrying most of the development and feature work.",
		when: func(c *cascadeState) bool {
			return c.facts.CoreProjectCount > 0 &&
				c.facts.CoreProjectRatio >= coreRatioMin &&
				c.facts.InnovationRatio > coreInnovationMin
		},
		evidence: func(c *cascadeState) []string {
			var ev []string
			if len(c.core) == 1 {
				ev = append(ev, fmt.Sprintf("Authored %.1f%% of the commits in the core repository", c.core[0].ContributionRatio))
			} else {
				ev = append(ev,
					fmt.Sprintf("Above the core threshold in %d repositories", len(c.core)),
					fmt.Sprintf("Core repositories hold %.1f%% of all commits", c.facts.CoreProjectRatio))
			}

			return append(ev, fmt.Sprintf("Innovation ratio reached %.1f%%", c.facts.InnovationRatio))
		},
	},
	{
		id:        SoleMaintainer,
		title:     "Sole Maintainer",
		narrative: "The guardian of self-contained modules, maintaining key code largely alone.",
		when: func(c *cascadeState) bool {
			if c.facts.SoleMaintenanceIndex <= soleIndexMin || c.facts.CoreProjectCount == 0 {
				return false
			}

			for _, p := range c.core {
				if p.ContributionRatio > soleContributionMin {
					return true
				}
			}

			return false
		},
		evidence: func(c *cascadeState) []string {
			ev := []string{fmt.Sprintf("Sole maintenance index is %.1f%%", c.facts.SoleMaintenanceIndex)}
			if len(c.core) == 1 {
				return append(ev, fmt.Sprintf("Authored %.1f%% of the core repository's commits", c.core[0].ContributionRatio))
			}

			return append(ev, fmt.Sprintf("Carries independent development in %d core repositories", len(c.core)))
		},
	},
	{
		id:        Support,
		title:     "Support",
		narrative: "The stabilizer of the team, taking on fixes, refactoring and cleanup.",
		when: func(c *cascadeState) bool {
			s := c.in.Stats.Summary

			return (c.facts.FixRatio > supportFixRatioMin || c.facts.RefactorRatio > supportRefactorMin) &&
				float64(s.TotalDeletions) > supportRemovalFactor*float64(s.TotalAdditions)
		},
		evidence: func(c *cascadeState) []string {
			var ev []string
			if c.facts.FixRatio > supportFixRatioMin {
				ev = append(ev, fmt.Sprintf("Fix commits make up %.1f%%", c.facts.FixRatio*percent))
			}

			if c.facts.RefactorRatio > supportRefactorMin {
				ev = append(ev, fmt.Sprintf("Refactor commits make up %.1f%%", c.facts.RefactorRatio*percent))
			}

			s := c.in.Stats.Summary

			return append(ev, fmt.Sprintf("Removed %d lines against %d added", s.TotalDeletions, s.TotalAdditions))
		},
	},
	{
		id:        CollaborativeCore,
		title:     "Collaborative Core",
		narrative: "The bridge between repositories, coordinating work and moving several projects forward.",
		when: func(c *cascadeState) bool {
			n := c.facts.CoreProjectCount

			return c.facts.TotalProjects >= collabProjectsMin &&
				float64(n) < collabCoreShareMax*float64(c.facts.TotalProjects) &&
				n >= 1 &&
				c.facts.ContributionRatio > collabContributionMin
		},
		evidence: func(c *cascadeState) []string {
			sum := 0.0
			for _, p := range c.projects {
				sum += p.ContributionRatio
			}

			return []string{
				fmt.Sprintf("Contributed to %d repositories", c.facts.TotalProjects),
				fmt.Sprintf("Core maintainer in %d of them, supporting the rest", c.facts.CoreProjectCount),
				fmt.Sprintf("Average contribution ratio %.1f%%", sum/float64(c.facts.TotalProjects)),
			}
		},
	},
	{
		id:        Versatile,
		title:     "Versatile",
		narrative: "A well-rounded engineer, strong in new features, maintenance and teamwork alike.",
		when: func(c *cascadeState) bool {
			return c.facts.CoreProjectCount >= versatileCoreMin &&
				c.facts.InnovationRatio > versatileInnovation &&
				c.facts.SoleMaintenanceIndex > versatileSoleIndexMin
		},
		evidence: func(c *cascadeState) []string {
			return []string{
				fmt.Sprintf("Above the core threshold in %d repositories", c.facts.CoreProjectCount),
				fmt.Sprintf("Innovation ratio %.1f%% with sole maintenance index %.1f%%",
					c.facts.InnovationRatio, c.facts.SoleMaintenanceIndex),
			}
		},
	},
	{
		id:        Growth,
		title:     "Growth",
		narrative: "Growing steadily, building experience through continuous contribution.",
		when:      func(*cascadeState) bool { return true },
		evidence: func(c *cascadeState) []string {
			ev := []string{fmt.Sprintf("Made %d commits", c.facts.TotalCommits)}
			if c.facts.TotalProjects > 1 {
				ev = append(ev, fmt.Sprintf("Contributed to %d repositories", c.facts.TotalProjects))
				if c.facts.CoreProjectCount > 0 {
					ev = append(ev, fmt.Sprintf("Core maintainer in %d of them", c.facts.CoreProjectCount))
				}
			}

			return ev
		},
	},
}

// Classify runs the cascade.
func Classify(in Input) Evaluation {
	c := newContext(in)

	for _, r := range rules {
		if !r.when(c) {
			continue
		}

		return Evaluation{
			Role:      r.id,
			Title:     r.title,
			Narrative: r.narrative,
			Evidence:  r.evidence(c),
			Facts:     c.facts,
		}
	}

	// Unreachable: the last rule always matches.
	return Evaluation{Role: Growth, Facts: c.facts}
}

func newContext(in Input) *cascadeState {
	if in.Stats == nil {
		in.Stats = stats.New()
	}

	multiplier := in.CoreMultiplier
	if multiplier <= 0 {
		multiplier = DefaultCoreMultiplier
	}

	total := in.Stats.Summary.TotalCommits

	c := &cascadeState{in: in}

	coreCommits := 0

	for _, p := range in.Projects {
		cp := coreProject{Project: p, core: p.ContributionRatio >= p.CoreThreshold(multiplier)}
		c.projects = append(c.projects, cp)

		if cp.core {
			c.core = append(c.core, cp)
			coreCommits += p.Commits
		}
	}

	c.facts = Facts{
		ContributionRatio:    in.ContributionRatio,
		SoleMaintenanceIndex: in.Collaboration.SoleMaintenanceIndex,
		InnovationRatio:      in.Metrics.InnovationRatio,
		TotalCommits:         total,
		TotalProjects:        max(1, len(in.Projects)),
		CoreProjectCount:     len(c.core),
	}

	if total > 0 {
		c.facts.FixRatio = float64(in.Stats.Specialized.FixCount) / float64(total)
		c.facts.RefactorRatio = float64(in.Stats.Style.Refactor) / float64(total)
		c.facts.CoreProjectRatio = percent * float64(coreCommits) / float64(total)
	}

	return c
}
