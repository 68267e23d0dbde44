// Package report assembles the immutable profile consumed by renderers.
// Renderers read a Report as-is and never recompute any of its values.
package report

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/collaboration"
	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/role"
	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/scoring"
	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/sentiment"
	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/stats"
)

// Report shape defaults.
const (
	DefaultTopKeywords   = 10
	DefaultTopExtensions = 5
	defaultTopLanguages  = 5
	secondaryKeywords    = 3
	defaultMainKeyword   = "CODING"
	weekendShare         = 0.3
	percent              = 100.0
	shortHashLength      = 7
)

// Milestone kinds.
const (
	MilestoneFirstCommit   = "first-commit"
	MilestoneLastCommit    = "last-commit"
	MilestoneBiggestCommit = "biggest-commit"
	MilestoneLongestStreak = "longest-streak"
)

// Period is the analyzed time range.
type Period struct {
	Label string    `json:"label" yaml:"label"`
	Since time.Time `json:"since" yaml:"since"`
	Until time.Time `json:"until" yaml:"until"`
}

// YearPeriod returns the calendar year in loc, inclusive on both ends.
func YearPeriod(year int, loc *time.Location) Period {
	if loc == nil {
		loc = time.Local
	}

	return Period{
		Label: time.Date(year, time.January, 1, 0, 0, 0, 0, loc).Format("2006"),
		Since: time.Date(year, time.January, 1, 0, 0, 0, 0, loc),
		Until: time.Date(year, time.December, 31, 23, 59, 59, 0, loc),
	}
}

// Overview holds the headline numbers.
type Overview struct {
	Commits      int     `json:"commits"       yaml:"commits"`
	DaysWorked   int     `json:"days_worked"   yaml:"days_worked"`
	MaxStreak    int     `json:"max_streak"    yaml:"max_streak"`
	LinesAdded   int     `json:"lines_added"   yaml:"lines_added"`
	LinesRemoved int     `json:"lines_removed" yaml:"lines_removed"`
	Health       float64 `json:"health"        yaml:"health"`
}

// Contrast compares the contributor with the repository baseline.
type Contrast struct {
	ProjectTotalCommits int     `json:"project_total_commits" yaml:"project_total_commits"`
	ProjectAuthors      int     `json:"project_authors"       yaml:"project_authors"`
	ContributionRatio   float64 `json:"contribution_ratio"    yaml:"contribution_ratio"`
	BeatPercent         int     `json:"beat_percent"          yaml:"beat_percent"`
}

// SentimentProfile summarizes commit subject sentiment.
type SentimentProfile struct {
	Mood      sentiment.Mood `json:"mood"      yaml:"mood"`
	Positive  int            `json:"positive"  yaml:"positive"`
	Negative  int            `json:"negative"  yaml:"negative"`
	Stressful int            `json:"stressful" yaml:"stressful"`
}

// StyleMix counts commits per style bucket.
type StyleMix struct {
	Feat     int `json:"feat"     yaml:"feat"`
	Fix      int `json:"fix"      yaml:"fix"`
	Refactor int `json:"refactor" yaml:"refactor"`
	Docs     int `json:"docs"     yaml:"docs"`
	Chore    int `json:"chore"    yaml:"chore"`
}

// Advanced holds the composite metrics and collaboration scores.
type Advanced struct {
	scoring.Metrics `yaml:",inline"`

	InterweavingScore    float64 `json:"interweaving_score"     yaml:"interweaving_score"`
	SoleMaintenanceIndex float64 `json:"sole_maintenance_index" yaml:"sole_maintenance_index"`
	SampledFiles         int     `json:"sampled_files"          yaml:"sampled_files"`
}

// Moment is a single commit reference.
type Moment struct {
	Hash    string    `json:"hash"    yaml:"hash"`
	When    time.Time `json:"when"    yaml:"when"`
	Message string    `json:"message" yaml:"message"`
}

// DaySpan is the widest working day.
type DaySpan struct {
	Date  string  `json:"date"  yaml:"date"`
	Hours float64 `json:"hours" yaml:"hours"`
}

// DayCount is the busiest day.
type DayCount struct {
	Date    string `json:"date"    yaml:"date"`
	Commits int    `json:"commits" yaml:"commits"`
}

// TimeCapsule holds the time-of-activity facts.
type TimeCapsule struct {
	LatestCommit        *Moment  `json:"latest_commit,omitempty" yaml:"latest_commit,omitempty"`
	MarathonDay         DaySpan  `json:"marathon_day"            yaml:"marathon_day"`
	BusiestDay          DayCount `json:"busiest_day"             yaml:"busiest_day"`
	MidnightCommits     int      `json:"midnight_commits"        yaml:"midnight_commits"`
	MonthlyDistribution []int    `json:"monthly_distribution"    yaml:"monthly_distribution"`
	HourlyDistribution  []int    `json:"hourly_distribution"     yaml:"hourly_distribution"`
	WeekdayDistribution []int    `json:"weekday_distribution"    yaml:"weekday_distribution"`
}

// TechFingerprint lists the most touched file types.
type TechFingerprint struct {
	TopExtensions []stats.Count `json:"top_extensions" yaml:"top_extensions"`
	Languages     []stats.Count `json:"languages"      yaml:"languages"`
	RootModules   []stats.Count `json:"root_modules"   yaml:"root_modules"`
}

// Milestone is a notable point of the period.
type Milestone struct {
	Kind   string `json:"kind"   yaml:"kind"`
	Date   string `json:"date"   yaml:"date"`
	Detail string `json:"detail" yaml:"detail"`
}

// PosterKeywords are the dominant words of the commit subjects.
type PosterKeywords struct {
	Main      string              `json:"main"      yaml:"main"`
	Secondary []string            `json:"secondary" yaml:"secondary"`
	Top       []sentiment.Keyword `json:"top"       yaml:"top"`
}

// Habits are coarse working patterns.
type Habits struct {
	PeakHour       int  `json:"peak_hour"        yaml:"peak_hour"`
	WeekendWarrior bool `json:"weekend_warrior"  yaml:"weekend_warrior"`
}

// Badge is an earned label.
type Badge struct {
	ID    scoring.Label `json:"id"    yaml:"id"`
	Title string        `json:"title" yaml:"title"`
}

// Report is the complete profile of one contributor.
type Report struct {
	RunID           string           `json:"run_id"           yaml:"run_id"`
	User            string           `json:"user"             yaml:"user"`
	ProjectName     string           `json:"project_name"     yaml:"project_name"`
	Period          Period           `json:"period"           yaml:"period"`
	Overview        Overview         `json:"overview"         yaml:"overview"`
	Contrast        Contrast         `json:"contrast"         yaml:"contrast"`
	Sentiment       SentimentProfile `json:"sentiment"        yaml:"sentiment"`
	Style           StyleMix         `json:"style"            yaml:"style"`
	Advanced        Advanced         `json:"advanced"         yaml:"advanced"`
	TimeCapsule     TimeCapsule      `json:"time_capsule"     yaml:"time_capsule"`
	TechFingerprint TechFingerprint  `json:"tech_fingerprint" yaml:"tech_fingerprint"`
	Radar           scoring.Radar    `json:"radar"            yaml:"radar"`
	Milestones      []Milestone      `json:"milestones"       yaml:"milestones"`
	Keywords        PosterKeywords   `json:"keywords"         yaml:"keywords"`
	Habits          Habits           `json:"habits"           yaml:"habits"`
	Labels          []Badge          `json:"labels"           yaml:"labels"`
	Evaluation      role.Evaluation  `json:"evaluation"       yaml:"evaluation"`
}

// Input carries the finalized pipeline outputs.
type Input struct {
	RunID         string
	User          string
	ProjectName   string
	Period        Period
	Stats         *stats.Stats
	Project       stats.ProjectStats
	Metrics       scoring.Metrics
	Radar         scoring.Radar
	Labels        []scoring.Label
	Collaboration collaboration.Result
	Evaluation    role.Evaluation
	TopKeywords   int
	TopExtensions int
}

// Build assembles the report.
func Build(in Input) Report {
	s := in.Stats
	if s == nil {
		s = stats.New()
	}

	runID := in.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	topKeywords := in.TopKeywords
	if topKeywords <= 0 {
		topKeywords = DefaultTopKeywords
	}

	topExtensions := in.TopExtensions
	if topExtensions <= 0 {
		topExtensions = DefaultTopExtensions
	}

	streak := stats.MaxStreak(s.Time.Dates)
	keywords := sentiment.TopKeywords(s.Messages, topKeywords)

	return Report{
		RunID:       runID,
		User:        in.User,
		ProjectName: in.ProjectName,
		Period:      in.Period,
		Overview: Overview{
			Commits:      s.Summary.TotalCommits,
			DaysWorked:   stats.DaysWorked(s),
			MaxStreak:    streak,
			LinesAdded:   s.Summary.TotalAdditions,
			LinesRemoved: s.Summary.TotalDeletions,
			Health:       RoundTenth(in.Metrics.CodeHealthIndex),
		},
		Contrast: Contrast{
			ProjectTotalCommits: in.Project.TotalCommits,
			ProjectAuthors:      in.Project.TotalAuthors,
			ContributionRatio:   RoundTenth(ContributionRatio(s.Summary.TotalCommits, in.Project.TotalCommits)),
			BeatPercent:         in.Metrics.BeatPercent,
		},
		Sentiment: SentimentProfile{
			Mood:      sentiment.MoodOf(s.Sentiment.Positive, s.Sentiment.Negative, s.Sentiment.Stressful),
			Positive:  s.Sentiment.Positive,
			Negative:  s.Sentiment.Negative,
			Stressful: s.Sentiment.Stressful,
		},
		Style: StyleMix(s.Style),
		Advanced: Advanced{
			Metrics:              roundMetrics(in.Metrics),
			InterweavingScore:    RoundTenth(in.Collaboration.InterweavingScore),
			SoleMaintenanceIndex: RoundTenth(in.Collaboration.SoleMaintenanceIndex),
			SampledFiles:         in.Collaboration.Sampled,
		},
		TimeCapsule:     timeCapsule(s),
		TechFingerprint: fingerprint(s, topExtensions),
		Radar:           in.Radar,
		Milestones:      milestones(s, streak),
		Keywords:        posterKeywords(keywords),
		Habits: Habits{
			PeakHour:       stats.PeakHour(s),
			WeekendWarrior: float64(s.Time.Weekdays[time.Sunday]+s.Time.Weekdays[time.Saturday]) > float64(s.Summary.TotalCommits)*weekendShare,
		},
		Labels:     badges(in.Labels),
		Evaluation: in.Evaluation,
	}
}

// ContributionRatio returns the percentage of project commits authored.
func ContributionRatio(authored, projectTotal int) float64 {
	if projectTotal <= 0 {
		return 0
	}

	return percent * float64(authored) / float64(projectTotal)
}

func timeCapsule(s *stats.Stats) TimeCapsule {
	tc := TimeCapsule{
		MarathonDay:         DaySpan{Date: s.Extremes.LongestDay.Date, Hours: s.Extremes.LongestDay.Span},
		BusiestDay:          DayCount{Date: s.Extremes.MaxCommitsPerDay.Date, Commits: s.Extremes.MaxCommitsPerDay.Count},
		MidnightCommits:     s.Extremes.MidnightCommits,
		MonthlyDistribution: append([]int(nil), s.Time.Months[:]...),
		HourlyDistribution:  append([]int(nil), s.Time.Hours[:]...),
		WeekdayDistribution: append([]int(nil), s.Time.Weekdays[:]...),
	}

	if lm := s.Extremes.LatestMoment; lm != nil {
		tc.LatestCommit = &Moment{Hash: shortHash(lm.Hash), When: lm.When, Message: lm.Message}
	}

	return tc
}

func fingerprint(s *stats.Stats, topExtensions int) TechFingerprint {
	return TechFingerprint{
		TopExtensions: stats.Top(s.FileExtensions, topExtensions),
		Languages:     Languages(s.Modules, defaultTopLanguages),
		RootModules:   stats.Top(s.RootModules, topExtensions),
	}
}

const dateTimeLayout = "2006-01-02 15:04"

func milestones(s *stats.Stats, streak int) []Milestone {
	var out []Milestone

	if fc := s.Extremes.FirstCommit; fc != nil {
		out = append(out, Milestone{Kind: MilestoneFirstCommit, Date: fc.When.Format(dateTimeLayout), Detail: fc.Message})
	}

	if lc := s.Extremes.LastCommit; lc != nil {
		out = append(out, Milestone{Kind: MilestoneLastCommit, Date: lc.When.Format(dateTimeLayout), Detail: lc.Message})
	}

	if bc := s.Extremes.BiggestCommit; bc.Lines > 0 {
		out = append(out, Milestone{
			Kind:   MilestoneBiggestCommit,
			Date:   bc.When.Format(dateTimeLayout),
			Detail: bc.Message + " (" + itoa(bc.Lines) + " lines)",
		})
	}

	out = append(out, Milestone{
		Kind:   MilestoneLongestStreak,
		Date:   itoa(streak) + " days",
		Detail: "consecutive days with commits",
	})

	return out
}

func posterKeywords(top []sentiment.Keyword) PosterKeywords {
	pk := PosterKeywords{Main: defaultMainKeyword, Secondary: []string{}, Top: top}

	if len(top) == 0 {
		pk.Top = []sentiment.Keyword{}

		return pk
	}

	pk.Main = strings.ToUpper(top[0].Word)

	for i := 1; i < len(top) && i <= secondaryKeywords; i++ {
		pk.Secondary = append(pk.Secondary, top[i].Word)
	}

	return pk
}

func badges(labels []scoring.Label) []Badge {
	out := make([]Badge, 0, len(labels))
	for _, l := range labels {
		out = append(out, Badge{ID: l, Title: l.Title()})
	}

	return out
}

func roundMetrics(m scoring.Metrics) scoring.Metrics {
	return scoring.Metrics{
		InnovationRatio:  RoundTenth(m.InnovationRatio),
		RefinementImpact: RoundTenth(m.RefinementImpact),
		CodeHealthIndex:  RoundTenth(m.CodeHealthIndex),
		TechBreadth:      RoundTenth(m.TechBreadth),
		BeatPercent:      m.BeatPercent,
		StabilityScore:   RoundTenth(m.StabilityScore),
	}
}

func shortHash(h string) string {
	if len(h) > shortHashLength {
		return h[:shortHashLength]
	}

	return h
}

// RoundTenth rounds v to one decimal place, the precision percentages are
// reported and compared at.
func RoundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
