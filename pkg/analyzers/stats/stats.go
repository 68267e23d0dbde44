// Package stats builds the per-contributor activity aggregate from
// correlated commits and merges aggregates across repositories.
package stats

import (
	"time"

	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/commitlog"
)

// Histogram sizes.
const (
	HoursPerDay  = 24
	DaysPerWeek  = 7
	MonthsInYear = 12
)

// DateLayout is the key format of the per-day buckets.
const DateLayout = "2006-01-02"

// RootSentinel is the root-module key for paths with an empty first segment.
const RootSentinel = "root"

// Summary holds the headline counters.
type Summary struct {
	TotalCommits   int
	TotalAdditions int
	TotalDeletions int
}

// Time holds the time-of-activity histograms.
type Time struct {
	Hours    [HoursPerDay]int
	Weekdays [DaysPerWeek]int
	Months   [MonthsInYear]int
	// Dates maps a local calendar day to the timestamps committed on it.
	Dates map[string][]time.Time
	// DateOrder lists the keys of Dates in first-seen fold order.
	DateOrder []string
}

// Style counts commits per exclusive style bucket.
type Style struct {
	Feat     int
	Fix      int
	Refactor int
	Docs     int
	Chore    int
}

// Specialized holds line subtotals of refactor commits and the fix count.
type Specialized struct {
	RefactorAdd int
	RefactorDel int
	FixCount    int
}

// Sentiment counts non-exclusive category hits.
type Sentiment struct {
	Positive  int
	Negative  int
	Stressful int
}

// BiggestCommit is the commit with the most changed lines.
type BiggestCommit struct {
	Hash    string
	Message string
	When    time.Time
	Lines   int
}

// LongestDay is the day with the widest span between first and last commit.
type LongestDay struct {
	Date string
	// Span is in hours, rounded to one decimal.
	Span float64
}

// BusiestDay is the day with the most commits.
type BusiestDay struct {
	Date  string
	Count int
}

// Extremes holds the running and day-level record holders.
type Extremes struct {
	BiggestCommit    BiggestCommit
	MidnightCommits  int
	LatestMoment     *commitlog.Entry
	LongestDay       LongestDay
	MaxCommitsPerDay BusiestDay
	FirstCommit      *commitlog.Entry
	LastCommit       *commitlog.Entry
}

// Stats is the activity aggregate of one contributor.
type Stats struct {
	Summary        Summary
	Time           Time
	Modules        map[string]int
	RootModules    map[string]int
	FileExtensions map[string]int
	Style          Style
	Specialized    Specialized
	Sentiment      Sentiment
	Extremes       Extremes
	Messages       []string
}

// New returns an empty aggregate.
func New() *Stats {
	return &Stats{
		Time:           Time{Dates: make(map[string][]time.Time)},
		Modules:        make(map[string]int),
		RootModules:    make(map[string]int),
		FileExtensions: make(map[string]int),
	}
}

// ProjectStats is the repository-wide baseline, not filtered by author.
type ProjectStats struct {
	TotalCommits        int     `json:"total_commits"          yaml:"total_commits"`
	TotalAuthors        int     `json:"total_authors"          yaml:"total_authors"`
	AvgCommitsPerPerson float64 `json:"avg_commits_per_person" yaml:"avg_commits_per_person"`
}

// NewProjectStats floors both counts at one and derives the average.
func NewProjectStats(commits, authors int) ProjectStats {
	commits = max(commits, 1)
	authors = max(authors, 1)

	return ProjectStats{
		TotalCommits:        commits,
		TotalAuthors:        authors,
		AvgCommitsPerPerson: float64(commits) / float64(authors),
	}
}
