package stats

import (
	"time"

	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/commitlog"
)

// Merge combines per-repository aggregates into a new one. Inputs are not
// modified. Record holders are replaced only on strictly greater values,
// so on ties the earliest input wins. Day-level extremes are recomputed
// on the merged buckets.
func Merge(parts ...*Stats) *Stats {
	out := New()

	for _, p := range parts {
		if p == nil {
			continue
		}

		mergeInto(out, p)
	}

	FinalizeExtremes(out)

	return out
}

func mergeInto(dst, src *Stats) {
	dst.Summary.TotalCommits += src.Summary.TotalCommits
	dst.Summary.TotalAdditions += src.Summary.TotalAdditions
	dst.Summary.TotalDeletions += src.Summary.TotalDeletions

	for i, n := range src.Time.Hours {
		dst.Time.Hours[i] += n
	}

	for i, n := range src.Time.Weekdays {
		dst.Time.Weekdays[i] += n
	}

	for i, n := range src.Time.Months {
		dst.Time.Months[i] += n
	}

	for _, date := range src.Time.orderedDates() {
		times := src.Time.Dates[date]
		if _, seen := dst.Time.Dates[date]; !seen {
			dst.Time.DateOrder = append(dst.Time.DateOrder, date)
		}

		merged := make([]time.Time, 0, len(dst.Time.Dates[date])+len(times))
		merged = append(merged, dst.Time.Dates[date]...)
		dst.Time.Dates[date] = append(merged, times...)
	}

	sumInto(dst.Modules, src.Modules)
	sumInto(dst.RootModules, src.RootModules)
	sumInto(dst.FileExtensions, src.FileExtensions)

	dst.Style.Feat += src.Style.Feat
	dst.Style.Fix += src.Style.Fix
	dst.Style.Refactor += src.Style.Refactor
	dst.Style.Docs += src.Style.Docs
	dst.Style.Chore += src.Style.Chore

	dst.Specialized.RefactorAdd += src.Specialized.RefactorAdd
	dst.Specialized.RefactorDel += src.Specialized.RefactorDel
	dst.Specialized.FixCount += src.Specialized.FixCount

	dst.Sentiment.Positive += src.Sentiment.Positive
	dst.Sentiment.Negative += src.Sentiment.Negative
	dst.Sentiment.Stressful += src.Sentiment.Stressful

	dst.Messages = append(dst.Messages, src.Messages...)

	mergeExtremes(&dst.Extremes, &src.Extremes)
}

func mergeExtremes(dst, src *Extremes) {
	dst.MidnightCommits += src.MidnightCommits

	if src.BiggestCommit.Lines > dst.BiggestCommit.Lines {
		dst.BiggestCommit = src.BiggestCommit
	}

	if src.LatestMoment != nil && laterInNight(src.LatestMoment.When, dst.LatestMoment, src.LatestMoment.When.Location()) {
		dst.LatestMoment = cloneEntry(src.LatestMoment)
	}

	if src.FirstCommit != nil && (dst.FirstCommit == nil || src.FirstCommit.When.Before(dst.FirstCommit.When)) {
		dst.FirstCommit = cloneEntry(src.FirstCommit)
	}

	if src.LastCommit != nil && (dst.LastCommit == nil || src.LastCommit.When.After(dst.LastCommit.When)) {
		dst.LastCommit = cloneEntry(src.LastCommit)
	}
}

func sumInto(dst, src map[string]int) {
	for k, v := range src {
		dst[k] += v
	}
}

func cloneEntry(e *commitlog.Entry) *commitlog.Entry {
	c := *e

	return &c
}

// MergeProjectStats sums commit and author totals. The average is the
// unweighted mean of the per-repository averages.
func MergeProjectStats(parts ...ProjectStats) ProjectStats {
	if len(parts) == 0 {
		return ProjectStats{}
	}

	var (
		out    ProjectStats
		avgSum float64
	)

	for _, p := range parts {
		out.TotalCommits += p.TotalCommits
		out.TotalAuthors += p.TotalAuthors
		avgSum += p.AvgCommitsPerPerson
	}

	out.AvgCommitsPerPerson = avgSum / float64(len(parts))

	return out
}
