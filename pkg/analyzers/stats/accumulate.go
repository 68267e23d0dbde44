package stats

import (
	"strings"
	"time"

	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/commitlog"
	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/sentiment"
)

// midnightLastHour is the last local hour counted as a midnight commit.
const midnightLastHour = 6

// Options are the immutable inputs of a fold.
type Options struct {
	Lexicon  *sentiment.Lexicon
	Location *time.Location
}

func (o Options) lexicon() *sentiment.Lexicon {
	if o.Lexicon == nil {
		return sentiment.DefaultLexicon()
	}

	return o.Lexicon
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}

	return o.Location
}

// Accumulate folds the correlated pairs into s. entries is the full,
// timestamp-sorted log list; it defines TotalCommits and the first and
// last commit. Day-level extremes are left to FinalizeExtremes.
func Accumulate(s *Stats, entries []commitlog.Entry, pairs []commitlog.Pair, opts Options) {
	lex := opts.lexicon()
	loc := opts.location()

	for _, p := range pairs {
		accumulateCommit(s, p, lex, loc)
	}

	s.Summary.TotalCommits = len(entries)

	if len(entries) > 0 {
		first := entries[0]
		last := entries[len(entries)-1]
		s.Extremes.FirstCommit = &first
		s.Extremes.LastCommit = &last
	}
}

func accumulateCommit(s *Stats, p commitlog.Pair, lex *sentiment.Lexicon, loc *time.Location) {
	when := p.Entry.When.In(loc)
	msg := p.Entry.Message

	hits := lex.Match(msg)
	if hits.Positive {
		s.Sentiment.Positive++
	}

	if hits.Negative {
		s.Sentiment.Negative++
	}

	if hits.Stressful {
		s.Sentiment.Stressful++
	}

	s.Time.Hours[when.Hour()]++
	s.Time.Weekdays[when.Weekday()]++
	s.Time.Months[when.Month()-1]++

	s.Time.addDate(when.Format(DateLayout), when)

	if when.Hour() <= midnightLastHour {
		s.Extremes.MidnightCommits++

		if laterInNight(when, s.Extremes.LatestMoment, loc) {
			entry := p.Entry
			s.Extremes.LatestMoment = &entry
		}
	}

	s.Messages = append(s.Messages, msg)

	switch sentiment.ClassifyStyle(msg) {
	case sentiment.StyleFeat:
		s.Style.Feat++
	case sentiment.StyleFix:
		s.Style.Fix++
		s.Specialized.FixCount++
	case sentiment.StyleRefactor:
		s.Style.Refactor++
	case sentiment.StyleDocs:
		s.Style.Docs++
	case sentiment.StyleChore:
		s.Style.Chore++
	}

	refactor := sentiment.IsRefactor(msg)
	changed := 0

	for _, fc := range p.Files {
		s.Summary.TotalAdditions += fc.Added
		s.Summary.TotalDeletions += fc.Removed
		changed += fc.Lines()

		if refactor {
			s.Specialized.RefactorAdd += fc.Added
			s.Specialized.RefactorDel += fc.Removed
		}

		if ext, ok := Extension(fc.Path); ok {
			s.FileExtensions[ext]++
		}

		s.Modules[fc.Path]++
		s.RootModules[RootSegment(fc.Path)]++
	}

	if changed > s.Extremes.BiggestCommit.Lines {
		s.Extremes.BiggestCommit = BiggestCommit{
			Hash:    p.Entry.Hash,
			Message: msg,
			When:    p.Entry.When,
			Lines:   changed,
		}
	}
}

// laterInNight reports whether when is strictly later than the current
// holder by local (hour, minute).
func laterInNight(when time.Time, holder *commitlog.Entry, loc *time.Location) bool {
	if holder == nil {
		return true
	}

	h := holder.When.In(loc)

	if when.Hour() != h.Hour() {
		return when.Hour() > h.Hour()
	}

	return when.Minute() > h.Minute()
}

// Extension returns the substring after the last dot of path. It reports
// false when the path has no dot or the suffix is empty.
func Extension(path string) (string, bool) {
	idx := strings.LastIndex(path, ".")
	if idx < 0 || idx == len(path)-1 {
		return "", false
	}

	return path[idx+1:], true
}

// RootSegment returns the first path component, or RootSentinel when it
// is empty.
func RootSegment(path string) string {
	first, _, _ := strings.Cut(path, "/")
	if first == "" {
		return RootSentinel
	}

	return first
}

// Build runs the fold and the extremes pass over one repository's commits.
func Build(entries []commitlog.Entry, pairs []commitlog.Pair, opts Options) *Stats {
	s := New()
	Accumulate(s, entries, pairs, opts)
	FinalizeExtremes(s)

	return s
}
