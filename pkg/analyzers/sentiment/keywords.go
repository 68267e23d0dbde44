package sentiment

import (
	"regexp"
	"sort"
	"strings"
)

// Mood summarizes the sentiment counters of a profile.
type Mood string

// Moods.
const (
	MoodUnderPressure Mood = "under-pressure"
	MoodEnergized     Mood = "energized"
	MoodCalm          Mood = "calm"
)

// stressfulMoodLimit is the stressful-commit count above which the mood
// is reported as under pressure.
const stressfulMoodLimit = 5

// MoodOf derives the overall mood from category counters.
func MoodOf(positive, negative, stressful int) Mood {
	switch {
	case stressful > stressfulMoodLimit:
		return MoodUnderPressure
	case positive > negative:
		return MoodEnergized
	default:
		return MoodCalm
	}
}

// Keyword is a word and its frequency across commit subjects.
type Keyword struct {
	Word  string `json:"word"  yaml:"word"`
	Count int    `json:"count" yaml:"count"`
}

const minKeywordLength = 3

var wordPattern = regexp.MustCompile(`\w+`)

// stopWords are ignored when ranking keywords.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "to": {}, "for": {}, "in": {}, "of": {}, "with": {},
	"add": {}, "fix": {}, "update": {}, "feat": {}, "merged": {}, "branch": {},
}

// TopKeywords ranks the words of the given subjects by frequency and
// returns at most limit entries. Words shorter than three characters and
// stop words are skipped. Ties keep first-occurrence order.
func TopKeywords(messages []string, limit int) []Keyword {
	if limit <= 0 {
		return nil
	}

	counts := make(map[string]int)
	order := make([]string, 0)

	for _, msg := range messages {
		for _, w := range wordPattern.FindAllString(strings.ToLower(msg), -1) {
			if len(w) < minKeywordLength {
				continue
			}

			if _, stop := stopWords[w]; stop {
				continue
			}

			if counts[w] == 0 {
				order = append(order, w)
			}

			counts[w]++
		}
	}

	ranked := make([]Keyword, 0, len(order))
	for _, w := range order {
		ranked = append(ranked, Keyword{Word: w, Count: counts[w]})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked
}
