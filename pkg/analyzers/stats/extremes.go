package stats

import (
	"math"
	"sort"
	"time"
)

// FinalizeExtremes computes the day-level extremes from the complete date
// buckets. It must run after every commit has been accumulated, and is
// re-run on merged aggregates. Days are visited in the order they were
// first folded and a holder is only replaced by a strictly greater value,
// so on ties the first-seen day wins.
func FinalizeExtremes(s *Stats) {
	s.Extremes.MaxCommitsPerDay = BusiestDay{}
	s.Extremes.LongestDay = LongestDay{}

	for _, date := range s.Time.orderedDates() {
		times := s.Time.Dates[date]

		if len(times) > s.Extremes.MaxCommitsPerDay.Count {
			s.Extremes.MaxCommitsPerDay = BusiestDay{Date: date, Count: len(times)}
		}

		if len(times) < 2 {
			continue
		}

		span := roundTenth(daySpan(times).Hours())
		if span > s.Extremes.LongestDay.Span {
			s.Extremes.LongestDay = LongestDay{Date: date, Span: span}
		}
	}
}

func daySpan(times []time.Time) time.Duration {
	earliest, latest := times[0], times[0]

	for _, t := range times[1:] {
		if t.Before(earliest) {
			earliest = t
		}

		if t.After(latest) {
			latest = t
		}
	}

	return latest.Sub(earliest)
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func (t *Time) addDate(key string, when time.Time) {
	if _, seen := t.Dates[key]; !seen {
		t.DateOrder = append(t.DateOrder, key)
	}

	t.Dates[key] = append(t.Dates[key], when)
}

// orderedDates returns DateOrder followed by any keys of Dates it misses,
// the latter sorted ascending.
func (t *Time) orderedDates() []string {
	out := make([]string, 0, len(t.Dates))
	listed := make(map[string]struct{}, len(t.DateOrder))

	for _, k := range t.DateOrder {
		if _, ok := t.Dates[k]; !ok {
			continue
		}

		if _, dup := listed[k]; dup {
			continue
		}

		listed[k] = struct{}{}
		out = append(out, k)
	}

	var rest []string

	for k := range t.Dates {
		if _, ok := listed[k]; !ok {
			rest = append(rest, k)
		}
	}

	sort.Strings(rest)

	return append(out, rest...)
}

func sortedDates(dates map[string][]time.Time) []string {
	keys := make([]string, 0, len(dates))
	for k := range dates {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// MaxStreak returns the longest run of consecutive calendar days with at
// least one commit.
func MaxStreak(dates map[string][]time.Time) int {
	best, run := 0, 0

	var prev time.Time

	for i, key := range sortedDates(dates) {
		day, err := time.Parse(DateLayout, key)
		if err != nil {
			continue
		}

		if i > 0 && !prev.IsZero() && day.Sub(prev) == 24*time.Hour {
			run++
		} else {
			run = 1
		}

		best = max(best, run)
		prev = day
	}

	return best
}

// DaysWorked returns the number of distinct days with commits.
func DaysWorked(s *Stats) int {
	return len(s.Time.Dates)
}

// PeakHour returns the hour with the most commits; the earliest wins ties.
func PeakHour(s *Stats) int {
	peak := 0

	for h, n := range s.Time.Hours {
		if n > s.Time.Hours[peak] {
			peak = h
		}
	}

	return peak
}

// Count is a named counter value.
type Count struct {
	Name  string `json:"name"  yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// Top returns the n largest entries of m by count, ties broken by name.
func Top(m map[string]int, n int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Name: k, Count: v})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}

		return out[i].Name < out[j].Name
	})

	if n >= 0 && len(out) > n {
		out = out[:n]
	}

	return out
}
