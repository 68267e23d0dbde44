package report

import (
	"errors"
	"fmt"
	"time"
)

// Period validation errors.
var (
	ErrInvalidYear   = errors.New("year must have four digits")
	ErrInvalidDate   = errors.New("date must be formatted as YYYY-MM-DD")
	ErrInvertedRange = errors.New("since is after until")
)

const (
	dateLayout = "2006-01-02"
	minYear    = 1000
	maxYear    = 9999
)

// ResolvePeriod builds the analyzed period. Explicit since/until dates
// override the year; a zero year with no dates means the current year in
// loc. Until covers its whole day.
func ResolvePeriod(year int, since, until string, loc *time.Location, now time.Time) (Period, error) {
	if loc == nil {
		loc = time.Local
	}

	if since == "" && until == "" {
		if year == 0 {
			year = now.In(loc).Year()
		}

		if year < minYear || year > maxYear {
			return Period{}, fmt.Errorf("%w: %d", ErrInvalidYear, year)
		}

		return YearPeriod(year, loc), nil
	}

	var p Period

	if since != "" {
		t, err := time.ParseInLocation(dateLayout, since, loc)
		if err != nil {
			return Period{}, fmt.Errorf("%w: since %q", ErrInvalidDate, since)
		}

		p.Since = t
	}

	if until != "" {
		t, err := time.ParseInLocation(dateLayout, until, loc)
		if err != nil {
			return Period{}, fmt.Errorf("%w: until %q", ErrInvalidDate, until)
		}

		p.Until = t.AddDate(0, 0, 1).Add(-time.Second)
	}

	if !p.Since.IsZero() && !p.Until.IsZero() && p.Since.After(p.Until) {
		return Period{}, fmt.Errorf("%w: %s > %s", ErrInvertedRange, since, until)
	}

	p.Label = rangeLabel(since, until)

	return p, nil
}

func rangeLabel(since, until string) string {
	switch {
	case since == "":
		return "until " + until
	case until == "":
		return "since " + since
	default:
		return since + " to " + until
	}
}
