// Package commitlog parses raw log and diff-stat text and joins the two
// streams by commit hash.
//
// Log lines have the form "hash|timestamp|subject". The subject is the
// third pipe-separated field, so a subject containing "|" is truncated.
// Diff-stat text is a sequence of blocks, each introduced by BlockSeparator
// immediately followed by the commit hash, with one "added\tremoved\tpath"
// line per changed file.
package commitlog

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// BlockSeparator introduces each diff-stat block.
const BlockSeparator = "COMMIT_SEP|"

const (
	logFieldSep  = "|"
	logFields    = 3
	statFieldSep = "\t"
	statFields   = 3
)

// ErrMalformedTimestamp is returned when a log line carries a timestamp
// none of the accepted layouts can parse.
var ErrMalformedTimestamp = errors.New("malformed commit timestamp")

// zonedLayouts carry their own offset.
var zonedLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02T15:04:05-0700",
}

// localLayouts are interpreted in the caller's location.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Entry is one commit record from the log stream.
type Entry struct {
	Hash    string
	When    time.Time
	Message string
}

// FileChange is one line of a diff-stat block.
type FileChange struct {
	Path    string
	Added   int
	Removed int
}

// Lines returns the total changed lines.
func (fc FileChange) Lines() int {
	return fc.Added + fc.Removed
}

// Block is the diff-stat listing of a single commit.
type Block struct {
	Hash  string
	Files []FileChange
}

// Pair is a log entry joined with its diff-stat block.
type Pair struct {
	Entry Entry
	Files []FileChange
}

// ParseLog parses log text into entries sorted ascending by timestamp.
// Timestamps without an explicit offset are interpreted in loc; a nil loc
// means time.Local.
//
// A line whose timestamp cannot be parsed is skipped and the remaining
// lines are still returned. The error joins one ErrMalformedTimestamp per
// skipped line and is nil when every line parsed.
func ParseLog(raw string, loc *time.Location) ([]Entry, error) {
	if loc == nil {
		loc = time.Local
	}

	var (
		entries []Entry
		skipped []error
	)

	for line := range strings.SplitSeq(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.SplitN(line, logFieldSep, logFields+1)
		for len(parts) < logFields {
			parts = append(parts, "")
		}

		when, err := parseTimestamp(strings.TrimSpace(parts[1]), loc)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("%w: %q", err, line))

			continue
		}

		entries = append(entries, Entry{
			Hash:    strings.TrimSpace(parts[0]),
			When:    when,
			Message: parts[2],
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].When.Before(entries[j].When)
	})

	return entries, errors.Join(skipped...)
}

func parseTimestamp(value string, loc *time.Location) (time.Time, error) {
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.In(loc), nil
		}
	}

	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, ErrMalformedTimestamp
}

// ParseDiffStat splits diff-stat text into blocks. Counts that are not
// numeric, such as the "-" binary marker, become zero. Lines that do not
// have exactly three tab-separated fields are ignored.
func ParseDiffStat(raw string) []Block {
	var blocks []Block

	for chunk := range strings.SplitSeq(raw, BlockSeparator) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}

		lines := strings.Split(chunk, "\n")
		block := Block{Hash: strings.TrimSpace(lines[0])}

		for _, line := range lines[1:] {
			fields := strings.Split(strings.TrimRight(line, "\r"), statFieldSep)
			if len(fields) != statFields {
				continue
			}

			block.Files = append(block.Files, FileChange{
				Path:    fields[2],
				Added:   parseCount(fields[0]),
				Removed: parseCount(fields[1]),
			})
		}

		blocks = append(blocks, block)
	}

	return blocks
}

func parseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}

	return n
}

// Correlate joins blocks to entries by exact hash. Blocks without a
// matching entry are dropped. Pairs keep block order.
func Correlate(entries []Entry, blocks []Block) []Pair {
	byHash := make(map[string]Entry, len(entries))
	for _, e := range entries {
		if _, seen := byHash[e.Hash]; !seen {
			byHash[e.Hash] = e
		}
	}

	pairs := make([]Pair, 0, len(blocks))

	for _, b := range blocks {
		e, ok := byHash[b.Hash]
		if !ok {
			continue
		}

		pairs = append(pairs, Pair{Entry: e, Files: b.Files})
	}

	return pairs
}
