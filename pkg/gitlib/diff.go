package gitlib

import (
	"fmt"
	"strconv"
	"strings"

	git2go "github.com/libgit2/git2go/v34"
)

// FileStat is the line count of one changed file.
type FileStat struct {
	Path    string
	Added   int
	Removed int
	Binary  bool
}

// Diff wraps a libgit2 diff.
type Diff struct {
	diff *git2go.Diff
}

// NumStat counts added and removed lines per changed file, in delta order.
func (d *Diff) NumStat() ([]FileStat, error) {
	var files []*FileStat

	err := d.diff.ForEach(func(delta git2go.DiffDelta, _ float64) (git2go.DiffForEachHunkCallback, error) {
		path := delta.NewFile.Path
		if path == "" {
			path = delta.OldFile.Path
		}

		fs := &FileStat{
			Path:   path,
			Binary: delta.Flags&git2go.DiffFlagBinary != 0,
		}
		files = append(files, fs)

		return func(git2go.DiffHunk) (git2go.DiffForEachLineCallback, error) {
			return func(line git2go.DiffLine) error {
				switch line.Origin {
				case git2go.DiffLineAddition:
					fs.Added++
				case git2go.DiffLineDeletion:
					fs.Removed++
				default:
				}

				return nil
			}, nil
		}, nil
	}, git2go.DiffDetailLines)
	if err != nil {
		return nil, fmt.Errorf("diff foreach: %w", err)
	}

	out := make([]FileStat, 0, len(files))
	for _, fs := range files {
		out = append(out, *fs)
	}

	return out, nil
}

// Free releases the diff resources.
func (d *Diff) Free() {
	if d.diff != nil {
		_ = d.diff.Free()
		d.diff = nil
	}
}

// WriteNumStat appends "added\tremoved\tpath" lines to b; binary files
// are written with "-" counts.
func WriteNumStat(b *strings.Builder, files []FileStat) {
	for _, f := range files {
		if f.Binary {
			b.WriteString("-\t-\t")
		} else {
			b.WriteString(strconv.Itoa(f.Added))
			b.WriteByte('\t')
			b.WriteString(strconv.Itoa(f.Removed))
			b.WriteByte('\t')
		}

		b.WriteString(f.Path)
		b.WriteByte('\n')
	}
}
