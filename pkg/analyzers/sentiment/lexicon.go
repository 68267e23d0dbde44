// Package sentiment classifies commit subjects by keyword heuristics.
//
// Two independent mechanisms live here: sentiment categories, which are
// non-exclusive regular-expression hits, and commit styles, which are
// mutually exclusive and resolved by a fixed first-match priority.
package sentiment

import (
	"regexp"
	"strings"
)

// Category is a sentiment category a commit subject can hit.
type Category int

// Sentiment categories.
const (
	Positive Category = iota
	Negative
	Stressful
)

// Style is the single style bucket a commit subject falls into.
type Style string

// Commit styles in match priority order; Chore is the fallback.
const (
	StyleFeat     Style = "feat"
	StyleFix      Style = "fix"
	StyleRefactor Style = "refactor"
	StyleDocs     Style = "docs"
	StyleChore    Style = "chore"
)

// stylePriority is consulted in order; the first substring hit wins.
var stylePriority = []Style{StyleFeat, StyleFix, StyleRefactor, StyleDocs}

// Default category patterns, matched case-insensitively.
const (
	DefaultPositivePattern  = `feat|improve|optimize|perfect|clean|refactor|add|success|resolve`
	DefaultNegativePattern  = `bug|fix|error|issue|fail|broken|revert|temp|shit|problem`
	DefaultStressfulPattern = `urgent|critical|hotfix|immediately|!!!|deadline|priority`
)

// Hits records which categories a subject matched.
type Hits struct {
	Positive  bool
	Negative  bool
	Stressful bool
}

// Lexicon holds compiled category patterns. A Lexicon is immutable after
// construction and safe for concurrent use.
type Lexicon struct {
	positive  *regexp.Regexp
	negative  *regexp.Regexp
	stressful *regexp.Regexp
}

// NewLexicon compiles the given patterns as case-insensitive expressions.
func NewLexicon(positive, negative, stressful string) (*Lexicon, error) {
	pos, err := regexp.Compile("(?i)" + positive)
	if err != nil {
		return nil, err
	}

	neg, err := regexp.Compile("(?i)" + negative)
	if err != nil {
		return nil, err
	}

	str, err := regexp.Compile("(?i)" + stressful)
	if err != nil {
		return nil, err
	}

	return &Lexicon{positive: pos, negative: neg, stressful: str}, nil
}

// DefaultLexicon returns the built-in lexicon.
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		positive:  regexp.MustCompile("(?i)" + DefaultPositivePattern),
		negative:  regexp.MustCompile("(?i)" + DefaultNegativePattern),
		stressful: regexp.MustCompile("(?i)" + DefaultStressfulPattern),
	}
}

// Match tests the subject against every category independently.
func (l *Lexicon) Match(subject string) Hits {
	return Hits{
		Positive:  l.positive.MatchString(subject),
		Negative:  l.negative.MatchString(subject),
		Stressful: l.stressful.MatchString(subject),
	}
}

// ClassifyStyle returns the style bucket for a subject.
func ClassifyStyle(subject string) Style {
	lower := strings.ToLower(subject)

	for _, s := range stylePriority {
		if strings.Contains(lower, string(s)) {
			return s
		}
	}

	return StyleChore
}

// IsRefactor reports whether the subject mentions a refactor, regardless
// of the style bucket it lands in. A "feat: refactor x" subject is styled
// feat but its line counts still feed the refactor subtotals.
func IsRefactor(subject string) bool {
	return strings.Contains(strings.ToLower(subject), string(StyleRefactor))
}
