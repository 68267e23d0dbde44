package gitlib

import (
	"regexp"
)

// AuthorMatcher selects commits by author the way git log --author does:
// the pattern is a regular expression matched against "Name <email>".
// Patterns that do not compile are matched literally.
type AuthorMatcher struct {
	re *regexp.Regexp
}

// NewAuthorMatcher compiles pattern. An empty pattern matches everyone.
func NewAuthorMatcher(pattern string) AuthorMatcher {
	re, err := regexp.Compile(pattern)
	if err != nil {
		re = regexp.MustCompile(regexp.QuoteMeta(pattern))
	}

	return AuthorMatcher{re: re}
}

// Match reports whether sig is selected.
func (m AuthorMatcher) Match(sig Signature) bool {
	return m.re.MatchString(sig.Identity())
}
