package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexicon_MatchIsNonExclusive(t *testing.T) {
	t.Parallel()

	lex := DefaultLexicon()

	hits := lex.Match("HOTFIX: resolve urgent bug")
	assert.True(t, hits.Positive)
	assert.True(t, hits.Negative)
	assert.True(t, hits.Stressful)

	hits = lex.Match("bump version")
	assert.Equal(t, Hits{}, hits)
}

func TestLexicon_StressfulExclamations(t *testing.T) {
	t.Parallel()

	assert.True(t, DefaultLexicon().Match("ship it!!!").Stressful)
	assert.False(t, DefaultLexicon().Match("ship it!!").Stressful)
}

func TestNewLexicon_CustomPatterns(t *testing.T) {
	t.Parallel()

	lex, err := NewLexicon("yay", "boo", "asap")
	require.NoError(t, err)

	assert.True(t, lex.Match("YAY it works").Positive)
	assert.False(t, lex.Match("feat: add").Positive)
}

func TestNewLexicon_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := NewLexicon("(", "b", "c")
	require.Error(t, err)
}

func TestClassifyStyle_Priority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		subject string
		want    Style
	}{
		{"feat: add x", StyleFeat},
		{"Fix: feature flag", StyleFeat},
		{"fix: y", StyleFix},
		{"refactor: fix naming", StyleFix},
		{"REFACTOR z", StyleRefactor},
		{"docs: readme", StyleDocs},
		{"bump deps", StyleChore},
		{"", StyleChore},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyStyle(tt.subject), tt.subject)
	}
}

func TestIsRefactor_IndependentOfStyle(t *testing.T) {
	t.Parallel()

	assert.True(t, IsRefactor("feat: refactor parser"))
	assert.Equal(t, StyleFeat, ClassifyStyle("feat: refactor parser"))
	assert.False(t, IsRefactor("feat: parser"))
}
