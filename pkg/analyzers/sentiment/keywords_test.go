package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoodOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, MoodUnderPressure, MoodOf(10, 0, 6))
	assert.Equal(t, MoodEnergized, MoodOf(3, 2, 5))
	assert.Equal(t, MoodCalm, MoodOf(2, 2, 0))
	assert.Equal(t, MoodCalm, MoodOf(0, 0, 0))
}

func TestTopKeywords_RanksAndFilters(t *testing.T) {
	t.Parallel()

	messages := []string{
		"feat: add parser for the config",
		"fix parser crash in config loader",
		"parser: refactor",
		"Merged branch x",
	}

	got := TopKeywords(messages, 3)

	assert.Equal(t, []Keyword{
		{Word: "parser", Count: 3},
		{Word: "config", Count: 2},
		{Word: "crash", Count: 1},
	}, got)
}

func TestTopKeywords_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, TopKeywords(nil, 10))
	assert.Nil(t, TopKeywords([]string{"parser"}, 0))
}
