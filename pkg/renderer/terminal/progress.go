package terminal

import (
	"fmt"
	"strings"
)

// Progress bar characters.
const (
	ProgressFilled = "█"
	ProgressEmpty  = "░"
)

// ScoreMax is the top of the score scale.
const ScoreMax = 100

// DrawProgressBar draws a bar of the given width for a value in [0, 1].
// Example: DrawProgressBar(0.7, 10) returns "███████░░░".
func DrawProgressBar(value float64, width int) string {
	if width <= 0 {
		return ""
	}

	value = min(max(value, 0), 1)

	filled := int(value * float64(width))

	return strings.Repeat(ProgressFilled, filled) + strings.Repeat(ProgressEmpty, width-filled)
}

// FormatScoreBar formats a 0-100 score with a bar: "[████████░░]  80".
func FormatScoreBar(score float64, barWidth int) string {
	return fmt.Sprintf("[%s] %3.0f", DrawProgressBar(score/ScoreMax, barWidth), score)
}

// DrawLabeledBar draws "label ████░░░░ value" with the label padded.
func DrawLabeledBar(label string, value, maxValue float64, labelWidth, barWidth int) string {
	ratio := 0.0
	if maxValue > 0 {
		ratio = value / maxValue
	}

	return fmt.Sprintf("%s %s %g", PadRight(label, labelWidth), DrawProgressBar(ratio, barWidth), value)
}
