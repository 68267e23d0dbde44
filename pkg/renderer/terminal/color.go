package terminal

import "github.com/fatih/color"

// Color names a terminal color.
type Color int

// Color constants.
const (
	ColorNone Color = iota
	ColorGreen
	ColorYellow
	ColorRed
	ColorBlue
	ColorCyan
	ColorMagenta
	ColorGray
)

// Score thresholds for color assignment on a 0-100 scale.
const (
	ScoreThresholdGood = 70
	ScoreThresholdFair = 40
)

var attributes = map[Color][]color.Attribute{
	ColorGreen:   {color.FgGreen},
	ColorYellow:  {color.FgYellow},
	ColorRed:     {color.FgRed},
	ColorBlue:    {color.FgBlue},
	ColorCyan:    {color.FgCyan},
	ColorMagenta: {color.FgMagenta},
	ColorGray:    {color.FgHiBlack},
}

// Colorize applies color to text. If NoColor is true, returns text unchanged.
func (c Config) Colorize(text string, col Color) string {
	return c.paint(text, attributes[col]...)
}

// Bold renders text in bold.
func (c Config) Bold(text string) string {
	return c.paint(text, color.Bold)
}

func (c Config) paint(text string, attrs ...color.Attribute) string {
	if c.NoColor || len(attrs) == 0 {
		return text
	}

	painter := color.New(attrs...)
	painter.EnableColor()

	return painter.Sprint(text)
}

// ColorForScore returns the color for a 0-100 score.
func ColorForScore(score float64) Color {
	if score >= ScoreThresholdGood {
		return ColorGreen
	}

	if score >= ScoreThresholdFair {
		return ColorYellow
	}

	return ColorRed
}
