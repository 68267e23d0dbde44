package renderer_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/role"
	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/scoring"
	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/sentiment"
	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/stats"
	"github.com/Sumatoshi-tech/codeme/pkg/renderer"
	"github.com/Sumatoshi-tech/codeme/pkg/renderer/terminal"
	"github.com/Sumatoshi-tech/codeme/pkg/report"
)

func sampleReport() report.Report {
	return report.Report{
		RunID:       "run-1",
		User:        "alice@example.com",
		ProjectName: "widgets",
		Period:      report.Period{Label: "2024"},
		Overview: report.Overview{
			Commits: 1234, DaysWorked: 200, MaxStreak: 12,
			LinesAdded: 45678, LinesRemoved: 9012, Health: 82.5,
		},
		Contrast: report.Contrast{ProjectTotalCommits: 5000, ProjectAuthors: 9, ContributionRatio: 24.7, BeatPercent: 99},
		Sentiment: report.SentimentProfile{
			Mood: sentiment.MoodEnergized, Positive: 40, Negative: 10, Stressful: 1,
		},
		Style: report.StyleMix{Feat: 50, Fix: 30, Refactor: 10, Docs: 5, Chore: 3},
		Advanced: report.Advanced{
			Metrics:           scoring.Metrics{InnovationRatio: 41.2, CodeHealthIndex: 82.5, TechBreadth: 60},
			InterweavingScore: 25, SampledFiles: 10,
		},
		TimeCapsule: report.TimeCapsule{
			LatestCommit:        &report.Moment{Hash: "a1b2c3d", When: time.Date(2024, 5, 6, 3, 15, 0, 0, time.UTC), Message: "fix: late night"},
			MarathonDay:         report.DaySpan{Date: "2024-05-06", Hours: 11.5},
			BusiestDay:          report.DayCount{Date: "2024-05-07", Commits: 14},
			MidnightCommits:     7,
			MonthlyDistribution: make([]int, 12),
			HourlyDistribution:  make([]int, 24),
			WeekdayDistribution: []int{1, 5, 6, 7, 8, 9, 2},
		},
		TechFingerprint: report.TechFingerprint{
			TopExtensions: []stats.Count{{Name: "go", Count: 300}},
			Languages:     []stats.Count{{Name: "Go", Count: 300}, {Name: "YAML", Count: 20}},
		},
		Radar:      scoring.Radar{Activity: 90, Impact: 70, Refinement: 40, Collaboration: 30, Stability: 95, Breadth: 60},
		Milestones: []report.Milestone{{Kind: report.MilestoneFirstCommit, Date: "2024-01-02", Detail: "feat: bootstrap"}},
		Keywords:   report.PosterKeywords{Main: "PARSER", Secondary: []string{"build", "cache"}},
		Habits:     report.Habits{PeakHour: 22, WeekendWarrior: true},
		Labels:     []report.Badge{{ID: scoring.LabelNightOwl, Title: scoring.LabelNightOwl.Title()}},
		Evaluation: role.Evaluation{
			Role: role.CoreOutput, Title: "Core Output", Narrative: "Carries the project.",
			Evidence: []string{"Made 1234 commits"},
		},
	}
}

func sampleMulti() report.MultiReport {
	return report.MultiReport{
		Report: sampleReport(),
		Projects: []report.ProjectRow{
			{Name: "widgets", Commits: 1000, Share: 81, ContributionRatio: 30, Authors: 5, Core: true},
			{Name: "gadgets", Commits: 234, Share: 19, ContributionRatio: 10, Authors: 4},
		},
		Failed: []string{"/src/broken"},
	}
}

func noColor() renderer.Options {
	return renderer.Options{Terminal: terminal.Config{Width: 80, NoColor: true}}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  renderer.Format
	}{
		{"", renderer.FormatText},
		{"text", renderer.FormatText},
		{"JSON", renderer.FormatJSON},
		{" yaml ", renderer.FormatYAML},
		{"plot", renderer.FormatPlot},
	}

	for _, tt := range tests {
		got, err := renderer.ParseFormat(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got)
	}

	_, err := renderer.ParseFormat("xml")
	require.ErrorIs(t, err, renderer.ErrUnknownFormat)
}

func TestRender_JSON(t *testing.T) {
	t.Parallel()

	rep := sampleReport()

	var buf bytes.Buffer
	require.NoError(t, renderer.Render(&buf, renderer.FormatJSON, &rep, noColor()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "alice@example.com", decoded["user"])

	overview, ok := decoded["overview"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 1234.0, overview["commits"], 1e-9)

	advanced, ok := decoded["advanced"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 41.2, advanced["innovation_ratio"], 1e-9)
	assert.InDelta(t, 25.0, advanced["interweaving_score"], 1e-9)
}

func TestRender_YAML(t *testing.T) {
	t.Parallel()

	rep := sampleReport()

	var buf bytes.Buffer
	require.NoError(t, renderer.Render(&buf, renderer.FormatYAML, &rep, noColor()))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "widgets", decoded["project_name"])

	advanced, ok := decoded["advanced"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 41.2, advanced["innovation_ratio"], 1e-9)
}

func TestRender_Text(t *testing.T) {
	t.Parallel()

	rep := sampleReport()

	var buf bytes.Buffer
	require.NoError(t, renderer.Render(&buf, renderer.FormatText, &rep, noColor()))

	out := buf.String()

	assert.Contains(t, out, "alice@example.com")
	assert.Contains(t, out, "widgets")
	assert.Contains(t, out, "1,234")
	assert.Contains(t, out, "+45,678 / -9,012")
	assert.Contains(t, out, "Core Output")
	assert.Contains(t, out, "Made 1234 commits")
	assert.Contains(t, out, "Night Owl")
	assert.Contains(t, out, "energized")
	assert.Contains(t, out, "PARSER")
	assert.Contains(t, out, "22:00")
	assert.Contains(t, out, "Mon 2024-05-06 (11.5h)")
	assert.Contains(t, out, "first-commit")
	assert.NotContains(t, out, "\x1b[")
}

func TestRender_TextColored(t *testing.T) {
	t.Parallel()

	rep := sampleReport()

	var buf bytes.Buffer
	require.NoError(t, renderer.Render(&buf, renderer.FormatText, &rep, renderer.Options{}))

	assert.Contains(t, buf.String(), "\x1b[")
}

func TestRenderMulti_Text(t *testing.T) {
	t.Parallel()

	rep := sampleMulti()

	var buf bytes.Buffer
	require.NoError(t, renderer.RenderMulti(&buf, renderer.FormatText, &rep, noColor()))

	out := buf.String()

	assert.Contains(t, out, "Projects")
	assert.Contains(t, out, "gadgets")
	assert.Contains(t, out, "Skipped: /src/broken")
}

func TestRenderMulti_JSONFlattensReport(t *testing.T) {
	t.Parallel()

	rep := sampleMulti()

	var buf bytes.Buffer
	require.NoError(t, renderer.RenderMulti(&buf, renderer.FormatJSON, &rep, noColor()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "alice@example.com", decoded["user"])

	projects, ok := decoded["projects"].([]any)
	require.True(t, ok)
	assert.Len(t, projects, 2)
}

func TestRender_Plot(t *testing.T) {
	t.Parallel()

	rep := sampleMulti()

	var buf bytes.Buffer
	require.NoError(t, renderer.RenderMulti(&buf, renderer.FormatPlot, &rep, noColor()))

	out := buf.String()

	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "Radar")
	assert.Contains(t, out, "Commits by project")
}

func TestRender_UnknownFormat(t *testing.T) {
	t.Parallel()

	rep := sampleReport()

	err := renderer.Render(&bytes.Buffer{}, renderer.Format("pdf"), &rep, noColor())
	require.ErrorIs(t, err, renderer.ErrUnknownFormat)
}
