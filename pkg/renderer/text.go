package renderer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/codeme/pkg/renderer/terminal"
	"github.com/Sumatoshi-tech/codeme/pkg/report"
)

// Text layout constants.
const (
	sectionIndent  = "  "
	labelWidth     = 14
	radarBarWidth  = 20
	dayBarWidth    = 24
	messageWidth   = 60
	dateLayout     = "2006-01-02"
	momentLayout   = "2006-01-02 15:04"
	percentDigits  = 1
	checkMark      = "yes"
	noMark         = "-"
	emptyPlacehold = "(none)"
)

var weekdayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// TextRenderer renders reports for a terminal.
type TextRenderer struct {
	config terminal.Config
}

// NewTextRenderer creates a renderer with the given terminal configuration.
func NewTextRenderer(cfg terminal.Config) *TextRenderer {
	if cfg.Width <= 0 {
		cfg.Width = terminal.DefaultWidth
	}

	return &TextRenderer{config: cfg}
}

// Render writes the single-repository report.
func (r *TextRenderer) Render(w io.Writer, rep *report.Report) error {
	var sb strings.Builder

	r.writeReport(&sb, rep)

	_, err := io.WriteString(w, sb.String())

	return err
}

// RenderMulti writes the aggregated report followed by the project table.
func (r *TextRenderer) RenderMulti(w io.Writer, rep *report.MultiReport) error {
	var sb strings.Builder

	r.writeReport(&sb, &rep.Report)
	r.writeProjects(&sb, rep.Projects, rep.Failed)

	_, err := io.WriteString(w, sb.String())

	return err
}

func (r *TextRenderer) writeReport(sb *strings.Builder, rep *report.Report) {
	sb.WriteString(terminal.DrawHeader("CODEME  "+rep.User, rep.Period.Label, r.config.Width))
	sb.WriteString("\n")

	r.writeOverview(sb, rep)
	r.writeEvaluation(sb, rep)
	r.writeRadar(sb, rep)
	r.writeStyle(sb, rep)
	r.writeTimeCapsule(sb, rep)
	r.writeFingerprint(sb, rep)
	r.writeMilestones(sb, rep)
	r.writeKeywords(sb, rep)
}

func (r *TextRenderer) section(sb *strings.Builder, title string) {
	sb.WriteString("\n")
	sb.WriteString(r.config.Bold(title))
	sb.WriteString("\n")
	sb.WriteString(terminal.DrawSeparator(r.config.Width))
	sb.WriteString("\n")
}

func (r *TextRenderer) writeOverview(sb *strings.Builder, rep *report.Report) {
	r.section(sb, "Overview")

	ov := rep.Overview

	tbl := newTable()
	tbl.AppendRows([]table.Row{
		{"Project", rep.ProjectName},
		{"Commits", humanize.Comma(int64(ov.Commits))},
		{"Days worked", humanize.Comma(int64(ov.DaysWorked))},
		{"Longest streak", pluralDays(ov.MaxStreak)},
		{"Lines", fmt.Sprintf("+%s / -%s", humanize.Comma(int64(ov.LinesAdded)), humanize.Comma(int64(ov.LinesRemoved)))},
		{"Code health", r.config.Colorize(formatPercent(ov.Health), terminal.ColorForScore(ov.Health))},
		{"Share", fmt.Sprintf("%s of %s commits by %d authors",
			formatPercent(rep.Contrast.ContributionRatio),
			humanize.Comma(int64(rep.Contrast.ProjectTotalCommits)),
			rep.Contrast.ProjectAuthors)},
		{"Beats", fmt.Sprintf("%d%% of contributors", rep.Contrast.BeatPercent)},
	})

	writeTable(sb, tbl)
}

func (r *TextRenderer) writeEvaluation(sb *strings.Builder, rep *report.Report) {
	r.section(sb, "Role")

	ev := rep.Evaluation

	sb.WriteString(sectionIndent + r.config.Colorize(r.config.Bold(ev.Title), terminal.ColorCyan) + "\n")

	if ev.Narrative != "" {
		sb.WriteString(sectionIndent + ev.Narrative + "\n")
	}

	for _, line := range ev.Evidence {
		sb.WriteString(sectionIndent + "- " + line + "\n")
	}

	if len(rep.Labels) > 0 {
		titles := make([]string, 0, len(rep.Labels))
		for _, b := range rep.Labels {
			titles = append(titles, r.config.Colorize(b.Title, terminal.ColorMagenta))
		}

		sb.WriteString(sectionIndent + "Badges: " + strings.Join(titles, ", ") + "\n")
	}
}

func (r *TextRenderer) writeRadar(sb *strings.Builder, rep *report.Report) {
	r.section(sb, "Radar")

	for _, axis := range rep.Radar.Axes() {
		score := float64(axis.Value)
		bar := r.config.Colorize(terminal.FormatScoreBar(score, radarBarWidth), terminal.ColorForScore(score))
		sb.WriteString(sectionIndent + terminal.PadRight(axis.Name, labelWidth) + " " + bar + "\n")
	}

	adv := rep.Advanced

	tbl := newTable()
	tbl.AppendHeader(table.Row{"Metric", "Value"})
	tbl.AppendRows([]table.Row{
		{"Innovation ratio", formatPercent(adv.InnovationRatio)},
		{"Refinement impact", formatPercent(adv.RefinementImpact)},
		{"Tech breadth", formatPercent(adv.TechBreadth)},
		{"Stability", formatPercent(adv.StabilityScore)},
		{"Interweaving", formatPercent(adv.InterweavingScore)},
		{"Sole maintenance", formatPercent(adv.SoleMaintenanceIndex)},
		{"Sampled files", adv.SampledFiles},
	})

	sb.WriteString("\n")
	writeTable(sb, tbl)
}

func (r *TextRenderer) writeStyle(sb *strings.Builder, rep *report.Report) {
	r.section(sb, "Style & Mood")

	st := rep.Style

	tbl := newTable()
	tbl.AppendHeader(table.Row{"feat", "fix", "refactor", "docs", "chore"})
	tbl.AppendRow(table.Row{st.Feat, st.Fix, st.Refactor, st.Docs, st.Chore})
	writeTable(sb, tbl)

	s := rep.Sentiment
	sb.WriteString(fmt.Sprintf("%sMood: %s (positive %d, negative %d, stressful %d)\n",
		sectionIndent, r.config.Bold(string(s.Mood)), s.Positive, s.Negative, s.Stressful))
}

func (r *TextRenderer) writeTimeCapsule(sb *strings.Builder, rep *report.Report) {
	r.section(sb, "Time Capsule")

	tc := rep.TimeCapsule

	tbl := newTable()

	if tc.LatestCommit != nil {
		tbl.AppendRow(table.Row{"Latest commit", fmt.Sprintf("%s  %s",
			tc.LatestCommit.When.Format(momentLayout),
			terminal.TruncateWithEllipsis(tc.LatestCommit.Message, messageWidth))})
	}

	tbl.AppendRows([]table.Row{
		{"Marathon day", daySpan(tc.MarathonDay)},
		{"Busiest day", dayCount(tc.BusiestDay)},
		{"After midnight", humanize.Comma(int64(tc.MidnightCommits))},
		{"Peak hour", fmt.Sprintf("%02d:00", rep.Habits.PeakHour)},
		{"Weekend warrior", yesNo(rep.Habits.WeekendWarrior)},
	})

	writeTable(sb, tbl)

	peak := 0
	for _, n := range tc.WeekdayDistribution {
		peak = max(peak, n)
	}

	for i, n := range tc.WeekdayDistribution {
		if i >= len(weekdayNames) {
			break
		}

		sb.WriteString(sectionIndent + terminal.DrawLabeledBar(weekdayNames[i], float64(n), float64(peak), 4, dayBarWidth) + "\n")
	}
}

func (r *TextRenderer) writeFingerprint(sb *strings.Builder, rep *report.Report) {
	r.section(sb, "Tech Fingerprint")

	fp := rep.TechFingerprint

	tbl := newTable()
	tbl.AppendHeader(table.Row{"Extension", "Touches", "Language", "Touches"})

	rows := max(len(fp.TopExtensions), len(fp.Languages))
	for i := range rows {
		row := table.Row{"", "", "", ""}

		if i < len(fp.TopExtensions) {
			row[0], row[1] = fp.TopExtensions[i].Name, humanize.Comma(int64(fp.TopExtensions[i].Count))
		}

		if i < len(fp.Languages) {
			row[2], row[3] = fp.Languages[i].Name, humanize.Comma(int64(fp.Languages[i].Count))
		}

		tbl.AppendRow(row)
	}

	if rows == 0 {
		sb.WriteString(sectionIndent + emptyPlacehold + "\n")

		return
	}

	writeTable(sb, tbl)
}

func (r *TextRenderer) writeMilestones(sb *strings.Builder, rep *report.Report) {
	if len(rep.Milestones) == 0 {
		return
	}

	r.section(sb, "Milestones")

	tbl := newTable()
	for _, m := range rep.Milestones {
		tbl.AppendRow(table.Row{m.Kind, m.Date, terminal.TruncateWithEllipsis(m.Detail, messageWidth)})
	}

	writeTable(sb, tbl)
}

func (r *TextRenderer) writeKeywords(sb *strings.Builder, rep *report.Report) {
	r.section(sb, "Keywords")

	kw := rep.Keywords

	sb.WriteString(sectionIndent + r.config.Colorize(r.config.Bold(kw.Main), terminal.ColorYellow))

	if len(kw.Secondary) > 0 {
		sb.WriteString("  " + strings.Join(kw.Secondary, " · "))
	}

	sb.WriteString("\n")
}

func (r *TextRenderer) writeProjects(sb *strings.Builder, rows []report.ProjectRow, failed []string) {
	r.section(sb, "Projects")

	tbl := newTable()
	tbl.AppendHeader(table.Row{"Project", "Commits", "Share", "Contribution", "Authors", "Core"})

	for _, p := range rows {
		core := noMark
		if p.Core {
			core = r.config.Colorize(checkMark, terminal.ColorGreen)
		}

		tbl.AppendRow(table.Row{
			p.Name,
			humanize.Comma(int64(p.Commits)),
			formatPercent(p.Share),
			formatPercent(p.ContributionRatio),
			p.Authors,
			core,
		})
	}

	writeTable(sb, tbl)

	if len(failed) > 0 {
		sb.WriteString(sectionIndent + r.config.Colorize("Skipped: "+strings.Join(failed, ", "), terminal.ColorGray) + "\n")
	}
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateHeader = false

	return tbl
}

func writeTable(sb *strings.Builder, tbl table.Writer) {
	for line := range strings.SplitSeq(tbl.Render(), "\n") {
		sb.WriteString(sectionIndent + line + "\n")
	}
}

func formatPercent(v float64) string {
	return humanize.CommafWithDigits(v, percentDigits) + "%"
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}

	return humanize.Comma(int64(n)) + " days"
}

func daySpan(d report.DaySpan) string {
	if d.Date == "" {
		return emptyPlacehold
	}

	return fmt.Sprintf("%s (%gh)", weekdayDate(d.Date), d.Hours)
}

func dayCount(d report.DayCount) string {
	if d.Date == "" {
		return emptyPlacehold
	}

	return fmt.Sprintf("%s (%d commits)", weekdayDate(d.Date), d.Commits)
}

func weekdayDate(date string) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}

	return t.Format("Mon ") + date
}

func yesNo(b bool) string {
	if b {
		return checkMark
	}

	return "no"
}
