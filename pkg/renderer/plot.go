package renderer

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/codeme/pkg/report"
)

// Chart layout constants.
const (
	chartWidth        = "100%"
	chartHeight       = "420px"
	radarMax          = 100
	radarSplitNumber  = 5
	radarAreaOpacity  = 0.35
	monthlyAreaOpaque = 0.2
)

// Chart palette.
const (
	colorAccent  = "#5470c6"
	colorWarm    = "#ee6666"
	colorCalm    = "#91cc75"
	colorNeutral = "#fac858"
)

var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// writePlot renders an HTML page with the radar, hourly, weekday and monthly
// charts, plus a per-project chart when projects are given.
func writePlot(w io.Writer, rep *report.Report, projects []report.ProjectRow) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("codeme: %s", rep.User)
	page.SetLayout(components.PageFlexLayout)

	page.AddCharts(
		radarChart(rep),
		hourlyChart(rep),
		weekdayChart(rep),
		monthlyChart(rep),
	)

	if len(projects) > 0 {
		page.AddCharts(projectsChart(projects))
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render plot: %w", err)
	}

	return nil
}

func initOpts() opts.Initialization {
	return opts.Initialization{Width: chartWidth, Height: chartHeight}
}

func titleOpts(title, subtitle string) opts.Title {
	return opts.Title{Title: title, Subtitle: subtitle, Left: "center"}
}

func radarChart(rep *report.Report) *charts.Radar {
	axes := rep.Radar.Axes()

	indicators := make([]*opts.Indicator, len(axes))
	values := make([]int, len(axes))

	for i, a := range axes {
		indicators[i] = &opts.Indicator{Name: a.Name, Max: radarMax}
		values[i] = a.Value
	}

	radar := charts.NewRadar()
	radar.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts()),
		charts.WithTitleOpts(titleOpts("Radar", rep.Evaluation.Title)),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithRadarComponentOpts(opts.RadarComponent{
			Indicator:   indicators,
			Shape:       "polygon",
			SplitNumber: radarSplitNumber,
			SplitArea:   &opts.SplitArea{Show: opts.Bool(true)},
		}),
	)

	radar.AddSeries(rep.User, []opts.RadarData{{Name: rep.User, Value: values}},
		charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(radarAreaOpacity)}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colorAccent}),
	)

	return radar
}

func hourlyChart(rep *report.Report) *charts.Bar {
	labels := make([]string, len(rep.TimeCapsule.HourlyDistribution))
	for i := range labels {
		labels[i] = strconv.Itoa(i)
	}

	return barChart("Commits by hour", "local time", labels, rep.TimeCapsule.HourlyDistribution, colorWarm)
}

func weekdayChart(rep *report.Report) *charts.Bar {
	n := min(len(rep.TimeCapsule.WeekdayDistribution), len(weekdayNames))

	return barChart("Commits by weekday", "", weekdayNames[:n], rep.TimeCapsule.WeekdayDistribution[:n], colorCalm)
}

func monthlyChart(rep *report.Report) *charts.Line {
	n := min(len(rep.TimeCapsule.MonthlyDistribution), len(monthNames))

	data := make([]opts.LineData, n)
	for i, v := range rep.TimeCapsule.MonthlyDistribution[:n] {
		data[i] = opts.LineData{Value: v}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts()),
		charts.WithTitleOpts(titleOpts("Commits by month", rep.Period.Label)),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	line.SetXAxis(monthNames[:n]).AddSeries("commits", data,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
		charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(monthlyAreaOpaque)}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colorAccent}),
	)

	return line
}

func projectsChart(projects []report.ProjectRow) *charts.Bar {
	labels := make([]string, len(projects))
	commits := make([]int, len(projects))

	for i, p := range projects {
		labels[i] = p.Name
		commits[i] = p.Commits
	}

	return barChart("Commits by project", "", labels, commits, colorNeutral)
}

func barChart(title, subtitle string, labels []string, values []int, color string) *charts.Bar {
	data := make([]opts.BarData, len(values))
	for i, v := range values {
		data[i] = opts.BarData{Value: v}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts()),
		charts.WithTitleOpts(titleOpts(title, subtitle)),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	bar.SetXAxis(labels).AddSeries("commits", data, charts.WithItemStyleOpts(opts.ItemStyle{Color: color}))

	return bar
}
