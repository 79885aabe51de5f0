package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ChartID is fixed so equal reports render to equal pages.
const ChartID = "releasereport_churn"

const (
	chartWidth  = "100%"
	chartHeight = "500px"
	chartStack  = "lines"

	dataZoomEndPercent = 100
)

type churnSeries struct {
	name  string
	color string
	value func(r *Row) int
}

var churn = []churnSeries{
	{name: "Adds", color: "#22c55e", value: func(r *Row) int { return r.Totals.Added }},
	{name: "Updates", color: "#3b82f6", value: func(r *Row) int { return r.Totals.Replaced }},
	{name: "Deletes", color: "#ef4444", value: func(r *Row) int { return r.Totals.Deleted }},
}

// BuildChart returns a stacked bar chart of per-commit line totals, one bar
// per row in walk order.
func BuildChart(rep *Report) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Release churn",
			Width:     chartWidth,
			Height:    chartHeight,
			ChartID:   ChartID,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Release churn",
			Subtitle: rep.FromExpr + ".." + rep.ToExpr,
			Left:     "center",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "10%", Left: "center"}),
		charts.WithGridOpts(opts.Grid{Top: "20%", Bottom: "15%", Left: "5%", Right: "5%", ContainLabel: opts.Bool(true)}),
		charts.WithDataZoomOpts(
			opts.DataZoom{Type: "slider", Start: 0, End: dataZoomEndPercent},
			opts.DataZoom{Type: "inside"},
		),
		charts.WithYAxisOpts(opts.YAxis{Name: "Lines"}),
	)

	labels := make([]string, len(rep.Rows))
	for i := range rep.Rows {
		labels[i] = rep.Rows[i].Commit.Short()
	}

	bar.SetXAxis(labels)

	for _, s := range churn {
		data := make([]opts.BarData, len(rep.Rows))
		for i := range rep.Rows {
			data[i] = opts.BarData{Value: s.value(&rep.Rows[i])}
		}

		bar.AddSeries(s.name, data,
			charts.WithBarChartOpts(opts.BarChart{Stack: chartStack}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.color}),
		)
	}

	return bar
}

// RenderChart writes the churn chart as a standalone HTML page.
func RenderChart(w io.Writer, rep *Report) error {
	if err := BuildChart(rep).Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	return nil
}
