package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/velocity.plan/internal/stspeed"
	"github.com/banshee-data/velocity.plan/internal/units"
)

// RenderHTML writes a page with the ST and speed charts of data to w.
// Distances and speeds are converted to unit for display.
func RenderHTML(w io.Writer, title string, data *stspeed.SpeedData, unit string) error {
	if err := units.Validate(unit); err != nil {
		return err
	}
	if data.Len() == 0 {
		return fmt.Errorf("no speed points to render")
	}

	points := data.Points()
	st := make([]opts.LineData, 0, len(points))
	vt := make([]opts.LineData, 0, len(points))
	at := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		st = append(st, opts.LineData{Value: []interface{}{p.T, units.ConvertDistance(p.S, unit)}})
		vt = append(vt, opts.LineData{Value: []interface{}{p.T, units.ConvertSpeed(p.V, unit)}})
		at = append(at, opts.LineData{Value: []interface{}{p.T, p.A}})
	}

	subtitle := fmt.Sprintf("points=%d distance=%.1f%s max=%.1f%s",
		len(points),
		units.ConvertDistance(data.TotalDistance(), unit), units.DistanceLabel(unit),
		units.ConvertSpeed(data.MaxSpeed(), unit), units.SpeedLabel(unit))

	stChart := newLineChart(title, subtitle, "s ("+units.DistanceLabel(unit)+")")
	stChart.AddSeries("s(t)", st, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))

	vChart := newLineChart("Speed", "", "v ("+units.SpeedLabel(unit)+")")
	vChart.AddSeries("v(t)", vt, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))

	aChart := newLineChart("Acceleration", "", "a (m/s^2)")
	aChart.AddSeries("a(t)", at, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(stChart, vChart, aChart)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func newLineChart(title, subtitle, yName string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "t (s)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: yName, NameLocation: "middle", NameGap: 40}),
	)
	return line
}
