package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/matzehuels/flightsizer/pkg/stats"
)

// pixelsPerPoint converts chart points to CSS pixels.
const pixelsPerPoint = 96.0 / 72.0

func renderHTML(w io.Writer, totals []float64, fit stats.Normal, o Options) error {
	bins := stats.Histogram(totals, o.Bins)

	x := make([]string, len(bins))
	density := make([]opts.BarData, len(bins))
	curve := make([]opts.LineData, len(bins))
	for i, b := range bins {
		mid := (b.Lo + b.Hi) / 2
		x[i] = fmt.Sprintf("%.1f", mid)
		density[i] = opts.BarData{Value: b.Density}
		curve[i] = opts.LineData{Value: fit.PDF(mid)}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Flight sizing moves",
			Width:     fmt.Sprintf("%.0fpx", o.Width*pixelsPerPoint),
			Height:    fmt.Sprintf("%.0fpx", o.Height*pixelsPerPoint),
		}),
		charts.WithTitleOpts(opts.Title{Title: o.Title, Subtitle: fmt.Sprintf("trials=%d", len(totals))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Total moves", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Density"}),
	)
	bar.SetXAxis(x).
		AddSeries("density", density, charts.WithItemStyleOpts(opts.ItemStyle{Color: "rgba(0,128,0,0.8)"}))

	line := charts.NewLine()
	line.SetXAxis(x).
		AddSeries("normal fit", curve, charts.WithItemStyleOpts(opts.ItemStyle{Color: "black"}))
	bar.Overlap(line)

	return bar.Render(w)
}
