package chart

import (
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/matzehuels/flightsizer/pkg/stats"
)

var (
	histFill  = color.NRGBA{G: 128, A: 204}
	curveLine = color.Black
)

func renderPlot(w io.Writer, totals []float64, fit stats.Normal, opts Options, format string) error {
	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "Total moves"
	p.Y.Label.Text = "Density"

	h, err := plotter.NewHist(plotter.Values(totals), opts.Bins)
	if err != nil {
		return err
	}
	h.Normalize(1)
	h.FillColor = histFill
	p.Add(h)

	if fit.Sigma > 0 {
		curve := plotter.NewFunction(fit.PDF)
		curve.Color = curveLine
		curve.Width = vg.Points(2)
		curve.Samples = 200
		curve.XMin = p.X.Min
		curve.XMax = p.X.Max
		p.Add(curve)
	}

	wt, err := p.WriterTo(vg.Length(opts.Width), vg.Length(opts.Height), format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
