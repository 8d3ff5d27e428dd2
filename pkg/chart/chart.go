// Package chart draws the distribution of total moves across a simulation.
//
// Static formats (PNG, SVG, PDF) are produced with gonum/plot: a density
// histogram with the fitted normal curve on top, titled with the fit's mean
// and standard deviation. HTML output is an interactive go-echarts page
// showing the same histogram and curve.
package chart

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/flightsizer/pkg/errors"
	"github.com/matzehuels/flightsizer/pkg/stats"
)

// Supported output formats.
const (
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatHTML = "html"
)

// Formats lists every supported format.
var Formats = []string{FormatPNG, FormatSVG, FormatPDF, FormatHTML}

const (
	// DefaultBins is the number of histogram bins.
	DefaultBins = 25

	// MaxBins bounds the number of histogram bins.
	MaxBins = 1000

	// DefaultWidth and DefaultHeight are the chart size in points (1/72 in).
	DefaultWidth  = 576.0
	DefaultHeight = 432.0
)

// Options controls chart appearance. Zero values select defaults.
type Options struct {
	Bins   int     `json:"bins,omitempty" toml:"bins"`
	Title  string  `json:"title,omitempty" toml:"title"`
	Width  float64 `json:"width,omitempty" toml:"width"`
	Height float64 `json:"height,omitempty" toml:"height"`
}

// Validate rejects options no chart can be drawn with. Zero values are
// valid and select defaults.
func (o Options) Validate() error {
	if o.Bins < 0 || o.Bins > MaxBins {
		return errors.New(errors.ErrCodeInvalidInput, "bins must be between 1 and %d, got %d", MaxBins, o.Bins)
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "chart size must not be negative")
	}
	return nil
}

func (o *Options) setDefaults() {
	if o.Bins <= 0 {
		o.Bins = DefaultBins
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
}

// Title returns the default chart title for a fit.
func Title(fit stats.Normal) string {
	return fmt.Sprintf("Fit values: %.2f and %.2f", fit.Mu, fit.Sigma)
}

// Render draws the distribution of totals in the given format.
func Render(totals []float64, opts Options, format string) ([]byte, error) {
	if err := errors.ValidateFormat(format, Formats...); err != nil {
		return nil, err
	}
	if len(totals) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no values to plot")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts.setDefaults()

	fit := stats.FitNormal(totals)
	if opts.Title == "" {
		opts.Title = Title(fit)
	}

	var buf bytes.Buffer
	var err error
	if format == FormatHTML {
		err = renderHTML(&buf, totals, fit, opts)
	} else {
		err = renderPlot(&buf, totals, fit, opts, format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s chart", format)
	}
	return buf.Bytes(), nil
}

// ContentType returns the MIME type for a chart format.
func ContentType(format string) string {
	switch format {
	case FormatPNG:
		return "image/png"
	case FormatSVG:
		return "image/svg+xml"
	case FormatPDF:
		return "application/pdf"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
