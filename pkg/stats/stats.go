// Package stats summarizes move counts collected across many sizing trials.
//
// It covers what the drill study needs and nothing more: descriptive
// summaries, a maximum-likelihood normal fit of the total moves, histogram
// binning for plots, and the Pearson correlation between primary and
// secondary moves. The heavy lifting is done by gonum.
package stats

import (
	"encoding/json"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Summary describes a sample of move counts.
type Summary struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"stddev"`
	Variance float64 `json:"variance"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// Summarize computes the mean, unbiased standard deviation and range of xs.
// An empty sample yields the zero Summary; a single value has zero spread.
func Summarize(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}
	s := Summary{
		Count: len(xs),
		Min:   floats.Min(xs),
		Max:   floats.Max(xs),
	}
	if len(xs) == 1 {
		s.Mean = xs[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(xs, nil)
	s.Variance = s.StdDev * s.StdDev
	return s
}

// Normal is a fitted normal distribution.
type Normal struct {
	Mu    float64 `json:"mu"`
	Sigma float64 `json:"sigma"`
}

// FitNormal returns the maximum-likelihood normal fit of xs: the sample mean
// and the population (biased) standard deviation.
func FitNormal(xs []float64) Normal {
	if len(xs) == 0 {
		return Normal{}
	}
	mu, sigma := stat.PopMeanStdDev(xs, nil)
	return Normal{Mu: mu, Sigma: sigma}
}

// PDF evaluates the fitted density at x. A degenerate fit (zero sigma) has
// no density and returns 0 everywhere.
func (n Normal) PDF(x float64) float64 {
	if !(n.Sigma > 0) {
		return 0
	}
	return distuv.Normal{Mu: n.Mu, Sigma: n.Sigma}.Prob(x)
}

// Bin is one histogram bucket covering [Lo, Hi). The last bin also includes Hi.
type Bin struct {
	Lo      float64 `json:"lo"`
	Hi      float64 `json:"hi"`
	Count   int     `json:"count"`
	Density float64 `json:"density"`
}

// Histogram splits xs into n equal-width bins spanning its range. Density is
// normalized so the bins integrate to one, like a density histogram.
// It returns nil for an empty sample or n < 1.
func Histogram(xs []float64, n int) []Bin {
	if len(xs) == 0 || n < 1 {
		return nil
	}
	sorted := slices.Clone(xs)
	slices.Sort(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		// All values equal: a single unit-width bin centered on the value.
		lo, hi = lo-0.5, hi+0.5
		n = 1
	}

	dividers := make([]float64, n+1)
	floats.Span(dividers, lo, hi)
	// stat.Histogram excludes the upper divider; nudge it so Max is counted.
	dividers[n] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)

	width := (hi - lo) / float64(n)
	total := float64(len(xs))
	bins := make([]Bin, n)
	for i := range bins {
		bins[i] = Bin{
			Lo:      dividers[i],
			Hi:      dividers[i+1],
			Count:   int(counts[i]),
			Density: counts[i] / (total * width),
		}
	}
	bins[n-1].Hi = hi
	return bins
}

// Correlation returns the Pearson correlation of a and b, or NaN when either
// sample has no spread or the lengths differ.
func Correlation(a, b []float64) float64 {
	if len(a) != len(b) || len(a) < 2 {
		return math.NaN()
	}
	if floats.Min(a) == floats.Max(a) || floats.Min(b) == floats.Max(b) {
		return math.NaN()
	}
	return stat.Correlation(a, b, nil)
}

// Report bundles everything the drill study looks at after a simulation.
type Report struct {
	Primary     Summary `json:"primary"`
	Secondary   Summary `json:"secondary"`
	Total       Summary `json:"total"`
	Fit         Normal  `json:"fit"`
	Correlation float64 `json:"correlation"`
}

// NewReport builds a Report from per-trial primary and secondary counts.
// totals must be the element-wise sum of the two.
func NewReport(primary, secondary, totals []float64) Report {
	return Report{
		Primary:     Summarize(primary),
		Secondary:   Summarize(secondary),
		Total:       Summarize(totals),
		Fit:         FitNormal(totals),
		Correlation: Correlation(primary, secondary),
	}
}

// reportJSON mirrors Report with an undefined correlation encoded as null,
// since JSON has no NaN.
type reportJSON struct {
	Primary     Summary  `json:"primary"`
	Secondary   Summary  `json:"secondary"`
	Total       Summary  `json:"total"`
	Fit         Normal   `json:"fit"`
	Correlation *float64 `json:"correlation"`
}

// MarshalJSON implements json.Marshaler.
func (r Report) MarshalJSON() ([]byte, error) {
	v := reportJSON{Primary: r.Primary, Secondary: r.Secondary, Total: r.Total, Fit: r.Fit}
	if !math.IsNaN(r.Correlation) {
		c := r.Correlation
		v.Correlation = &c
	}
	return json.Marshal(v)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Report) UnmarshalJSON(data []byte) error {
	var v reportJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Report{Primary: v.Primary, Secondary: v.Secondary, Total: v.Total, Fit: v.Fit, Correlation: math.NaN()}
	if v.Correlation != nil {
		r.Correlation = *v.Correlation
	}
	return nil
}
