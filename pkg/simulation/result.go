package simulation

import (
	"time"

	"github.com/matzehuels/flightsizer/pkg/stats"
)

// Trial holds the move counts of one simulated flight.
type Trial struct {
	Index     int `json:"trial"`
	Primary   int `json:"primary"`
	Secondary int `json:"secondary"`
	Total     int `json:"total"`
}

// Result contains the outputs of a simulation run.
type Result struct {
	// ID identifies the run that produced the trials. A cached result keeps
	// the ID of the run that computed it.
	ID string `json:"id"`

	// Options is the validated configuration of the run.
	Options Options `json:"options"`

	// Trials is ordered by trial index.
	Trials []Trial `json:"trials"`

	// Summary describes the move count distributions.
	Summary stats.Report `json:"summary"`

	// Duration is the wall time spent running trials.
	Duration time.Duration `json:"duration"`

	// CacheHit reports whether the result was served from cache.
	CacheHit bool `json:"-"`
}

// Totals returns the total move count of every trial.
func (r *Result) Totals() []float64 {
	return r.column(func(t Trial) int { return t.Total })
}

// Primaries returns the primary move count of every trial.
func (r *Result) Primaries() []float64 {
	return r.column(func(t Trial) int { return t.Primary })
}

// Secondaries returns the secondary move count of every trial.
func (r *Result) Secondaries() []float64 {
	return r.column(func(t Trial) int { return t.Secondary })
}

func (r *Result) column(f func(Trial) int) []float64 {
	out := make([]float64, len(r.Trials))
	for i, t := range r.Trials {
		out[i] = float64(f(t))
	}
	return out
}

// summarize fills in Summary from Trials.
func (r *Result) summarize() {
	r.Summary = stats.NewReport(r.Primaries(), r.Secondaries(), r.Totals())
}
