// Package sample draws random airman heights for simulated flights.
//
// A [Population] is a weighted mixture of normal distributions. The default
// mirrors a mixed-gender basic training flight: half the airmen drawn from
// N(62.8, 2.8) inches and half from N(70, 3) inches, each rounded to a tenth
// of an inch.
//
// Randomness is never global. Every [Sampler] owns a seeded PCG stream, so a
// (seed, stream) pair always produces the same heights. The simulation driver
// uses the trial index as the stream so results do not depend on how trials
// are scheduled.
package sample

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/flightsizer/pkg/errors"
)

// DefaultPrecision is the number of decimal places heights are rounded to.
const DefaultPrecision = 1

// Group is one component of a height mixture.
type Group struct {
	Name   string  `json:"name,omitempty" toml:"name"`
	Weight float64 `json:"weight" toml:"weight"`
	Mean   float64 `json:"mean" toml:"mean"`
	StdDev float64 `json:"stddev" toml:"stddev"`
}

// Population is a weighted mixture of normally distributed groups.
type Population struct {
	Groups []Group `json:"groups" toml:"group"`

	// Precision is the number of decimal places heights are rounded to.
	// Negative values disable rounding.
	Precision int `json:"precision" toml:"precision"`
}

// DefaultPopulation returns the 50/50 mixture used by the drill simulations.
func DefaultPopulation() Population {
	return Population{
		Groups: []Group{
			{Name: "female", Weight: 0.5, Mean: 62.8, StdDev: 2.8},
			{Name: "male", Weight: 0.5, Mean: 70, StdDev: 3},
		},
		Precision: DefaultPrecision,
	}
}

// Validate checks that the population can be sampled.
func (p Population) Validate() error {
	if len(p.Groups) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "population must have at least one group")
	}
	for i, g := range p.Groups {
		if !(g.Weight > 0) || math.IsInf(g.Weight, 0) {
			return errors.New(errors.ErrCodeInvalidInput, "group %d (%s): weight must be positive and finite, got %v", i, g.Name, g.Weight)
		}
		if g.StdDev < 0 || math.IsNaN(g.StdDev) || math.IsInf(g.StdDev, 0) {
			return errors.New(errors.ErrCodeInvalidInput, "group %d (%s): stddev must be non-negative and finite, got %v", i, g.Name, g.StdDev)
		}
		if math.IsNaN(g.Mean) || math.IsInf(g.Mean, 0) {
			return errors.New(errors.ErrCodeInvalidInput, "group %d (%s): mean must be finite, got %v", i, g.Name, g.Mean)
		}
	}
	return nil
}

// totalWeight sums the group weights.
func (p Population) totalWeight() float64 {
	var w float64
	for _, g := range p.Groups {
		w += g.Weight
	}
	return w
}

// Sampler draws heights from a population using its own random stream.
// A Sampler is not safe for concurrent use; give each goroutine its own.
type Sampler struct {
	pop   Population
	total float64
	rng   *rand.Rand
}

// NewSampler creates a sampler for pop seeded by (seed, stream).
// The population must already be valid; see [Population.Validate].
func NewSampler(pop Population, seed, stream uint64) *Sampler {
	return &Sampler{
		pop:   pop,
		total: pop.totalWeight(),
		rng:   rand.New(rand.NewPCG(seed, stream^0xdeadbeef)),
	}
}

// Height draws one height. Its signature matches flight.FillFunc.
func (s *Sampler) Height() float64 {
	g := s.pick()
	return s.round(s.rng.NormFloat64()*g.StdDev + g.Mean)
}

// Heights draws n heights.
func (s *Sampler) Heights(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = s.Height()
	}
	return out
}

// pick selects a group in proportion to its weight.
func (s *Sampler) pick() Group {
	groups := s.pop.Groups
	u := s.rng.Float64() * s.total
	for _, g := range groups {
		if u < g.Weight {
			return g
		}
		u -= g.Weight
	}
	return groups[len(groups)-1]
}

func (s *Sampler) round(v float64) float64 {
	if s.pop.Precision < 0 {
		return v
	}
	scale := math.Pow(10, float64(s.pop.Precision))
	return math.Round(v*scale) / scale
}
