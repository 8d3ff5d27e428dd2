// Package simulation runs Monte Carlo studies of the flight sizing drill.
//
// Each trial fills a flight with heights drawn from a [sample.Population],
// sizes it with [flight.Size] and records the primary, secondary and total
// move counts. Trials are independent: trial i always draws from its own
// random stream derived from (Seed, i), so a run is reproducible regardless
// of how many workers execute it or in which order trials finish.
//
// # Usage
//
//	runner := simulation.NewRunner(cache, nil, logger)
//	res, err := runner.Execute(ctx, simulation.Options{Trials: 10000})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Summary.Total.Mean)
package simulation

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flightsizer/pkg/cache"
	"github.com/matzehuels/flightsizer/pkg/errors"
	"github.com/matzehuels/flightsizer/pkg/flight"
	"github.com/matzehuels/flightsizer/pkg/sample"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultTrials is the number of flights simulated per run.
	DefaultTrials = 10000

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultWorkers is the default number of goroutines running trials.
	DefaultWorkers = 1

	// MaxWorkers bounds the number of goroutines running trials.
	MaxWorkers = 1024
)

// =============================================================================
// Options - Simulation Configuration
// =============================================================================

// Options configures a simulation run. Zero values are replaced by defaults
// in ValidateAndSetDefaults. This struct supports JSON serialization for API
// requests.
type Options struct {
	Trials     int               `json:"trials,omitempty"`
	Ranks      int               `json:"ranks,omitempty"`
	Elements   int               `json:"elements,omitempty"`
	Seed       uint64            `json:"seed,omitempty"`
	Workers    int               `json:"workers,omitempty"`
	Population sample.Population `json:"population,omitzero"`

	// Refresh skips the cache lookup; the fresh result is still stored.
	Refresh bool `json:"refresh,omitempty"`

	// MaxTrials caps Trials. Zero means errors.MaxTrials.
	MaxTrials int `json:"-"`

	// Logger receives progress messages. Defaults to the runner's logger.
	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Trials == 0 {
		o.Trials = DefaultTrials
	}
	if o.Ranks == 0 {
		o.Ranks = flight.DefaultRanks
	}
	if o.Elements == 0 {
		o.Elements = flight.DefaultElements
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	if len(o.Population.Groups) == 0 {
		precision := o.Population.Precision
		o.Population = sample.DefaultPopulation()
		if precision != 0 {
			o.Population.Precision = precision
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	if err := errors.ValidateTrials(o.Trials, o.MaxTrials); err != nil {
		return err
	}
	if err := errors.ValidateDimensions(o.Ranks, o.Elements); err != nil {
		return err
	}
	if o.Workers < 0 || o.Workers > MaxWorkers {
		return errors.New(errors.ErrCodeInvalidInput, "workers must be between 1 and %d, got %d", MaxWorkers, o.Workers)
	}
	if err := o.Population.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// KeyOpts returns the cache key options for this run. Workers and Refresh do
// not affect the outcome and are left out.
func (o *Options) KeyOpts() cache.SimulationKeyOpts {
	return cache.SimulationKeyOpts{
		Trials:     o.Trials,
		Ranks:      o.Ranks,
		Elements:   o.Elements,
		Seed:       o.Seed,
		Population: o.Population,
	}
}
