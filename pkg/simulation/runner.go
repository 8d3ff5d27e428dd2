package simulation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/flightsizer/pkg/cache"
	"github.com/matzehuels/flightsizer/pkg/flight"
	"github.com/matzehuels/flightsizer/pkg/observability"
	"github.com/matzehuels/flightsizer/pkg/sample"
)

// cacheKeyType labels simulation entries in cache hooks.
const cacheKeyType = "simulation"

// Runner executes simulations with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is how long results stay cached. Zero means cache.TTLSimulation.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs a simulation, serving it from cache when an identical run
// has been stored before.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	key := r.Keyer.SimulationKey(opts.KeyOpts())

	if !opts.Refresh {
		if res, ok := r.lookup(ctx, key); ok {
			res.Options.Logger = logger
			logger.Debug("simulation served from cache", "id", res.ID, "trials", len(res.Trials))
			return res, nil
		}
	}

	res, err := r.run(ctx, opts)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(res); err == nil {
		ttl := r.TTL
		if ttl <= 0 {
			ttl = cache.TTLSimulation
		}
		if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
			logger.Warn("failed to cache simulation", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
		}
	}
	return res, nil
}

// lookup returns a cached result. Unreadable entries count as misses.
func (r *Runner) lookup(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err == nil && hit {
		var res Result
		if err := json.Unmarshal(data, &res); err == nil {
			res.CacheHit = true
			observability.Cache().OnCacheHit(ctx, cacheKeyType)
			return &res, true
		}
	}
	observability.Cache().OnCacheMiss(ctx, cacheKeyType)
	return nil, false
}

// run executes every trial. Trials are split round-robin across workers and
// each worker checks for cancellation before every trial.
func (r *Runner) run(ctx context.Context, opts Options) (res *Result, err error) {
	id := uuid.NewString()
	start := time.Now()
	completed := 0

	hooks := observability.Simulation()
	hooks.OnSimulationStart(ctx, id, opts.Trials)
	defer func() {
		hooks.OnSimulationComplete(ctx, id, completed, time.Since(start), err)
	}()

	opts.Logger.Info("running simulation",
		"id", id,
		"trials", opts.Trials,
		"ranks", opts.Ranks,
		"elements", opts.Elements,
		"seed", opts.Seed,
		"workers", opts.Workers)

	workers := min(opts.Workers, opts.Trials)
	trials := make([]Trial, opts.Trials)
	done := make([]int, workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := range workers {
		g.Go(func() error {
			for i := w; i < opts.Trials; i += workers {
				if err := gctx.Err(); err != nil {
					return err
				}
				t, err := RunTrial(opts.Population, opts.Ranks, opts.Elements, opts.Seed, i)
				if err != nil {
					return fmt.Errorf("trial %d: %w", i, err)
				}
				trials[i] = t
				done[w]++
			}
			return nil
		})
	}
	err = g.Wait()
	for _, n := range done {
		completed += n
	}
	if err != nil {
		return nil, err
	}

	res = &Result{
		ID:       id,
		Options:  opts,
		Trials:   trials,
		Duration: time.Since(start),
	}
	res.summarize()

	opts.Logger.Info("simulation complete",
		"id", id,
		"mean_total", fmt.Sprintf("%.2f", res.Summary.Total.Mean),
		"duration", res.Duration)
	return res, nil
}

// RunTrial simulates trial index of a run: it fills a flight from the
// population using the trial's own random stream and sizes it.
func RunTrial(pop sample.Population, ranks, elements int, seed uint64, index int) (Trial, error) {
	s := sample.NewSampler(pop, seed, uint64(index))
	g, err := flight.New(ranks, elements, s.Height)
	if err != nil {
		return Trial{}, err
	}
	res := flight.Size(g)
	return Trial{
		Index:     index,
		Primary:   res.PrimaryMoves,
		Secondary: res.SecondaryMoves,
		Total:     res.TotalMoves,
	}, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
