package simulation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/flightsizer/pkg/cache"
	"github.com/matzehuels/flightsizer/pkg/errors"
	"github.com/matzehuels/flightsizer/pkg/observability"
	"github.com/matzehuels/flightsizer/pkg/sample"
)

func TestValidateAndSetDefaults(t *testing.T) {
	var opts Options
	require.NoError(t, opts.ValidateAndSetDefaults())

	assert.Equal(t, DefaultTrials, opts.Trials)
	assert.Equal(t, 12, opts.Ranks)
	assert.Equal(t, 4, opts.Elements)
	assert.Equal(t, DefaultSeed, opts.Seed)
	assert.Equal(t, DefaultWorkers, opts.Workers)
	assert.Equal(t, sample.DefaultPopulation(), opts.Population)
	assert.NotNil(t, opts.Logger)

	// Idempotent
	require.NoError(t, opts.ValidateAndSetDefaults())
}

func TestValidateAndSetDefaults_Invalid(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"negative trials", Options{Trials: -1}, errors.ErrCodeInvalidInput},
		{"over ceiling", Options{Trials: 11, MaxTrials: 10}, errors.ErrCodeInvalidInput},
		{"negative ranks", Options{Ranks: -2}, errors.ErrCodeInvalidDimensions},
		{"huge elements", Options{Elements: errors.MaxDimension + 1}, errors.ErrCodeInvalidDimensions},
		{"negative workers", Options{Workers: -1}, errors.ErrCodeInvalidInput},
		{"too many workers", Options{Workers: MaxWorkers + 1}, errors.ErrCodeInvalidInput},
		{"absurd workers", Options{Workers: 100_000_000_000}, errors.ErrCodeInvalidInput},
		{"bad population", Options{Population: sample.Population{Groups: []sample.Group{{Weight: 0, Mean: 60, StdDev: 1}}}}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestKeyOpts_IgnoresWorkers(t *testing.T) {
	a := Options{Trials: 100, Workers: 1}
	b := Options{Trials: 100, Workers: 8, Refresh: true}
	require.NoError(t, a.ValidateAndSetDefaults())
	require.NoError(t, b.ValidateAndSetDefaults())

	k := cache.NewDefaultKeyer()
	assert.Equal(t, k.SimulationKey(a.KeyOpts()), k.SimulationKey(b.KeyOpts()))

	c := Options{Trials: 100, Seed: 7}
	require.NoError(t, c.ValidateAndSetDefaults())
	assert.NotEqual(t, k.SimulationKey(a.KeyOpts()), k.SimulationKey(c.KeyOpts()))
}

func TestRunTrial(t *testing.T) {
	pop := sample.DefaultPopulation()

	a, err := RunTrial(pop, 12, 4, 42, 3)
	require.NoError(t, err)
	b, err := RunTrial(pop, 12, 4, 42, 3)
	require.NoError(t, err)

	assert.Equal(t, a, b, "same seed and index must reproduce the trial")
	assert.Equal(t, 3, a.Index)
	assert.Equal(t, a.Primary+a.Secondary, a.Total)
	assert.LessOrEqual(t, a.Primary, 4*12*11/2)
	assert.LessOrEqual(t, a.Secondary, 12*4*3/2)

	_, err = RunTrial(pop, 0, 4, 42, 0)
	assert.Error(t, err)
}

func TestExecute_DeterministicAcrossWorkers(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)

	one, err := r.Execute(ctx, Options{Trials: 200, Workers: 1})
	require.NoError(t, err)
	four, err := r.Execute(ctx, Options{Trials: 200, Workers: 4})
	require.NoError(t, err)

	if diff := cmp.Diff(one.Trials, four.Trials); diff != "" {
		t.Errorf("trials differ between worker counts (-1 +4):\n%s", diff)
	}
	assert.NotEqual(t, one.ID, four.ID)
	assert.False(t, one.CacheHit)

	for i, tr := range one.Trials {
		assert.Equal(t, i, tr.Index)
	}
	assert.Equal(t, 200, one.Summary.Total.Count)
}

func TestExecute_MoreWorkersThanTrials(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)

	res, err := r.Execute(ctx, Options{Trials: 3, Workers: MaxWorkers})
	require.NoError(t, err)
	require.Len(t, res.Trials, 3)

	serial, err := r.Execute(ctx, Options{Trials: 3, Workers: 1})
	require.NoError(t, err)
	if diff := cmp.Diff(serial.Trials, res.Trials); diff != "" {
		t.Errorf("trials differ (-serial +parallel):\n%s", diff)
	}
}

func TestExecute_Cache(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	r := NewRunner(c, nil, nil)

	first, err := r.Execute(ctx, Options{Trials: 50})
	require.NoError(t, err)
	require.False(t, first.CacheHit)

	second, err := r.Execute(ctx, Options{Trials: 50, Workers: 2})
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.ID, second.ID)
	if diff := cmp.Diff(first.Trials, second.Trials); diff != "" {
		t.Errorf("cached trials differ:\n%s", diff)
	}
	if diff := cmp.Diff(first.Summary, second.Summary, cmpopts.EquateApprox(0, 1e-9), cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("cached summary differs:\n%s", diff)
	}

	fresh, err := r.Execute(ctx, Options{Trials: 50, Refresh: true})
	require.NoError(t, err)
	assert.False(t, fresh.CacheHit)
	assert.NotEqual(t, first.ID, fresh.ID)
}

func TestExecute_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(nil, nil, nil).Execute(ctx, Options{Trials: 1000, Workers: 2})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecute_InvalidOptions(t *testing.T) {
	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{Trials: -5})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestExecute_Hooks(t *testing.T) {
	observability.Reset()
	t.Cleanup(observability.Reset)

	sim := &recordingSimHooks{}
	ch := &recordingCacheHooks{}
	observability.SetSimulationHooks(sim)
	observability.SetCacheHooks(ch)

	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	r := NewRunner(c, nil, nil)

	_, err = r.Execute(context.Background(), Options{Trials: 20})
	require.NoError(t, err)
	_, err = r.Execute(context.Background(), Options{Trials: 20})
	require.NoError(t, err)

	assert.Equal(t, 1, sim.started)
	assert.Equal(t, 1, sim.completed)
	assert.Equal(t, 20, sim.lastCompleted)
	assert.Equal(t, 1, ch.misses)
	assert.Equal(t, 1, ch.sets)
	assert.Equal(t, 1, ch.hits)
}

// TestExecute_DrillStatistics checks the run against known properties of
// random flights: primary moves count inversions within each element, so
// their mean is elements * ranks * (ranks-1) / 4.
func TestExecute_DrillStatistics(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping full simulation in short mode")
	}
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{Trials: 10000, Workers: 4})
	require.NoError(t, err)

	s := res.Summary
	assert.Equal(t, 10000, s.Total.Count)
	assert.InDelta(t, 132, s.Primary.Mean, 2)
	assert.InDelta(t, s.Primary.Mean+s.Secondary.Mean, s.Total.Mean, 1e-9)
	assert.Greater(t, s.Secondary.Mean, 0.0)
	assert.Less(t, s.Secondary.Mean, 72.0)
	assert.InDelta(t, s.Total.Mean, s.Fit.Mu, 1e-9)
	assert.Greater(t, s.Fit.Sigma, 0.0)
	assert.Less(t, res.Duration, time.Minute)
}

type recordingSimHooks struct {
	observability.NoopSimulationHooks
	mu            sync.Mutex
	started       int
	completed     int
	lastCompleted int
}

func (h *recordingSimHooks) OnSimulationStart(context.Context, string, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started++
}

func (h *recordingSimHooks) OnSimulationComplete(_ context.Context, _ string, n int, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.completed++
	h.lastCompleted = n
}

type recordingCacheHooks struct {
	mu                 sync.Mutex
	hits, misses, sets int
}

func (h *recordingCacheHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits++
}

func (h *recordingCacheHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.misses++
}

func (h *recordingCacheHooks) OnCacheSet(context.Context, string, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sets++
}
