package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/matzehuels/flightsizer/pkg/buildinfo"
	"github.com/matzehuels/flightsizer/pkg/cache"
	"github.com/matzehuels/flightsizer/pkg/chart"
	"github.com/matzehuels/flightsizer/pkg/errors"
	"github.com/matzehuels/flightsizer/pkg/flight"
	fsio "github.com/matzehuels/flightsizer/pkg/io"
	"github.com/matzehuels/flightsizer/pkg/simulation"
	"github.com/matzehuels/flightsizer/pkg/stats"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// handleSize sizes the posted flight. ?trace=true adds the unsized and
// after-primary grids to the response.
func (s *Server) handleSize(w http.ResponseWriter, r *http.Request) {
	g, err := fsio.ReadGrid(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.checkDimensions(g.Ranks(), g.Elements()); err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if r.URL.Query().Get("trace") == "true" {
		tr := flight.SizeWithTrace(g)
		_ = fsio.WriteSizing(w, tr.Result, &tr)
		return
	}
	_ = fsio.WriteSizing(w, flight.Size(g), nil)
}

type simulateResponse struct {
	ID         string             `json:"id"`
	CacheHit   bool               `json:"cache_hit"`
	Options    simulation.Options `json:"options"`
	Summary    stats.Report       `json:"summary"`
	DurationMS int64              `json:"duration_ms"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	opts := s.defaults
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&opts); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode simulation options"))
		return
	}

	res, err := s.simulate(r, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, simulateResponse{
		ID:         res.ID,
		CacheHit:   res.CacheHit,
		Options:    res.Options,
		Summary:    res.Summary,
		DurationMS: res.Duration.Milliseconds(),
	})
}

// handleChart renders the total-moves distribution of the simulation named
// by the query parameters trials, seed, ranks, elements and bins.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := s.defaults
	var copts chart.Options

	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"trials", &opts.Trials},
		{"ranks", &opts.Ranks},
		{"elements", &opts.Elements},
		{"bins", &copts.Bins},
	} {
		if v := q.Get(p.name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "%s must be an integer, got %q", p.name, v))
				return
			}
			*p.dst = n
		}
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "seed must be a non-negative integer, got %q", v))
			return
		}
		opts.Seed = seed
	}
	if err := copts.Validate(); err != nil {
		s.writeError(w, err)
		return
	}
	format := q.Get("format")
	if format == "" {
		format = chart.FormatSVG
	}
	if err := errors.ValidateFormat(format, chart.Formats...); err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.simulate(r, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	ctx := r.Context()
	key := s.runner.Keyer.ChartKey(res.ID, cache.ChartKeyOpts{Format: format, Bins: copts.Bins})
	data, hit, err := s.runner.Cache.Get(ctx, key)
	if err != nil || !hit {
		data, err = chart.Render(res.Totals(), copts, format)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if err := s.runner.Cache.Set(ctx, key, data, cache.TTLChart); err != nil {
			s.logger.Warn("failed to cache chart", "error", err)
		}
	}

	w.Header().Set("Content-Type", chart.ContentType(format))
	w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(int(cache.TTLChart/time.Second)))
	_, _ = w.Write(data)
}

func (s *Server) simulate(r *http.Request, opts simulation.Options) (*simulation.Result, error) {
	if err := s.checkDimensions(opts.Ranks, opts.Elements); err != nil {
		return nil, err
	}
	opts.MaxTrials = s.maxTrials
	if opts.Workers <= 0 || opts.Workers > s.maxWorkers {
		opts.Workers = s.maxWorkers
	}
	return s.runner.Execute(r.Context(), opts)
}

// checkDimensions applies the per-request flight size cap. Zero dimensions
// select defaults later and pass.
func (s *Server) checkDimensions(ranks, elements int) error {
	if ranks > s.maxDim || elements > s.maxDim {
		return errors.New(errors.ErrCodeInvalidDimensions,
			"flight too large for this server: %d ranks x %d elements (max %d each)", ranks, elements, s.maxDim)
	}
	return nil
}
