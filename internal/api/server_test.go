package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/flightsizer/pkg/cache"
	"github.com/matzehuels/flightsizer/pkg/errors"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	s := New(Config{Cache: c, MaxTrials: 500})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Close()
	})
	return ts
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]string](t, resp)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["version"])
}

func TestSize(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/v1/size", "application/json", strings.NewReader(`{"elements": [[3,1],[2,4]]}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[struct {
		Sized struct {
			Elements [][]float64 `json:"elements"`
		} `json:"sized"`
		Unsized        json.RawMessage `json:"unsized"`
		PrimaryMoves   int             `json:"primary_moves"`
		SecondaryMoves int             `json:"secondary_moves"`
		TotalMoves     int             `json:"total_moves"`
	}](t, resp)
	assert.Equal(t, [][]float64{{4, 2}, {3, 1}}, body.Sized.Elements)
	assert.Equal(t, 1, body.PrimaryMoves)
	assert.Equal(t, 2, body.SecondaryMoves)
	assert.Equal(t, 3, body.TotalMoves)
	assert.Nil(t, body.Unsized)
}

func TestSize_Trace(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/v1/size?trace=true", "application/json", strings.NewReader(`{"elements": [[3,1],[2,4]]}`))
	require.NoError(t, err)
	body := decode[map[string]json.RawMessage](t, resp)
	assert.Contains(t, body, "unsized")
	assert.Contains(t, body, "after_primary")
}

func TestSize_Invalid(t *testing.T) {
	ts := newTestServer(t)
	tests := map[string]struct {
		body string
		code errors.Code
	}{
		"ragged":    {`{"elements": [[1,2],[3]]}`, errors.ErrCodeInvalidGrid},
		"empty":     {`{"elements": []}`, errors.ErrCodeInvalidGrid},
		"malformed": {`{"elements": `, errors.ErrCodeInvalidFormat},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/v1/size", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := decode[errorResponse](t, resp)
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestSize_TooLarge(t *testing.T) {
	ts := newTestServer(t)
	heights := make([]string, 3000)
	for i := range heights {
		heights[i] = strconv.Itoa(i)
	}
	body := `{"elements": [[` + strings.Join(heights, ",") + `]]}`

	resp, err := http.Post(ts.URL+"/v1/size", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, errors.ErrCodeInvalidDimensions, decode[errorResponse](t, resp).Code)
}

func TestSize_OverServerCap(t *testing.T) {
	ts := newTestServer(t)
	heights := strings.Repeat("1,", DefaultMaxDimension) + "1"
	body := `{"elements": [[` + heights + `]]}`

	resp, err := http.Post(ts.URL+"/v1/size", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, errors.ErrCodeInvalidDimensions, decode[errorResponse](t, resp).Code)
}

func TestSimulate(t *testing.T) {
	ts := newTestServer(t)
	post := func() simulateResponse {
		resp, err := http.Post(ts.URL+"/v1/simulate", "application/json", bytes.NewBufferString(`{"trials": 100, "seed": 9}`))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		return decode[simulateResponse](t, resp)
	}

	first := post()
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.CacheHit)
	assert.Equal(t, 100, first.Options.Trials)
	assert.Equal(t, uint64(9), first.Options.Seed)
	assert.Equal(t, 100, first.Summary.Total.Count)
	assert.InDelta(t, first.Summary.Primary.Mean+first.Summary.Secondary.Mean, first.Summary.Total.Mean, 1e-9)

	second := post()
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.ID, second.ID)
}

func TestSimulate_TrialCap(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/v1/simulate", "application/json", strings.NewReader(`{"trials": 501}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[errorResponse](t, resp)
	assert.Equal(t, errors.ErrCodeInvalidInput, body.Code)
}

func TestSimulate_DimensionCap(t *testing.T) {
	ts := newTestServer(t)
	for _, body := range []string{
		`{"trials": 1, "ranks": 1000, "elements": 1000}`,
		`{"trials": 1, "ranks": 101}`,
	} {
		resp, err := http.Post(ts.URL+"/v1/simulate", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		assert.Equal(t, errors.ErrCodeInvalidDimensions, decode[errorResponse](t, resp).Code)
	}
}

func TestSimulate_BadBody(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/v1/simulate", "application/json", strings.NewReader(`{"trials": "lots"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[errorResponse](t, resp)
	assert.Equal(t, errors.ErrCodeInvalidFormat, body.Code)
}

func TestChart(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		format      string
		contentType string
	}{
		{"svg", "image/svg+xml"},
		{"png", "image/png"},
		{"html", "text/html; charset=utf-8"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp, err := http.Get(ts.URL + "/v1/simulate/chart?trials=50&seed=3&format=" + tt.format)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.contentType, resp.Header.Get("Content-Type"))

			var buf bytes.Buffer
			_, err = buf.ReadFrom(resp.Body)
			require.NoError(t, err)
			assert.NotZero(t, buf.Len())
		})
	}
}

func TestChart_Invalid(t *testing.T) {
	ts := newTestServer(t)
	for _, query := range []string{
		"format=gif", "trials=abc", "seed=-1", "trials=100000",
		"bins=1000000000", "ranks=5000",
	} {
		t.Run(query, func(t *testing.T) {
			resp, err := http.Get(ts.URL + "/v1/simulate/chart?" + query)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestNotFound(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/v1/unknown")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
