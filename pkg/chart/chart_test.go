package chart

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/flightsizer/pkg/errors"
	"github.com/matzehuels/flightsizer/pkg/stats"
)

func sampleTotals() []float64 {
	return []float64{150, 155, 160, 160, 162, 165, 170, 171, 175, 180, 158, 163}
}

func TestRender_Formats(t *testing.T) {
	tests := []struct {
		format string
		check  func(t *testing.T, data []byte)
	}{
		{FormatPNG, func(t *testing.T, data []byte) {
			assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), "png signature")
		}},
		{FormatSVG, func(t *testing.T, data []byte) {
			assert.Contains(t, string(data), "<svg")
		}},
		{FormatPDF, func(t *testing.T, data []byte) {
			assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "pdf header")
		}},
		{FormatHTML, func(t *testing.T, data []byte) {
			assert.Contains(t, string(data), "echarts")
			assert.Contains(t, string(data), "normal fit")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			data, err := Render(sampleTotals(), Options{}, tt.format)
			require.NoError(t, err)
			require.NotEmpty(t, data)
			tt.check(t, data)
		})
	}
}

func TestRender_DefaultTitle(t *testing.T) {
	totals := sampleTotals()
	want := Title(stats.FitNormal(totals))
	assert.True(t, strings.HasPrefix(want, "Fit values: "))

	data, err := Render(totals, Options{}, FormatHTML)
	require.NoError(t, err)
	assert.Contains(t, string(data), want)

	data, err = Render(totals, Options{Title: "Drill study"}, FormatHTML)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Drill study")
}

func TestRender_Degenerate(t *testing.T) {
	data, err := Render([]float64{120, 120, 120}, Options{Bins: 5}, FormatSVG)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestRender_Errors(t *testing.T) {
	_, err := Render(sampleTotals(), Options{}, "gif")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))

	_, err = Render(nil, Options{}, FormatPNG)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestRender_BinLimit(t *testing.T) {
	_, err := Render(sampleTotals(), Options{Bins: MaxBins + 1}, FormatSVG)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)

	_, err = Render(sampleTotals(), Options{Bins: 1_000_000_000}, FormatHTML)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)

	data, err := Render(sampleTotals(), Options{Bins: MaxBins}, FormatSVG)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", ContentType(FormatPNG))
	assert.Equal(t, "image/svg+xml", ContentType(FormatSVG))
	assert.Equal(t, "application/pdf", ContentType(FormatPDF))
	assert.Equal(t, "text/html; charset=utf-8", ContentType(FormatHTML))
	assert.Equal(t, "application/octet-stream", ContentType("bin"))
}
