package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/flightsizer/pkg/errors"
	"github.com/matzehuels/flightsizer/pkg/flight"
)

type grid struct {
	Elements [][]float64 `json:"elements"`
}

func toGrid(g *flight.Grid) *grid {
	if g == nil {
		return nil
	}
	return &grid{Elements: g.ToElements()}
}

// WriteGrid encodes a flight as JSON and writes it to w.
func WriteGrid(g *flight.Grid, w io.Writer) error {
	return encode(w, toGrid(g))
}

// ReadGrid decodes a JSON flight from r. Malformed JSON is reported as
// INVALID_FORMAT; a well-formed document describing an invalid flight
// (empty, ragged, or non-finite) as INVALID_GRID.
func ReadGrid(r io.Reader) (*flight.Grid, error) {
	var data grid
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode grid")
	}
	return flight.FromElements(data.Elements)
}

// ImportGrid reads a JSON flight from the file at path.
func ImportGrid(path string) (*flight.Grid, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadGrid(f)
}

// ExportGrid writes a flight to a JSON file at path.
func ExportGrid(g *flight.Grid, path string) error {
	return create(path, func(w io.Writer) error { return WriteGrid(g, w) })
}

type sizing struct {
	Unsized        *grid `json:"unsized,omitempty"`
	AfterPrimary   *grid `json:"after_primary,omitempty"`
	Sized          *grid `json:"sized"`
	PrimaryMoves   int   `json:"primary_moves"`
	SecondaryMoves int   `json:"secondary_moves"`
	TotalMoves     int   `json:"total_moves"`
}

// WriteSizing encodes a sizing result. If tr is non-nil its intermediate
// grids are included and res is ignored.
func WriteSizing(w io.Writer, res flight.Result, tr *flight.Trace) error {
	var out sizing
	if tr != nil {
		res = tr.Result
		out.Unsized = toGrid(tr.Unsized)
		out.AfterPrimary = toGrid(tr.AfterPrimary)
	}
	out.Sized = toGrid(res.Sized)
	out.PrimaryMoves = res.PrimaryMoves
	out.SecondaryMoves = res.SecondaryMoves
	out.TotalMoves = res.TotalMoves
	return encode(w, out)
}

// ExportSizing writes a sizing result to a JSON file at path.
func ExportSizing(res flight.Result, tr *flight.Trace, path string) error {
	return create(path, func(w io.Writer) error { return WriteSizing(w, res, tr) })
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "file not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

func create(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
