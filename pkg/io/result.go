package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/matzehuels/flightsizer/pkg/errors"
	"github.com/matzehuels/flightsizer/pkg/simulation"
)

// WriteResult encodes a simulation result as JSON.
func WriteResult(res *simulation.Result, w io.Writer) error {
	return encode(w, res)
}

// ReadResult decodes a JSON simulation result.
func ReadResult(r io.Reader) (*simulation.Result, error) {
	var res simulation.Result
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode result")
	}
	if len(res.Trials) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "result has no trials")
	}
	return &res, nil
}

// ExportResult writes a simulation result to a JSON file at path.
func ExportResult(res *simulation.Result, path string) error {
	return create(path, func(w io.Writer) error { return WriteResult(res, w) })
}

// ImportResult reads a JSON simulation result from the file at path.
func ImportResult(path string) (*simulation.Result, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadResult(f)
}

var csvHeader = []string{"trial", "primary", "secondary", "total"}

// WriteTrialsCSV writes one row per trial.
func WriteTrialsCSV(trials []simulation.Trial, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range trials {
		row := []string{
			strconv.Itoa(t.Index),
			strconv.Itoa(t.Primary),
			strconv.Itoa(t.Secondary),
			strconv.Itoa(t.Total),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportTrialsCSV writes trials to a CSV file at path.
func ExportTrialsCSV(trials []simulation.Trial, path string) error {
	return create(path, func(w io.Writer) error { return WriteTrialsCSV(trials, w) })
}

// ReadTrialsCSV reads trials written by [WriteTrialsCSV].
func ReadTrialsCSV(r io.Reader) ([]simulation.Trial, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read csv")
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "csv is empty")
	}
	for i, h := range csvHeader {
		if records[0][i] != h {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unexpected csv header %q", records[0])
		}
	}

	trials := make([]simulation.Trial, 0, len(records)-1)
	for n, rec := range records[1:] {
		var vals [4]int
		for i, field := range rec {
			v, err := strconv.Atoi(field)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d: %s", n+2, csvHeader[i])
			}
			vals[i] = v
		}
		t := simulation.Trial{Index: vals[0], Primary: vals[1], Secondary: vals[2], Total: vals[3]}
		if t.Primary+t.Secondary != t.Total {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: total %d is not primary + secondary", n+2, t.Total)
		}
		trials = append(trials, t)
	}
	return trials, nil
}

// ImportTrialsCSV reads trials from the CSV file at path.
func ImportTrialsCSV(path string) ([]simulation.Trial, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	trials, err := ReadTrialsCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return trials, nil
}
