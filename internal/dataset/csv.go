// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/tomtom215/castadvisor/internal/process"
)

// DefaultLabelColumn is the quality column of the historical dataset.
const DefaultLabelColumn = "quality"

// ErrEmpty is returned when a CSV has a header but no data rows.
var ErrEmpty = errors.New("csv: no data rows")

// ErrTooManyRows is returned when an upload exceeds the caller's row limit.
var ErrTooManyRows = errors.New("csv: too many rows")

// Dataset is a labeled feature matrix in process.Features order.
type Dataset struct {
	Features [][]float64
	Labels   []string
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Features)
}

// ClassCounts returns the number of rows per label.
func (d *Dataset) ClassCounts() map[string]int {
	out := make(map[string]int)
	for _, l := range d.Labels {
		out[l]++
	}
	return out
}

// LoadFile reads a historical dataset from a CSV file.
func LoadFile(path, labelColumn string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	ds, err := Read(f, labelColumn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Read parses a labeled dataset. The header must contain every process
// parameter and labelColumn; other columns are ignored.
func Read(r io.Reader, labelColumn string) (*Dataset, error) {
	if labelColumn == "" {
		labelColumn = DefaultLabelColumn
	}

	reader := newReader(r)
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("csv: empty input (no header row)")
	}
	if err != nil {
		return nil, fmt.Errorf("csv: parse header: %w", err)
	}

	cols, err := featureColumns(header)
	if err != nil {
		return nil, err
	}
	labelIdx := indexOf(header, labelColumn)
	if labelIdx < 0 {
		return nil, fmt.Errorf("csv: missing column %q", labelColumn)
	}

	ds := &Dataset{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: parse: %w", err)
		}

		row, err := parseRow(record, cols, line)
		if err != nil {
			return nil, err
		}
		label := strings.TrimSpace(record[labelIdx])
		if label == "" {
			return nil, fmt.Errorf("csv: row %d: empty %s", line, labelColumn)
		}

		ds.Features = append(ds.Features, row)
		ds.Labels = append(ds.Labels, label)
	}

	if ds.Len() == 0 {
		return nil, ErrEmpty
	}
	return ds, nil
}

// ReadParameterSets parses unlabeled process rows, as uploaded for batch
// assessment. A label column, if present, is ignored.
func ReadParameterSets(r io.Reader) ([]process.ParameterSet, error) {
	return ReadParameterSetsLimit(r, 0)
}

// ReadParameterSetsLimit is ReadParameterSets with an upper bound on data
// rows. It stops reading at the first row past maxRows. 0 means no limit.
func ReadParameterSetsLimit(r io.Reader, maxRows int) ([]process.ParameterSet, error) {
	reader := newReader(r)
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("csv: empty input (no header row)")
	}
	if err != nil {
		return nil, fmt.Errorf("csv: parse header: %w", err)
	}

	cols, err := featureColumns(header)
	if err != nil {
		return nil, err
	}

	var out []process.ParameterSet
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: parse: %w", err)
		}
		if maxRows > 0 && len(out) == maxRows {
			return nil, fmt.Errorf("%w: limit is %d", ErrTooManyRows, maxRows)
		}

		row, err := parseRow(record, cols, line)
		if err != nil {
			return nil, err
		}
		ps, err := process.FromVector(row)
		if err != nil {
			return nil, fmt.Errorf("csv: row %d: %w", line, err)
		}
		out = append(out, ps)
	}

	if len(out) == 0 {
		return nil, ErrEmpty
	}
	return out, nil
}

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = false
	return reader
}

// featureColumns maps each process parameter to its header index.
func featureColumns(header []string) ([]int, error) {
	features := process.Features()
	cols := make([]int, len(features))
	var missing []string
	for i, p := range features {
		cols[i] = indexOf(header, string(p))
		if cols[i] < 0 {
			missing = append(missing, string(p))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("csv: %w: %s", process.ErrMissingParameter, strings.Join(missing, ", "))
	}
	return cols, nil
}

func parseRow(record []string, cols []int, line int) ([]float64, error) {
	row := make([]float64, len(cols))
	features := process.Features()
	for i, c := range cols {
		raw := strings.TrimSpace(record[c])
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("csv: row %d: %s: invalid number %q", line, features[i], raw)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("csv: row %d: %w: %s", line, process.ErrNonFiniteParameter, features[i])
		}
		row[i] = v
	}
	return row, nil
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}
