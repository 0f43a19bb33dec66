package datasets

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// CSVOptions configures LoadCSV.
type CSVOptions struct {
	// TargetColumn is the zero-based index of the regression target.
	// The remaining columns form the series, in order.
	TargetColumn int

	// HasHeader skips the first row.
	HasHeader bool

	// MaxSamples limits the number of rows loaded. 0 loads all.
	MaxSamples int
}

// LoadCSV loads a wide-format regression dataset: one univariate series
// per row, with the target value in TargetColumn.
//
// Example with the target in column 0:
//
//	target,t0,t1,t2,...
//	3.2,0.11,0.13,0.19,...
func LoadCSV(path string, opts CSVOptions) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 0 // ReadAll errors on ragged rows
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if opts.HasHeader {
		if len(records) == 0 {
			return nil, fmt.Errorf("CSV file is empty")
		}
		records = records[1:]
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file has no data rows")
	}
	if opts.MaxSamples > 0 && len(records) > opts.MaxSamples {
		records = records[:opts.MaxSamples]
	}

	width := len(records[0])
	if opts.TargetColumn < 0 || opts.TargetColumn >= width {
		return nil, fmt.Errorf("target column %d out of range for %d columns", opts.TargetColumn, width)
	}
	if width < 2 {
		return nil, fmt.Errorf("rows must have at least one series value besides the target")
	}

	ds := &Dataset{
		X: make([][][]float64, len(records)),
		Y: make([]float64, len(records)),
	}
	for i, record := range records {
		series := make([]float64, 0, width-1)
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid value at row %d, column %d: %w", i+1, j, err)
			}
			if j == opts.TargetColumn {
				ds.Y[i] = v
			} else {
				series = append(series, v)
			}
		}
		ds.X[i] = [][]float64{series}
	}
	return ds, nil
}
