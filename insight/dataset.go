// Package insight implements the data-grounded query-answering pipeline:
// loading tabular files into datasets, classifying queries, building
// context-bounded prompts, and validating model output.
package insight

import "errors"

var (
	// ErrUnsupportedFormat is returned for upload filenames whose extension
	// is not one of the supported tabular formats (.csv, .xlsx).
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrNotFound is returned by the registry for unknown or malformed
	// dataset identifiers. Both conditions are treated as a lookup miss.
	ErrNotFound = errors.New("dataset not found")

	// ErrGenerationUnavailable is returned by the Unavailable capability when
	// no API credential was configured at startup.
	ErrGenerationUnavailable = errors.New("text generation unavailable")
)

// Table is the full in-memory tabular data of a dataset, owned exclusively
// by the Dataset that carries it. Cell values are kept as the raw strings
// produced by the parser; typed interpretation happens at render time.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Stats holds descriptive statistics for one numeric column. Fields are nil
// where the statistic is undefined (empty column, or n<2 for Std).
type Stats struct {
	Count float64  `json:"count"`
	Mean  *float64 `json:"mean"`
	Std   *float64 `json:"std"`
	Min   *float64 `json:"min"`
	P25   *float64 `json:"25%"`
	P50   *float64 `json:"50%"`
	P75   *float64 `json:"75%"`
	Max   *float64 `json:"max"`
}

// Dataset is an uploaded tabular file's parsed in-memory representation plus
// precomputed metadata. Datasets are immutable once stored in the registry.
type Dataset struct {
	ID          string
	Filename    string
	RowCount    int
	ColumnCount int

	// Columns is the ordered header sequence; ColumnCount == len(Columns).
	Columns []string

	// Dtypes maps each column name to an inferred type tag:
	// integer, float, boolean, datetime, or string.
	Dtypes map[string]string

	// Sample holds the first rows (up to 5) as column-keyed records with
	// typed values.
	Sample []map[string]any

	// Summary holds descriptive statistics for numeric columns only.
	Summary map[string]Stats

	Table *Table
}

// NumericColumns returns the ordered subset of columns whose inferred type
// is integer or float.
func (d *Dataset) NumericColumns() []string {
	var out []string
	for _, col := range d.Columns {
		switch d.Dtypes[col] {
		case "integer", "float":
			out = append(out, col)
		}
	}
	return out
}
