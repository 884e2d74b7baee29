package insight

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const sampleRows = 5

// LoadDataset parses raw file bytes into a Dataset with shape, per-column
// inferred types, a small sample, and numeric summary statistics. It does
// not register the dataset anywhere.
func LoadDataset(filename string, data []byte) (*Dataset, error) {
	var (
		columns []string
		rows    [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		columns, rows, err = parseCSV(data)
	case ".xlsx":
		columns, rows, err = parseXLSX(data)
	default:
		return nil, fmt.Errorf("LoadDataset: %w: %s (only .csv and .xlsx are supported)", ErrUnsupportedFormat, filepath.Ext(filename))
	}
	if err != nil {
		return nil, fmt.Errorf("LoadDataset: parse %s: %w", filename, err)
	}
	return buildDataset(filename, columns, rows), nil
}

func parseCSV(data []byte) ([]string, [][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, errors.New("empty file")
	}
	header := records[0]
	if len(header) == 0 {
		return nil, nil, errors.New("missing header row")
	}
	rows := padRows(records[1:], len(header))
	return trimAll(header), rows, nil
}

func parseXLSX(data []byte) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, errors.New("workbook has no sheets")
	}
	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 || len(all[0]) == 0 {
		return nil, nil, errors.New("missing header row")
	}
	header := all[0]
	rows := padRows(all[1:], len(header))
	return trimAll(header), rows, nil
}

func padRows(rows [][]string, width int) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		if len(row) < width {
			tmp := make([]string, width)
			copy(tmp, row)
			row = tmp
		} else if len(row) > width {
			row = row[:width]
		}
		out = append(out, row)
	}
	return out
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

func buildDataset(filename string, columns []string, rows [][]string) *Dataset {
	ds := &Dataset{
		Filename:    filepath.Base(filename),
		RowCount:    len(rows),
		ColumnCount: len(columns),
		Columns:     columns,
		Dtypes:      make(map[string]string, len(columns)),
		Summary:     make(map[string]Stats),
		Table:       &Table{Columns: columns, Rows: rows},
	}

	for j, col := range columns {
		ds.Dtypes[col] = inferDtype(rows, j)
	}

	n := sampleRows
	if len(rows) < n {
		n = len(rows)
	}
	ds.Sample = make([]map[string]any, 0, n)
	for _, row := range rows[:n] {
		rec := make(map[string]any, len(columns))
		for j, col := range columns {
			rec[col] = parseCell(row[j])
		}
		ds.Sample = append(ds.Sample, rec)
	}

	for j, col := range columns {
		switch ds.Dtypes[col] {
		case "integer", "float":
			ds.Summary[col] = describeColumn(rows, j)
		}
	}
	return ds
}

// inferDtype decides a column's type tag by the predominant parsed type of
// its non-empty cells. Columns with no non-empty cells are tagged string.
func inferDtype(rows [][]string, col int) string {
	var intCnt, floatCnt, boolCnt, dtCnt, txtCnt int
	for _, row := range rows {
		v := strings.TrimSpace(row[col])
		if v == "" {
			continue
		}
		switch {
		case isBool(v):
			boolCnt++
		case isInt(v):
			intCnt++
		case isFloat(v):
			floatCnt++
		case isDatetime(v):
			dtCnt++
		default:
			txtCnt++
		}
	}
	numCnt := intCnt + floatCnt
	switch {
	case numCnt > 0 && numCnt >= dtCnt && numCnt >= txtCnt && numCnt >= boolCnt:
		if floatCnt > 0 {
			return "float"
		}
		return "integer"
	case boolCnt > 0 && boolCnt >= dtCnt && boolCnt >= txtCnt:
		return "boolean"
	case dtCnt > 0 && dtCnt >= txtCnt:
		return "datetime"
	default:
		return "string"
	}
}

func isBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false":
		return true
	}
	return false
}

func isInt(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func isFloat(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

var datetimeLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05",
}

func isDatetime(s string) bool {
	for _, l := range datetimeLayouts {
		if _, err := time.Parse(l, s); err == nil {
			return true
		}
	}
	return false
}

// parseCell converts a raw cell to int64, float64, bool, or string.
func parseCell(s string) any {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(strings.ToLower(s)); err == nil && isBool(s) {
		return b
	}
	return s
}

// describeColumn computes count, mean, std, min, quartiles, and max over the
// parseable numeric cells of one column. Mean and std use Welford updates;
// quantiles use linear interpolation over the sorted values.
func describeColumn(rows [][]string, col int) Stats {
	var (
		n    int
		mean float64
		m2   float64
		vals []float64
	)
	for _, row := range rows {
		v := strings.TrimSpace(row[col])
		if v == "" {
			continue
		}
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			continue
		}
		n++
		delta := x - mean
		mean += delta / float64(n)
		m2 += delta * (x - mean)
		vals = append(vals, x)
	}

	s := Stats{Count: float64(n)}
	if n == 0 {
		return s
	}
	sort.Float64s(vals)
	s.Mean = ptr(mean)
	s.Min = ptr(vals[0])
	s.P25 = ptr(quantile(vals, 0.25))
	s.P50 = ptr(quantile(vals, 0.5))
	s.P75 = ptr(quantile(vals, 0.75))
	s.Max = ptr(vals[len(vals)-1])
	if n > 1 {
		std := math.Sqrt(m2 / float64(n-1))
		if !math.IsNaN(std) {
			s.Std = ptr(std)
		}
	}
	return s
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

func ptr(f float64) *float64 { return &f }
