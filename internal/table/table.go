// Package table loads CSV data into typed columns and slices numeric series out of it.
package table

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/verte-zerg/trendplot/internal/trend"
)

// DefaultIndexColumn names the row-number column appended to every table.
const DefaultIndexColumn = "X-Axis"

// ErrColumnNotFound is returned when a column name does not exist.
var ErrColumnNotFound = errors.New("column not found")

// Kind classifies a column's cells.
type Kind int

const (
	Numeric Kind = iota
	Text
)

func (k Kind) String() string {
	if k == Numeric {
		return "number"
	}
	return "text"
}

// ColumnKindError is returned when a text column is used where numbers are required.
type ColumnKindError struct {
	Column string
}

func (e *ColumnKindError) Error() string {
	return "column " + strconv.Quote(e.Column) + " is not numeric; only number columns can be charted"
}

// Options holds options for CSV loading.
type Options struct {
	Delimiter     rune     // Field delimiter (default: ',')
	IndexColumn   string   // Name of the appended row-number column; empty disables it
	MissingValues []string // Cells treated as missing
	MaxRows       int      // Stop after this many data rows; 0 means unlimited
}

// DefaultOptions returns default options for CSV loading.
func DefaultOptions() *Options {
	return &Options{
		Delimiter:     ',',
		IndexColumn:   DefaultIndexColumn,
		MissingValues: []string{"", "NA", "NaN", "nan", "null"},
	}
}

// Column is a named column with its raw cells and, for numeric columns,
// parsed values (NaN where missing).
type Column struct {
	Name   string
	Kind   Kind
	Raw    []string
	Values []float64
}

// Table is an in-memory CSV table.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// Load reads a table from a CSV file.
func Load(path string, opts *Options) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open csv")
	}
	defer file.Close()

	tbl, err := Parse(file, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return tbl, nil
}

// Parse reads a table from CSV with a header row.
func Parse(r io.Reader, opts *Options) (*Table, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("csv is empty")
	}
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}

	tbl := &Table{index: make(map[string]int, len(header)+1)}
	for _, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" {
			name = "Column " + strconv.Itoa(len(tbl.columns)+1)
		}
		if _, dup := tbl.index[name]; dup {
			return nil, errors.Errorf("duplicate column %q", name)
		}
		tbl.index[name] = len(tbl.columns)
		tbl.columns = append(tbl.columns, &Column{Name: name})
	}

	for opts.MaxRows <= 0 || tbl.rows < opts.MaxRows {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read row")
		}
		for i, col := range tbl.columns {
			col.Raw = append(col.Raw, strings.TrimSpace(record[i]))
		}
		tbl.rows++
	}

	missing := make(map[string]struct{}, len(opts.MissingValues))
	for _, m := range opts.MissingValues {
		missing[m] = struct{}{}
	}
	for _, col := range tbl.columns {
		classify(col, missing)
	}

	if opts.IndexColumn != "" {
		if _, exists := tbl.index[opts.IndexColumn]; !exists {
			tbl.addIndexColumn(opts.IndexColumn)
		}
	}
	return tbl, nil
}

func classify(col *Column, missing map[string]struct{}) {
	values := make([]float64, len(col.Raw))
	for i, cell := range col.Raw {
		if _, ok := missing[cell]; ok {
			values[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil || math.IsInf(v, 0) {
			col.Kind = Text
			return
		}
		values[i] = v
	}
	col.Kind = Numeric
	col.Values = values
}

func (t *Table) addIndexColumn(name string) {
	col := &Column{
		Name:   name,
		Kind:   Numeric,
		Raw:    make([]string, t.rows),
		Values: make([]float64, t.rows),
	}
	for i := 0; i < t.rows; i++ {
		col.Raw[i] = strconv.Itoa(i)
		col.Values[i] = float64(i)
	}
	t.index[name] = len(t.columns)
	t.columns = append(t.columns, col)
}

// Rows returns the number of data rows.
func (t *Table) Rows() int {
	return t.rows
}

// Names returns all column names in file order.
func (t *Table) Names() []string {
	out := make([]string, len(t.columns))
	for i, c := range t.columns {
		out[i] = c.Name
	}
	return out
}

// NumericNames returns the names of numeric columns.
func (t *Table) NumericNames() []string {
	var out []string
	for _, c := range t.columns {
		if c.Kind == Numeric {
			out = append(out, c.Name)
		}
	}
	return out
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, error) {
	idx, ok := t.index[name]
	if !ok {
		return nil, errors.Wrapf(ErrColumnNotFound, "%q", name)
	}
	return t.columns[idx], nil
}

func (t *Table) numeric(name string) (*Column, error) {
	col, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if col.Kind != Numeric {
		return nil, &ColumnKindError{Column: name}
	}
	return col, nil
}

// Range returns the min and max of a numeric column, ignoring missing cells.
// A column without values yields NaN bounds.
func (t *Table) Range(name string) (float64, float64, error) {
	col, err := t.numeric(name)
	if err != nil {
		return 0, 0, err
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range col.Values {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return math.NaN(), math.NaN(), nil
	}
	return lo, hi, nil
}

// Series returns the (x, y) pairs of two numeric columns for rows with
// start <= x <= end, in row order. Rows missing either value are skipped.
func (t *Table) Series(xName, yName string, start, end float64) (trend.Series, error) {
	xCol, err := t.numeric(xName)
	if err != nil {
		return nil, err
	}
	yCol, err := t.numeric(yName)
	if err != nil {
		return nil, err
	}
	out := make(trend.Series, 0, t.rows)
	for i := 0; i < t.rows; i++ {
		x, y := xCol.Values[i], yCol.Values[i]
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		if x < start || x > end {
			continue
		}
		out = append(out, trend.Point{X: x, Y: y})
	}
	return out, nil
}

// Head returns the first n rows of the named columns as strings.
func (t *Table) Head(names []string, n int) ([][]string, error) {
	cols := make([]*Column, 0, len(names))
	for _, name := range names {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	if n <= 0 || n > t.rows {
		n = t.rows
	}
	out := make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(cols))
		for j, col := range cols {
			row[j] = col.Raw[i]
		}
		out[i] = row
	}
	return out, nil
}
