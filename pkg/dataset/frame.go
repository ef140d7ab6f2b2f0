// Package dataset reads delimited tabular files into column-typed frames.
package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ColumnKind is the preprocessing view of a column dtype
type ColumnKind string

const (
	Numeric     ColumnKind = "numeric"
	Categorical ColumnKind = "categorical"
)

var (
	ErrColumnNotFound = errors.New("column not found")
	ErrNotNumeric     = errors.New("column is not numeric")
)

// MissingValues are the tokens read as a missing cell. The list mirrors the
// defaults of common dataframe readers so that exported files round-trip.
var MissingValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// Frame is an ordered set of named, typed columns sharing one row count
type Frame struct {
	df     dataframe.DataFrame
	source string
}

// Load reads a CSV file with a header row
func Load(path string) (*Frame, error) {
	return load(path, Read)
}

// LoadWithSchema reads a CSV file typed by a schema inferred from another
// frame. See ReadWithSchema.
func LoadWithSchema(path string, schema *Schema) (*Frame, error) {
	return load(path, func(r io.Reader) (*Frame, error) {
		return ReadWithSchema(r, schema)
	})
}

func load(path string, read func(io.Reader) (*Frame, error)) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	frame, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	frame.source = path
	return frame, nil
}

// Read parses CSV content with a header row, detecting column types
func Read(r io.Reader) (*Frame, error) {
	return readCSV(r, nil)
}

// ReadWithSchema parses CSV content whose column kinds come from the schema
// rather than from this content. Categorical columns are read as text
// verbatim. Numeric columns and the target stay numeric even when every cell
// is missing; a cell that does not parse as a number reads as missing.
// Columns the schema does not name are detected as in Read.
func ReadWithSchema(r io.Reader, schema *Schema) (*Frame, error) {
	types := make(map[string]series.Type, len(schema.Categorical))
	for _, name := range schema.Categorical {
		types[name] = series.String
	}
	frame, err := readCSV(r, types)
	if err != nil {
		return nil, err
	}

	numeric := append([]string{schema.Target}, schema.Numeric...)
	for _, name := range numeric {
		if !frame.Has(name) {
			continue
		}
		col := frame.df.Col(name)
		if kindOf(col.Type()) == Numeric {
			continue
		}
		df := frame.df.Mutate(series.New(col.Records(), series.Float, name))
		if df.Err != nil {
			return nil, fmt.Errorf("failed to read %q as numeric: %w", name, df.Err)
		}
		frame.df = df
	}
	return frame, nil
}

func readCSV(r io.Reader, types map[string]series.Type) (*Frame, error) {
	opts := []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(MissingValues),
	}
	if len(types) > 0 {
		opts = append(opts, dataframe.WithTypes(types))
	}
	df := dataframe.ReadCSV(r, opts...)
	if df.Err != nil {
		return nil, df.Err
	}
	return &Frame{df: df}, nil
}

// Source returns the path the frame was loaded from, if any
func (f *Frame) Source() string {
	return f.source
}

// Nrow returns the number of rows
func (f *Frame) Nrow() int {
	return f.df.Nrow()
}

// Names returns the column names in file order
func (f *Frame) Names() []string {
	return f.df.Names()
}

// Has reports whether the frame has a column with the given name
func (f *Frame) Has(name string) bool {
	for _, n := range f.df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Kind classifies a column: ints, floats and booleans are numeric,
// everything else is categorical
func (f *Frame) Kind(name string) (ColumnKind, error) {
	col, err := f.column(name)
	if err != nil {
		return "", err
	}
	return kindOf(col.Type()), nil
}

func kindOf(t series.Type) ColumnKind {
	switch t {
	case series.Int, series.Float, series.Bool:
		return Numeric
	default:
		return Categorical
	}
}

// Floats returns a numeric column as float64 values; NaN marks a missing cell
func (f *Frame) Floats(name string) ([]float64, error) {
	col, err := f.column(name)
	if err != nil {
		return nil, err
	}
	if kindOf(col.Type()) != Numeric {
		return nil, fmt.Errorf("%w: %q has type %s", ErrNotNumeric, name, col.Type())
	}
	return col.Float(), nil
}

// Strings returns a column as text together with its missing-cell mask.
// Missing cells hold the empty string.
func (f *Frame) Strings(name string) ([]string, []bool, error) {
	col, err := f.column(name)
	if err != nil {
		return nil, nil, err
	}
	values := col.Records()
	missing := col.IsNaN()
	for i, m := range missing {
		if m {
			values[i] = ""
		}
	}
	return values, missing, nil
}

// Target returns the raw values of a numeric target column
func (f *Frame) Target(name string) ([]float64, error) {
	values, err := f.Floats(name)
	if err != nil {
		return nil, fmt.Errorf("target %q: %w", name, err)
	}
	return values, nil
}

// Drop returns a new frame without the named column
func (f *Frame) Drop(name string) (*Frame, error) {
	if !f.Has(name) {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	df := f.df.Drop(name)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to drop %q: %w", name, df.Err)
	}
	return &Frame{df: df, source: f.source}, nil
}

func (f *Frame) column(name string) (series.Series, error) {
	if !f.Has(name) {
		return series.Series{}, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	col := f.df.Col(name)
	if col.Err != nil {
		return series.Series{}, col.Err
	}
	return col, nil
}
