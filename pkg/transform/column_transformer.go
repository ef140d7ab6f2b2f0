// Package transform holds the fitted column transform: median imputation and
// standard scaling for numeric columns, most-frequent imputation and one-hot
// encoding for categorical columns.
package transform

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Table is the column source a ColumnTransformer reads from
type Table interface {
	Nrow() int
	// Floats returns a numeric column; NaN marks a missing cell
	Floats(name string) ([]float64, error)
	// Strings returns a text column and its missing-cell mask
	Strings(name string) ([]string, []bool, error)
}

// Options configure a ColumnTransformer
type Options struct {
	HandleUnknown UnknownPolicy
}

// ColumnTransformer applies the numeric pipeline to one group of columns and
// the categorical pipeline to another, then stacks the results: numeric block
// first, each group in the order its columns were given.
type ColumnTransformer struct {
	NumericColumns     []string
	CategoricalColumns []string
	Numeric            *NumericPipeline
	Categorical        *CategoricalPipeline
	Fitted             bool
}

// NewColumnTransformer creates an unfitted transform over two disjoint column groups
func NewColumnTransformer(numeric, categorical []string, opts Options) (*ColumnTransformer, error) {
	if len(numeric) == 0 && len(categorical) == 0 {
		return nil, fmt.Errorf("no columns to transform")
	}
	policy, err := ParseUnknownPolicy(string(opts.HandleUnknown))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(numeric)+len(categorical))
	for _, name := range append(append([]string{}, numeric...), categorical...) {
		if seen[name] {
			return nil, fmt.Errorf("column %q assigned more than once", name)
		}
		seen[name] = true
	}

	ct := &ColumnTransformer{
		NumericColumns:     numeric,
		CategoricalColumns: categorical,
	}
	if len(numeric) > 0 {
		ct.Numeric = NewNumericPipeline()
	}
	if len(categorical) > 0 {
		ct.Categorical = NewCategoricalPipeline(categorical, policy)
	}
	return ct, nil
}

// Fit learns every statistic from the table. Calling Fit again refits.
func (ct *ColumnTransformer) Fit(t Table) error {
	if t.Nrow() == 0 {
		return ErrEmptyTable
	}
	ct.Fitted = false

	if ct.Numeric != nil {
		cols, err := ct.numericInput(t)
		if err != nil {
			return err
		}
		if err := ct.Numeric.Fit(cols); err != nil {
			return fmt.Errorf("numeric pipeline: %w", err)
		}
	}
	if ct.Categorical != nil {
		cols, err := ct.categoricalInput(t)
		if err != nil {
			return err
		}
		if err := ct.Categorical.Fit(cols); err != nil {
			return fmt.Errorf("categorical pipeline: %w", err)
		}
	}

	ct.Fitted = true
	return nil
}

// Transform applies the fitted statistics to a table without refitting
func (ct *ColumnTransformer) Transform(t Table) (*mat.Dense, error) {
	if !ct.Fitted {
		return nil, ErrNotFitted
	}
	if t.Nrow() == 0 {
		return nil, ErrEmptyTable
	}

	var numeric, categorical *mat.Dense
	if ct.Numeric != nil {
		cols, err := ct.numericInput(t)
		if err != nil {
			return nil, err
		}
		if numeric, err = ct.Numeric.Transform(cols); err != nil {
			return nil, fmt.Errorf("numeric pipeline: %w", err)
		}
	}
	if ct.Categorical != nil {
		cols, err := ct.categoricalInput(t)
		if err != nil {
			return nil, err
		}
		if categorical, err = ct.Categorical.Transform(cols); err != nil {
			return nil, fmt.Errorf("categorical pipeline: %w", err)
		}
	}

	switch {
	case numeric == nil:
		return categorical, nil
	case categorical == nil:
		return numeric, nil
	}
	var out mat.Dense
	out.Augment(numeric, categorical)
	return &out, nil
}

// FitTransform fits on the table and transforms it
func (ct *ColumnTransformer) FitTransform(t Table) (*mat.Dense, error) {
	if err := ct.Fit(t); err != nil {
		return nil, err
	}
	return ct.Transform(t)
}

// FeatureNames returns the output column names in matrix order
func (ct *ColumnTransformer) FeatureNames() []string {
	names := append([]string{}, ct.NumericColumns...)
	if ct.Categorical != nil {
		names = append(names, ct.Categorical.Encoder.FeatureNames()...)
	}
	return names
}

// NumFeatures returns the width of the transformed matrix
func (ct *ColumnTransformer) NumFeatures() int {
	n := len(ct.NumericColumns)
	if ct.Categorical != nil {
		n += ct.Categorical.Encoder.Width()
	}
	return n
}

func (ct *ColumnTransformer) numericInput(t Table) ([][]float64, error) {
	cols := make([][]float64, len(ct.NumericColumns))
	for j, name := range ct.NumericColumns {
		values, err := t.Floats(name)
		if err != nil {
			return nil, fmt.Errorf("numeric column %q: %w", name, err)
		}
		cols[j] = values
	}
	return cols, nil
}

func (ct *ColumnTransformer) categoricalInput(t Table) ([]TextColumn, error) {
	cols := make([]TextColumn, len(ct.CategoricalColumns))
	for j, name := range ct.CategoricalColumns {
		values, missing, err := t.Strings(name)
		if err != nil {
			return nil, fmt.Errorf("categorical column %q: %w", name, err)
		}
		cols[j] = TextColumn{Values: values, Missing: missing}
	}
	return cols, nil
}
