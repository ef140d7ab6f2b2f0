package transform

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// NumericPipeline imputes medians then standardises
type NumericPipeline struct {
	Imputer *MedianImputer
	Scaler  *StandardScaler
}

// NewNumericPipeline creates an unfitted numeric pipeline
func NewNumericPipeline() *NumericPipeline {
	return &NumericPipeline{
		Imputer: &MedianImputer{},
		Scaler:  &StandardScaler{},
	}
}

// Fit fits the imputer, then fits the scaler on the imputed columns
func (p *NumericPipeline) Fit(columns [][]float64) error {
	if err := p.Imputer.Fit(columns); err != nil {
		return fmt.Errorf("imputer: %w", err)
	}
	filled, err := p.Imputer.Transform(columns)
	if err != nil {
		return fmt.Errorf("imputer: %w", err)
	}
	if err := p.Scaler.Fit(filled); err != nil {
		return fmt.Errorf("scaler: %w", err)
	}
	return nil
}

// Transform applies both fitted steps and returns a rows x columns matrix
func (p *NumericPipeline) Transform(columns [][]float64) (*mat.Dense, error) {
	filled, err := p.Imputer.Transform(columns)
	if err != nil {
		return nil, fmt.Errorf("imputer: %w", err)
	}
	scaled, err := p.Scaler.Transform(filled)
	if err != nil {
		return nil, fmt.Errorf("scaler: %w", err)
	}
	if len(scaled) == 0 || len(scaled[0]) == 0 {
		return nil, ErrEmptyTable
	}

	out := mat.NewDense(len(scaled[0]), len(scaled), nil)
	for j, col := range scaled {
		out.SetCol(j, col)
	}
	return out, nil
}

// CategoricalPipeline imputes the most frequent value then one-hot encodes
type CategoricalPipeline struct {
	Imputer *MostFrequentImputer
	Encoder *OneHotEncoder
}

// NewCategoricalPipeline creates an unfitted categorical pipeline
func NewCategoricalPipeline(columns []string, policy UnknownPolicy) *CategoricalPipeline {
	return &CategoricalPipeline{
		Imputer: &MostFrequentImputer{},
		Encoder: NewOneHotEncoder(columns, policy),
	}
}

// Fit fits the imputer, then learns the vocabulary of the imputed columns
func (p *CategoricalPipeline) Fit(columns []TextColumn) error {
	if err := p.Imputer.Fit(columns); err != nil {
		return fmt.Errorf("imputer: %w", err)
	}
	filled, err := p.Imputer.Transform(columns)
	if err != nil {
		return fmt.Errorf("imputer: %w", err)
	}
	if err := p.Encoder.Fit(filled); err != nil {
		return fmt.Errorf("encoder: %w", err)
	}
	return nil
}

// Transform applies both fitted steps
func (p *CategoricalPipeline) Transform(columns []TextColumn) (*mat.Dense, error) {
	filled, err := p.Imputer.Transform(columns)
	if err != nil {
		return nil, fmt.Errorf("imputer: %w", err)
	}
	out, err := p.Encoder.Transform(filled)
	if err != nil {
		return nil, fmt.Errorf("encoder: %w", err)
	}
	return out, nil
}
