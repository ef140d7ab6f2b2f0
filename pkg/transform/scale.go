package transform

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler centres each column on its mean and divides by its
// population standard deviation. Constant columns are scaled by 1.
type StandardScaler struct {
	Mean  []float64
	Scale []float64
}

// Fit learns mean and scale per column
func (s *StandardScaler) Fit(columns [][]float64) error {
	s.Mean = make([]float64, len(columns))
	s.Scale = make([]float64, len(columns))
	for j, col := range columns {
		if len(col) == 0 {
			return ErrEmptyTable
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		if std == 0 {
			std = 1
		}
		s.Mean[j] = mean
		s.Scale[j] = std
	}
	return nil
}

// Transform returns standardised copies of the columns
func (s *StandardScaler) Transform(columns [][]float64) ([][]float64, error) {
	if s.Mean == nil {
		return nil, ErrNotFitted
	}
	if len(columns) != len(s.Mean) {
		return nil, fmt.Errorf("%w: got %d, fitted %d", ErrColumnMismatch, len(columns), len(s.Mean))
	}
	out := make([][]float64, len(columns))
	for j, col := range columns {
		scaled := make([]float64, len(col))
		for i, v := range col {
			scaled[i] = (v - s.Mean[j]) / s.Scale[j]
		}
		out[j] = scaled
	}
	return out, nil
}
