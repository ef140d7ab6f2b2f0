package transform

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// MedianImputer replaces missing (NaN) numeric cells with the column median
// observed at fit time. A column with no observed values imputes 0.
type MedianImputer struct {
	Statistics []float64
}

// Fit computes one median per column
func (m *MedianImputer) Fit(columns [][]float64) error {
	m.Statistics = make([]float64, len(columns))
	for j, col := range columns {
		observed := make([]float64, 0, len(col))
		for _, v := range col {
			if !math.IsNaN(v) {
				observed = append(observed, v)
			}
		}
		if len(observed) == 0 {
			m.Statistics[j] = 0
			continue
		}
		median, err := stats.Median(observed)
		if err != nil {
			return fmt.Errorf("median of column %d: %w", j, err)
		}
		m.Statistics[j] = median
	}
	return nil
}

// Transform returns copies of the columns with missing cells filled
func (m *MedianImputer) Transform(columns [][]float64) ([][]float64, error) {
	if m.Statistics == nil {
		return nil, ErrNotFitted
	}
	if len(columns) != len(m.Statistics) {
		return nil, fmt.Errorf("%w: got %d, fitted %d", ErrColumnMismatch, len(columns), len(m.Statistics))
	}
	out := make([][]float64, len(columns))
	for j, col := range columns {
		filled := make([]float64, len(col))
		for i, v := range col {
			if math.IsNaN(v) {
				v = m.Statistics[j]
			}
			filled[i] = v
		}
		out[j] = filled
	}
	return out, nil
}

// TextColumn is a categorical column with its missing-cell mask
type TextColumn struct {
	Values  []string
	Missing []bool
}

func (c TextColumn) missing(i int) bool {
	return i < len(c.Missing) && c.Missing[i]
}

// MostFrequentImputer replaces missing categorical cells with the most
// frequent value observed at fit time. Ties go to the lexically smallest
// value; a column with no observed values imputes the empty string.
type MostFrequentImputer struct {
	Statistics []string
}

// Fit computes one mode per column
func (m *MostFrequentImputer) Fit(columns []TextColumn) error {
	m.Statistics = make([]string, len(columns))
	for j, col := range columns {
		counts := make(map[string]int)
		for i, v := range col.Values {
			if !col.missing(i) {
				counts[v]++
			}
		}
		m.Statistics[j] = mode(counts)
	}
	return nil
}

func mode(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best, bestCount := "", 0
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best
}

// Transform returns the filled values of each column
func (m *MostFrequentImputer) Transform(columns []TextColumn) ([][]string, error) {
	if m.Statistics == nil {
		return nil, ErrNotFitted
	}
	if len(columns) != len(m.Statistics) {
		return nil, fmt.Errorf("%w: got %d, fitted %d", ErrColumnMismatch, len(columns), len(m.Statistics))
	}
	out := make([][]string, len(columns))
	for j, col := range columns {
		filled := make([]string, len(col.Values))
		for i, v := range col.Values {
			if col.missing(i) {
				v = m.Statistics[j]
			}
			filled[i] = v
		}
		out[j] = filled
	}
	return out, nil
}
