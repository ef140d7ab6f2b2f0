package transform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedianImputer(t *testing.T) {
	nan := math.NaN()
	imp := &MedianImputer{}

	_, err := imp.Transform([][]float64{{1}})
	assert.ErrorIs(t, err, ErrNotFitted)

	train := [][]float64{
		{1, nan, 3, 10},  // median of 1,3,10
		{4, 2, nan, nan}, // median of 4,2 averages the middle pair
		{nan, nan, nan},  // nothing observed
	}
	require.NoError(t, imp.Fit(train))
	assert.Equal(t, []float64{3, 3, 0}, imp.Statistics)

	out, err := imp.Transform(train)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3, 3, 10}, out[0])
	assert.Equal(t, []float64{4, 2, 3, 3}, out[1])
	assert.Equal(t, []float64{0, 0, 0}, out[2])
	assert.True(t, math.IsNaN(train[0][1]), "input is not modified")

	_, err = imp.Transform([][]float64{{1}})
	assert.ErrorIs(t, err, ErrColumnMismatch)
}

func TestMostFrequentImputer(t *testing.T) {
	imp := &MostFrequentImputer{}

	train := []TextColumn{
		{
			Values:  []string{"b", "a", "b", ""},
			Missing: []bool{false, false, false, true},
		},
		{
			// tie between "x" and "w" goes to the smaller value
			Values:  []string{"x", "w", "", "x", "w"},
			Missing: []bool{false, false, true, false, false},
		},
		{
			Values:  []string{"", ""},
			Missing: []bool{true, true},
		},
	}
	require.NoError(t, imp.Fit(train))
	assert.Equal(t, []string{"b", "w", ""}, imp.Statistics)

	out, err := imp.Transform(train)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "b", "b"}, out[0])
	assert.Equal(t, []string{"x", "w", "w", "x", "w"}, out[1])
	assert.Equal(t, []string{"", ""}, out[2])
}

func TestMostFrequentImputerNotFitted(t *testing.T) {
	imp := &MostFrequentImputer{}
	_, err := imp.Transform([]TextColumn{{Values: []string{"a"}}})
	assert.ErrorIs(t, err, ErrNotFitted)
}
