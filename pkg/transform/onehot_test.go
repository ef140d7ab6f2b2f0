package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestOneHotEncoder(t *testing.T) {
	enc := NewOneHotEncoder([]string{"gender", "race"}, UnknownIgnore)

	train := [][]string{
		{"male", "female", "male"},
		{"group C", "group A", "group B"},
	}
	require.NoError(t, enc.Fit(train))

	assert.Equal(t, [][]string{{"female", "male"}, {"group A", "group B", "group C"}}, enc.Categories)
	assert.Equal(t, 5, enc.Width())
	assert.Equal(t, []string{
		"gender_female", "gender_male",
		"race_group A", "race_group B", "race_group C",
	}, enc.FeatureNames())

	out, err := enc.Transform(train)
	require.NoError(t, err)
	want := mat.NewDense(3, 5, []float64{
		0, 1, 0, 0, 1,
		1, 0, 1, 0, 0,
		0, 1, 0, 1, 0,
	})
	assert.True(t, mat.Equal(want, out))
}

func TestOneHotEncoderUnknownCategory(t *testing.T) {
	train := [][]string{{"a", "b"}}
	test := [][]string{{"b", "z"}}

	t.Run("ignore", func(t *testing.T) {
		enc := NewOneHotEncoder([]string{"letter"}, UnknownIgnore)
		require.NoError(t, enc.Fit(train))

		out, err := enc.Transform(test)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 1}, mat.Row(nil, 0, out))
		assert.Equal(t, []float64{0, 0}, mat.Row(nil, 1, out), "unseen value encodes as all zeros")
	})

	t.Run("error", func(t *testing.T) {
		enc := NewOneHotEncoder([]string{"letter"}, UnknownError)
		require.NoError(t, enc.Fit(train))

		_, err := enc.Transform(test)
		assert.ErrorIs(t, err, ErrUnknownCategory)
		assert.ErrorContains(t, err, `"z"`)
	})
}

func TestOneHotEncoderErrors(t *testing.T) {
	enc := NewOneHotEncoder([]string{"a"}, UnknownIgnore)

	_, err := enc.Transform([][]string{{"x"}})
	assert.ErrorIs(t, err, ErrNotFitted)

	assert.ErrorIs(t, enc.Fit([][]string{{"x"}, {"y"}}), ErrColumnMismatch)

	require.NoError(t, enc.Fit([][]string{{"x"}}))
	_, err = enc.Transform([][]string{{}})
	assert.ErrorIs(t, err, ErrEmptyTable)
}

func TestParseUnknownPolicy(t *testing.T) {
	p, err := ParseUnknownPolicy("")
	require.NoError(t, err)
	assert.Equal(t, UnknownIgnore, p)

	p, err = ParseUnknownPolicy("error")
	require.NoError(t, err)
	assert.Equal(t, UnknownError, p)

	_, err = ParseUnknownPolicy("infrequent")
	assert.Error(t, err)
}
