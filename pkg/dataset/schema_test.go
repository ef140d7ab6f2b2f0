package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferSchema(t *testing.T) {
	frame, err := Read(strings.NewReader(scoresCSV))
	require.NoError(t, err)

	schema, err := InferSchema(frame, "math score")
	require.NoError(t, err)

	assert.Equal(t, "math score", schema.Target)
	assert.Equal(t, []string{"reading score"}, schema.Numeric)
	assert.Equal(t, []string{"gender", "race"}, schema.Categorical)
	assert.Equal(t, []string{"reading score", "gender", "race"}, schema.Features())
}

func TestInferSchemaErrors(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		target  string
		wantErr error
	}{
		{
			name:    "missing target",
			csv:     "a,b\n1,x\n",
			target:  "math score",
			wantErr: ErrColumnNotFound,
		},
		{
			name:    "categorical target",
			csv:     "math score,b\nhigh,1\n",
			target:  "math score",
			wantErr: ErrNotNumeric,
		},
		{
			name:    "target only",
			csv:     "math score\n1\n2\n",
			target:  "math score",
			wantErr: ErrNoFeatures,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := Read(strings.NewReader(tt.csv))
			require.NoError(t, err)

			_, err = InferSchema(frame, tt.target)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestInferSchemaBooleanIsNumeric(t *testing.T) {
	frame, err := Read(strings.NewReader("passed,math score\ntrue,70\nfalse,40\n"))
	require.NoError(t, err)

	schema, err := InferSchema(frame, "math score")
	require.NoError(t, err)
	assert.Equal(t, []string{"passed"}, schema.Numeric)
	assert.Empty(t, schema.Categorical)
}
