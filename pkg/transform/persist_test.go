package transform

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func fittedTransform(t *testing.T, policy UnknownPolicy) *ColumnTransformer {
	t.Helper()
	train, _ := scoreTables()
	ct, err := NewColumnTransformer([]string{"reading score"}, []string{"gender", "race"}, Options{HandleUnknown: policy})
	require.NoError(t, err)
	require.NoError(t, ct.Fit(train))
	return ct
}

func TestSaveLoad(t *testing.T) {
	_, test := scoreTables()

	for _, compress := range []bool{false, true} {
		name := "plain"
		if compress {
			name = "xz"
		}
		t.Run(name, func(t *testing.T) {
			ct := fittedTransform(t, UnknownIgnore)
			path := filepath.Join(t.TempDir(), "processed", "processed.gob")

			require.NoError(t, Save(path, ct, SaveOptions{Compress: compress}))

			raw, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, compress, bytes.HasPrefix(raw, xzMagic))

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, ct.FeatureNames(), loaded.FeatureNames())
			assert.Equal(t, UnknownIgnore, loaded.Categorical.Encoder.HandleUnknown)

			want, err := ct.Transform(test)
			require.NoError(t, err)
			got, err := loaded.Transform(test)
			require.NoError(t, err)
			assert.True(t, mat.Equal(want, got))
		})
	}
}

func TestSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed.gob")

	require.NoError(t, Save(path, fittedTransform(t, UnknownIgnore), SaveOptions{}))
	require.NoError(t, Save(path, fittedTransform(t, UnknownError), SaveOptions{Compress: true}))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, UnknownError, loaded.Categorical.Encoder.HandleUnknown)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestSaveUnfitted(t *testing.T) {
	ct, err := NewColumnTransformer([]string{"a"}, nil, Options{})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "processed.gob")
	err = Save(path, ct, SaveOptions{})
	assert.ErrorIs(t, err, ErrNotFitted)
	assert.NoFileExists(t, path)
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("not an artifact")))
	assert.ErrorIs(t, err, ErrBadArtifact)

	_, err = Load(filepath.Join(t.TempDir(), "missing.gob"))
	assert.Error(t, err)
}

func TestSaveIsWorldReadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed.gob")
	require.NoError(t, Save(path, fittedTransform(t, UnknownIgnore), SaveOptions{}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}
