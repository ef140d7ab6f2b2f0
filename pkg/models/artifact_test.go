package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTransformArtifactValidate(t *testing.T) {
	valid := func() *TransformArtifact {
		return &TransformArtifact{
			ID:        "a1",
			Path:      "data/processed/processed.gob",
			Status:    ArtifactStatusSucceeded,
			CreatedAt: time.Now().UTC(),
		}
	}

	tests := []struct {
		name    string
		mutate  func(*TransformArtifact)
		wantErr string
	}{
		{name: "valid", mutate: func(a *TransformArtifact) {}},
		{name: "missing id", mutate: func(a *TransformArtifact) { a.ID = "" }, wantErr: "id is required"},
		{name: "missing path", mutate: func(a *TransformArtifact) { a.Path = "" }, wantErr: "path is required"},
		{name: "bad status", mutate: func(a *TransformArtifact) { a.Status = "pending" }, wantErr: "invalid artifact status"},
		{
			name: "failed without error",
			mutate: func(a *TransformArtifact) {
				a.Status = ArtifactStatusFailed
			},
			wantErr: "must carry an error",
		},
		{
			name: "failed with error",
			mutate: func(a *TransformArtifact) {
				a.Status = ArtifactStatusFailed
				a.Error = "load train: no such file"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := valid()
			tt.mutate(a)
			err := a.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestTransformArtifactNumFeatures(t *testing.T) {
	a := &TransformArtifact{FeatureNames: []string{"reading score", "gender_female", "gender_male"}}
	assert.Equal(t, 3, a.NumFeatures())
}
