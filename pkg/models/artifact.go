package models

import (
	"fmt"
	"time"
)

// ArtifactStatus represents the outcome of the run that produced an artifact
type ArtifactStatus string

const (
	ArtifactStatusSucceeded ArtifactStatus = "succeeded" // Transform fitted and persisted
	ArtifactStatusFailed    ArtifactStatus = "failed"    // Run aborted, artifact may be missing or stale
)

// TransformArtifact records one fitted column transform written to disk
type TransformArtifact struct {
	ID                  string         `json:"id"`
	Path                string         `json:"path"`
	TargetColumn        string         `json:"target_column"`
	TrainSource         string         `json:"train_source"`
	TestSource          string         `json:"test_source"`
	NumericFeatures     []string       `json:"numeric_features"`
	CategoricalFeatures []string       `json:"categorical_features"`
	FeatureNames        []string       `json:"feature_names,omitempty"` // Output columns after encoding
	TrainRows           int            `json:"train_rows"`
	TestRows            int            `json:"test_rows"`
	Compressed          bool           `json:"compressed"`
	Status              ArtifactStatus `json:"status"`
	Error               string         `json:"error,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
}

// Validate checks if the TransformArtifact can be stored
func (a *TransformArtifact) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("id is required")
	}
	if a.Path == "" {
		return fmt.Errorf("path is required")
	}
	switch a.Status {
	case ArtifactStatusSucceeded, ArtifactStatusFailed:
	default:
		return fmt.Errorf("invalid artifact status: %s", a.Status)
	}
	if a.Status == ArtifactStatusFailed && a.Error == "" {
		return fmt.Errorf("failed artifact must carry an error")
	}
	return nil
}

// NumFeatures returns the width of the feature matrix the artifact produces
func (a *TransformArtifact) NumFeatures() int {
	return len(a.FeatureNames)
}

// TrainingData holds preprocessed features and targets ready for a trainer
type TrainingData struct {
	TrainFeatures [][]float64            // Training features (rows x features)
	TrainLabels   []float64              // Training labels/targets
	TestFeatures  [][]float64            // Test features
	TestLabels    []float64              // Test labels/targets
	FeatureNames  []string               // Names of features
	Metadata      map[string]interface{} // Additional metadata
}
