package metadatastore

import (
	"errors"

	"github.com/Latif-Arib/ML-Project/pkg/models"
)

// ErrNotFound is returned when no artifact matches a lookup
var ErrNotFound = errors.New("artifact not found")

// ArtifactStore is the interface for transform artifact records.
// It stores what was fitted and where it was written, not the artifact bytes.
type ArtifactStore interface {
	SaveArtifact(artifact *models.TransformArtifact) error
	GetArtifact(id string) (*models.TransformArtifact, error)
	ListArtifacts(limit int) ([]*models.TransformArtifact, error)
	LatestArtifact(status models.ArtifactStatus) (*models.TransformArtifact, error)
	Close() error
}
