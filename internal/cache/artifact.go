// Package cache implements the three cache tiers behind the heatmap service:
// the persisted overall summary, the persisted overall payload, and the
// in-memory bounded query cache.
//
// None of the tiers is invalidated when the underlying ticket data changes.
// Persisted artifacts stay authoritative until they are deleted by hand and
// the process restarts.
package cache

import (
	"context"
	"errors"
)

// Artifact names shared by every ArtifactStore implementation.
const (
	DumpArtifact    = "heatmap_overall.json"
	SummaryArtifact = "heatmap_overall_summary.json"
	PayloadArtifact = "heatmap_overall_payload.json"
)

// ErrArtifactNotFound is returned by ArtifactStore.Load when nothing is stored under a name.
var ErrArtifactNotFound = errors.New("artifact not found")

// ArtifactStore persists opaque cache artifacts by name.
type ArtifactStore interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
}
