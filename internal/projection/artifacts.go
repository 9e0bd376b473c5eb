package projection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/teamdesk/platform/internal/domain"
)

// Artifact is the latest generated report of a kind and subject.
type Artifact struct {
	Kind        string    `json:"kind"`
	Subject     string    `json:"subject"`
	Path        string    `json:"path"`
	GeneratedAt time.Time `json:"generated_at"`
}

func artifactKey(kind, subject string) string {
	if subject == "" {
		return fmt.Sprintf("projection:report:%s", kind)
	}
	return fmt.Sprintf("projection:report:%s:%s", kind, subject)
}

// RecordArtifact stores a as the latest artifact of its kind and subject.
func RecordArtifact(ctx context.Context, store Store, a Artifact) error {
	if err := SetJSON(ctx, store, artifactKey(a.Kind, a.Subject), a, 0); err != nil {
		return fmt.Errorf("record artifact: %w", err)
	}
	return nil
}

// LatestArtifact returns the most recent artifact recorded for kind and
// subject.
func LatestArtifact(ctx context.Context, store Store, kind, subject string) (*Artifact, error) {
	var a Artifact
	if err := GetJSON(ctx, store, artifactKey(kind, subject), &a); err != nil {
		if errors.Is(err, ErrMissing) {
			return nil, domain.ErrNotFound("report", artifactKey(kind, subject))
		}
		return nil, fmt.Errorf("get artifact: %w", err)
	}
	return &a, nil
}
