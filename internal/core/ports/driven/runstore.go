package driven

import (
	"context"

	"github.com/datamill-co/knots/internal/core/domain"
)

// RunStore persists discovery run history.
type RunStore interface {
	// Save stores or updates a run.
	Save(ctx context.Context, run domain.DiscoveryRun) error

	// Get retrieves a run by ID.
	Get(ctx context.Context, id string) (*domain.DiscoveryRun, error)

	// List returns the most recent runs first, at most limit entries.
	// A limit <= 0 returns all runs.
	List(ctx context.Context, limit int) ([]domain.DiscoveryRun, error)
}
