package driving

import (
	"context"

	"github.com/datamill-co/knots/internal/core/domain"
)

// PipelineService runs the knot configuration and discovery workflows.
// Only one workflow runs at a time; concurrent calls fail with
// domain.ErrWorkflowInProgress.
type PipelineService interface {
	// RegisterTap creates a new knot for the tap, merges the tap's config
	// fields into tap.config and returns them.
	RegisterTap(ctx context.Context, tapName, tapVersion string) ([]domain.TapConfigField, error)

	// SubmitConfig merges values into tap.config, runs discovery against
	// them and returns the resulting catalog.
	SubmitConfig(ctx context.Context, values map[string]string) (domain.Catalog, error)

	// ValidateConfig reports missing required values for a tap.
	// Returns an error wrapping domain.ErrInvalidInput listing missing keys.
	ValidateConfig(ctx context.Context, tapName string, values map[string]string) error

	// Status reports the knot state of the working directory.
	Status(ctx context.Context) (*domain.KnotStatus, error)

	// WatchStatus emits the current status, then a new one every time the
	// descriptor changes. The channel closes when ctx is cancelled.
	WatchStatus(ctx context.Context) (<-chan domain.KnotStatus, error)
}

// TapRegistry provides information about available taps.
type TapRegistry interface {
	// List returns all registered taps sorted by name.
	List() []domain.TapDefinition

	// Get returns the definition for a tap.
	// Returns domain.ErrNotFound for taps without a dedicated entry.
	Get(tapName string) (*domain.TapDefinition, error)

	// FieldsFor returns the ordered config fields for a tap, falling back
	// to the default field set for unknown taps.
	FieldsFor(tapName string) ([]domain.TapConfigField, error)
}
