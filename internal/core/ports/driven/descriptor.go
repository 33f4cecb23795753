package driven

import (
	"context"

	"github.com/datamill-co/knots/internal/core/domain"
)

// DescriptorStore persists the knot descriptor of one working directory.
type DescriptorStore interface {
	// Load reads and parses the descriptor.
	// Returns domain.ErrNotFound if absent, domain.ErrParse if malformed.
	Load(ctx context.Context) (*domain.Knot, error)

	// Save replaces the descriptor as a whole.
	Save(ctx context.Context, knot domain.Knot) error

	// MergeAttribute sets value at path in the stored descriptor, creating
	// intermediate objects as needed. The load-set-save cycle is atomic with
	// respect to other calls on the same store.
	MergeAttribute(ctx context.Context, path []string, value any) error

	// Path returns the descriptor file location.
	Path() string
}

// DescriptorWatcher reports changes to the descriptor file.
type DescriptorWatcher interface {
	// Watch emits a value every time the descriptor is written or removed.
	// The channel closes when ctx is cancelled.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
