package driving

import (
	"context"

	"github.com/datamill-co/knots/internal/core/domain"
)

// EnvironmentService exposes the collaborators around the pipeline.
type EnvironmentService interface {
	// DockerVersion returns the installed docker version string.
	DockerVersion(ctx context.Context) (string, error)

	// ListKnots returns the names of registered knots.
	ListKnots(ctx context.Context) ([]string, error)

	// Runs returns recent discovery runs, newest first.
	Runs(ctx context.Context, limit int) ([]domain.DiscoveryRun, error)
}

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current settings, filling defaults for unset keys.
	Get() (*domain.AppSettings, error)

	// Set stores a single setting by key after validating it.
	Set(key, value string) error

	// Keys returns the recognised setting keys.
	Keys() []string
}
