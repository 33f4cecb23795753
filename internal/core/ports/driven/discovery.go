package driven

import (
	"context"

	"github.com/datamill-co/knots/internal/core/domain"
)

// ConfigStager materializes configuration values for the discovery subprocess.
type ConfigStager interface {
	// Stage writes values as the configuration artifact and moves it into
	// the staging directory, clearing whatever was staged before.
	// Returns domain.ErrIO on any file system failure.
	Stage(ctx context.Context, values map[string]string) error

	// StageDir returns the directory the discovery subprocess reads from.
	StageDir() string

	// ConfigPath returns the staged configuration artifact path.
	ConfigPath() string
}

// DiscoveryRequest identifies what to discover and with which values.
type DiscoveryRequest struct {
	TapName    string
	TapVersion string
	Values     map[string]string
}

// DiscoveryRunner stages configuration and runs the external discovery command.
type DiscoveryRunner interface {
	// Run blocks until the subprocess exits, ctx is done, or the runner's
	// timeout elapses. Any stderr output is a failure.
	Run(ctx context.Context, req DiscoveryRequest) error
}

// SchemaReader loads the catalog produced by the discovery subprocess.
type SchemaReader interface {
	// Read returns domain.ErrNotFound if no catalog was produced,
	// domain.ErrParse if it is malformed.
	Read(ctx context.Context) (domain.Catalog, error)

	// Path returns the catalog file location.
	Path() string
}
