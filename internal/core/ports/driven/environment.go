package driven

import "context"

// DockerProbe checks whether docker is installed.
type DockerProbe interface {
	// Version returns the docker version string.
	// Returns domain.ErrDockerUnavailable if docker cannot be run.
	Version(ctx context.Context) (string, error)
}

// KnotLister lists the knots registered in the knots directory.
type KnotLister interface {
	// List returns the entry names of the knots directory.
	// Returns domain.ErrNotFound if the directory does not exist.
	List(ctx context.Context) ([]string, error)
}
