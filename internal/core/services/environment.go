package services

import (
	"context"

	"github.com/datamill-co/knots/internal/core/domain"
	"github.com/datamill-co/knots/internal/core/ports/driven"
	"github.com/datamill-co/knots/internal/core/ports/driving"
)

// Ensure EnvironmentService implements the interface.
var _ driving.EnvironmentService = (*EnvironmentService)(nil)

// EnvironmentService answers questions about the host and the workspace
// that sit outside the pipeline itself.
type EnvironmentService struct {
	docker driven.DockerProbe
	knots  driven.KnotLister
	runs   driven.RunStore
}

// NewEnvironmentService creates a new environment service.
// Any collaborator may be nil; the matching method then reports ErrNotImplemented.
func NewEnvironmentService(docker driven.DockerProbe, knots driven.KnotLister, runs driven.RunStore) *EnvironmentService {
	return &EnvironmentService{
		docker: docker,
		knots:  knots,
		runs:   runs,
	}
}

// DockerVersion returns the installed docker version string.
func (s *EnvironmentService) DockerVersion(ctx context.Context) (string, error) {
	if s.docker == nil {
		return "", domain.ErrNotImplemented
	}
	return s.docker.Version(ctx)
}

// ListKnots returns the names of registered knots.
func (s *EnvironmentService) ListKnots(ctx context.Context) ([]string, error) {
	if s.knots == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.knots.List(ctx)
}

// Runs returns recent discovery runs, newest first.
func (s *EnvironmentService) Runs(ctx context.Context, limit int) ([]domain.DiscoveryRun, error) {
	if s.runs == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.runs.List(ctx, limit)
}
