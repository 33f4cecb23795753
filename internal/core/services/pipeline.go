package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/datamill-co/knots/internal/core/domain"
	"github.com/datamill-co/knots/internal/core/ports/driven"
	"github.com/datamill-co/knots/internal/core/ports/driving"
	"github.com/datamill-co/knots/internal/logger"
)

// Ensure PipelineService implements the interface.
var _ driving.PipelineService = (*PipelineService)(nil)

// PipelineService sequences descriptor, staging, discovery and catalog
// reading into the register and submit workflows.
type PipelineService struct {
	descriptors driven.DescriptorStore
	fields      driven.TapConfigProvider
	runner      driven.DiscoveryRunner
	schemas     driven.SchemaReader

	runs          driven.RunStore
	watcher       driven.DescriptorWatcher
	persistSchema bool
	knotDir       string

	// busy guards the descriptor against interleaved workflows.
	busy sync.Mutex
	now  func() time.Time
}

// NewPipelineService creates a new pipeline service.
func NewPipelineService(
	descriptors driven.DescriptorStore,
	fields driven.TapConfigProvider,
	runner driven.DiscoveryRunner,
	schemas driven.SchemaReader,
) *PipelineService {
	return &PipelineService{
		descriptors: descriptors,
		fields:      fields,
		runner:      runner,
		schemas:     schemas,
		now:         time.Now,
	}
}

// SetRunStore sets the store discovery runs are recorded in.
func (s *PipelineService) SetRunStore(runs driven.RunStore) {
	s.runs = runs
}

// SetWatcher sets the descriptor watcher used by WatchStatus.
func (s *PipelineService) SetWatcher(watcher driven.DescriptorWatcher) {
	s.watcher = watcher
}

// SetPersistSchema controls whether SubmitConfig merges the catalog into tap.schema.
func (s *PipelineService) SetPersistSchema(enabled bool) {
	s.persistSchema = enabled
}

// SetKnotDir sets the working directory recorded with each run.
func (s *PipelineService) SetKnotDir(dir string) {
	s.knotDir = dir
}

// RegisterTap creates a new knot and merges the tap's config fields into it.
func (s *PipelineService) RegisterTap(
	ctx context.Context,
	tapName, tapVersion string,
) ([]domain.TapConfigField, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := domain.ValidateTapRef(tapName, tapVersion); err != nil {
		return nil, err
	}

	release, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	logger.Section("Register Tap")
	logger.Debug("Creating knot for %s@%s at %s", tapName, tapVersion, s.descriptors.Path())

	if err := s.descriptors.Save(ctx, domain.NewKnot(tapName, tapVersion)); err != nil {
		return nil, fmt.Errorf("creating knot: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fields, err := s.fields.FieldsFor(tapName)
	if err != nil {
		return nil, fmt.Errorf("fetching config fields: %w", err)
	}
	logger.Debug("Tap %s exposes %d config fields", tapName, len(fields))

	if err := s.descriptors.MergeAttribute(ctx, domain.AttrTapConfig, fields); err != nil {
		return nil, fmt.Errorf("merging config fields: %w", err)
	}

	return fields, nil
}

// SubmitConfig merges values into the knot, runs discovery and returns the catalog.
func (s *PipelineService) SubmitConfig(ctx context.Context, values map[string]string) (domain.Catalog, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if values == nil {
		values = map[string]string{}
	}

	release, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	logger.Section("Submit Config")

	knot, err := s.descriptors.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading knot: %w", err)
	}
	// knot.json can be edited by hand, so the tap is checked again here.
	if err := domain.ValidateTapRef(knot.Tap.Name, knot.Tap.Version); err != nil {
		return nil, err
	}

	if err := s.descriptors.MergeAttribute(ctx, domain.AttrTapConfig, values); err != nil {
		return nil, fmt.Errorf("merging config values: %w", err)
	}
	logger.Debug("Merged %d config values into %s", len(values), s.descriptors.Path())

	run := domain.DiscoveryRun{
		ID:         uuid.NewString(),
		KnotDir:    s.knotDir,
		TapName:    knot.Tap.Name,
		TapVersion: knot.Tap.Version,
		StartedAt:  s.now(),
	}

	catalog, err := s.discover(ctx, knot.Tap, values)
	if err == nil && s.persistSchema {
		if mergeErr := s.descriptors.MergeAttribute(ctx, domain.AttrTapSchema, json.RawMessage(catalog)); mergeErr != nil {
			err = fmt.Errorf("persisting schema: %w", mergeErr)
		} else {
			logger.Debug("Persisted schema into tap.schema")
		}
	}
	s.record(ctx, run, catalog, err)

	if err != nil {
		return nil, err
	}
	return catalog, nil
}

// discover runs the discovery subprocess and reads back its catalog.
func (s *PipelineService) discover(ctx context.Context, tap domain.Tap, values map[string]string) (domain.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	defer logger.Stage("Discovery for " + tap.Name + "@" + tap.Version)()
	req := driven.DiscoveryRequest{
		TapName:    tap.Name,
		TapVersion: tap.Version,
		Values:     values,
	}
	if err := s.runner.Run(ctx, req); err != nil {
		return nil, fmt.Errorf("running discovery: %w", err)
	}

	catalog, err := s.schemas.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	logger.Debug("Catalog at %s lists %d streams", s.schemas.Path(), catalog.StreamCount())
	return catalog, nil
}

// record stores the run outcome. Store failures are logged, never returned.
func (s *PipelineService) record(ctx context.Context, run domain.DiscoveryRun, catalog domain.Catalog, runErr error) {
	if s.runs == nil {
		return
	}
	run.EndedAt = s.now()
	run.Success = runErr == nil
	if runErr != nil {
		run.Error = runErr.Error()
	} else {
		run.StreamCount = catalog.StreamCount()
	}
	// The workflow context may already be cancelled; the record still matters.
	if err := s.runs.Save(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn("Recording discovery run %s: %v", run.ID, err)
	}
}

// ValidateConfig reports required fields missing from values.
// An empty tapName means the tap of the current knot.
func (s *PipelineService) ValidateConfig(ctx context.Context, tapName string, values map[string]string) error {
	if s.fields == nil {
		return domain.ErrNotImplemented
	}
	if tapName == "" {
		if s.descriptors == nil {
			return domain.ErrNotImplemented
		}
		knot, err := s.descriptors.Load(ctx)
		if err != nil {
			return fmt.Errorf("loading knot: %w", err)
		}
		tapName = knot.Tap.Name
	}

	fields, err := s.fields.FieldsFor(tapName)
	if err != nil {
		return fmt.Errorf("fetching config fields: %w", err)
	}
	if missing := domain.MissingRequired(fields, values); len(missing) > 0 {
		return fmt.Errorf("%w: missing required config keys: %v", domain.ErrInvalidInput, missing)
	}
	return nil
}

// Status reports the knot state of the working directory.
func (s *PipelineService) Status(ctx context.Context) (*domain.KnotStatus, error) {
	if s.descriptors == nil {
		return nil, domain.ErrNotImplemented
	}
	status := &domain.KnotStatus{Path: s.descriptors.Path()}

	knot, err := s.descriptors.Load(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		status.State = domain.KnotStateUnregistered
		return status, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading knot: %w", err)
	}

	status.Knot = knot
	status.State = knot.State()
	return status, nil
}

// WatchStatus emits the status now and after every descriptor change.
// Status errors (e.g. a half-edited knot.json) are logged and skipped.
func (s *PipelineService) WatchStatus(ctx context.Context) (<-chan domain.KnotStatus, error) {
	if s.watcher == nil || s.descriptors == nil {
		return nil, domain.ErrNotImplemented
	}

	changes, err := s.watcher.Watch(ctx)
	if err != nil {
		return nil, fmt.Errorf("watching knot: %w", err)
	}

	out := make(chan domain.KnotStatus)
	go func() {
		defer close(out)

		emit := func() bool {
			status, err := s.Status(ctx)
			if err != nil {
				logger.Warn("Reading knot status: %v", err)
				return true
			}
			select {
			case out <- *status:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok || !emit() {
					return
				}
			}
		}
	}()

	return out, nil
}

func (s *PipelineService) ready() error {
	if s.descriptors == nil || s.fields == nil || s.runner == nil || s.schemas == nil {
		return domain.ErrNotImplemented
	}
	return nil
}

func (s *PipelineService) acquire() (func(), error) {
	if !s.busy.TryLock() {
		return nil, domain.ErrWorkflowInProgress
	}
	return s.busy.Unlock, nil
}
