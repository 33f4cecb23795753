package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/datamill-co/knots/internal/core/domain"
	"github.com/datamill-co/knots/internal/core/ports/driven"
	"github.com/datamill-co/knots/internal/logger"
)

// Ensure Stager implements the interface.
var _ driven.ConfigStager = (*Stager)(nil)

// Stager writes the configuration artifact and moves it into the staging directory.
type Stager struct {
	layout Layout
}

// NewStager creates a stager for the layout.
func NewStager(layout Layout) *Stager {
	return &Stager{layout: layout}
}

// StageDir returns the staging directory.
func (s *Stager) StageDir() string {
	return s.layout.StageDir()
}

// ConfigPath returns the staged artifact path.
func (s *Stager) ConfigPath() string {
	return s.layout.ConfigPath()
}

// Stage replaces the staging directory with one holding only the new artifact.
func (s *Stager) Stage(ctx context.Context, values map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if values == nil {
		values = map[string]string{}
	}

	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("%w: encoding config: %w", domain.ErrIO, err)
	}

	scratch := s.layout.ScratchConfigPath()
	if err := os.WriteFile(scratch, data, 0600); err != nil {
		return fmt.Errorf("%w: writing %s: %w", domain.ErrIO, scratch, err)
	}

	if err := s.moveIntoStage(scratch); err != nil {
		// The scratch file holds credentials; never leave it behind.
		if rmErr := os.Remove(scratch); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			logger.Warn("Removing %s: %v", scratch, rmErr)
		}
		return err
	}

	logger.Debug("Staged %d config values at %s", len(values), s.layout.ConfigPath())
	return nil
}

// moveIntoStage recreates the staging directory and moves scratch into it.
func (s *Stager) moveIntoStage(scratch string) error {
	stageDir := s.layout.StageDir()
	if err := os.RemoveAll(stageDir); err != nil {
		return fmt.Errorf("%w: clearing %s: %w", domain.ErrIO, stageDir, err)
	}
	if err := os.MkdirAll(stageDir, 0755); err != nil {
		return fmt.Errorf("%w: creating %s: %w", domain.ErrIO, stageDir, err)
	}
	if err := os.Rename(scratch, s.layout.ConfigPath()); err != nil {
		return fmt.Errorf("%w: moving config into %s: %w", domain.ErrIO, stageDir, err)
	}
	return nil
}
