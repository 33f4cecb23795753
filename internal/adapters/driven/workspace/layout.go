package workspace

import (
	"fmt"
	"path/filepath"

	"github.com/datamill-co/knots/internal/core/domain"
)

// File and directory names within the working directory.
const (
	ConfigFileName  = "config.json"
	CatalogFileName = "catalog.json"
	KnotsDirName    = "knots"
)

// Layout resolves the absolute paths used by the pipeline.
type Layout struct {
	workDir  string
	knotsDir string
}

// NewLayout creates a layout rooted at workDir.
// An empty knotsDir defaults to <workDir>/knots.
func NewLayout(workDir, knotsDir string) (Layout, error) {
	if workDir == "" {
		workDir = "."
	}
	absWork, err := filepath.Abs(workDir)
	if err != nil {
		return Layout{}, fmt.Errorf("%w: resolving working directory: %w", domain.ErrIO, err)
	}

	if knotsDir == "" {
		knotsDir = filepath.Join(absWork, KnotsDirName)
	}
	absKnots, err := filepath.Abs(knotsDir)
	if err != nil {
		return Layout{}, fmt.Errorf("%w: resolving knots directory: %w", domain.ErrIO, err)
	}

	return Layout{workDir: absWork, knotsDir: absKnots}, nil
}

// WorkDir returns the working directory.
func (l Layout) WorkDir() string {
	return l.workDir
}

// KnotsDir returns the directory of registered knots.
func (l Layout) KnotsDir() string {
	return l.knotsDir
}

// ScratchConfigPath is where the artifact is written before staging.
func (l Layout) ScratchConfigPath() string {
	return filepath.Join(l.workDir, ConfigFileName)
}

// StageDir is the directory the discovery subprocess reads from.
func (l Layout) StageDir() string {
	return filepath.Join(l.workDir, "docker", "tap")
}

// ConfigPath is the staged configuration artifact.
func (l Layout) ConfigPath() string {
	return filepath.Join(l.StageDir(), ConfigFileName)
}

// CatalogPath is where discovery writes the catalog.
func (l Layout) CatalogPath() string {
	return filepath.Join(l.StageDir(), CatalogFileName)
}
