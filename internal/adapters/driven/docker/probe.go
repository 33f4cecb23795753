// Package docker checks for a local docker installation.
package docker

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/datamill-co/knots/internal/core/domain"
	"github.com/datamill-co/knots/internal/core/ports/driven"
)

// Ensure Probe implements the interface.
var _ driven.DockerProbe = (*Probe)(nil)

// Probe runs "<binary> -v" and reports the version line.
type Probe struct {
	binary string
}

// NewProbe creates a probe. An empty binary defaults to "docker".
func NewProbe(binary string) *Probe {
	if binary == "" {
		binary = "docker"
	}
	return &Probe{binary: binary}
}

// Version returns the trimmed output of "<binary> -v".
func (p *Probe) Version(ctx context.Context) (string, error) {
	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, p.binary, "-v")
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrDockerUnavailable, err)
	}

	version := strings.TrimSpace(stdout.String())
	if version == "" {
		return "", fmt.Errorf("%w: %s -v printed nothing", domain.ErrDockerUnavailable, p.binary)
	}
	return version, nil
}
