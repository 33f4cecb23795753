package mcp

import (
	"github.com/datamill-co/knots/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces used by the MCP server.
type Ports struct {
	// Pipeline runs the registration and discovery workflows.
	Pipeline driving.PipelineService

	// Taps lists the known taps. Optional.
	Taps driving.TapRegistry
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Pipeline == nil {
		return ErrMissingPipelineService
	}
	return nil
}
