// Package mcp provides an MCP (Model Context Protocol) server adapter for knots.
// It lets AI assistants register taps, submit their config and inspect the
// knot of the working directory.
package mcp

import "errors"

// ErrMissingPipelineService is returned when the pipeline service is not provided.
var ErrMissingPipelineService = errors.New("mcp: pipeline service is required")
