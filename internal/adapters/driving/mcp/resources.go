package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for knots resources.
	uriScheme = "knots://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "knot",
		Name:        "knot",
		Description: "The knot descriptor of the working directory",
		MIMEType:    "application/json",
	}, s.handleKnotResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "taps",
		Name:        "taps",
		Description: "Known taps and their config fields",
		MIMEType:    "application/json",
	}, s.handleTapsResource)
}

// handleKnotResource returns knot.json as stored.
func (s *Server) handleKnotResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	status, err := s.ports.Pipeline.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading knot: %w", err)
	}
	if status.Knot == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	data, err := json.MarshalIndent(status.Knot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling knot: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleTapsResource returns the tap registry.
func (s *Server) handleTapsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	_, output, err := s.handleListTaps(ctx, nil, ListTapsInput{})
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(output.Taps)
	if err != nil {
		return nil, fmt.Errorf("marshaling taps: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
