package mcp

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/datamill-co/knots/internal/core/domain"
)

// ListTapsInput is the input schema for the list_taps tool.
type ListTapsInput struct{}

// ListTapsOutput is the output schema for the list_taps tool.
type ListTapsOutput struct {
	Taps []TapOutput `json:"taps"`
}

// TapOutput describes a registry entry.
type TapOutput struct {
	Name           string        `json:"name"`
	Description    string        `json:"description,omitempty"`
	DefaultVersion string        `json:"default_version,omitempty"`
	Fields         []FieldOutput `json:"fields"`
}

// FieldOutput is a single config field.
type FieldOutput struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

// RegisterTapInput is the input schema for the register_tap tool.
type RegisterTapInput struct {
	Tap     string `json:"tap" jsonschema:"tap name, e.g. postgres"`
	Version string `json:"version" jsonschema:"tap image version, e.g. 1.0"`
}

// RegisterTapOutput is the output schema for the register_tap tool.
type RegisterTapOutput struct {
	Fields []FieldOutput `json:"fields"`
}

// SubmitConfigInput is the input schema for the submit_config tool.
type SubmitConfigInput struct {
	Values map[string]string `json:"values" jsonschema:"config values keyed by field key"`
}

// SubmitConfigOutput is the output schema for the submit_config tool.
type SubmitConfigOutput struct {
	StreamCount int             `json:"stream_count"`
	Catalog     json.RawMessage `json:"catalog"`
}

// KnotStatusInput is the input schema for the knot_status tool.
type KnotStatusInput struct{}

// KnotStatusOutput is the output schema for the knot_status tool.
type KnotStatusOutput struct {
	State       string `json:"state"`
	Description string `json:"description"`
	Path        string `json:"path"`
	Tap         string `json:"tap,omitempty"`
	Version     string `json:"version,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_taps",
		Description: "List the known taps and the config fields each expects",
	}, s.handleListTaps)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "register_tap",
		Description: "Create a knot for a tap in the working directory and return its config fields",
	}, s.handleRegisterTap)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "submit_config",
		Description: "Submit config values for the registered tap and run discovery",
	}, s.handleSubmitConfig)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "knot_status",
		Description: "Report the state of the knot in the working directory",
	}, s.handleKnotStatus)
}

func (s *Server) handleListTaps(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListTapsInput,
) (*mcp.CallToolResult, ListTapsOutput, error) {
	output := ListTapsOutput{Taps: []TapOutput{}}
	if s.ports.Taps == nil {
		return nil, output, nil
	}

	for _, def := range s.ports.Taps.List() {
		output.Taps = append(output.Taps, TapOutput{
			Name:           def.Name,
			Description:    def.Description,
			DefaultVersion: def.DefaultVersion,
			Fields:         toFieldOutputs(def.Fields),
		})
	}
	return nil, output, nil
}

func (s *Server) handleRegisterTap(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RegisterTapInput,
) (*mcp.CallToolResult, RegisterTapOutput, error) {
	fields, err := s.ports.Pipeline.RegisterTap(ctx, input.Tap, input.Version)
	if err != nil {
		return nil, RegisterTapOutput{}, err
	}
	return nil, RegisterTapOutput{Fields: toFieldOutputs(fields)}, nil
}

func (s *Server) handleSubmitConfig(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SubmitConfigInput,
) (*mcp.CallToolResult, SubmitConfigOutput, error) {
	catalog, err := s.ports.Pipeline.SubmitConfig(ctx, input.Values)
	if err != nil {
		return nil, SubmitConfigOutput{}, err
	}

	output := SubmitConfigOutput{
		StreamCount: catalog.StreamCount(),
		Catalog:     json.RawMessage(catalog),
	}
	if catalog.IsNull() {
		output.Catalog = json.RawMessage("null")
	}
	return nil, output, nil
}

func (s *Server) handleKnotStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ KnotStatusInput,
) (*mcp.CallToolResult, KnotStatusOutput, error) {
	status, err := s.ports.Pipeline.Status(ctx)
	if err != nil {
		return nil, KnotStatusOutput{}, err
	}

	output := KnotStatusOutput{
		State:       status.State.String(),
		Description: status.State.Description(),
		Path:        status.Path,
	}
	if status.Knot != nil {
		output.Tap = status.Knot.Tap.Name
		output.Version = status.Knot.Tap.Version
	}
	return nil, output, nil
}

func toFieldOutputs(fields []domain.TapConfigField) []FieldOutput {
	out := make([]FieldOutput, len(fields))
	for i, f := range fields {
		out[i] = FieldOutput{Key: f.Key, Label: f.Label, Required: f.Required}
	}
	return out
}
