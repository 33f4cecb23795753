package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Attribute paths within the knot descriptor.
var (
	// AttrTapConfig is the path of the tap configuration (fields, then values).
	AttrTapConfig = []string{"tap", "config"}

	// AttrTapSchema is the path of the discovered schema catalog.
	AttrTapSchema = []string{"tap", "schema"}
)

// Knot is the persisted descriptor of a configured tap instance.
// At most one knot exists per working directory.
type Knot struct {
	Tap Tap `json:"tap"`
}

// Tap identifies the connector a knot wraps and carries its configuration.
type Tap struct {
	// Name is the tap identifier (e.g., "postgres").
	Name string `json:"name"`

	// Version is the tap version (e.g., "1.0").
	Version string `json:"version"`

	// Config holds the config field list after registration and the
	// submitted key/value map after configuration.
	Config json.RawMessage `json:"config,omitempty"`

	// Schema is the catalog produced by discovery, if persisted.
	Schema Catalog `json:"schema,omitempty"`
}

// NewKnot creates a knot for the given tap with no configuration.
func NewKnot(tapName, tapVersion string) Knot {
	return Knot{Tap: Tap{Name: tapName, Version: tapVersion}}
}

// State derives the lifecycle state from the descriptor content.
func (k *Knot) State() KnotState {
	if k == nil {
		return KnotStateUnregistered
	}
	if len(k.Tap.Schema) > 0 && !k.Tap.Schema.IsNull() {
		return KnotStateDiscovered
	}
	switch firstByte(k.Tap.Config) {
	case '{':
		return KnotStateConfigured
	default:
		return KnotStateRegistered
	}
}

// ConfigFields decodes tap.config as a config field list.
// Returns ErrInvalidInput if config holds something else.
func (t *Tap) ConfigFields() ([]TapConfigField, error) {
	if firstByte(t.Config) != '[' {
		return nil, fmt.Errorf("%w: tap.config is not a field list", ErrInvalidInput)
	}
	var fields []TapConfigField
	if err := json.Unmarshal(t.Config, &fields); err != nil {
		return nil, fmt.Errorf("%w: decoding tap.config fields: %w", ErrParse, err)
	}
	return fields, nil
}

// ConfigValues decodes tap.config as a key/value map.
// Returns ErrInvalidInput if config holds something else.
func (t *Tap) ConfigValues() (map[string]string, error) {
	if firstByte(t.Config) != '{' {
		return nil, fmt.Errorf("%w: tap.config is not a value map", ErrInvalidInput)
	}
	var values map[string]string
	if err := json.Unmarshal(t.Config, &values); err != nil {
		return nil, fmt.Errorf("%w: decoding tap.config values: %w", ErrParse, err)
	}
	return values, nil
}

func firstByte(raw []byte) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

// KnotState is the lifecycle state of a knot.
// Transitions only move forward; reset means deleting knot.json.
type KnotState string

const (
	// KnotStateUnregistered means no descriptor exists.
	KnotStateUnregistered KnotState = "unregistered"
	// KnotStateRegistered means a tap was registered and config is pending.
	KnotStateRegistered KnotState = "registered"
	// KnotStateConfigured means config values were merged.
	KnotStateConfigured KnotState = "configured"
	// KnotStateDiscovered means a schema is available.
	KnotStateDiscovered KnotState = "discovered"
)

// String returns the string representation.
func (s KnotState) String() string {
	return string(s)
}

// Description returns a human-readable description of the state.
func (s KnotState) Description() string {
	switch s {
	case KnotStateUnregistered:
		return "No tap registered"
	case KnotStateRegistered:
		return "Tap registered, configuration pending"
	case KnotStateConfigured:
		return "Configuration submitted"
	case KnotStateDiscovered:
		return "Schema discovered"
	default:
		return "Unknown"
	}
}

// KnotStatus reports the state of the knot in a working directory.
type KnotStatus struct {
	// State is the derived lifecycle state.
	State KnotState

	// Knot is the descriptor, nil when unregistered.
	Knot *Knot

	// Path is the descriptor file location.
	Path string
}
