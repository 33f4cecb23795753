package domain

import (
	"fmt"
	"regexp"
)

// tapRefPattern restricts tap names and versions to characters valid in a
// docker image reference and inert in a shell command.
var tapRefPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateTapRef reports ErrInvalidInput unless name and version are both
// non-empty and made of letters, digits, '.', '_' and '-'.
func ValidateTapRef(name, version string) error {
	if name == "" || version == "" {
		return fmt.Errorf("%w: tap name and version are required", ErrInvalidInput)
	}
	if !tapRefPattern.MatchString(name) {
		return fmt.Errorf("%w: tap name %q may only contain letters, digits, '.', '_' and '-'", ErrInvalidInput, name)
	}
	if !tapRefPattern.MatchString(version) {
		return fmt.Errorf("%w: tap version %q may only contain letters, digits, '.', '_' and '-'", ErrInvalidInput, version)
	}
	return nil
}

// TapConfigField describes a configuration field a tap requires.
type TapConfigField struct {
	// Key is the configuration key name.
	Key string `json:"key"`
	// Label is the human-readable label for prompts.
	Label string `json:"label"`
	// Required indicates whether this field must be provided.
	Required bool `json:"required"`
}

// IsSecret reports whether the field value should be masked when prompted.
func (f TapConfigField) IsSecret() bool {
	switch f.Key {
	case "password", "client_secret", "oauth_client_secret", "refresh_token",
		"access_token", "app_secret", "developer_token":
		return true
	default:
		return false
	}
}

// TapDefinition describes a tap available in the registry.
type TapDefinition struct {
	// Name is the tap identifier used in knot.json.
	Name string
	// Description provides a brief explanation of the tap.
	Description string
	// DefaultVersion is the version suggested when none is given.
	DefaultVersion string
	// Fields lists the configuration fields in prompt order.
	Fields []TapConfigField
}

// DefaultTapConfigFields returns the field set shared by database taps.
func DefaultTapConfigFields() []TapConfigField {
	return []TapConfigField{
		{Key: "host", Label: "Hostname", Required: true},
		{Key: "user", Label: "User name", Required: true},
		{Key: "password", Label: "Password", Required: true},
		{Key: "dbname", Label: "Database", Required: true},
		{Key: "port", Label: "Port", Required: true},
		{Key: "schema", Label: "Schema", Required: false},
	}
}

// MissingRequired returns the keys of required fields absent or empty in values.
func MissingRequired(fields []TapConfigField, values map[string]string) []string {
	var missing []string
	for _, f := range fields {
		if !f.Required {
			continue
		}
		if v, ok := values[f.Key]; !ok || v == "" {
			missing = append(missing, f.Key)
		}
	}
	return missing
}
