package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultTapConfigFields(t *testing.T) {
	fields := DefaultTapConfigFields()

	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.Key
		assert.Equal(t, f.Key != "schema", f.Required, f.Key)
	}
	assert.Equal(t, []string{"host", "user", "password", "dbname", "port", "schema"}, keys)
	assert.Equal(t, "Hostname", fields[0].Label)
	assert.Equal(t, "Schema", fields[5].Label)
}

func TestDefaultTapConfigFields_ReturnsCopy(t *testing.T) {
	fields := DefaultTapConfigFields()
	fields[0].Key = "mutated"

	assert.Equal(t, "host", DefaultTapConfigFields()[0].Key)
}

func TestTapConfigField_IsSecret(t *testing.T) {
	assert.True(t, TapConfigField{Key: "password"}.IsSecret())
	assert.True(t, TapConfigField{Key: "oauth_client_secret"}.IsSecret())
	assert.False(t, TapConfigField{Key: "host"}.IsSecret())
}

func TestMissingRequired(t *testing.T) {
	fields := DefaultTapConfigFields()

	t.Run("all present", func(t *testing.T) {
		values := map[string]string{"host": "h", "user": "u", "password": "p", "dbname": "d", "port": "1"}
		assert.Empty(t, MissingRequired(fields, values))
	})

	t.Run("empty counts as missing", func(t *testing.T) {
		values := map[string]string{"host": "", "user": "u", "password": "p", "dbname": "d"}
		assert.Equal(t, []string{"host", "port"}, MissingRequired(fields, values))
	})

	t.Run("optional ignored", func(t *testing.T) {
		missing := MissingRequired(fields, nil)
		assert.NotContains(t, missing, "schema")
		assert.Len(t, missing, 5)
	})
}

func TestValidateTapRef(t *testing.T) {
	tests := []struct {
		name    string
		tap     string
		version string
		valid   bool
	}{
		{"plain", "postgres", "1.0", true},
		{"dashes and underscores", "google-sheets_v2", "0.3.1-beta", true},
		{"empty name", "", "1.0", false},
		{"empty version", "postgres", "", false},
		{"semicolon", "x;touch f;#", "1.0", false},
		{"command substitution", "x$(id)", "1.0", false},
		{"space in version", "postgres", "1.0 latest", false},
		{"leading dash", "-rm", "1.0", false},
		{"path", "../etc", "1.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTapRef(tt.tap, tt.version)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidInput)
			}
		})
	}
}
