package services

import (
	"fmt"
	"sort"
	"sync"

	"github.com/datamill-co/knots/internal/core/domain"
	"github.com/datamill-co/knots/internal/core/ports/driven"
	"github.com/datamill-co/knots/internal/core/ports/driving"
)

// Ensure TapRegistry implements the interfaces.
var (
	_ driving.TapRegistry      = (*TapRegistry)(nil)
	_ driven.TapConfigProvider = (*TapRegistry)(nil)
)

// TapRegistry is a lookup table from tap name to tap definition.
// Taps without an entry use the default database field set.
type TapRegistry struct {
	mu            sync.RWMutex
	taps          map[string]domain.TapDefinition
	defaultFields []domain.TapConfigField
}

// NewTapRegistry creates a registry with the built-in taps.
func NewTapRegistry() *TapRegistry {
	r := &TapRegistry{
		taps:          make(map[string]domain.TapDefinition),
		defaultFields: domain.DefaultTapConfigFields(),
	}
	r.registerBuiltinTaps()
	return r
}

// Register adds or replaces a tap definition.
func (r *TapRegistry) Register(def domain.TapDefinition) error {
	if def.Name == "" {
		return fmt.Errorf("%w: tap name is required", domain.ErrInvalidInput)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	def.Fields = copyFields(def.Fields)
	r.taps[def.Name] = def
	return nil
}

// List returns all registered taps sorted by name.
func (r *TapRegistry) List() []domain.TapDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.TapDefinition, 0, len(r.taps))
	for _, def := range r.taps {
		def.Fields = copyFields(def.Fields)
		result = append(result, def)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Get returns the definition for a tap.
func (r *TapRegistry) Get(tapName string) (*domain.TapDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.taps[tapName]
	if !ok {
		return nil, fmt.Errorf("tap %q: %w", tapName, domain.ErrNotFound)
	}
	def.Fields = copyFields(def.Fields)
	return &def, nil
}

// FieldsFor returns the ordered config fields for a tap.
func (r *TapRegistry) FieldsFor(tapName string) ([]domain.TapConfigField, error) {
	if tapName == "" {
		return nil, fmt.Errorf("%w: tap name is required", domain.ErrInvalidInput)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if def, ok := r.taps[tapName]; ok && len(def.Fields) > 0 {
		return copyFields(def.Fields), nil
	}
	return copyFields(r.defaultFields), nil
}

func copyFields(fields []domain.TapConfigField) []domain.TapConfigField {
	if fields == nil {
		return nil
	}
	out := make([]domain.TapConfigField, len(fields))
	copy(out, fields)
	return out
}

func (r *TapRegistry) registerBuiltinTaps() {
	r.taps["postgres"] = domain.TapDefinition{
		Name:           "postgres",
		Description:    "Extract tables from a PostgreSQL database",
		DefaultVersion: "1.0",
		Fields:         domain.DefaultTapConfigFields(),
	}
	r.taps["redshift"] = domain.TapDefinition{
		Name:           "redshift",
		Description:    "Extract tables from an Amazon Redshift cluster",
		DefaultVersion: "1.0",
		Fields:         domain.DefaultTapConfigFields(),
	}
	r.taps["salesforce"] = domain.TapDefinition{
		Name:           "salesforce",
		Description:    "Extract objects from Salesforce",
		DefaultVersion: "1.4",
		Fields:         salesforceConfigFields(),
	}
	r.taps["adwords"] = domain.TapDefinition{
		Name:           "adwords",
		Description:    "Extract reports from Google AdWords",
		DefaultVersion: "1.3",
		Fields:         adwordsConfigFields(),
	}
	r.taps["facebook"] = domain.TapDefinition{
		Name:           "facebook",
		Description:    "Extract ads insights from Facebook Marketing",
		DefaultVersion: "1.5",
		Fields:         facebookConfigFields(),
	}
}

func salesforceConfigFields() []domain.TapConfigField {
	return []domain.TapConfigField{
		{Key: "client_id", Label: "Client ID", Required: true},
		{Key: "client_secret", Label: "Client secret", Required: true},
		{Key: "refresh_token", Label: "Refresh token", Required: true},
		{Key: "start_date", Label: "Start date", Required: true},
		{Key: "api_type", Label: "API type (REST or BULK)", Required: false},
	}
}

func adwordsConfigFields() []domain.TapConfigField {
	return []domain.TapConfigField{
		{Key: "developer_token", Label: "Developer token", Required: true},
		{Key: "oauth_client_id", Label: "OAuth client ID", Required: true},
		{Key: "oauth_client_secret", Label: "OAuth client secret", Required: true},
		{Key: "refresh_token", Label: "Refresh token", Required: true},
		{Key: "customer_ids", Label: "Customer IDs", Required: true},
		{Key: "start_date", Label: "Start date", Required: true},
	}
}

func facebookConfigFields() []domain.TapConfigField {
	return []domain.TapConfigField{
		{Key: "account_id", Label: "Account ID", Required: true},
		{Key: "access_token", Label: "Access token", Required: true},
		{Key: "start_date", Label: "Start date", Required: true},
		{Key: "end_date", Label: "End date", Required: false},
	}
}
