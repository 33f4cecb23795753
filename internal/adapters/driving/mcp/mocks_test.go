package mcp

import (
	"context"

	"github.com/datamill-co/knots/internal/core/domain"
)

// mockPipelineService is a mock implementation of driving.PipelineService.
type mockPipelineService struct {
	fields  []domain.TapConfigField
	catalog domain.Catalog
	status  *domain.KnotStatus
	err     error

	registeredTap     string
	registeredVersion string
	submitted         map[string]string
}

func (m *mockPipelineService) RegisterTap(_ context.Context, tapName, tapVersion string) ([]domain.TapConfigField, error) {
	m.registeredTap = tapName
	m.registeredVersion = tapVersion
	return m.fields, m.err
}

func (m *mockPipelineService) SubmitConfig(_ context.Context, values map[string]string) (domain.Catalog, error) {
	m.submitted = values
	return m.catalog, m.err
}

func (m *mockPipelineService) ValidateConfig(_ context.Context, _ string, _ map[string]string) error {
	return m.err
}

func (m *mockPipelineService) Status(_ context.Context) (*domain.KnotStatus, error) {
	return m.status, m.err
}

func (m *mockPipelineService) WatchStatus(_ context.Context) (<-chan domain.KnotStatus, error) {
	return nil, domain.ErrNotImplemented
}

// mockTapRegistry is a mock implementation of driving.TapRegistry.
type mockTapRegistry struct {
	taps []domain.TapDefinition
}

func (m *mockTapRegistry) List() []domain.TapDefinition {
	return m.taps
}

func (m *mockTapRegistry) Get(name string) (*domain.TapDefinition, error) {
	for i := range m.taps {
		if m.taps[i].Name == name {
			return &m.taps[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockTapRegistry) FieldsFor(name string) ([]domain.TapConfigField, error) {
	def, err := m.Get(name)
	if err != nil {
		return domain.DefaultTapConfigFields(), nil
	}
	return def.Fields, nil
}
