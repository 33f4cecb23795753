package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/datamill-co/knots/internal/core/domain"
	"github.com/datamill-co/knots/internal/core/ports/driven"
)

// Ensure DescriptorStore implements the interface.
var _ driven.DescriptorStore = (*DescriptorStore)(nil)

// DescriptorStore is an in-memory implementation of driven.DescriptorStore.
// It keeps the descriptor as encoded JSON so merges behave like the file store.
type DescriptorStore struct {
	mu   sync.Mutex
	data []byte
}

// NewDescriptorStore creates an empty in-memory descriptor store.
func NewDescriptorStore() *DescriptorStore {
	return &DescriptorStore{}
}

// Load parses the stored descriptor.
func (s *DescriptorStore) Load(_ context.Context) (*domain.Knot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, domain.ErrNotFound
	}
	var knot domain.Knot
	if err := json.Unmarshal(s.data, &knot); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrParse, err)
	}
	return &knot, nil
}

// Save replaces the stored descriptor.
func (s *DescriptorStore) Save(_ context.Context, knot domain.Knot) error {
	data, err := json.Marshal(knot)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrParse, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}

// MergeAttribute sets value at path in the stored descriptor.
func (s *DescriptorStore) MergeAttribute(_ context.Context, path []string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return domain.ErrNotFound
	}

	var tree map[string]any
	if err := json.Unmarshal(s.data, &tree); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrParse, err)
	}
	if err := domain.SetAttribute(tree, path, value); err != nil {
		return err
	}
	data, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrParse, err)
	}
	s.data = data
	return nil
}

// SetRaw replaces the stored bytes verbatim, for exercising parse failures.
func (s *DescriptorStore) SetRaw(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = bytes.Clone(data)
}

// Raw returns a copy of the stored bytes, nil if nothing was saved.
func (s *DescriptorStore) Raw() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return bytes.Clone(s.data)
}

// Path returns a placeholder location.
func (s *DescriptorStore) Path() string {
	return ":memory:"
}
