package descriptor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/datamill-co/knots/internal/core/domain"
	"github.com/datamill-co/knots/internal/core/ports/driven"
)

// FileName is the descriptor file name within the working directory.
const FileName = "knot.json"

// Ensure Store implements the interface.
var _ driven.DescriptorStore = (*Store)(nil)

// pathLocks maps an absolute descriptor path to its *sync.Mutex.
var pathLocks sync.Map

func lockFor(path string) *sync.Mutex {
	mu, _ := pathLocks.LoadOrStore(path, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Store is a JSON file implementation of driven.DescriptorStore.
type Store struct {
	path string
	mu   *sync.Mutex
}

// NewStore creates a store for the descriptor in workDir.
// If workDir is empty, the current directory is used.
func NewStore(workDir string) (*Store, error) {
	if workDir == "" {
		workDir = "."
	}
	abs, err := filepath.Abs(filepath.Join(workDir, FileName))
	if err != nil {
		return nil, fmt.Errorf("%w: resolving descriptor path: %w", domain.ErrIO, err)
	}
	return &Store{
		path: abs,
		mu:   lockFor(abs),
	}, nil
}

// Path returns the descriptor file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads and parses the descriptor.
func (s *Store) Load(_ context.Context) (*domain.Knot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return nil, err
	}

	var knot domain.Knot
	if err := json.Unmarshal(data, &knot); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %w", domain.ErrParse, s.path, err)
	}
	return &knot, nil
}

// Save replaces the descriptor.
func (s *Store) Save(_ context.Context, knot domain.Knot) error {
	data, err := json.MarshalIndent(knot, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding descriptor: %w", domain.ErrParse, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(data)
}

// MergeAttribute sets value at path and saves the result.
func (s *Store) MergeAttribute(_ context.Context, path []string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}

	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("%w: decoding %s: %w", domain.ErrParse, s.path, err)
	}

	if err := domain.SetAttribute(tree, path, value); err != nil {
		return err
	}

	out, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding descriptor: %w", domain.ErrParse, err)
	}
	return s.write(out)
}

// read returns the raw descriptor (caller must hold lock).
// Content that is not a JSON object is a parse error.
func (s *Store) read() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("%w: reading %s: %w", domain.ErrIO, s.path, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: %s does not contain a JSON object", domain.ErrParse, s.path)
	}
	return data, nil
}

// write replaces the descriptor via a temp file and rename (caller must hold lock).
func (s *Store) write(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("%w: creating %s: %w", domain.ErrIO, dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".knot-*.json")
	if err != nil {
		return fmt.Errorf("%w: creating temp descriptor: %w", domain.ErrIO, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // No-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: writing temp descriptor: %w", domain.ErrIO, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: syncing temp descriptor: %w", domain.ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: closing temp descriptor: %w", domain.ErrIO, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("%w: replacing %s: %w", domain.ErrIO, s.path, err)
	}
	return nil
}
