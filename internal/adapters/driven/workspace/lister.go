package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/datamill-co/knots/internal/core/domain"
	"github.com/datamill-co/knots/internal/core/ports/driven"
)

// Ensure KnotLister implements the interface.
var _ driven.KnotLister = (*KnotLister)(nil)

// KnotLister lists the entries of the knots directory.
type KnotLister struct {
	dir string
}

// NewKnotLister creates a lister for the layout's knots directory.
func NewKnotLister(layout Layout) *KnotLister {
	return &KnotLister{dir: layout.KnotsDir()}
}

// List returns the sorted entry names, skipping hidden ones.
func (l *KnotLister) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, l.dir)
		}
		return nil, fmt.Errorf("%w: reading %s: %w", domain.ErrIO, l.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if len(entry.Name()) > 0 && entry.Name()[0] == '.' {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}
