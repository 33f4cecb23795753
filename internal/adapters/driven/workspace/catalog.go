package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/datamill-co/knots/internal/core/domain"
	"github.com/datamill-co/knots/internal/core/ports/driven"
)

// Ensure CatalogReader implements the interface.
var _ driven.SchemaReader = (*CatalogReader)(nil)

// CatalogReader reads the catalog the discovery command wrote.
type CatalogReader struct {
	path string
}

// NewCatalogReader creates a reader for the layout's catalog path.
func NewCatalogReader(layout Layout) *CatalogReader {
	return &CatalogReader{path: layout.CatalogPath()}
}

// Path returns the catalog file path.
func (r *CatalogReader) Path() string {
	return r.path
}

// Read loads and validates the catalog.
func (r *CatalogReader) Read(_ context.Context) (domain.Catalog, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, r.path)
		}
		return nil, fmt.Errorf("%w: reading %s: %w", domain.ErrIO, r.path, err)
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: %s is not valid JSON", domain.ErrParse, r.path)
	}
	return domain.Catalog(data), nil
}
