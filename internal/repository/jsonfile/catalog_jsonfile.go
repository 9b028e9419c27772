package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spywithcode/ntpc/internal/model"
	"github.com/spywithcode/ntpc/internal/repository"
)

var (
	// ErrStorageUnavailable means the catalog file exists but cannot
	// be read or decoded. The caller decides whether to treat this as
	// fatal or reset to an empty catalog.
	ErrStorageUnavailable = errors.New("catalog storage unavailable")

	// ErrStorageWriteFailed means the catalog could not be persisted.
	// The previous on-disk catalog is left intact; the caller's
	// in-memory records are the only copy of the new state and must
	// not be discarded.
	ErrStorageWriteFailed = errors.New("catalog storage write failed")
)

// CatalogJSONFile persists the catalog as a single pretty-printed JSON
// array, the layout shared with out-of-band editors of the file.
type CatalogJSONFile struct {
	path string
}

// NewCatalogJSONFile creates a catalog repository backed by the JSON
// file at path. The file is created lazily on first Replace.
func NewCatalogJSONFile(path string) *CatalogJSONFile {
	return &CatalogJSONFile{path: path}
}

var _ repository.CatalogRepository = (*CatalogJSONFile)(nil)

// Load reads the catalog file. A missing file yields an empty catalog.
func (s *CatalogJSONFile) Load(_ context.Context) ([]model.Clipping, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Clipping{}, nil
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorageUnavailable, s.path, err)
	}

	var records []model.Clipping
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrStorageUnavailable, s.path, err)
	}
	if records == nil {
		records = []model.Clipping{}
	}
	return records, nil
}

// Replace writes the full catalog through a temp file in the same
// directory followed by a rename, so readers never observe a partial
// file.
func (s *CatalogJSONFile) Replace(_ context.Context, records []model.Clipping) error {
	if records == nil {
		records = []model.Clipping{}
	}
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrStorageWriteFailed, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: mkdir %s: %v", ErrStorageWriteFailed, dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".catalog-*.json")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWriteFailed, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write: %v", ErrStorageWriteFailed, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close: %v", ErrStorageWriteFailed, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: rename: %v", ErrStorageWriteFailed, err)
	}
	return nil
}
