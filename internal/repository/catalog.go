package repository

import (
	"context"

	"github.com/spywithcode/ntpc/internal/model"
)

// CatalogRepository defines persistence for the clipping catalog: the
// full ordered record sequence, read and replaced as a whole. No
// business logic here — strictly persistence operations.
//
// Implementations live in subpackages (e.g., jsonfile).
type CatalogRepository interface {
	// Load reads the persisted catalog. A missing catalog is not an
	// error: Load returns an empty slice so callers can bootstrap.
	Load(ctx context.Context) ([]model.Clipping, error)

	// Replace overwrites the entire persisted catalog. From the
	// caller's point of view the write is atomic: a concurrent reader
	// never observes a partially-written catalog. On failure the
	// previous persisted state is preserved and the caller's in-memory
	// copy is the only surviving version of the new state.
	Replace(ctx context.Context, records []model.Clipping) error
}
