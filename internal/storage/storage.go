// Package storage contains file storage for uploaded clipping assets.
// The primary store is a local content directory — reconciliation
// requires a directory that can be listed and that out-of-band tools
// can drop files into — with an optional S3-compatible mirror behind
// the Mirror interface.
package storage

import (
	"context"
	"io"

	"github.com/spywithcode/ntpc/internal/model"
)

// StoredFile describes an asset after it has been written.
type StoredFile struct {
	// Filename is the stored (collision-resistant) name.
	Filename string
	// OriginalName is the client-supplied name.
	OriginalName string
	Size         int64
	// Path is the relative URL under which the file is served.
	Path string
}

// AssetStore persists clipping assets in the content directory.
type AssetStore interface {
	// Save writes the reader's content under a collision-resistant
	// filename derived from originalName.
	Save(ctx context.Context, r io.Reader, originalName string) (StoredFile, error)

	// Open returns a stored file's content for reading.
	Open(ctx context.Context, filename string) (io.ReadCloser, error)

	// Delete removes a stored file by its stored filename. Deleting a
	// missing file is not an error.
	Delete(ctx context.Context, filename string) error

	// List returns the recognized asset files currently present in the
	// content directory, in directory iteration order.
	List(ctx context.Context) ([]model.FileInfo, error)

	// URLFor derives the relative URL for a stored filename.
	URLFor(filename string) string

	// Dir returns the content directory path, for static serving and
	// health checks.
	Dir() string
}

// Mirror is an optional secondary copy of every stored asset. Mirror
// failures must never fail the primary operation.
type Mirror interface {
	Put(ctx context.Context, filename string, r io.Reader, size int64) error
	Delete(ctx context.Context, filename string) error
}
