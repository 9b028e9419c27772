package offline

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrBlobNotFound is returned when no blob is stored under an id.
var ErrBlobNotFound = errors.New("blob not found")

// Blob is one stored PDF, keyed by its clipping record id.
type Blob struct {
	ID       int
	Filename string
	Data     []byte
	SavedAt  time.Time
}

// BlobRepository stores PDF bytes keyed by record id.
type BlobRepository interface {
	Put(ctx context.Context, b Blob) error
	Get(ctx context.Context, id int) (*Blob, error)
	Delete(ctx context.Context, id int) error
	IDs(ctx context.Context) ([]int, error)
}

// BlobSQLite is a SQLite implementation of BlobRepository. It uses
// database/sql with parameterized queries and contains no business
// logic.
type BlobSQLite struct {
	db *sql.DB
}

// NewBlobSQLite creates a new BlobSQLite repository.
func NewBlobSQLite(db *sql.DB) *BlobSQLite {
	return &BlobSQLite{db: db}
}

var _ BlobRepository = (*BlobSQLite)(nil)

// Put stores a blob, replacing any existing one under the same id.
func (r *BlobSQLite) Put(ctx context.Context, b Blob) error {
	const q = `
		INSERT INTO blobs (id, filename, data, saved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			filename = excluded.filename,
			data = excluded.data,
			saved_at = excluded.saved_at
	`
	savedAt := b.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, q, b.ID, b.Filename, b.Data, savedAt)
	return err
}

// Get fetches the blob stored under id.
func (r *BlobSQLite) Get(ctx context.Context, id int) (*Blob, error) {
	const q = `SELECT id, filename, data, saved_at FROM blobs WHERE id = ?`
	row := r.db.QueryRowContext(ctx, q, id)
	var b Blob
	if err := row.Scan(&b.ID, &b.Filename, &b.Data, &b.SavedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBlobNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Delete removes the blob under id. Missing ids are not an error.
func (r *BlobSQLite) Delete(ctx context.Context, id int) error {
	const q = `DELETE FROM blobs WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

// IDs lists the ids of all stored blobs in ascending order.
func (r *BlobSQLite) IDs(ctx context.Context) ([]int, error) {
	const q = `SELECT id FROM blobs ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
