package offline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spywithcode/ntpc/internal/catalog"
	"github.com/spywithcode/ntpc/internal/model"
	"github.com/spywithcode/ntpc/internal/repository"
)

// ErrQueued reports that an operation half-completed: one of the two
// stores was written, the other failed, and the missing side has been
// queued. Retry replays queued sides until they succeed.
var ErrQueued = errors.New("operation queued for retry")

type opKind int

const (
	opPutRecord opKind = iota
	opPutBlob
	opDeleteBlob
)

type pendingOp struct {
	kind opKind
	rec  model.Clipping
	blob Blob
	id   int
}

// Library pairs a local catalog copy with a blob store and keeps the
// two consistent: every add and remove touches both, and a half-failed
// operation leaves a pending side that Retry replays.
type Library struct {
	catalog repository.CatalogRepository
	blobs   BlobRepository

	mu      sync.Mutex
	pending []pendingOp
}

// NewLibrary builds a Library over the given stores.
func NewLibrary(cat repository.CatalogRepository, blobs BlobRepository) *Library {
	return &Library{catalog: cat, blobs: blobs}
}

// Add stores the PDF bytes and the record, assigning the next id. The
// blob is stored first; if the record write then fails, it is queued
// and ErrQueued is returned with the assigned record.
func (l *Library) Add(ctx context.Context, rec model.Clipping, data []byte) (model.Clipping, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.catalog.Load(ctx)
	if err != nil {
		return model.Clipping{}, err
	}
	rec.ID = model.MaxID(records) + 1
	if rec.Category == "" {
		rec.Category = model.CategoryUncategorized
	}

	if err := l.blobs.Put(ctx, Blob{ID: rec.ID, Filename: rec.Title + ".pdf", Data: data}); err != nil {
		return model.Clipping{}, fmt.Errorf("store blob: %w", err)
	}

	if err := l.catalog.Replace(ctx, append(records, rec)); err != nil {
		l.pending = append(l.pending, pendingOp{kind: opPutRecord, rec: rec})
		return rec, fmt.Errorf("%w: record %d: %v", ErrQueued, rec.ID, err)
	}
	return rec, nil
}

// Remove deletes the record and its blob. The record is removed first;
// a failed blob delete is queued and reported as ErrQueued.
func (l *Library) Remove(ctx context.Context, id int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.catalog.Load(ctx)
	if err != nil {
		return err
	}

	idx := -1
	for i, rec := range records {
		if rec.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("clipping %d not found", id)
	}

	remaining := append(records[:idx:idx], records[idx+1:]...)
	if err := l.catalog.Replace(ctx, remaining); err != nil {
		return err
	}

	if err := l.blobs.Delete(ctx, id); err != nil {
		l.pending = append(l.pending, pendingOp{kind: opDeleteBlob, id: id})
		return fmt.Errorf("%w: blob %d: %v", ErrQueued, id, err)
	}
	return nil
}

// Retry replays every queued half-operation, keeping the ones that
// fail again. It reports how many remain queued.
func (l *Library) Retry(ctx context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var firstErr error
	remaining := l.pending[:0]
	for _, op := range l.pending {
		var err error
		switch op.kind {
		case opPutRecord:
			err = l.appendRecord(ctx, op.rec)
		case opPutBlob:
			err = l.blobs.Put(ctx, op.blob)
		case opDeleteBlob:
			err = l.blobs.Delete(ctx, op.id)
		}
		if err != nil {
			remaining = append(remaining, op)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	l.pending = remaining
	return len(l.pending), firstErr
}

// Pending reports how many half-operations are queued.
func (l *Library) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

func (l *Library) appendRecord(ctx context.Context, rec model.Clipping) error {
	records, err := l.catalog.Load(ctx)
	if err != nil {
		return err
	}
	for _, existing := range records {
		if existing.ID == rec.ID {
			return nil
		}
	}
	return l.catalog.Replace(ctx, append(records, rec))
}

// ScannedFile is one file found by a client directory scan, carrying
// its bytes so new entries can be stored offline immediately.
type ScannedFile struct {
	Entry catalog.FileEntry
	Data  []byte
}

// Scan reconciles a directory listing into the local catalog using the
// loose title/description matching and stores blobs for every record
// it synthesizes. Returns the number of records added.
func (l *Library) Scan(ctx context.Context, files []ScannedFile) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.catalog.Load(ctx)
	if err != nil {
		return 0, err
	}

	entries := make([]catalog.FileEntry, 0, len(files))
	dataByName := make(map[string][]byte, len(files))
	for _, f := range files {
		entries = append(entries, f.Entry)
		dataByName[f.Entry.Name] = f.Data
	}

	res := catalog.Reconcile(entries, records, catalog.MatchByMetadata)
	if res.Added == 0 {
		return 0, nil
	}

	if err := l.catalog.Replace(ctx, res.Catalog); err != nil {
		return 0, err
	}

	var firstErr error
	for _, rec := range res.Catalog[len(res.Catalog)-res.Added:] {
		// Synthesized descriptions carry the source filename.
		name := strings.TrimPrefix(rec.Description, "PDF file: ")
		data, ok := dataByName[name]
		if !ok {
			continue
		}
		b := Blob{ID: rec.ID, Filename: name, Data: data}
		if err := l.blobs.Put(ctx, b); err != nil {
			l.pending = append(l.pending, pendingOp{kind: opPutBlob, blob: b})
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: blob %d: %v", ErrQueued, rec.ID, err)
			}
		}
	}
	return res.Added, firstErr
}
