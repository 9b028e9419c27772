package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/spywithcode/ntpc/internal/catalog"
	"github.com/spywithcode/ntpc/internal/model"
	"github.com/spywithcode/ntpc/internal/repository"
	"github.com/spywithcode/ntpc/internal/storage"
)

var (
	ErrFileRequired    = errors.New("file is required")
	ErrInvalidFileType = errors.New("only PDF files are allowed")
	ErrFileTooLarge    = errors.New("file exceeds the size limit")
	ErrNotFound        = errors.New("clipping not found")
)

// pdfMagic is the leading byte signature every PDF carries.
var pdfMagic = []byte("%PDF-")

// UploadMeta carries the client-supplied metadata for an upload.
// Empty fields fall back to values derived from the file.
type UploadMeta struct {
	Title       string
	Date        model.Date
	Category    string
	Description string
}

// UploadResult reports a completed upload.
type UploadResult struct {
	Filename     string         `json:"filename"`
	OriginalName string         `json:"originalName"`
	Size         int64          `json:"size"`
	FilePath     string         `json:"filePath"`
	Clipping     model.Clipping `json:"clipping"`
}

// ScanStats are the counters returned by a reconciliation pass.
type ScanStats struct {
	TotalFiles     int `json:"totalFiles"`
	NewFilesAdded  int `json:"newFilesAdded"`
	TotalClippings int `json:"totalClippings"`
}

// ScanResult is the outcome of Refresh: the merged catalog plus stats.
type ScanResult struct {
	Clippings []model.Clipping `json:"clippings"`
	Stats     ScanStats        `json:"stats"`
}

// ClippingService defines the use cases over the clipping catalog.
type ClippingService interface {
	// Upload validates and stores a PDF, appends a catalog record with
	// the next id, and persists the catalog. A catalog write failure
	// rolls the stored asset back.
	Upload(ctx context.Context, r io.Reader, originalName, contentType string, size int64, meta UploadMeta) (*UploadResult, error)

	// List returns the full ordered catalog.
	List(ctx context.Context) ([]model.Clipping, error)

	// Replace overwrites the entire persisted catalog.
	Replace(ctx context.Context, records []model.Clipping) error

	// Refresh reconciles the content directory against the catalog and
	// persists the merged result when records were added.
	Refresh(ctx context.Context) (*ScanResult, error)

	// Delete removes a record and its stored asset.
	Delete(ctx context.Context, id int) error

	// Files lists raw content-directory files, independent of the
	// catalog.
	Files(ctx context.Context) ([]model.FileInfo, error)
}

// clippingService is the concrete ClippingService. All catalog
// mutations serialize on mu: two concurrent reconciliations would
// otherwise assign ids from the same starting max and one save would
// overwrite the other's additions. The persisted file itself remains
// last-writer-wins across processes.
type clippingService struct {
	repo     repository.CatalogRepository
	assets   storage.AssetStore
	mirror   storage.Mirror // nil when mirroring is disabled
	maxBytes int64

	mu sync.Mutex
}

// NewClippingService constructs a ClippingService. mirror may be nil.
func NewClippingService(repo repository.CatalogRepository, assets storage.AssetStore, mirror storage.Mirror, maxBytes int64) ClippingService {
	return &clippingService{repo: repo, assets: assets, mirror: mirror, maxBytes: maxBytes}
}

func (s *clippingService) Upload(ctx context.Context, r io.Reader, originalName, contentType string, size int64, meta UploadMeta) (*UploadResult, error) {
	if r == nil {
		return nil, ErrFileRequired
	}
	if contentType != "application/pdf" {
		return nil, ErrInvalidFileType
	}
	if s.maxBytes > 0 && size > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	// Sniff the magic bytes: the declared content type is
	// client-controlled.
	head := make([]byte, len(pdfMagic))
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if !bytes.Equal(head[:n], pdfMagic) {
		return nil, ErrInvalidFileType
	}
	content := io.MultiReader(bytes.NewReader(head[:n]), r)

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	stored, err := s.assets.Save(ctx, content, originalName)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	rec := model.Clipping{
		ID:          model.MaxID(records) + 1,
		Title:       meta.Title,
		Date:        meta.Date,
		Category:    meta.Category,
		Description: meta.Description,
		URL:         stored.Path,
	}
	if rec.Title == "" {
		rec.Title = catalog.TitleFromFilename(stored.Filename)
	}
	if rec.Category == "" {
		rec.Category = model.CategoryUncategorized
	}
	if rec.Date.IsZero() {
		rec.Date = model.DateOf(time.Now())
	}

	if err := s.repo.Replace(ctx, append(records, rec)); err != nil {
		// Roll the asset back so no file exists without a record path
		// to it being re-derivable.
		if delErr := s.assets.Delete(ctx, stored.Filename); delErr != nil {
			return nil, fmt.Errorf("catalog save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("catalog save failed: %w", err)
	}

	s.mirrorPut(ctx, stored)

	return &UploadResult{
		Filename:     stored.Filename,
		OriginalName: stored.OriginalName,
		Size:         stored.Size,
		FilePath:     stored.Path,
		Clipping:     rec,
	}, nil
}

func (s *clippingService) List(ctx context.Context) ([]model.Clipping, error) {
	return s.repo.Load(ctx)
}

func (s *clippingService) Replace(ctx context.Context, records []model.Clipping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Replace(ctx, records)
}

func (s *clippingService) Refresh(ctx context.Context) (*ScanResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.assets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list content directory: %w", err)
	}
	records, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]catalog.FileEntry, 0, len(files))
	for _, f := range files {
		entries = append(entries, catalog.FileEntry{Name: f.Filename, ModTime: f.UploadDate})
	}

	res := catalog.Reconcile(entries, records, catalog.MatchByURL)
	if res.Added > 0 {
		if err := s.repo.Replace(ctx, res.Catalog); err != nil {
			return nil, err
		}
	}

	return &ScanResult{
		Clippings: res.Catalog,
		Stats: ScanStats{
			TotalFiles:     len(entries),
			NewFilesAdded:  res.Added,
			TotalClippings: len(res.Catalog),
		},
	}, nil
}

func (s *clippingService) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.repo.Load(ctx)
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
		return ErrNotFound
	}
	target := records[idx]

	// Delete the asset first; if this fails, keep the record so the
	// file stays reachable.
	filename := storedFilename(target.URL)
	if filename != "" {
		if err := s.assets.Delete(ctx, filename); err != nil {
			return fmt.Errorf("delete asset: %w", err)
		}
	}

	remaining := make([]model.Clipping, 0, len(records)-1)
	remaining = append(remaining, records[:idx]...)
	remaining = append(remaining, records[idx+1:]...)
	if err := s.repo.Replace(ctx, remaining); err != nil {
		return err
	}

	if s.mirror != nil && filename != "" {
		if err := s.mirror.Delete(ctx, filename); err != nil {
			log.Printf("mirror delete %s: %v", filename, err)
		}
	}
	return nil
}

func (s *clippingService) Files(ctx context.Context) ([]model.FileInfo, error) {
	return s.assets.List(ctx)
}

// mirrorPut copies a freshly stored asset to the mirror. Best effort:
// failures are logged, the upload already succeeded.
func (s *clippingService) mirrorPut(ctx context.Context, stored storage.StoredFile) {
	if s.mirror == nil {
		return
	}
	f, err := s.assets.Open(ctx, stored.Filename)
	if err != nil {
		log.Printf("mirror read %s: %v", stored.Filename, err)
		return
	}
	defer f.Close()
	if err := s.mirror.Put(ctx, stored.Filename, f, stored.Size); err != nil {
		log.Printf("mirror put %s: %v", stored.Filename, err)
	}
}

// storedFilename extracts the stored filename from a record's relative
// URL; records without a URL (client-scan synthesized) have no asset.
func storedFilename(url string) string {
	if url == "" {
		return ""
	}
	if len(url) > len(catalog.URLPrefix) && url[:len(catalog.URLPrefix)] == catalog.URLPrefix {
		return url[len(catalog.URLPrefix):]
	}
	return ""
}
