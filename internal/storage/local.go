package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/spywithcode/ntpc/internal/catalog"
	"github.com/spywithcode/ntpc/internal/model"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// localStore implements AssetStore on a local content directory.
// Stored names are "<unix-millis>_<sanitized-original>" so concurrent
// uploads of the same file never collide.
type localStore struct {
	dir string
	now func() time.Time
}

// NewLocalStore creates the content directory if missing (with a
// .gitkeep so the directory survives in version control) and returns
// an AssetStore over it.
func NewLocalStore(dir string) (AssetStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("content directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create content directory: %w", err)
	}
	keep := filepath.Join(dir, ".gitkeep")
	if _, err := os.Stat(keep); os.IsNotExist(err) {
		_ = os.WriteFile(keep, []byte("# keeps the content directory tracked\n"), 0o644)
	}
	return &localStore{dir: dir, now: time.Now}, nil
}

func (s *localStore) Save(_ context.Context, r io.Reader, originalName string) (StoredFile, error) {
	if r == nil {
		return StoredFile{}, fmt.Errorf("reader is nil")
	}
	safe := unsafeChars.ReplaceAllString(filepath.Base(originalName), "_")
	stored := fmt.Sprintf("%d_%s", s.now().UnixMilli(), safe)
	target := filepath.Join(s.dir, stored)

	f, err := os.Create(target)
	if err != nil {
		return StoredFile{}, fmt.Errorf("create file: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(target)
		return StoredFile{}, fmt.Errorf("write file: %w", err)
	}

	return StoredFile{
		Filename:     stored,
		OriginalName: originalName,
		Size:         n,
		Path:         s.URLFor(stored),
	}, nil
}

func (s *localStore) Open(_ context.Context, filename string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.dir, filepath.Base(filename)))
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

func (s *localStore) Delete(_ context.Context, filename string) error {
	target := filepath.Join(s.dir, filepath.Base(filename))
	if err := os.Remove(target); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// List returns recognized assets only. A single unreadable entry is
// skipped so the rest of the listing completes.
func (s *localStore) List(_ context.Context) ([]model.FileInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read content directory: %w", err)
	}

	files := make([]model.FileInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !catalog.IsAsset(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			log.Printf("stat %s: %v", e.Name(), err)
			continue
		}
		files = append(files, model.FileInfo{
			Filename:   e.Name(),
			Size:       info.Size(),
			UploadDate: info.ModTime(),
			Path:       s.URLFor(e.Name()),
		})
	}
	return files, nil
}

func (s *localStore) URLFor(filename string) string {
	return catalog.URLFor(filename)
}

func (s *localStore) Dir() string { return s.dir }
