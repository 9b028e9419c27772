// Package catalog implements reconciliation between the files
// physically present in the content directory and the clipping
// catalog: unknown files get catalog entries synthesized for them.
package catalog

import (
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/spywithcode/ntpc/internal/model"
)

// URLPrefix is the fixed URL prefix under which the content directory
// is served.
const URLPrefix = "/data/"

// assetExt is the only recognized asset extension.
const assetExt = ".pdf"

// placeholderDescription is the fixed description for records
// synthesized by a service-side scan.
const placeholderDescription = "Uploaded directly to data folder"

// MatchMode selects how an on-disk file is matched against existing
// records. The two modes are used in different contexts and are
// intentionally not unified: the service-side scan matches on exact
// relative URL, while the client directory scan has no URLs to compare
// and falls back to a looser title/description heuristic.
type MatchMode int

const (
	// MatchByURL treats a file as known iff its derived relative URL
	// exactly equals some existing record's URL.
	MatchByURL MatchMode = iota

	// MatchByMetadata treats a file as known iff an existing record's
	// title equals the filename with its extension stripped, or an
	// existing record's description contains the filename.
	MatchByMetadata
)

// FileEntry is one entry of an injected content-directory listing.
type FileEntry struct {
	Name    string
	ModTime time.Time
}

// Result is the outcome of one reconciliation pass.
type Result struct {
	// Catalog is the merged sequence: the original records followed by
	// the synthesized ones, in listing order.
	Catalog []model.Clipping
	// Added is the number of records synthesized in this pass.
	Added int
}

var timestampPrefix = regexp.MustCompile(`^\d+_`)

// Reconcile merges a content-directory listing into the catalog. It is
// a pure function of its inputs: the caller obtains the listing and
// persists the result. Entries that are not recognized assets are
// skipped, so one stray file never aborts the pass.
//
// New ids start from max(existing ids, 0)+1, frozen at the start of
// the pass, and increment once per synthesized record; ids assigned
// within one pass are strictly increasing and contiguous. Running
// Reconcile twice over an unchanged listing adds nothing the second
// time.
func Reconcile(files []FileEntry, current []model.Clipping, mode MatchMode) Result {
	merged := make([]model.Clipping, len(current))
	copy(merged, current)

	nextID := model.MaxID(current) + 1
	added := 0

	for _, f := range files {
		if !IsAsset(f.Name) {
			continue
		}
		if known(f.Name, current, mode) {
			continue
		}

		rec := synthesize(nextID, f, mode)
		merged = append(merged, rec)
		// The new record must match itself on the next pass.
		current = append(current, rec)
		nextID++
		added++
	}

	return Result{Catalog: merged, Added: added}
}

// IsAsset reports whether name is a recognized asset file.
func IsAsset(name string) bool {
	if name == "" || name == ".gitkeep" {
		return false
	}
	return strings.HasSuffix(strings.ToLower(name), assetExt)
}

// URLFor derives the relative URL under which a stored file is served.
func URLFor(name string) string {
	return path.Join(URLPrefix, name)
}

// TitleFromFilename derives a display title: the extension and any
// leading numeric-timestamp prefix ("1700000000000_") are stripped.
func TitleFromFilename(name string) string {
	return timestampPrefix.ReplaceAllString(stripExt(name), "")
}

func stripExt(name string) string {
	if ext := path.Ext(name); strings.EqualFold(ext, assetExt) {
		return name[:len(name)-len(ext)]
	}
	return name
}

func known(name string, current []model.Clipping, mode MatchMode) bool {
	switch mode {
	case MatchByMetadata:
		base := stripExt(name)
		for _, rec := range current {
			if rec.Title == base || strings.Contains(rec.Description, name) {
				return true
			}
		}
		return false
	default:
		url := URLFor(name)
		for _, rec := range current {
			if rec.URL == url {
				return true
			}
		}
		return false
	}
}

func synthesize(id int, f FileEntry, mode MatchMode) model.Clipping {
	rec := model.Clipping{
		ID:       id,
		Date:     model.DateOf(f.ModTime),
		Category: model.CategoryUncategorized,
	}
	if mode == MatchByMetadata {
		// Keep the full base name and embed the filename so the loose
		// matcher recognizes the record on subsequent passes.
		rec.Title = stripExt(f.Name)
		rec.Description = "PDF file: " + f.Name
		return rec
	}
	rec.Title = TitleFromFilename(f.Name)
	rec.Description = placeholderDescription
	rec.URL = URLFor(f.Name)
	return rec
}
