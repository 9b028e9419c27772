package model

import "time"

// Clipping represents one catalogued press clipping: a stored PDF plus
// its descriptive metadata. This is a pure domain model with no
// persistence-specific dependencies or tags, shared across the
// handler, service, catalog and view layers.
type Clipping struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Date        Date   `json:"date"`
	Category    string `json:"category"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
}

// FileInfo describes a raw file present in the content directory,
// independent of the catalog.
type FileInfo struct {
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	UploadDate time.Time `json:"uploadDate"`
	Path       string    `json:"path"`
}

// CategoryUncategorized is the sentinel category assigned to records
// synthesized by reconciliation.
const CategoryUncategorized = "Uncategorized"

// Categories is the fixed enumerated category set. It is static
// configuration, not derived from data; the view layer separately
// derives an "all categories seen" set for its filter dropdown.
var Categories = []string{
	"Financial",
	"Projects",
	"Safety",
	"Green Energy",
	"Environment",
	"HR",
	"Technology",
	"CSR",
	"Operations",
	"Research",
	"Corporate Governance",
	"Sustainability",
}

// MaxID returns the largest id present in records, or 0 for an empty
// catalog. New ids are always derived as MaxID+1 so ids are never
// reused after deletion.
func MaxID(records []Clipping) int {
	max := 0
	for _, r := range records {
		if r.ID > max {
			max = r.ID
		}
	}
	return max
}
