package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spywithcode/ntpc/internal/model"
)

var scanTime = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

func listing(names ...string) []FileEntry {
	out := make([]FileEntry, 0, len(names))
	for _, n := range names {
		out = append(out, FileEntry{Name: n, ModTime: scanTime})
	}
	return out
}

func TestReconcileEmptyCatalog(t *testing.T) {
	res := Reconcile(listing("1700000000000_a.pdf", "b.pdf"), nil, MatchByURL)

	require.Equal(t, 2, res.Added)
	require.Len(t, res.Catalog, 2)

	first, second := res.Catalog[0], res.Catalog[1]
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, "a", first.Title)
	assert.Equal(t, "b", second.Title)
	assert.Equal(t, model.CategoryUncategorized, first.Category)
	assert.Equal(t, model.CategoryUncategorized, second.Category)
	assert.Equal(t, "/data/1700000000000_a.pdf", first.URL)
	assert.Equal(t, "2024-03-15", first.Date.String())
}

func TestReconcileIdempotent(t *testing.T) {
	files := listing("x.pdf", "y.pdf", "z.pdf")

	first := Reconcile(files, nil, MatchByURL)
	require.Equal(t, 3, first.Added)

	second := Reconcile(files, first.Catalog, MatchByURL)
	assert.Equal(t, 0, second.Added)
	assert.Equal(t, first.Catalog, second.Catalog)
}

func TestReconcileFrozenMaxIDs(t *testing.T) {
	current := []model.Clipping{
		{ID: 2, Title: "existing", URL: "/data/existing.pdf"},
		{ID: 9, Title: "other", URL: "/data/other.pdf"},
	}

	res := Reconcile(listing("existing.pdf", "n1.pdf", "n2.pdf", "n3.pdf"), current, MatchByURL)

	require.Equal(t, 3, res.Added)
	require.Len(t, res.Catalog, 5)
	// ids start at max+1 frozen at pass start and are contiguous
	assert.Equal(t, 10, res.Catalog[2].ID)
	assert.Equal(t, 11, res.Catalog[3].ID)
	assert.Equal(t, 12, res.Catalog[4].ID)
}

func TestReconcilePreservesInsertionOrder(t *testing.T) {
	current := []model.Clipping{{ID: 1, Title: "old", URL: "/data/old.pdf"}}

	res := Reconcile(listing("old.pdf", "new.pdf"), current, MatchByURL)

	require.Len(t, res.Catalog, 2)
	assert.Equal(t, "old", res.Catalog[0].Title)
	assert.Equal(t, "new", res.Catalog[1].Title)
}

func TestReconcileSkipsNonAssets(t *testing.T) {
	files := []FileEntry{
		{Name: ".gitkeep", ModTime: scanTime},
		{Name: "notes.txt", ModTime: scanTime},
		{Name: "", ModTime: scanTime},
		{Name: "REPORT.PDF", ModTime: scanTime},
	}

	res := Reconcile(files, nil, MatchByURL)

	require.Equal(t, 1, res.Added)
	assert.Equal(t, "/data/REPORT.PDF", res.Catalog[0].URL)
}

func TestReconcileDoesNotMutateInput(t *testing.T) {
	current := []model.Clipping{{ID: 1, Title: "keep", URL: "/data/keep.pdf"}}

	_ = Reconcile(listing("added.pdf"), current, MatchByURL)

	require.Len(t, current, 1)
	assert.Equal(t, "keep", current[0].Title)
}

func TestReconcileByMetadataTitleMatch(t *testing.T) {
	current := []model.Clipping{{ID: 4, Title: "annual-report", Description: "board coverage"}}

	res := Reconcile(listing("annual-report.pdf"), current, MatchByMetadata)

	assert.Equal(t, 0, res.Added)
}

func TestReconcileByMetadataDescriptionMatch(t *testing.T) {
	current := []model.Clipping{{ID: 4, Title: "unrelated", Description: "PDF file: scan_01.pdf"}}

	res := Reconcile(listing("scan_01.pdf"), current, MatchByMetadata)

	assert.Equal(t, 0, res.Added)
}

func TestReconcileByMetadataSynthesisAndIdempotence(t *testing.T) {
	files := listing("1700000000000_briefing.pdf")

	first := Reconcile(files, nil, MatchByMetadata)
	require.Equal(t, 1, first.Added)

	rec := first.Catalog[0]
	// Metadata mode keeps the full base name so the loose matcher can
	// recognize it later.
	assert.Equal(t, "1700000000000_briefing", rec.Title)
	assert.Equal(t, "PDF file: 1700000000000_briefing.pdf", rec.Description)
	assert.Equal(t, model.CategoryUncategorized, rec.Category)
	assert.Empty(t, rec.URL)

	second := Reconcile(files, first.Catalog, MatchByMetadata)
	assert.Equal(t, 0, second.Added)
}

func TestReconcileURLModeIgnoresTitleCollision(t *testing.T) {
	// URL equality is the only service-side matching rule: a record
	// with the same title but no matching URL does not hide the file.
	current := []model.Clipping{{ID: 1, Title: "a", Description: "x", URL: "/data/other_a.pdf"}}

	res := Reconcile(listing("a.pdf"), current, MatchByURL)

	assert.Equal(t, 1, res.Added)
}

func TestTitleFromFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1700000000000_a.pdf", "a"},
		{"b.pdf", "b"},
		{"Report.PDF", "Report"},
		{"12_34_mixed.pdf", "34_mixed"},
		{"no_digit_prefix_x.pdf", "no_digit_prefix_x"},
		{"plainname", "plainname"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TitleFromFilename(tc.in), "input %q", tc.in)
	}
}

func TestIsAsset(t *testing.T) {
	assert.True(t, IsAsset("a.pdf"))
	assert.True(t, IsAsset("A.PDF"))
	assert.False(t, IsAsset(".gitkeep"))
	assert.False(t, IsAsset("a.txt"))
	assert.False(t, IsAsset(""))
}
