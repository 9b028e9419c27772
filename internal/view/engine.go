// Package view implements the in-memory browsing engine over a set of
// clipping records: free-text and category filtering, year/month
// grouping, and fixed-size pagination. All functions here are pure;
// Engine layers selection state on top of them.
package view

import (
	"sort"
	"strings"
	"time"

	"github.com/spywithcode/ntpc/internal/model"
)

// PageSize is the fixed number of records rendered per page.
const PageSize = 9

var monthNames = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// Criteria holds the active filter settings. Zero values match
// everything.
type Criteria struct {
	Search   string
	Category string
	DateFrom model.Date
	DateTo   model.Date
}

// Apply filters records by c, combining all active criteria with AND.
// The input slice is never mutated and relative order is preserved.
func Apply(records []model.Clipping, c Criteria) []model.Clipping {
	search := strings.ToLower(c.Search)
	out := make([]model.Clipping, 0, len(records))
	for _, rec := range records {
		if search != "" &&
			!strings.Contains(strings.ToLower(rec.Title), search) &&
			!strings.Contains(strings.ToLower(rec.Description), search) {
			continue
		}
		if c.Category != "" && rec.Category != c.Category {
			continue
		}
		if !c.DateFrom.IsZero() && rec.Date.Before(c.DateFrom) {
			continue
		}
		if !c.DateTo.IsZero() && rec.Date.After(c.DateTo) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Years returns the distinct years present in records, most recent
// first.
func Years(records []model.Clipping) []int {
	seen := make(map[int]bool)
	years := make([]int, 0)
	for _, rec := range records {
		if y := rec.Date.Year(); !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// Months returns the distinct zero-based month indexes present among
// the given year's records, most recent first.
func Months(records []model.Clipping, year int) []int {
	seen := make(map[int]bool)
	months := make([]int, 0)
	for _, rec := range records {
		if rec.Date.Year() != year {
			continue
		}
		if m := rec.Date.MonthIndex(); !seen[m] {
			seen[m] = true
			months = append(months, m)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(months)))
	return months
}

// MonthName maps a zero-based month index to its short English name.
// Out-of-range indexes return the empty string.
func MonthName(idx int) string {
	if idx < 0 || idx > 11 {
		return ""
	}
	return monthNames[idx]
}

// TotalPages reports how many pages of size pageSize the given total
// spans. Zero totals yield zero pages.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Paginate returns the 1-based page of records. Pages outside
// [1, TotalPages] come back empty.
func Paginate(records []model.Clipping, page, pageSize int) []model.Clipping {
	if page < 1 || pageSize < 1 {
		return nil
	}
	start := (page - 1) * pageSize
	if start >= len(records) {
		return nil
	}
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

// ResultsRange reports the 1-based inclusive range of result positions
// shown on the given page. ok is false when there are no results.
func ResultsRange(total, page, pageSize int) (start, end int, ok bool) {
	if total == 0 {
		return 0, 0, false
	}
	start = (page-1)*pageSize + 1
	shown := total - (page-1)*pageSize
	if shown > pageSize {
		shown = pageSize
	}
	return start, start + shown - 1, true
}

// PageControl is one element of a pagination strip: either a page
// number or an ellipsis gap marker.
type PageControl struct {
	Page     int
	Ellipsis bool
	Current  bool
}

// PageControls renders the control strip for the given page: always
// the first and last page, the current page with up to two neighbors
// each side, and an ellipsis wherever pages are skipped. A single page
// needs no controls.
func PageControls(current, totalPages int) []PageControl {
	if totalPages <= 1 {
		return nil
	}
	controls := make([]PageControl, 0, totalPages)
	for i := 1; i <= totalPages; i++ {
		switch {
		case i == 1 || i == totalPages || (i >= current-2 && i <= current+2):
			controls = append(controls, PageControl{Page: i, Current: i == current})
		case i == current-3 || i == current+3:
			controls = append(controls, PageControl{Ellipsis: true})
		}
	}
	return controls
}

// Stats summarizes the record set for the dashboard.
type Stats struct {
	TotalClippings  int `json:"totalClippings"`
	TotalCategories int `json:"totalCategories"`
	ThisMonth       int `json:"thisMonth"`
}

// Summarize counts records overall and within the calendar month of
// now. The category count is the fixed configured set, not the
// categories observed in the data.
func Summarize(records []model.Clipping, now time.Time) Stats {
	s := Stats{
		TotalClippings:  len(records),
		TotalCategories: len(model.Categories),
	}
	for _, rec := range records {
		if rec.Date.Year() == now.Year() && rec.Date.MonthIndex() == int(now.Month())-1 {
			s.ThisMonth++
		}
	}
	return s
}

// State tells the renderer what kind of view to draw.
type State int

const (
	// StatePrompt asks the user to pick a year and month first.
	StatePrompt State = iota
	// StateEmpty means the selection matched no records.
	StateEmpty
	// StateResults carries a non-empty page of records.
	StateResults
)

// Page is one renderable snapshot of the engine.
type Page struct {
	State      State
	Records    []model.Clipping
	Number     int
	TotalPages int
	Total      int
	RangeStart int
	RangeEnd   int
	Controls   []PageControl
}

// Engine owns the browsing state: the full record set, the active
// selection and criteria, and the current page.
type Engine struct {
	records  []model.Clipping
	criteria Criteria
	year     int
	month    int
	page     int
}

// NewEngine builds an engine over records and auto-selects the most
// recent year and, within it, the most recent month.
func NewEngine(records []model.Clipping) *Engine {
	e := &Engine{page: 1, year: 0, month: -1}
	e.SetRecords(records)
	return e
}

// SetRecords replaces the record set and re-runs the auto-selection.
func (e *Engine) SetRecords(records []model.Clipping) {
	e.records = records
	e.year = 0
	e.month = -1
	e.page = 1
	if years := Years(records); len(years) > 0 {
		e.year = years[0]
		if months := Months(records, e.year); len(months) > 0 {
			e.month = months[0]
		}
	}
}

// Records returns the full record set the engine browses.
func (e *Engine) Records() []model.Clipping { return e.records }

// Year reports the selected year, zero when none is selected.
func (e *Engine) Year() int { return e.year }

// Month reports the selected zero-based month, -1 when none is
// selected.
func (e *Engine) Month() int { return e.month }

// PageNumber reports the current 1-based page.
func (e *Engine) PageNumber() int { return e.page }

// SelectYear picks a year and resets the month to the most recent one
// within it. Unknown years clear the selection.
func (e *Engine) SelectYear(year int) {
	e.year = 0
	e.month = -1
	e.page = 1
	for _, y := range Years(e.records) {
		if y == year {
			e.year = year
			if months := Months(e.records, year); len(months) > 0 {
				e.month = months[0]
			}
			return
		}
	}
}

// SelectMonth picks a zero-based month within the selected year. The
// year selection is untouched.
func (e *Engine) SelectMonth(month int) {
	if e.year == 0 || month < 0 || month > 11 {
		return
	}
	e.month = month
	e.page = 1
}

// SetCriteria replaces the filter criteria and resets to page 1.
func (e *Engine) SetCriteria(c Criteria) {
	e.criteria = c
	e.page = 1
}

// ChangePage moves to the given 1-based page. Requests outside the
// valid range leave the current page unchanged.
func (e *Engine) ChangePage(page int) {
	total := TotalPages(len(e.matches()), PageSize)
	if page < 1 || page > total {
		return
	}
	e.page = page
}

func (e *Engine) matches() []model.Clipping {
	if e.year == 0 || e.month < 0 {
		return nil
	}
	matched := make([]model.Clipping, 0)
	for _, rec := range Apply(e.records, e.criteria) {
		if rec.Date.Year() == e.year && rec.Date.MonthIndex() == e.month {
			matched = append(matched, rec)
		}
	}
	return matched
}

// View renders the current snapshot.
func (e *Engine) View() Page {
	if e.year == 0 || e.month < 0 {
		return Page{State: StatePrompt}
	}
	matched := e.matches()
	if len(matched) == 0 {
		return Page{State: StateEmpty}
	}
	total := len(matched)
	totalPages := TotalPages(total, PageSize)
	if e.page > totalPages {
		e.page = totalPages
	}
	start, end, _ := ResultsRange(total, e.page, PageSize)
	return Page{
		State:      StateResults,
		Records:    Paginate(matched, e.page, PageSize),
		Number:     e.page,
		TotalPages: totalPages,
		Total:      total,
		RangeStart: start,
		RangeEnd:   end,
		Controls:   PageControls(e.page, totalPages),
	}
}
