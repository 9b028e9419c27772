package view

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spywithcode/ntpc/internal/model"
)

func rec(id int, title, date, category, description string) model.Clipping {
	d, err := model.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return model.Clipping{ID: id, Title: title, Date: d, Category: category, Description: description}
}

func sample() []model.Clipping {
	return []model.Clipping{
		rec(1, "Budget Approved", "2024-03-15", "Financial", "annual budget coverage"),
		rec(2, "New Clinic Opens", "2024-03-02", "Health", "clinic opening report"),
		rec(3, "Road Works Begin", "2024-01-20", "Infrastructure", "main street repaving"),
		rec(4, "School Awards", "2023-11-05", "Education", "yearly awards night"),
		rec(5, "Flood Response", "2023-11-01", "Emergency Services", "storm damage BUDGET review"),
	}
}

func TestApply(t *testing.T) {
	records := sample()

	tests := []struct {
		name     string
		criteria Criteria
		wantIDs  []int
	}{
		{"empty criteria matches everything", Criteria{}, []int{1, 2, 3, 4, 5}},
		{"case-insensitive search over title", Criteria{Search: "bUdGeT"}, []int{1, 5}},
		{"search over description", Criteria{Search: "repaving"}, []int{3}},
		{"category exact match", Criteria{Category: "Health"}, []int{2}},
		{"date from", Criteria{DateFrom: model.NewDate(2024, time.January, 1)}, []int{1, 2, 3}},
		{"date to", Criteria{DateTo: model.NewDate(2023, time.December, 31)}, []int{4, 5}},
		{
			"all criteria combine with AND",
			Criteria{Search: "budget", DateFrom: model.NewDate(2024, time.January, 1)},
			[]int{1},
		},
		{"no matches", Criteria{Search: "nothing here"}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(records, tt.criteria)
			ids := make([]int, 0, len(got))
			for _, r := range got {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	records := sample()
	_ = Apply(records, Criteria{Search: "budget"})
	assert.Equal(t, sample(), records)
}

func TestYearsAndMonths(t *testing.T) {
	records := sample()

	assert.Equal(t, []int{2024, 2023}, Years(records))
	assert.Equal(t, []int{2, 0}, Months(records, 2024))
	assert.Equal(t, []int{10}, Months(records, 2023))
	assert.Empty(t, Months(records, 1999))
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "Jan", MonthName(0))
	assert.Equal(t, "Dec", MonthName(11))
	assert.Equal(t, "", MonthName(-1))
	assert.Equal(t, "", MonthName(12))
}

func TestPaginate(t *testing.T) {
	records := make([]model.Clipping, 0, 21)
	for i := 1; i <= 21; i++ {
		records = append(records, model.Clipping{ID: i})
	}

	first := Paginate(records, 1, PageSize)
	require.Len(t, first, PageSize)
	assert.Equal(t, 1, first[0].ID)

	last := Paginate(records, 3, PageSize)
	require.Len(t, last, 3)
	assert.Equal(t, 19, last[0].ID)

	assert.Nil(t, Paginate(records, 4, PageSize))
	assert.Nil(t, Paginate(records, 0, PageSize))
	assert.Equal(t, 3, TotalPages(21, PageSize))
	assert.Equal(t, 0, TotalPages(0, PageSize))
}

func TestResultsRange(t *testing.T) {
	start, end, ok := ResultsRange(21, 1, PageSize)
	require.True(t, ok)
	assert.Equal(t, 1, start)
	assert.Equal(t, 9, end)

	start, end, ok = ResultsRange(21, 3, PageSize)
	require.True(t, ok)
	assert.Equal(t, 19, start)
	assert.Equal(t, 21, end)

	_, _, ok = ResultsRange(0, 1, PageSize)
	assert.False(t, ok)
}

func TestPageControls(t *testing.T) {
	render := func(controls []PageControl) string {
		out := ""
		for _, c := range controls {
			switch {
			case c.Ellipsis:
				out += "... "
			case c.Current:
				out += fmt.Sprintf("[%d] ", c.Page)
			default:
				out += fmt.Sprintf("%d ", c.Page)
			}
		}
		return out
	}

	assert.Nil(t, PageControls(1, 1))
	assert.Equal(t, "[1] 2 3 ", render(PageControls(1, 3)))
	assert.Equal(t, "1 ... 3 4 [5] 6 7 ... 10 ", render(PageControls(5, 10)))
	assert.Equal(t, "1 2 [3] 4 5 ... 10 ", render(PageControls(3, 10)))
	assert.Equal(t, "1 ... 6 7 [8] 9 10 ", render(PageControls(8, 10)))
}

func TestSummarize(t *testing.T) {
	now := time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC)
	s := Summarize(sample(), now)

	assert.Equal(t, 5, s.TotalClippings)
	assert.Equal(t, len(model.Categories), s.TotalCategories)
	assert.Equal(t, 2, s.ThisMonth)
}

func TestEngineAutoSelection(t *testing.T) {
	e := NewEngine(sample())

	assert.Equal(t, 2024, e.Year())
	assert.Equal(t, 2, e.Month())

	page := e.View()
	require.Equal(t, StateResults, page.State)
	assert.Equal(t, []int{1, 2}, ids(page.Records))
}

func TestEngineEmptyRecordSetPrompts(t *testing.T) {
	e := NewEngine(nil)
	assert.Equal(t, StatePrompt, e.View().State)
}

func TestEngineSelectYearResetsMonth(t *testing.T) {
	e := NewEngine(sample())

	e.SelectYear(2023)
	assert.Equal(t, 2023, e.Year())
	assert.Equal(t, 10, e.Month())

	page := e.View()
	require.Equal(t, StateResults, page.State)
	assert.Equal(t, []int{4, 5}, ids(page.Records))
}

func TestEngineSelectMonthKeepsYear(t *testing.T) {
	e := NewEngine(sample())

	e.SelectMonth(0)
	assert.Equal(t, 2024, e.Year())

	page := e.View()
	require.Equal(t, StateResults, page.State)
	assert.Equal(t, []int{3}, ids(page.Records))
}

func TestEngineEmptySelectionState(t *testing.T) {
	e := NewEngine(sample())

	e.SetCriteria(Criteria{Search: "no such clipping"})
	assert.Equal(t, StateEmpty, e.View().State)
}

func TestEngineChangePageClamps(t *testing.T) {
	records := make([]model.Clipping, 0, 21)
	for i := 1; i <= 21; i++ {
		records = append(records, rec(i, fmt.Sprintf("story %d", i), "2024-03-15", "General", ""))
	}
	e := NewEngine(records)

	e.ChangePage(0)
	assert.Equal(t, 1, e.PageNumber())

	e.ChangePage(4)
	assert.Equal(t, 1, e.PageNumber())

	e.ChangePage(3)
	assert.Equal(t, 3, e.PageNumber())

	page := e.View()
	assert.Equal(t, 3, page.Number)
	assert.Equal(t, 19, page.RangeStart)
	assert.Equal(t, 21, page.RangeEnd)
	assert.Len(t, page.Records, 3)

	// Any criteria change drops back to page 1.
	e.SetCriteria(Criteria{Search: "story"})
	assert.Equal(t, 1, e.PageNumber())
}

func ids(records []model.Clipping) []int {
	out := make([]int, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}
