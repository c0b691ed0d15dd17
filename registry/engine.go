// Package registry implements the document registry core: the table
// projection (filter, sort, paginate), the session-scoped selection store
// and the document source that merges the backend collections.
package registry

import (
	"sort"
	"strings"

	"regintel-backend/models"
)

// StatusFilter is the active status chip
type StatusFilter string

const (
	StatusAll        StatusFilter = "All"
	StatusReviewed   StatusFilter = "Reviewed"
	StatusUnreviewed StatusFilter = "Unreviewed"
	StatusManual     StatusFilter = "Manual"
)

// SortKey is one of the named sort presets. Exactly one is active at a time.
type SortKey string

const (
	SortDateDesc SortKey = "date_desc"
	SortDateAsc  SortKey = "date_asc"
	SortStatus   SortKey = "status"
)

// DefaultPageSize is the number of rows per registry page
const DefaultPageSize = 6

// Controls holds the search/filter/status/sort selections driving the
// visible row projection. Dimension (All|Type|Sector) is carried for the
// UI but does not constrain rows.
type Controls struct {
	Search    string
	Status    StatusFilter
	Dimension string
	Sort      SortKey
}

// Page is the resolved projection for one registry page. RangeStart and
// RangeEnd are 1-based and computed from the rows actually on the page, so
// a partial last page reports its true extent. An empty filtered set
// reports 0-0 of 0.
type Page struct {
	Rows       []models.Document
	Total      int
	PageIndex  int
	PageCount  int
	RangeStart int
	RangeEnd   int
}

// Filter returns the rows passing both the text search and the status chip.
// A row passes text search when the trimmed, case-folded search string is
// empty or is a substring of the row's title, file name or type. The status
// chip matches exactly and case-sensitively. Row order is preserved.
func Filter(rows []models.Document, c Controls) []models.Document {
	search := strings.ToLower(strings.TrimSpace(c.Search))
	status := c.Status
	if status == "" {
		status = StatusAll
	}

	out := make([]models.Document, 0, len(rows))
	for _, row := range rows {
		if search != "" && !matchesSearch(row, search) {
			continue
		}
		if status != StatusAll && string(row.Status) != string(status) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func matchesSearch(row models.Document, search string) bool {
	return strings.Contains(strings.ToLower(row.Title), search) ||
		strings.Contains(strings.ToLower(row.FileName), search) ||
		strings.Contains(strings.ToLower(string(row.Type)), search)
}

// Sort orders rows by the given preset. The sort is stable: ties keep their
// original relative order. The input slice is not mutated.
func Sort(rows []models.Document, key SortKey) []models.Document {
	out := make([]models.Document, len(rows))
	copy(out, rows)

	switch key {
	case SortDateAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	case SortStatus:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	default:
		// Date descending. Lexicographic on ISO-8601 dates is
		// order-equivalent to chronological.
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	}
	return out
}

// Paginate slices the filtered rows into the requested page. The page index
// is clamped to the valid range, so requesting past the end returns the
// last page rather than an empty one.
func Paginate(rows []models.Document, pageIndex, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	total := len(rows)
	pageCount := (total + pageSize - 1) / pageSize
	if pageCount == 0 {
		pageCount = 1
	}
	if pageIndex < 0 {
		pageIndex = 0
	}
	if pageIndex > pageCount-1 {
		pageIndex = pageCount - 1
	}

	start := pageIndex * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	page := Page{
		Rows:      rows[start:end],
		Total:     total,
		PageIndex: pageIndex,
		PageCount: pageCount,
	}
	if len(page.Rows) > 0 {
		page.RangeStart = start + 1
		page.RangeEnd = start + len(page.Rows)
	}
	return page
}

// Project applies filter, sort and pagination in one pass. It is a pure
// function of its inputs: identical inputs always produce an identical
// ordered row list.
func Project(rows []models.Document, c Controls, pageIndex, pageSize int) Page {
	return Paginate(Sort(Filter(rows, c), c.Sort), pageIndex, pageSize)
}
