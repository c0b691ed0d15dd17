package registry

import (
	"reflect"
	"testing"

	"regintel-backend/models"
)

func TestFilterEmptySearchIsIdentity(t *testing.T) {
	rows := SampleDocuments()

	got := Filter(rows, Controls{Search: "", Status: StatusAll})
	if !reflect.DeepEqual(got, rows) {
		t.Errorf("empty search should return all rows, got %d of %d", len(got), len(rows))
	}

	got = Filter(rows, Controls{Search: "   ", Status: StatusAll})
	if !reflect.DeepEqual(got, rows) {
		t.Errorf("whitespace search should return all rows, got %d of %d", len(got), len(rows))
	}
}

func TestFilterSearchMatchesTitleFileNameAndType(t *testing.T) {
	rows := SampleDocuments()

	tests := []struct {
		name   string
		search string
		want   int
	}{
		{"title substring", "retention", 1},
		{"case folded", "RETENTION", 1},
		{"file name substring", "kyc_master", 1},
		{"type substring", "gazette", 4},
		{"no match", "nonexistent-term", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(rows, Controls{Search: tt.search, Status: StatusAll})
			if len(got) != tt.want {
				t.Errorf("search %q: got %d rows, want %d", tt.search, len(got), tt.want)
			}
		})
	}
}

func TestFilterSearchRetentionReturnsExactRow(t *testing.T) {
	got := Filter(SampleDocuments(), Controls{Search: "retention", Status: StatusAll})
	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}
	if got[0].Title != "Cross-Border Retention Policy" {
		t.Errorf("got title %q, want %q", got[0].Title, "Cross-Border Retention Policy")
	}
}

func TestFilterStatusAllReturnsEverything(t *testing.T) {
	rows := SampleDocuments()
	got := Filter(rows, Controls{Status: StatusAll})
	if len(got) != len(rows) {
		t.Errorf("status All: got %d rows, want %d", len(got), len(rows))
	}

	// Unset status behaves as All.
	got = Filter(rows, Controls{})
	if len(got) != len(rows) {
		t.Errorf("unset status: got %d rows, want %d", len(got), len(rows))
	}
}

func TestFilterStatusMatchesExactly(t *testing.T) {
	rows := SampleDocuments()

	for _, status := range []StatusFilter{StatusReviewed, StatusUnreviewed, StatusManual} {
		got := Filter(rows, Controls{Status: status})
		if len(got) == 0 {
			t.Fatalf("status %s: expected matches in the sample set", status)
		}
		for _, row := range got {
			if string(row.Status) != string(status) {
				t.Errorf("status %s: row %s has status %s", status, row.ID, row.Status)
			}
		}
	}
}

func TestFilterStatusIsCaseSensitive(t *testing.T) {
	got := Filter(SampleDocuments(), Controls{Status: StatusFilter("reviewed")})
	if len(got) != 0 {
		t.Errorf("lowercase status token matched %d rows, want 0", len(got))
	}
}

func TestFilterDimensionDoesNotConstrainRows(t *testing.T) {
	rows := SampleDocuments()
	for _, dim := range []string{"All", "Type", "Sector"} {
		got := Filter(rows, Controls{Status: StatusAll, Dimension: dim})
		if len(got) != len(rows) {
			t.Errorf("dimension %q: got %d rows, want %d", dim, len(got), len(rows))
		}
	}
}

func TestSortDateDescending(t *testing.T) {
	got := Sort(SampleDocuments(), SortDateDesc)
	for i := 1; i < len(got); i++ {
		if got[i-1].Date < got[i].Date {
			t.Errorf("rows %d and %d out of order: %s before %s", i-1, i, got[i-1].Date, got[i].Date)
		}
	}
}

func TestSortDateAscending(t *testing.T) {
	got := Sort(SampleDocuments(), SortDateAsc)
	for i := 1; i < len(got); i++ {
		if got[i-1].Date > got[i].Date {
			t.Errorf("rows %d and %d out of order: %s before %s", i-1, i, got[i-1].Date, got[i].Date)
		}
	}
}

func TestSortIsIdempotent(t *testing.T) {
	for _, key := range []SortKey{SortDateDesc, SortDateAsc, SortStatus} {
		once := Sort(SampleDocuments(), key)
		twice := Sort(once, key)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("sort %s is not idempotent", key)
		}
	}
}

func TestSortIsStable(t *testing.T) {
	rows := []models.Document{
		{ID: "a", Date: "2025-01-01", Status: models.StatusReviewed},
		{ID: "b", Date: "2025-01-01", Status: models.StatusReviewed},
		{ID: "c", Date: "2025-01-01", Status: models.StatusReviewed},
	}
	got := Sort(rows, SortDateDesc)
	for i, want := range []string{"a", "b", "c"} {
		if got[i].ID != want {
			t.Errorf("position %d: got %s, want %s (ties must keep original order)", i, got[i].ID, want)
		}
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	rows := SampleDocuments()
	original := make([]models.Document, len(rows))
	copy(original, rows)

	Sort(rows, SortDateAsc)
	if !reflect.DeepEqual(rows, original) {
		t.Error("Sort mutated its input slice")
	}
}

func TestPaginateEightRowsDefaultPageSize(t *testing.T) {
	rows := SampleDocuments()

	page0 := Paginate(rows, 0, DefaultPageSize)
	if len(page0.Rows) != 6 || page0.RangeStart != 1 || page0.RangeEnd != 6 || page0.Total != 8 {
		t.Errorf("page 0: got %d rows, showing %d-%d of %d; want 6 rows, 1-6 of 8",
			len(page0.Rows), page0.RangeStart, page0.RangeEnd, page0.Total)
	}

	page1 := Paginate(rows, 1, DefaultPageSize)
	if len(page1.Rows) != 2 || page1.RangeStart != 7 || page1.RangeEnd != 8 || page1.Total != 8 {
		t.Errorf("page 1: got %d rows, showing %d-%d of %d; want 2 rows, 7-8 of 8",
			len(page1.Rows), page1.RangeStart, page1.RangeEnd, page1.Total)
	}
}

func TestPaginateCoversAllRowsExactlyOnce(t *testing.T) {
	rows := SampleDocuments()
	pageSize := 3

	seen := make(map[string]int)
	total := 0
	pageCount := Paginate(rows, 0, pageSize).PageCount
	for i := 0; i < pageCount; i++ {
		page := Paginate(rows, i, pageSize)
		total += len(page.Rows)
		for _, row := range page.Rows {
			seen[row.ID]++
		}
	}

	if total != len(rows) {
		t.Errorf("pages sum to %d rows, want %d", total, len(rows))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("row %s appeared %d times across pages", id, n)
		}
	}
}

func TestPaginateClampsPageIndex(t *testing.T) {
	rows := SampleDocuments()

	page := Paginate(rows, 99, DefaultPageSize)
	if page.PageIndex != 1 {
		t.Errorf("page index 99 clamped to %d, want 1", page.PageIndex)
	}

	page = Paginate(rows, -5, DefaultPageSize)
	if page.PageIndex != 0 {
		t.Errorf("page index -5 clamped to %d, want 0", page.PageIndex)
	}
}

func TestPaginateEmptySet(t *testing.T) {
	page := Paginate(nil, 3, DefaultPageSize)
	if page.Total != 0 || page.RangeStart != 0 || page.RangeEnd != 0 {
		t.Errorf("empty set: got showing %d-%d of %d, want 0-0 of 0",
			page.RangeStart, page.RangeEnd, page.Total)
	}
	if page.PageIndex != 0 {
		t.Errorf("empty set: page index %d, want 0", page.PageIndex)
	}
	if page.PageCount != 1 {
		t.Errorf("empty set: page count %d, want 1", page.PageCount)
	}
}

func TestProjectIsDeterministic(t *testing.T) {
	rows := SampleDocuments()
	c := Controls{Search: "policy", Status: StatusAll, Sort: SortDateAsc}

	first := Project(rows, c, 0, 4)
	second := Project(rows, c, 0, 4)
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different projections")
	}
}

func TestProjectFilterThenClearRestoresRows(t *testing.T) {
	rows := SampleDocuments()

	filtered := Filter(rows, Controls{Status: StatusReviewed})
	if len(filtered) == len(rows) {
		t.Fatal("expected the status chip to hide some rows")
	}

	cleared := Filter(rows, Controls{Status: StatusAll})
	if !reflect.DeepEqual(cleared, rows) {
		t.Error("clearing the filter did not restore the full row set")
	}
}
