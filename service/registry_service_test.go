package service

import (
	"context"
	"errors"
	"testing"

	"regintel-backend/models"
	"regintel-backend/registry"
)

type fakePolicyGetter struct {
	policy *models.Policy
	err    error
}

func (f *fakePolicyGetter) GetByID(ctx context.Context, id string) (*models.Policy, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.policy, nil
}

func newTestRegistryService() *RegistryService {
	// a source with no listers serves the built-in fallback dataset
	return NewRegistryService(RegistryWithSource(registry.NewSource()))
}

func TestListServesFallbackDataset(t *testing.T) {
	svc := newTestRegistryService()

	page := svc.List(context.Background(), "session-a", registry.Controls{}, 0)
	if page.Total != 8 {
		t.Fatalf("total = %d, want 8", page.Total)
	}
	if len(page.Rows) != registry.DefaultPageSize {
		t.Errorf("rows = %d, want %d", len(page.Rows), registry.DefaultPageSize)
	}
	if page.RangeLabel != "Showing 1-6 of 8" {
		t.Errorf("range label = %q", page.RangeLabel)
	}
	if page.PageCount != 2 {
		t.Errorf("page count = %d, want 2", page.PageCount)
	}
}

func TestListSecondPage(t *testing.T) {
	svc := newTestRegistryService()

	page := svc.List(context.Background(), "session-a", registry.Controls{}, 1)
	if len(page.Rows) != 2 {
		t.Errorf("rows = %d, want 2", len(page.Rows))
	}
	if page.RangeLabel != "Showing 7-8 of 8" {
		t.Errorf("range label = %q", page.RangeLabel)
	}
}

func TestListAppliesSearch(t *testing.T) {
	svc := newTestRegistryService()

	page := svc.List(context.Background(), "session-a", registry.Controls{Search: "retention"}, 0)
	if page.Total != 1 {
		t.Fatalf("total = %d, want 1", page.Total)
	}
	if page.Rows[0].Title != "Cross-Border Retention Policy" {
		t.Errorf("row = %q", page.Rows[0].Title)
	}
	if page.RangeLabel != "Showing 1-1 of 1" {
		t.Errorf("range label = %q", page.RangeLabel)
	}
}

func TestSelectionSurvivesFiltering(t *testing.T) {
	svc := newTestRegistryService()
	session := "session-a"

	count := svc.SelectAllFiltered(context.Background(), session, registry.Controls{}, true)
	if count != 8 {
		t.Fatalf("selected %d rows, want 8", count)
	}

	filtered := svc.List(context.Background(), session, registry.Controls{Search: "retention"}, 0)
	if filtered.SelectedCount != filtered.Total {
		t.Errorf("selected count while filtered = %d, want %d", filtered.SelectedCount, filtered.Total)
	}
	if filtered.Total >= 8 {
		t.Fatalf("filter matched %d rows, expected a strict subset", filtered.Total)
	}
	if len(filtered.Selected) != filtered.SelectedCount {
		t.Errorf("selected list has %d ids, count reports %d", len(filtered.Selected), filtered.SelectedCount)
	}
	if !filtered.AllSelected {
		t.Error("filtered subset of a full selection should report all selected")
	}

	unfiltered := svc.List(context.Background(), session, registry.Controls{}, 0)
	if !unfiltered.AllSelected || unfiltered.SelectedCount != 8 {
		t.Errorf("after clearing filter: count=%d allSelected=%v", unfiltered.SelectedCount, unfiltered.AllSelected)
	}
}

func TestSelectToggleAndClear(t *testing.T) {
	svc := newTestRegistryService()
	session := "session-a"

	svc.Select(session, "pol-001", true)
	svc.Select(session, "gaz-001", true)

	page := svc.List(context.Background(), session, registry.Controls{}, 0)
	if page.SelectedCount != 2 {
		t.Errorf("selected count = %d, want 2", page.SelectedCount)
	}
	if page.AllSelected {
		t.Error("partial selection should not report all selected")
	}

	svc.Select(session, "gaz-001", false)
	svc.ClearSelection(session)

	page = svc.List(context.Background(), session, registry.Controls{}, 0)
	if page.SelectedCount != 0 || len(page.Selected) != 0 {
		t.Errorf("after clear: count=%d selected=%v", page.SelectedCount, page.Selected)
	}
}

func TestSelectionsAreSessionScoped(t *testing.T) {
	svc := newTestRegistryService()

	svc.Select("session-a", "pol-001", true)

	pageB := svc.List(context.Background(), "session-b", registry.Controls{}, 0)
	if pageB.SelectedCount != 0 {
		t.Errorf("session-b selected count = %d, want 0", pageB.SelectedCount)
	}
}

func TestSelectAllFilteredScopesToFilter(t *testing.T) {
	svc := newTestRegistryService()
	session := "session-a"

	count := svc.SelectAllFiltered(context.Background(), session, registry.Controls{Status: registry.StatusReviewed}, true)
	if count == 0 || count == 8 {
		t.Fatalf("selected %d rows, want a strict subset", count)
	}

	page := svc.List(context.Background(), session, registry.Controls{}, 0)
	if page.SelectedCount != count {
		t.Errorf("selected count = %d, want %d", page.SelectedCount, count)
	}
	if page.AllSelected {
		t.Error("subset selection should not report all selected over the full set")
	}
}

func TestPolicyDetailParsesSections(t *testing.T) {
	getter := &fakePolicyGetter{policy: &models.Policy{
		ID:            "pol-001",
		Title:         "KYC Master Directions",
		Authority:     "RBI",
		Version:       "2.1",
		EffectiveDate: "2025-11-14",
		Content:       "Scope of application.\n\n  Customer due diligence.  \nRecord keeping.",
	}}
	svc := NewRegistryService(
		RegistryWithSource(registry.NewSource()),
		RegistryWithPolicyGetter(getter),
	)

	detail, err := svc.PolicyDetail(context.Background(), "pol-001")
	if err != nil {
		t.Fatalf("PolicyDetail: %v", err)
	}
	if len(detail.Sections) != 3 {
		t.Fatalf("sections = %d, want 3 non-empty lines", len(detail.Sections))
	}
	if detail.Sections[0].Title != "Section 1" || detail.Sections[0].Content != "Scope of application." {
		t.Errorf("first section = %+v", detail.Sections[0])
	}
	if detail.Sections[1].Content != "Customer due diligence." {
		t.Errorf("section content should be trimmed, got %q", detail.Sections[1].Content)
	}
	if detail.Metadata["authority"] != "RBI" || detail.Metadata["version"] != "2.1" {
		t.Errorf("metadata = %+v", detail.Metadata)
	}
}

func TestPolicyDetailWithoutStore(t *testing.T) {
	svc := newTestRegistryService()

	if _, err := svc.PolicyDetail(context.Background(), "pol-001"); !errors.Is(err, ErrPolicyDetailUnavailable) {
		t.Fatalf("expected ErrPolicyDetailUnavailable, got %v", err)
	}
}

func TestRefreshReloadsSnapshot(t *testing.T) {
	svc := newTestRegistryService()

	first := svc.List(context.Background(), "session-a", registry.Controls{}, 0)
	rows := svc.Refresh(context.Background())
	if len(rows) != first.Total {
		t.Errorf("refresh returned %d rows, want %d", len(rows), first.Total)
	}
}
