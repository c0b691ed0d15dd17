package service

import (
	"context"
	"errors"
	"testing"

	"regintel-backend/models"
)

type fakeContentLister struct {
	policies []models.Policy
	err      error
	limit    int
}

func (f *fakeContentLister) ListWithContent(ctx context.Context, limit int) ([]models.Policy, error) {
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.policies, nil
}

func TestRetrieveContextRanksByTermOverlap(t *testing.T) {
	lister := &fakeContentLister{policies: []models.Policy{
		{ID: "pol-1", Authority: "RBI", Content: "Capital requirements for banks."},
		{ID: "pol-2", Authority: "SEBI", Content: "Capital adequacy and liquidity norms for banks."},
		{ID: "pol-3", Authority: "IRDAI", Content: "Motor insurance premium tables."},
	}}
	svc := NewRetrievalService(RetrievalWithPolicyLister(lister))

	chunks, err := svc.RetrieveContext(context.Background(), models.OrganizationProfile{}, "capital adequacy norms")
	if err != nil {
		t.Fatalf("RetrieveContext: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if chunks[0].PolicyID != "pol-2" {
		t.Errorf("top chunk = %s, want pol-2", chunks[0].PolicyID)
	}
	if chunks[0].RelevanceScore <= chunks[1].RelevanceScore {
		t.Errorf("scores not descending: %f then %f", chunks[0].RelevanceScore, chunks[1].RelevanceScore)
	}
}

func TestRetrieveContextUsesProfileTerms(t *testing.T) {
	lister := &fakeContentLister{policies: []models.Policy{
		{ID: "pol-1", Content: "Obligations for the banking sector."},
	}}
	svc := NewRetrievalService(RetrievalWithPolicyLister(lister))

	chunks, err := svc.RetrieveContext(
		context.Background(),
		models.OrganizationProfile{Industry: "banking"},
		"obligations",
	)
	if err != nil {
		t.Fatalf("RetrieveContext: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].RelevanceScore != 1 {
		t.Errorf("score = %f, want 1 when every term matches", chunks[0].RelevanceScore)
	}
}

func TestRetrieveContextIgnoresShortTokens(t *testing.T) {
	lister := &fakeContentLister{policies: []models.Policy{
		{ID: "pol-1", Content: "as to of it is in"},
	}}
	svc := NewRetrievalService(RetrievalWithPolicyLister(lister))

	chunks, err := svc.RetrieveContext(context.Background(), models.OrganizationProfile{}, "as to of")
	if err != nil {
		t.Fatalf("RetrieveContext: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("got %d chunks, want 0 when no token is 3 chars or longer", len(chunks))
	}
}

func TestRetrieveContextCapsResults(t *testing.T) {
	var policies []models.Policy
	for i := 0; i < 12; i++ {
		policies = append(policies, models.Policy{
			ID:      "pol",
			Content: "compliance reporting obligations",
		})
	}
	lister := &fakeContentLister{policies: policies}
	svc := NewRetrievalService(
		RetrievalWithPolicyLister(lister),
		RetrievalWithMaxResults(4),
	)

	chunks, err := svc.RetrieveContext(context.Background(), models.OrganizationProfile{}, "compliance reporting")
	if err != nil {
		t.Fatalf("RetrieveContext: %v", err)
	}
	if len(chunks) != 4 {
		t.Errorf("got %d chunks, want max 4", len(chunks))
	}
	if lister.limit < 100 {
		t.Errorf("scan limit = %d, want at least 100", lister.limit)
	}
}

func TestRetrieveContextDefaultsAuthority(t *testing.T) {
	lister := &fakeContentLister{policies: []models.Policy{
		{ID: "pol-1", Content: "retention schedule"},
	}}
	svc := NewRetrievalService(RetrievalWithPolicyLister(lister))

	chunks, err := svc.RetrieveContext(context.Background(), models.OrganizationProfile{}, "retention")
	if err != nil {
		t.Fatalf("RetrieveContext: %v", err)
	}
	if chunks[0].Authority != "Unknown" {
		t.Errorf("authority = %q, want Unknown", chunks[0].Authority)
	}
}

func TestRetrieveContextPropagatesStoreError(t *testing.T) {
	storeErr := errors.New("connection refused")
	svc := NewRetrievalService(RetrievalWithPolicyLister(&fakeContentLister{err: storeErr}))

	if _, err := svc.RetrieveContext(context.Background(), models.OrganizationProfile{}, "anything"); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}
