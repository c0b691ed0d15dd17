package service

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"regintel-backend/models"
)

// PolicyContentLister lists policies including their content
type PolicyContentLister interface {
	ListWithContent(ctx context.Context, limit int) ([]models.Policy, error)
}

var retrievalTokens = regexp.MustCompile(`[a-zA-Z0-9]+`)

// RetrievalService matches policies against a query by keyword overlap.
// Embedding retrieval is disabled in the deployed system; this keyword
// scoring is the production path, not a stopgap.
type RetrievalService struct {
	policies   PolicyContentLister
	maxResults int
	log        zerolog.Logger
}

// RetrievalServiceOption is a functional option for RetrievalService
type RetrievalServiceOption func(*RetrievalService)

// RetrievalWithPolicyLister sets the policy source
func RetrievalWithPolicyLister(l PolicyContentLister) RetrievalServiceOption {
	return func(s *RetrievalService) {
		s.policies = l
	}
}

// RetrievalWithMaxResults caps how many chunks are returned
func RetrievalWithMaxResults(n int) RetrievalServiceOption {
	return func(s *RetrievalService) {
		s.maxResults = n
	}
}

// RetrievalWithLogger sets the service logger
func RetrievalWithLogger(log zerolog.Logger) RetrievalServiceOption {
	return func(s *RetrievalService) {
		s.log = log
	}
}

// NewRetrievalService creates a retrieval service
func NewRetrievalService(opts ...RetrievalServiceOption) *RetrievalService {
	s := &RetrievalService{
		maxResults: 8,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RetrieveContext returns the policies best matching the query and the
// organization's industry and business model, scored by the share of query
// terms found in the policy content.
func (s *RetrievalService) RetrieveContext(ctx context.Context, profile models.OrganizationProfile, query string) ([]models.RetrievedChunk, error) {
	if s.policies == nil {
		return nil, nil
	}

	limit := s.maxResults * 10
	if limit < 100 {
		limit = 100
	}
	docs, err := s.policies.ListWithContent(ctx, limit)
	if err != nil {
		return nil, err
	}

	haystack := strings.ToLower(query + " " + profile.Industry + " " + profile.BusinessModel)
	termSet := make(map[string]struct{})
	for _, token := range retrievalTokens.FindAllString(haystack, -1) {
		if len(token) >= 3 {
			termSet[token] = struct{}{}
		}
	}

	type scored struct {
		score float64
		chunk models.RetrievedChunk
	}
	var items []scored
	for _, doc := range docs {
		text := strings.ToLower(doc.Content)
		matches := 0
		for term := range termSet {
			if strings.Contains(text, term) {
				matches++
			}
		}
		if matches == 0 {
			continue
		}

		denom := len(termSet)
		if denom == 0 {
			denom = 1
		}
		score := float64(matches) / float64(denom)
		if score > 1 {
			score = 1
		}

		authority := doc.Authority
		if authority == "" {
			authority = "Unknown"
		}
		items = append(items, scored{
			score: score,
			chunk: models.RetrievedChunk{
				Content:        doc.Content,
				PolicyID:       doc.ID,
				Authority:      authority,
				RelevanceScore: score,
			},
		})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].score > items[j].score })
	if len(items) > s.maxResults {
		items = items[:s.maxResults]
	}

	chunks := make([]models.RetrievedChunk, len(items))
	for i, item := range items {
		chunks[i] = item.chunk
	}
	s.log.Info().Int("result_count", len(chunks)).Msg("keyword retrieval completed")
	return chunks, nil
}
