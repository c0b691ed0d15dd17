package service

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"regintel-backend/cache"
	"regintel-backend/models"
)

// PolicyLister lists stored policies without content
type PolicyLister interface {
	List(ctx context.Context, limit int) ([]models.Policy, error)
}

// GazetteCounter exposes the gazette dataset size
type GazetteCounter interface {
	List(ctx context.Context) ([]models.GazetteRecord, error)
}

// DashboardService aggregates registry counts for the overview cards
type DashboardService struct {
	policies    PolicyLister
	gazettes    GazetteCounter
	cache       *cache.Cache
	policyLimit int
	log         zerolog.Logger
}

// DashboardServiceOption is a functional option for DashboardService
type DashboardServiceOption func(*DashboardService)

// DashboardWithPolicyLister sets the policy source
func DashboardWithPolicyLister(policies PolicyLister) DashboardServiceOption {
	return func(s *DashboardService) {
		s.policies = policies
	}
}

// DashboardWithGazettes sets the gazette source
func DashboardWithGazettes(gazettes GazetteCounter) DashboardServiceOption {
	return func(s *DashboardService) {
		s.gazettes = gazettes
	}
}

// DashboardWithCache sets the summary cache
func DashboardWithCache(c *cache.Cache) DashboardServiceOption {
	return func(s *DashboardService) {
		s.cache = c
	}
}

// DashboardWithPolicyLimit caps how many policies the summary scans
func DashboardWithPolicyLimit(limit int) DashboardServiceOption {
	return func(s *DashboardService) {
		if limit > 0 {
			s.policyLimit = limit
		}
	}
}

// DashboardWithLogger sets the service logger
func DashboardWithLogger(log zerolog.Logger) DashboardServiceOption {
	return func(s *DashboardService) {
		s.log = log
	}
}

// NewDashboardService creates a dashboard service
func NewDashboardService(opts ...DashboardServiceOption) *DashboardService {
	s := &DashboardService{policyLimit: 300, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summary computes the dashboard counts. Results are cached; a gazette
// dataset failure degrades to a policy-only summary rather than an error.
func (s *DashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	if s.cache != nil {
		var cached models.DashboardSummary
		found, err := s.cache.GetJSON(ctx, "dashboard", "summary", &cached)
		if err != nil {
			s.log.Warn().Err(err).Msg("dashboard cache read failed")
		}
		if found {
			return &cached, nil
		}
	}

	var policies []models.Policy
	if s.policies != nil {
		listed, err := s.policies.List(ctx, s.policyLimit)
		if err != nil {
			return nil, err
		}
		policies = listed
	} else {
		s.log.Warn().Msg("policy storage unavailable for summary")
	}

	gazetteCount := 0
	if s.gazettes != nil {
		records, err := s.gazettes.List(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("gazette count unavailable for summary")
		} else {
			gazetteCount = len(records)
		}
	}

	summary := buildSummary(policies, gazetteCount)

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, "dashboard", "summary", summary); err != nil {
			s.log.Warn().Err(err).Msg("dashboard cache write failed")
		}
	}
	return summary, nil
}

// Invalidate drops the cached summary so the next read recomputes
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, "dashboard", "summary"); err != nil {
		s.log.Warn().Err(err).Msg("dashboard cache invalidation failed")
	}
}

func buildSummary(policies []models.Policy, gazetteCount int) *models.DashboardSummary {
	assigned := 0
	reviewed := 0
	pending := 0
	byAuthority := make(map[string]int)

	for _, p := range policies {
		if p.Assigned {
			assigned++
		}
		switch p.Status {
		case "Processed":
			reviewed++
		case "Pending":
			pending++
		}
		authority := p.Authority
		if authority == "" {
			authority = "Unknown"
		}
		byAuthority[authority]++
	}

	summary := &models.DashboardSummary{
		TotalDocuments:   len(policies) + gazetteCount,
		AssignedPolicies: assigned,
		ReviewedPolicies: reviewed,
		PendingPolicies:  pending,
		DocumentsByType:  make([]models.CountByType, 0, len(byAuthority)),
		ProcessingStatus: []models.CountByStatus{
			{Status: "Processed", Count: reviewed},
			{Status: "Pending", Count: pending},
		},
	}

	names := make([]string, 0, len(byAuthority))
	for name := range byAuthority {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		summary.DocumentsByType = append(summary.DocumentsByType, models.CountByType{
			Type:  name,
			Count: byAuthority[name],
		})
	}
	return summary
}
