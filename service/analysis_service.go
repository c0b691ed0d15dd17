package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"regintel-backend/cache"
	"regintel-backend/models"
)

const analysisRetrievalQuery = "regulatory compliance impact requirements"

// GazetteAnalyzer runs structured extraction for one gazette
type GazetteAnalyzer interface {
	AnalyzeGazette(ctx context.Context, gazetteID string) *models.GazetteAnalysisResult
}

// AnalysisService scores the regulatory impact of an organization profile,
// or of a single gazette when one is named
type AnalysisService struct {
	retrieval ContextRetriever
	llm       TextGenerator
	analyzer  GazetteAnalyzer
	cache     *cache.Cache
	log       zerolog.Logger
}

// AnalysisServiceOption is a functional option for AnalysisService
type AnalysisServiceOption func(*AnalysisService)

// AnalysisWithRetrieval sets the retrieval pipeline
func AnalysisWithRetrieval(r ContextRetriever) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.retrieval = r
	}
}

// AnalysisWithGenerator sets the text generator
func AnalysisWithGenerator(llm TextGenerator) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.llm = llm
	}
}

// AnalysisWithAnalyzer sets the gazette analyzer
func AnalysisWithAnalyzer(a GazetteAnalyzer) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.analyzer = a
	}
}

// AnalysisWithCache sets the result cache
func AnalysisWithCache(c *cache.Cache) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.cache = c
	}
}

// AnalysisWithLogger sets the service logger
func AnalysisWithLogger(log zerolog.Logger) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.log = log
	}
}

// NewAnalysisService creates an analysis service
func NewAnalysisService(opts ...AnalysisServiceOption) *AnalysisService {
	s := &AnalysisService{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run dispatches to the gazette path when gazetteID is set, otherwise to
// the profile path
func (s *AnalysisService) Run(ctx context.Context, profile models.OrganizationProfile, gazetteID string) (*models.AnalysisResult, error) {
	if gazetteID != "" && s.analyzer != nil {
		if result := s.runGazetteAnalysis(ctx, gazetteID); result != nil {
			return result, nil
		}
	}
	return s.runProfileAnalysis(ctx, profile)
}

// runGazetteAnalysis maps a structured gazette extraction onto the impact
// result shape. Returns nil when extraction produced no analysis, letting
// the caller fall through to the profile path.
func (s *AnalysisService) runGazetteAnalysis(ctx context.Context, gazetteID string) *models.AnalysisResult {
	extracted := s.analyzer.AnalyzeGazette(ctx, gazetteID)
	if extracted == nil || extracted.Analysis == nil {
		return nil
	}
	analysis := extracted.Analysis

	policyName := stringOr(analysis.PolicyName, stringOr(extracted.Subject, gazetteID))
	ministry := stringOr(analysis.Ministry, "Unknown ministry")
	policyType := stringOr(analysis.PolicyType, "Unknown type")
	riskLevel := stringOr(analysis.RiskLevel, "Low")
	penalties := stringOr(analysis.Penalties, "Not specified")

	summary := fmt.Sprintf("%s issued by %s (%s).", policyName, ministry, policyType)
	if extracted.URL != nil && *extracted.URL != "" {
		summary = fmt.Sprintf("%s Source: %s", summary, *extracted.URL)
	}

	projection := "Compliance actions: "
	if len(analysis.ComplianceActionsRequired) > 0 {
		actions := analysis.ComplianceActionsRequired
		if len(actions) > 4 {
			actions = actions[:4]
		}
		projection += strings.Join(actions, "; ")
	} else {
		projection += "Not specified"
	}
	projection += fmt.Sprintf(". Penalties: %s.", penalties)

	score := scoreFromRiskLevel(riskLevel)
	return &models.AnalysisResult{
		RelevantPolicies: []models.RelevantPolicy{
			{ID: gazetteID, ImpactLevel: impactFromRiskLevel(riskLevel)},
		},
		ImpactSummary:             summary,
		FinancialImpactProjection: projection,
		RiskScore:                 score,
		GrowthChartData:           growthData(score),
	}
}

func (s *AnalysisService) runProfileAnalysis(ctx context.Context, profile models.OrganizationProfile) (*models.AnalysisResult, error) {
	cacheKey := analysisCacheKey(profile)
	if s.cache != nil {
		var cached models.AnalysisResult
		found, err := s.cache.GetJSON(ctx, "analysis", cacheKey, &cached)
		if err != nil {
			s.log.Warn().Err(err).Msg("analysis cache read failed")
		}
		if found && len(cached.RelevantPolicies) > 0 {
			return &cached, nil
		}
	}

	var chunks []models.RetrievedChunk
	if s.retrieval != nil {
		retrieved, err := s.retrieval.RetrieveContext(ctx, profile, analysisRetrievalQuery)
		if err != nil {
			s.log.Warn().Err(err).Msg("retrieval failed, scoring without context")
		} else {
			chunks = retrieved
		}
	}

	relevant := make([]models.RelevantPolicy, 0, 5)
	for _, chunk := range chunks {
		if len(relevant) == 5 {
			break
		}
		relevant = append(relevant, models.RelevantPolicy{
			ID:          chunk.PolicyID,
			ImpactLevel: impactFromAuthority(chunk.Authority),
		})
	}

	summary, financial, riskLevel := s.generateImpactPayload(ctx, profile, len(chunks))
	score := riskScore(riskLevel, len(relevant))

	result := &models.AnalysisResult{
		RelevantPolicies:          relevant,
		ImpactSummary:             summary,
		FinancialImpactProjection: financial,
		RiskScore:                 score,
		GrowthChartData:           growthData(score),
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, "analysis", cacheKey, result); err != nil {
			s.log.Warn().Err(err).Msg("analysis cache write failed")
		}
	}
	return result, nil
}

// generateImpactPayload asks the LLM for a summary, a financial projection
// and a compliance risk level, degrading to a deterministic fallback keyed
// off context volume when generation fails
func (s *AnalysisService) generateImpactPayload(ctx context.Context, profile models.OrganizationProfile, contextCount int) (summary, financial, riskLevel string) {
	prompt := fmt.Sprintf(
		"You are a regulatory impact engine. Return only valid JSON with keys "+
			"summary, financial, compliance_risk_level. "+
			"Organization=%s, Industry=%s, Business Model=%s, Relevant policy chunks=%d.",
		profile.OrganizationName, profile.Industry, profile.BusinessModel, contextCount,
	)

	if s.llm != nil {
		payload, err := s.llm.GenerateJSON(ctx, prompt)
		if err == nil {
			summary = coerceString(payload["summary"])
			financial = coerceString(payload["financial"])
			riskLevel = coerceString(payload["compliance_risk_level"])
			if summary != "" && financial != "" && validRiskLevel(riskLevel) {
				return summary, financial, riskLevel
			}
		} else {
			s.log.Warn().Err(err).Msg("impact generation failed, using fallback payload")
		}
	}

	riskLevel = "LOW"
	if contextCount >= 6 {
		riskLevel = "HIGH"
	} else if contextCount >= 3 {
		riskLevel = "MEDIUM"
	}
	summary = fmt.Sprintf(
		"Automated fallback analysis for %s in %s. %d relevant policy chunks were identified for review.",
		profile.OrganizationName, profile.Industry, contextCount,
	)
	financial = "Estimated impact: prioritize compliance operations allocation for current review cycle and " +
		"track incremental cost exposure against control remediation milestones."
	return summary, financial, riskLevel
}

func stringOr(v *string, fallback string) string {
	if v != nil && *v != "" {
		return *v
	}
	return fallback
}

func validRiskLevel(level string) bool {
	switch level {
	case "LOW", "MEDIUM", "HIGH", "CRITICAL":
		return true
	}
	return false
}

func impactFromAuthority(authority string) string {
	switch authority {
	case "RBI", "SEBI":
		return "High"
	case "IRDAI":
		return "Medium"
	}
	return "Low"
}

func impactFromRiskLevel(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "high":
		return "High"
	case "medium":
		return "Medium"
	}
	return "Low"
}

func scoreFromRiskLevel(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "high":
		return 80
	case "medium":
		return 60
	}
	return 35
}

func riskScore(complianceRiskLevel string, policyCount int) int {
	base := map[string]int{"LOW": 25, "MEDIUM": 50, "HIGH": 75, "CRITICAL": 90}[complianceRiskLevel]
	bonus := policyCount * 2
	if bonus > 10 {
		bonus = 10
	}
	score := base + bonus
	if score > 100 {
		score = 100
	}
	return score
}

func growthData(riskScore int) []models.GrowthPoint {
	baseline := 100 - float64(riskScore)/2
	return []models.GrowthPoint{
		{Label: "Q1", Value: round2(baseline)},
		{Label: "Q2", Value: round2(baseline + 3)},
		{Label: "Q3", Value: round2(baseline + 6)},
		{Label: "Q4", Value: round2(baseline + 9)},
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func analysisCacheKey(profile models.OrganizationProfile) string {
	raw, _ := json.Marshal(profile)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
