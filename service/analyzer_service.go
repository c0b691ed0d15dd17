package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"regintel-backend/models"
)

const gazetteAnalysisPrompt = `You are an Indian Regulatory Intelligence Engine.

Analyze the following official Gazette notification.

Extract:

1. Regulation name
2. Ministry/Department
3. Policy type (Act, Amendment, Notification, Circular, Rule)
4. Date of issue
5. Effective date
6. Industries impacted
7. Departments impacted (HR, Legal, Finance, IT, Operations)
8. Compliance actions required
9. Penalties for non-compliance
10. Risk level (Low, Medium, High)

Rules:
- Do not hallucinate.
- If a field is unclear, return null.
- Only use the provided text.
- Return strictly valid JSON.

Return JSON using this exact schema:
{
  "policy_name": "",
  "ministry": "",
  "policy_type": "",
  "date_of_issue": "",
  "effective_date": "",
  "industries_impacted": [],
  "departments_impacted": [],
  "compliance_actions_required": [],
  "penalties": "",
  "risk_level": ""
}

Gazette Subject: %s
Gazette ID: %s
Gazette Text:
%s
`

const (
	analyzerChunkSize    = 12000
	analyzerChunkOverlap = 800
	// inputs beyond this estimated token count are condensed to top chunks
	analyzerTokenBudget = 10000
	analyzerTopChunks   = 3
	fallbackTextLimit   = 1200

	analysisUnavailable = "Policy analysis temporarily unavailable"

	chunkRankingQuery = "regulation name ministry policy type date effective date industry departments compliance penalties risk"
)

var analyzerTokenPattern = regexp.MustCompile(`[a-zA-Z]{3,}`)

// GazetteReader provides gazette records for analysis
type GazetteReader interface {
	List(ctx context.Context) ([]models.GazetteRecord, error)
	GetByID(ctx context.Context, id string) (*models.GazetteRecord, error)
}

// AnalyzerService extracts structured policy metadata from gazette text
// through the LLM. Extraction failure produces a fallback excerpt instead
// of an error so callers can always render something.
type AnalyzerService struct {
	gazettes GazetteReader
	llm      TextGenerator
	log      zerolog.Logger
}

// AnalyzerServiceOption is a functional option for AnalyzerService
type AnalyzerServiceOption func(*AnalyzerService)

// AnalyzerWithGazettes sets the gazette source
func AnalyzerWithGazettes(gazettes GazetteReader) AnalyzerServiceOption {
	return func(s *AnalyzerService) {
		s.gazettes = gazettes
	}
}

// AnalyzerWithGenerator sets the text generator
func AnalyzerWithGenerator(llm TextGenerator) AnalyzerServiceOption {
	return func(s *AnalyzerService) {
		s.llm = llm
	}
}

// AnalyzerWithLogger sets the service logger
func AnalyzerWithLogger(log zerolog.Logger) AnalyzerServiceOption {
	return func(s *AnalyzerService) {
		s.log = log
	}
}

// NewAnalyzerService creates an analyzer service
func NewAnalyzerService(opts ...AnalyzerServiceOption) *AnalyzerService {
	s := &AnalyzerService{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyzeGazette runs structured extraction for one gazette record
func (s *AnalyzerService) AnalyzeGazette(ctx context.Context, gazetteID string) *models.GazetteAnalysisResult {
	record, err := s.gazettes.GetByID(ctx, gazetteID)
	if err != nil {
		return &models.GazetteAnalysisResult{Error: analysisUnavailable}
	}
	return s.analyzeRecord(ctx, record)
}

// AnalyzeAll analyzes the first limit records of the dataset
func (s *AnalyzerService) AnalyzeAll(ctx context.Context, limit int) ([]*models.GazetteAnalysisResult, error) {
	records, err := s.gazettes.List(ctx)
	if err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = 1
	}
	if len(records) > limit {
		records = records[:limit]
	}

	results := make([]*models.GazetteAnalysisResult, 0, len(records))
	for i := range records {
		if strings.TrimSpace(records[i].ID) == "" {
			continue
		}
		results = append(results, s.analyzeRecord(ctx, &records[i]))
	}
	return results, nil
}

func (s *AnalyzerService) analyzeRecord(ctx context.Context, record *models.GazetteRecord) *models.GazetteAnalysisResult {
	gazetteID := strings.TrimSpace(record.ID)
	subject := strings.TrimSpace(record.Subject)
	url := strings.TrimSpace(record.URL)
	text := strings.TrimSpace(record.Text)

	result := &models.GazetteAnalysisResult{
		GazetteID: gazetteID,
		Subject:   optional(subject),
		URL:       optional(url),
	}
	if text == "" {
		return result
	}
	result.FallbackText = truncate(text, fallbackTextLimit)

	analysisText := text
	if estimateTokens(text) > analyzerTokenBudget {
		analysisText = strings.Join(topChunks(text, chunkRankingQuery, analyzerTopChunks), "\n\n---\n\n")
	}

	prompt := fmt.Sprintf(gazetteAnalysisPrompt, subject, gazetteID, analysisText)
	payload, err := s.generateWithSingleRetry(ctx, prompt)
	if err != nil {
		s.log.Warn().Err(err).Str("gazette_id", gazetteID).Msg("gazette extraction failed")
		result.Error = analysisUnavailable
		return result
	}

	result.Analysis = normalizeAnalysis(payload)
	return result
}

func (s *AnalyzerService) generateWithSingleRetry(ctx context.Context, prompt string) (map[string]any, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		payload, err := s.llm.GenerateJSON(ctx, prompt)
		if err != nil {
			lastErr = err
			continue
		}
		return payload, nil
	}
	return nil, lastErr
}

func estimateTokens(text string) int {
	tokens := (len(text) + 3) / 4
	if tokens < 1 {
		return 1
	}
	return tokens
}

// chunkText splits text into overlapping windows so extraction never has
// to read past the model's context limit
func chunkText(text string, maxChars, overlap int) []string {
	if len(text) <= maxChars {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + maxChars
		if end > len(text) {
			end = len(text)
		}
		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end >= len(text) {
			break
		}
		start = end - overlap
		if start < 0 {
			start = 0
		}
	}
	return chunks
}

// topChunks ranks chunks by overlap with the query terms and keeps the best
// k, preserving original order among equals
func topChunks(text, query string, k int) []string {
	chunks := chunkText(text, analyzerChunkSize, analyzerChunkOverlap)
	if len(chunks) <= k {
		return chunks
	}

	terms := analyzerTokenPattern.FindAllString(strings.ToLower(query), -1)
	type scored struct {
		score int
		chunk string
	}
	ranked := make([]scored, 0, len(chunks))
	for _, chunk := range chunks {
		lowered := strings.ToLower(chunk)
		score := 0
		for _, term := range terms {
			score += strings.Count(lowered, term)
		}
		ranked = append(ranked, scored{score: score, chunk: chunk})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	top := make([]string, 0, k)
	for _, entry := range ranked[:k] {
		top = append(top, entry.chunk)
	}
	return top
}

func normalizeAnalysis(payload map[string]any) *models.GazetteAnalysis {
	return &models.GazetteAnalysis{
		PolicyName:                cleanField(payload["policy_name"]),
		Ministry:                  cleanField(payload["ministry"]),
		PolicyType:                cleanField(payload["policy_type"]),
		DateOfIssue:               cleanField(payload["date_of_issue"]),
		EffectiveDate:             cleanField(payload["effective_date"]),
		IndustriesImpacted:        cleanList(payload["industries_impacted"]),
		DepartmentsImpacted:       cleanList(payload["departments_impacted"]),
		ComplianceActionsRequired: cleanList(payload["compliance_actions_required"]),
		Penalties:                 cleanField(payload["penalties"]),
		RiskLevel:                 cleanField(payload["risk_level"]),
	}
}

// cleanField trims a loosely typed value, mapping blanks and non-strings
// to nil
func cleanField(value any) *string {
	str, ok := value.(string)
	if !ok {
		return nil
	}
	return optional(strings.TrimSpace(str))
}

func cleanList(value any) []string {
	items, ok := value.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		str, ok := item.(string)
		if !ok {
			continue
		}
		if trimmed := strings.TrimSpace(str); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
