package models

// GazetteRecord represents one entry of the gazette dataset. The upstream
// feed is loosely typed, so every field may be absent or empty.
type GazetteRecord struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	URL     string `json:"url"`
	Text    string `json:"text"`
}

// GazetteAnalysis represents the structured extraction for one gazette.
// Unclear fields are nil rather than guessed.
type GazetteAnalysis struct {
	PolicyName                *string  `json:"policy_name"`
	Ministry                  *string  `json:"ministry"`
	PolicyType                *string  `json:"policy_type"`
	DateOfIssue               *string  `json:"date_of_issue"`
	EffectiveDate             *string  `json:"effective_date"`
	IndustriesImpacted        []string `json:"industries_impacted"`
	DepartmentsImpacted       []string `json:"departments_impacted"`
	ComplianceActionsRequired []string `json:"compliance_actions_required"`
	Penalties                 *string  `json:"penalties"`
	RiskLevel                 *string  `json:"risk_level"`
}

// PolicyQuerySource is one gazette excerpt supporting an answer
type PolicyQuerySource struct {
	GazetteID string `json:"gazette_id"`
	Subject   string `json:"subject"`
	Chunk     string `json:"chunk"`
}

// PolicyQueryResult is the answer to a policy question together with the
// excerpts it was grounded on. Answer and Error are mutually exclusive.
type PolicyQueryResult struct {
	Answer  string              `json:"answer,omitempty"`
	Error   string              `json:"error,omitempty"`
	Sources []PolicyQuerySource `json:"sources"`
}

// GazetteAnalysisResult represents the analyzer output for one gazette,
// including fallback text when extraction fails
type GazetteAnalysisResult struct {
	GazetteID    string           `json:"gazette_id,omitempty"`
	Subject      *string          `json:"subject"`
	URL          *string          `json:"url"`
	Analysis     *GazetteAnalysis `json:"analysis"`
	FallbackText string           `json:"fallback_text"`
	Error        string           `json:"error,omitempty"`
}
