package models

// OrganizationProfile represents the organization running an impact analysis
type OrganizationProfile struct {
	OrganizationName string `json:"organization_name"`
	Industry         string `json:"industry"`
	BusinessModel    string `json:"business_model"`
	SubSector        string `json:"sub_sector,omitempty"`
}

// RelevantPolicy represents one policy matched by an impact analysis
type RelevantPolicy struct {
	ID          string `json:"id"`
	ImpactLevel string `json:"impactLevel"` // "High", "Medium" or "Low"
}

// GrowthPoint represents one quarter of the projected growth chart
type GrowthPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// AnalysisResult represents the outcome of an impact analysis run
type AnalysisResult struct {
	RelevantPolicies          []RelevantPolicy `json:"relevantPolicies"`
	ImpactSummary             string           `json:"impactSummary"`
	FinancialImpactProjection string           `json:"financialImpactProjection"`
	RiskScore                 int              `json:"riskScore"`
	GrowthChartData           []GrowthPoint    `json:"growthChartData"`
}
