package models

// CountByType represents a document count grouped by authority
type CountByType struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// CountByStatus represents a document count grouped by processing status
type CountByStatus struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// DashboardSummary represents the KPI figures shown on the dashboard
type DashboardSummary struct {
	TotalDocuments   int             `json:"totalDocuments"`
	AssignedPolicies int             `json:"assignedPolicies"`
	ReviewedPolicies int             `json:"reviewedPolicies"`
	PendingPolicies  int             `json:"pendingPolicies"`
	DocumentsByType  []CountByType   `json:"documentsByType"`
	ProcessingStatus []CountByStatus `json:"processingStatus"`
}
