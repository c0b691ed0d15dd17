package registry

import "regintel-backend/models"

// SampleDocuments returns the fixed fallback dataset used when every
// collection fetch fails or returns nothing. The table is never empty
// during development or an outage; order and content are deterministic.
func SampleDocuments() []models.Document {
	return []models.Document{
		{
			ID:       "pol-001",
			Type:     models.TypePolicy,
			Title:    "Digital Lending Guidelines 2025",
			FileName: "digital_lending_guidelines_2025.pdf",
			Date:     "2025-11-14",
			Sector:   "RBI",
			Status:   models.StatusReviewed,
			AIStatus: models.AIStatusProcessed,
		},
		{
			ID:       "pol-002",
			Type:     models.TypePolicy,
			Title:    "Cross-Border Retention Policy",
			FileName: "cross_border_retention_policy.pdf",
			Date:     "2025-10-02",
			Sector:   "MeitY",
			Status:   models.StatusUnreviewed,
			AIStatus: models.AIStatusQueued,
		},
		{
			ID:       "pol-003",
			Type:     models.TypePolicy,
			Title:    "KYC Master Direction Amendment",
			FileName: "kyc_master_direction_amendment.pdf",
			Date:     "2025-09-18",
			Sector:   "RBI",
			Status:   models.StatusReviewed,
			AIStatus: models.AIStatusProcessed,
		},
		{
			ID:       "pol-004",
			Type:     models.TypePolicy,
			Title:    "Listed Entity Disclosure Norms",
			FileName: "listed_entity_disclosure_norms.pdf",
			Date:     "2025-08-27",
			Sector:   "SEBI",
			Status:   models.StatusManual,
			AIStatus: models.AIStatusQueued,
		},
		{
			ID:       "gaz-001",
			Type:     models.TypeGazette,
			Title:    "Insurance Product Filing Circular",
			FileName: "insurance_product_filing_circular.pdf",
			Date:     "2025-07-30",
			Sector:   "IRDAI",
			Status:   models.StatusUnreviewed,
			AIStatus: models.AIStatusQueued,
		},
		{
			ID:       "gaz-002",
			Type:     models.TypeGazette,
			Title:    "Payment Aggregator Licensing Update",
			FileName: "payment_aggregator_licensing_update.pdf",
			Date:     "2025-06-12",
			Sector:   "RBI",
			Status:   models.StatusReviewed,
			AIStatus: models.AIStatusProcessed,
		},
		{
			ID:       "gaz-003",
			Type:     models.TypeGazette,
			Title:    "Data Protection Rules Notification",
			FileName: "data_protection_rules_notification.pdf",
			Date:     "2025-05-05",
			Sector:   "MeitY",
			Status:   models.StatusManual,
			AIStatus: models.AIStatusQueued,
		},
		{
			ID:       "gaz-004",
			Type:     models.TypeGazette,
			Title:    "Foreign Exchange Reporting Circular",
			FileName: "foreign_exchange_reporting_circular.pdf",
			Date:     "2025-04-21",
			Sector:   "RBI",
			Status:   models.StatusUnreviewed,
			AIStatus: models.AIStatusQueued,
		},
	}
}
