package models

// DocumentStatus represents the review status of a registry document
type DocumentStatus string

const (
	StatusReviewed   DocumentStatus = "Reviewed"
	StatusUnreviewed DocumentStatus = "Unreviewed"
	StatusManual     DocumentStatus = "Manual"
)

// DocumentType represents the coarse category of a registry document
type DocumentType string

const (
	TypePolicy  DocumentType = "Policy"
	TypeGazette DocumentType = "Gazette"
)

// AIStatus represents the processing state of a document, display-only
type AIStatus string

const (
	AIStatusProcessed AIStatus = "Processed"
	AIStatusQueued    AIStatus = "Queued"
)

// Document represents one display record in the registry table.
// ID is unique within a loaded set and doubles as the selection and
// navigation key. SourceURL and RawContent are set only for
// externally-sourced records.
type Document struct {
	ID         string         `json:"id"`
	Type       DocumentType   `json:"type"`
	Title      string         `json:"title"`
	FileName   string         `json:"fileName"`
	Date       string         `json:"date"`
	Sector     string         `json:"sector"`
	Status     DocumentStatus `json:"status"`
	AIStatus   AIStatus       `json:"aiStatus"`
	SourceURL  string         `json:"sourceUrl,omitempty"`
	RawContent string         `json:"rawContent,omitempty"`
}
