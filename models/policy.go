package models

import "time"

// Policy represents a policy record as stored in the policy collection
type Policy struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Authority     string    `json:"authority"`
	Version       string    `json:"version"`
	EffectiveDate string    `json:"effectiveDate"`
	Status        string    `json:"status"`
	Assigned      bool      `json:"assigned"`
	Content       string    `json:"-"`
	CreatedAt     time.Time `json:"-"`
}

// PolicySection represents one parsed block of policy content
type PolicySection struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Highlight bool   `json:"highlight"`
}

// PolicyDetail represents a policy with its full content and parsed sections
type PolicyDetail struct {
	Policy
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
	Sections []PolicySection   `json:"sections"`
}
