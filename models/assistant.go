package models

// ChatReply represents the assistant's answer to one chat message
type ChatReply struct {
	Reply       string `json:"reply"`
	Confidence  string `json:"confidence"` // "LOW", "MEDIUM" or "HIGH"
	ContextUsed int    `json:"context_used"`
}

// RetrievedChunk represents one policy chunk matched during retrieval
type RetrievedChunk struct {
	Content        string  `json:"content"`
	PolicyID       string  `json:"policy_id"`
	Authority      string  `json:"authority"`
	RelevanceScore float64 `json:"relevance_score"`
}
