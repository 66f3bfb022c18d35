package types

// ------------------------------
// Response Types
// ------------------------------

// IdentityList mirrors the paginated project listing.
type IdentityList struct {
	Total int        `json:"total"`
	Items []Identity `json:"items"`
}

// Ack is the acknowledgement returned by delete endpoints.
type Ack struct {
	Message string `json:"message"`
}

// KnowledgeCheck answers whether a character knows about an identity.
type KnowledgeCheck struct {
	Knows          bool               `json:"knows"`
	KnowledgeLevel KnowledgeLevel     `json:"knowledge_level,omitempty"`
	Knowledge      *IdentityKnowledge `json:"knowledge,omitempty"`
}
