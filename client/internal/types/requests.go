package types

import (
	"net/url"
	"strconv"
)

// ------------------------------
// Request Types
// ------------------------------

// IdentityCreate holds parameters for a new identity.
type IdentityCreate struct {
	CharacterID  string         `json:"character_id"`
	Name         string         `json:"name"`
	IdentityType IdentityType   `json:"identity_type"`
	IsPrimary    bool           `json:"is_primary"`
	Appearance   string         `json:"appearance,omitempty"`
	Personality  string         `json:"personality,omitempty"`
	Background   string         `json:"background,omitempty"`
	VoiceStyle   string         `json:"voice_style,omitempty"`
	Status       IdentityStatus `json:"status,omitempty"`
}

// IdentityUpdate is a partial update: nil fields are never sent and stay
// unchanged on the service.
type IdentityUpdate struct {
	Name         *string         `json:"name,omitempty"`
	IdentityType *IdentityType   `json:"identity_type,omitempty"`
	IsPrimary    *bool           `json:"is_primary,omitempty"`
	Appearance   *string         `json:"appearance,omitempty"`
	Personality  *string         `json:"personality,omitempty"`
	Background   *string         `json:"background,omitempty"`
	VoiceStyle   *string         `json:"voice_style,omitempty"`
	Status       *IdentityStatus `json:"status,omitempty"`
}

// IsEmpty reports whether the update carries no fields.
func (u IdentityUpdate) IsEmpty() bool {
	return u.Name == nil && u.IdentityType == nil && u.IsPrimary == nil &&
		u.Appearance == nil && u.Personality == nil && u.Background == nil &&
		u.VoiceStyle == nil && u.Status == nil
}

// SetPrimaryRequest is the body of the set-primary call.
type SetPrimaryRequest struct {
	CharacterID string `json:"character_id"`
}

// IdentityCareerCreate holds parameters for attaching a career.
// Nil CurrentStage/StageProgress are omitted so the service defaults apply.
type IdentityCareerCreate struct {
	CareerID              string     `json:"career_id"`
	CareerType            CareerType `json:"career_type"`
	CurrentStage          *int       `json:"current_stage,omitempty"`
	StageProgress         *int       `json:"stage_progress,omitempty"`
	StartedAt             string     `json:"started_at,omitempty"`
	ReachedCurrentStageAt string     `json:"reached_current_stage_at,omitempty"`
	Notes                 string     `json:"notes,omitempty"`
}

// IdentityCareerUpdate is a partial update. CareerID is immutable and
// therefore absent.
type IdentityCareerUpdate struct {
	CurrentStage          *int    `json:"current_stage,omitempty"`
	StageProgress         *int    `json:"stage_progress,omitempty"`
	StartedAt             *string `json:"started_at,omitempty"`
	ReachedCurrentStageAt *string `json:"reached_current_stage_at,omitempty"`
	Notes                 *string `json:"notes,omitempty"`
}

// IdentityKnowledgeCreate holds parameters for a new knowledge record.
type IdentityKnowledgeCreate struct {
	KnowerCharacterID string         `json:"knower_character_id"`
	KnowledgeLevel    KnowledgeLevel `json:"knowledge_level"`
	SinceWhen         string         `json:"since_when"`
	DiscoveredHow     string         `json:"discovered_how,omitempty"`
	IsSecret          *bool          `json:"is_secret,omitempty"`
}

// IdentityKnowledgeUpdate is a partial update. KnowerCharacterID is immutable.
type IdentityKnowledgeUpdate struct {
	KnowledgeLevel *KnowledgeLevel `json:"knowledge_level,omitempty"`
	SinceWhen      *string         `json:"since_when,omitempty"`
	DiscoveredHow  *string         `json:"discovered_how,omitempty"`
	IsSecret       *bool           `json:"is_secret,omitempty"`
}

// ListParams carries pagination, ordering and filters for identity lists.
// Zero values are not sent.
type ListParams struct {
	Page         int
	Limit        int
	SortBy       string
	SortOrder    string // "asc" or "desc"
	CharacterID  string
	IdentityType IdentityType
	Status       IdentityStatus
}

// Query encodes the non-zero parameters.
func (p ListParams) Query() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.SortBy != "" {
		q.Set("sort_by", p.SortBy)
	}
	if p.SortOrder != "" {
		q.Set("sort_order", p.SortOrder)
	}
	if p.CharacterID != "" {
		q.Set("character_id", p.CharacterID)
	}
	if p.IdentityType != "" {
		q.Set("identity_type", string(p.IdentityType))
	}
	if p.Status != "" {
		q.Set("status", string(p.Status))
	}
	return q
}
