package model

import "time"

// Identity types.
const (
	IdentityReal     = "real"
	IdentityPublic   = "public"
	IdentitySecret   = "secret"
	IdentityDisguise = "disguise"
)

// Identity statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusBurned   = "burned"
)

// Career types.
const (
	CareerMain = "main"
	CareerSub  = "sub"
)

// Knowledge levels.
const (
	KnowledgeFull      = "full"
	KnowledgePartial   = "partial"
	KnowledgeSuspected = "suspected"
)

// Character owns identities. The identity service only needs enough of it to
// scope identities to a project and to name knowers.
type Character struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Career is a catalog entry that identities can take up.
type Career struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	MaxStage  int       `json:"max_stage"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity is an alias or persona of a character.
type Identity struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	CharacterID  string    `json:"character_id"`
	Name         string    `json:"name"`
	IdentityType string    `json:"identity_type"`
	IsPrimary    bool      `json:"is_primary"`
	Appearance   string    `json:"appearance,omitempty"`
	Personality  string    `json:"personality,omitempty"`
	Background   string    `json:"background,omitempty"`
	VoiceStyle   string    `json:"voice_style,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IdentityDetail embeds careers and knowledge for the single-identity read.
type IdentityDetail struct {
	Identity
	Careers   []*IdentityCareer    `json:"careers"`
	Knowledge []*IdentityKnowledge `json:"knowledge"`
}

// IdentityCareer links an identity to a catalog career.
type IdentityCareer struct {
	ID                    string    `json:"id"`
	IdentityID            string    `json:"identity_id"`
	CareerID              string    `json:"career_id"`
	CareerType            string    `json:"career_type"`
	CurrentStage          int       `json:"current_stage"`
	StageProgress         int       `json:"stage_progress"`
	StartedAt             string    `json:"started_at,omitempty"`
	ReachedCurrentStageAt string    `json:"reached_current_stage_at,omitempty"`
	Notes                 string    `json:"notes,omitempty"`
	CareerName            string    `json:"career_name,omitempty"`
	CareerMaxStage        int       `json:"career_max_stage,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// IdentityKnowledge records that a character knows about an identity.
type IdentityKnowledge struct {
	ID                string    `json:"id"`
	IdentityID        string    `json:"identity_id"`
	KnowerCharacterID string    `json:"knower_character_id"`
	KnowledgeLevel    string    `json:"knowledge_level"`
	SinceWhen         string    `json:"since_when"`
	DiscoveredHow     string    `json:"discovered_how,omitempty"`
	IsSecret          bool      `json:"is_secret"`
	KnowerName        string    `json:"knower_name,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// IdentityFilter selects and orders identities of a project.
type IdentityFilter struct {
	ProjectID    string
	CharacterID  string
	IdentityType string
	Status       string
	SortBy       string // created_at, updated_at or name
	Descending   bool
	Limit        int
	Offset       int
}

// IdentityPatch holds the fields of a partial identity update; nil means
// unchanged.
type IdentityPatch struct {
	Name         *string `json:"name,omitempty"`
	IdentityType *string `json:"identity_type,omitempty"`
	IsPrimary    *bool   `json:"is_primary,omitempty"`
	Appearance   *string `json:"appearance,omitempty"`
	Personality  *string `json:"personality,omitempty"`
	Background   *string `json:"background,omitempty"`
	VoiceStyle   *string `json:"voice_style,omitempty"`
	Status       *string `json:"status,omitempty"`
}

// CareerPatch is a partial update of an identity career.
type CareerPatch struct {
	CurrentStage          *int    `json:"current_stage,omitempty"`
	StageProgress         *int    `json:"stage_progress,omitempty"`
	StartedAt             *string `json:"started_at,omitempty"`
	ReachedCurrentStageAt *string `json:"reached_current_stage_at,omitempty"`
	Notes                 *string `json:"notes,omitempty"`
}

// KnowledgePatch is a partial update of a knowledge record.
type KnowledgePatch struct {
	KnowledgeLevel *string `json:"knowledge_level,omitempty"`
	SinceWhen      *string `json:"since_when,omitempty"`
	DiscoveredHow  *string `json:"discovered_how,omitempty"`
	IsSecret       *bool   `json:"is_secret,omitempty"`
}

// KnowledgeCheck answers whether a character knows about an identity.
type KnowledgeCheck struct {
	Knows          bool               `json:"knows"`
	KnowledgeLevel string             `json:"knowledge_level,omitempty"`
	Knowledge      *IdentityKnowledge `json:"knowledge,omitempty"`
}
