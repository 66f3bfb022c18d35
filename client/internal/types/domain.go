package types

// ------------------------------
// Enumerations
// ------------------------------

// IdentityType classifies how an identity relates to its character.
type IdentityType string

const (
	IdentityReal     IdentityType = "real"
	IdentityPublic   IdentityType = "public"
	IdentitySecret   IdentityType = "secret"
	IdentityDisguise IdentityType = "disguise"
)

// IdentityStatus is the lifecycle state of an identity inside the story.
type IdentityStatus string

const (
	StatusActive   IdentityStatus = "active"
	StatusInactive IdentityStatus = "inactive"
	StatusBurned   IdentityStatus = "burned"
)

// CareerType distinguishes a main career from a side career.
type CareerType string

const (
	CareerMain CareerType = "main"
	CareerSub  CareerType = "sub"
)

// KnowledgeLevel is how certain a knower is about an identity.
type KnowledgeLevel string

const (
	KnowledgeFull      KnowledgeLevel = "full"
	KnowledgePartial   KnowledgeLevel = "partial"
	KnowledgeSuspected KnowledgeLevel = "suspected"
)

// ------------------------------
// Core Domain Entities
// ------------------------------

// Identity is an alias or persona owned by a character.
type Identity struct {
	ID           string         `json:"id"`
	ProjectID    string         `json:"project_id"`
	CharacterID  string         `json:"character_id"`
	Name         string         `json:"name"`
	IdentityType IdentityType   `json:"identity_type"`
	IsPrimary    bool           `json:"is_primary"`
	Appearance   string         `json:"appearance,omitempty"`
	Personality  string         `json:"personality,omitempty"`
	Background   string         `json:"background,omitempty"`
	VoiceStyle   string         `json:"voice_style,omitempty"`
	Status       IdentityStatus `json:"status"`
	CreatedAt    string         `json:"created_at"`
	UpdatedAt    string         `json:"updated_at"`
}

// IdentityDetail is an identity together with its careers and knowledge,
// as returned by the single-identity endpoint.
type IdentityDetail struct {
	Identity
	Careers   []IdentityCareer    `json:"careers,omitempty"`
	Knowledge []IdentityKnowledge `json:"knowledge,omitempty"`
}

// IdentityCareer links an identity to a career from the project catalog.
type IdentityCareer struct {
	ID                    string     `json:"id"`
	IdentityID            string     `json:"identity_id"`
	CareerID              string     `json:"career_id"`
	CareerType            CareerType `json:"career_type"`
	CurrentStage          int        `json:"current_stage"`
	StageProgress         int        `json:"stage_progress"`
	StartedAt             string     `json:"started_at,omitempty"`
	ReachedCurrentStageAt string     `json:"reached_current_stage_at,omitempty"`
	Notes                 string     `json:"notes,omitempty"`
	CareerName            string     `json:"career_name,omitempty"`
	CareerMaxStage        int        `json:"career_max_stage,omitempty"`
}

// IdentityKnowledge records that another character knows about an identity.
type IdentityKnowledge struct {
	ID                string         `json:"id"`
	IdentityID        string         `json:"identity_id"`
	KnowerCharacterID string         `json:"knower_character_id"`
	KnowledgeLevel    KnowledgeLevel `json:"knowledge_level"`
	SinceWhen         string         `json:"since_when"`
	DiscoveredHow     string         `json:"discovered_how,omitempty"`
	IsSecret          bool           `json:"is_secret"`
	CreatedAt         string         `json:"created_at"`
	KnowerName        string         `json:"knower_name,omitempty"`
}

// Character is the external owner of identities. Read-only on this side.
type Character struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
}

// Career is an entry of the external career catalog.
type Career struct {
	ID        string     `json:"id"`
	ProjectID string     `json:"project_id"`
	Name      string     `json:"name"`
	Type      CareerType `json:"type"`
	MaxStage  int        `json:"max_stage"`
}
