package view

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mycelian/mycelian-identities/client"
)

// ValidationError is a form problem detected before any request is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ------------------------------
// Identity form
// ------------------------------

// IdentityForm holds the identity dialog inputs. CharacterID is only used
// when creating.
type IdentityForm struct {
	CharacterID  string
	Name         string
	IdentityType client.IdentityType
	IsPrimary    bool
	Appearance   string
	Personality  string
	Background   string
	VoiceStyle   string
	Status       client.IdentityStatus
}

// DefaultIdentityForm is the blank create form.
func DefaultIdentityForm() IdentityForm {
	return IdentityForm{IdentityType: client.IdentityPublic, Status: client.StatusActive}
}

// IdentityFormFrom pre-fills the edit form.
func IdentityFormFrom(id client.Identity) IdentityForm {
	return IdentityForm{
		CharacterID:  id.CharacterID,
		Name:         id.Name,
		IdentityType: id.IdentityType,
		IsPrimary:    id.IsPrimary,
		Appearance:   id.Appearance,
		Personality:  id.Personality,
		Background:   id.Background,
		VoiceStyle:   id.VoiceStyle,
		Status:       id.Status,
	}
}

// Validate checks required fields and enums.
func (f IdentityForm) Validate(create bool) error {
	if create && strings.TrimSpace(f.CharacterID) == "" {
		return invalid("character_id", "a character must be selected")
	}
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return invalid("name", "is required")
	}
	if utf8.RuneCountInString(name) > client.MaxNameLength {
		return invalid("name", "must be at most %d characters", client.MaxNameLength)
	}
	if f.IdentityType == "" {
		return invalid("identity_type", "is required")
	}
	if !f.IdentityType.Valid() {
		return invalid("identity_type", "unknown type %q", f.IdentityType)
	}
	if f.Status == "" {
		return invalid("status", "is required")
	}
	if !f.Status.Valid() {
		return invalid("status", "unknown status %q", f.Status)
	}
	return nil
}

// ToCreate builds the create payload.
func (f IdentityForm) ToCreate() client.IdentityCreate {
	return client.IdentityCreate{
		CharacterID:  f.CharacterID,
		Name:         strings.TrimSpace(f.Name),
		IdentityType: f.IdentityType,
		IsPrimary:    f.IsPrimary,
		Appearance:   f.Appearance,
		Personality:  f.Personality,
		Background:   f.Background,
		VoiceStyle:   f.VoiceStyle,
		Status:       f.Status,
	}
}

// ToUpdate builds a partial update holding only the fields that differ
// from orig.
func (f IdentityForm) ToUpdate(orig client.Identity) client.IdentityUpdate {
	var u client.IdentityUpdate
	if name := strings.TrimSpace(f.Name); name != orig.Name {
		u.Name = &name
	}
	if f.IdentityType != orig.IdentityType {
		u.IdentityType = client.Ptr(f.IdentityType)
	}
	if f.IsPrimary != orig.IsPrimary {
		u.IsPrimary = client.Ptr(f.IsPrimary)
	}
	u.Appearance = changed(f.Appearance, orig.Appearance)
	u.Personality = changed(f.Personality, orig.Personality)
	u.Background = changed(f.Background, orig.Background)
	u.VoiceStyle = changed(f.VoiceStyle, orig.VoiceStyle)
	if f.Status != orig.Status {
		u.Status = client.Ptr(f.Status)
	}
	return u
}

func changed[T comparable](v, orig T) *T {
	if v == orig {
		return nil
	}
	return &v
}

// ------------------------------
// Career form
// ------------------------------

// CareerForm holds the career dialog inputs. CareerID and CareerType are
// fixed once the career is attached.
type CareerForm struct {
	CareerID              string
	CareerType            client.CareerType
	CurrentStage          int
	StageProgress         int
	StartedAt             string
	ReachedCurrentStageAt string
	Notes                 string
}

// DefaultCareerForm is the blank add form.
func DefaultCareerForm() CareerForm {
	return CareerForm{CareerType: client.CareerSub, CurrentStage: client.MinStage}
}

// CareerFormFrom pre-fills the edit form.
func CareerFormFrom(c client.IdentityCareer) CareerForm {
	return CareerForm{
		CareerID:              c.CareerID,
		CareerType:            c.CareerType,
		CurrentStage:          c.CurrentStage,
		StageProgress:         c.StageProgress,
		StartedAt:             c.StartedAt,
		ReachedCurrentStageAt: c.ReachedCurrentStageAt,
		Notes:                 c.Notes,
	}
}

// Validate checks required fields and stage bounds.
func (f CareerForm) Validate(create bool) error {
	if create {
		if strings.TrimSpace(f.CareerID) == "" {
			return invalid("career_id", "is required")
		}
		if f.CareerType == "" {
			return invalid("career_type", "is required")
		}
		if !f.CareerType.Valid() {
			return invalid("career_type", "unknown type %q", f.CareerType)
		}
	}
	if f.CurrentStage < client.MinStage {
		return invalid("current_stage", "must be at least %d", client.MinStage)
	}
	if f.StageProgress < 0 || f.StageProgress > client.MaxStageProgress {
		return invalid("stage_progress", "must be between 0 and %d", client.MaxStageProgress)
	}
	return nil
}

// ToCreate builds the add payload.
func (f CareerForm) ToCreate() client.IdentityCareerCreate {
	return client.IdentityCareerCreate{
		CareerID:              f.CareerID,
		CareerType:            f.CareerType,
		CurrentStage:          client.Ptr(f.CurrentStage),
		StageProgress:         client.Ptr(f.StageProgress),
		StartedAt:             f.StartedAt,
		ReachedCurrentStageAt: f.ReachedCurrentStageAt,
		Notes:                 f.Notes,
	}
}

// ToUpdate builds a partial update of the fields that differ from orig.
func (f CareerForm) ToUpdate(orig client.IdentityCareer) client.IdentityCareerUpdate {
	return client.IdentityCareerUpdate{
		CurrentStage:          changed(f.CurrentStage, orig.CurrentStage),
		StageProgress:         changed(f.StageProgress, orig.StageProgress),
		StartedAt:             changed(f.StartedAt, orig.StartedAt),
		ReachedCurrentStageAt: changed(f.ReachedCurrentStageAt, orig.ReachedCurrentStageAt),
		Notes:                 changed(f.Notes, orig.Notes),
	}
}

// ------------------------------
// Knowledge form
// ------------------------------

// KnowledgeForm holds the knowledge dialog inputs. KnowerCharacterID is
// fixed once the record exists.
type KnowledgeForm struct {
	KnowerCharacterID string
	KnowledgeLevel    client.KnowledgeLevel
	SinceWhen         string
	DiscoveredHow     string
	IsSecret          bool
}

// DefaultKnowledgeForm is the blank add form.
func DefaultKnowledgeForm() KnowledgeForm {
	return KnowledgeForm{KnowledgeLevel: client.KnowledgePartial, IsSecret: true}
}

// KnowledgeFormFrom pre-fills the edit form.
func KnowledgeFormFrom(k client.IdentityKnowledge) KnowledgeForm {
	return KnowledgeForm{
		KnowerCharacterID: k.KnowerCharacterID,
		KnowledgeLevel:    k.KnowledgeLevel,
		SinceWhen:         k.SinceWhen,
		DiscoveredHow:     k.DiscoveredHow,
		IsSecret:          k.IsSecret,
	}
}

// Validate checks required fields.
func (f KnowledgeForm) Validate(create bool) error {
	if create && strings.TrimSpace(f.KnowerCharacterID) == "" {
		return invalid("knower_character_id", "is required")
	}
	if f.KnowledgeLevel == "" {
		return invalid("knowledge_level", "is required")
	}
	if !f.KnowledgeLevel.Valid() {
		return invalid("knowledge_level", "unknown level %q", f.KnowledgeLevel)
	}
	if strings.TrimSpace(f.SinceWhen) == "" {
		return invalid("since_when", "is required")
	}
	return nil
}

// ToCreate builds the add payload.
func (f KnowledgeForm) ToCreate() client.IdentityKnowledgeCreate {
	return client.IdentityKnowledgeCreate{
		KnowerCharacterID: f.KnowerCharacterID,
		KnowledgeLevel:    f.KnowledgeLevel,
		SinceWhen:         strings.TrimSpace(f.SinceWhen),
		DiscoveredHow:     f.DiscoveredHow,
		IsSecret:          client.Ptr(f.IsSecret),
	}
}

// ToUpdate builds a partial update of the fields that differ from orig.
func (f KnowledgeForm) ToUpdate(orig client.IdentityKnowledge) client.IdentityKnowledgeUpdate {
	return client.IdentityKnowledgeUpdate{
		KnowledgeLevel: changed(f.KnowledgeLevel, orig.KnowledgeLevel),
		SinceWhen:      changed(strings.TrimSpace(f.SinceWhen), orig.SinceWhen),
		DiscoveredHow:  changed(f.DiscoveredHow, orig.DiscoveredHow),
		IsSecret:       changed(f.IsSecret, orig.IsSecret),
	}
}
