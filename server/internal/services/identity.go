package services

import (
	"context"
	"errors"

	"github.com/mycelian/mycelian-identities/server/internal/model"
	"github.com/mycelian/mycelian-identities/server/internal/store"
)

// CreateIdentityInput is the body of POST /api/identities.
type CreateIdentityInput struct {
	CharacterID  string `json:"character_id"`
	Name         string `json:"name"`
	IdentityType string `json:"identity_type"`
	IsPrimary    bool   `json:"is_primary"`
	Appearance   string `json:"appearance"`
	Personality  string `json:"personality"`
	Background   string `json:"background"`
	VoiceStyle   string `json:"voice_style"`
	Status       string `json:"status"`
}

// IdentityService owns identity rules: one primary per character, project
// scoping through the owning character, cascading deletes.
type IdentityService struct {
	store store.Store
}

func NewIdentityService(s store.Store) *IdentityService {
	return &IdentityService{store: s}
}

// mapNotFound turns a store miss into a NotFoundError naming field.
func mapNotFound(err error, field, message string) error {
	if errors.Is(err, model.ErrNotFound) {
		return NewNotFoundError(field, message)
	}
	return err
}

func (s *IdentityService) identity(ctx context.Context, id string) (*model.Identity, error) {
	if err := required("identity_id", id); err != nil {
		return nil, err
	}
	m, err := s.store.Identities().Get(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "identity_id", "identity does not exist")
	}
	return m, nil
}

func (s *IdentityService) Create(ctx context.Context, in CreateIdentityInput) (*model.Identity, error) {
	if err := required("character_id", in.CharacterID); err != nil {
		return nil, err
	}
	if err := validName(in.Name); err != nil {
		return nil, err
	}
	if err := oneOf("identity_type", in.IdentityType, identityTypes); err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = model.StatusActive
	}
	if err := oneOf("status", in.Status, identityStatus); err != nil {
		return nil, err
	}
	ch, err := s.store.Characters().Get(ctx, in.CharacterID)
	if err != nil {
		return nil, mapNotFound(err, "character_id", "character does not exist")
	}
	return s.store.Identities().Create(ctx, &model.Identity{
		ProjectID:    ch.ProjectID,
		CharacterID:  ch.ID,
		Name:         in.Name,
		IdentityType: in.IdentityType,
		IsPrimary:    in.IsPrimary,
		Appearance:   in.Appearance,
		Personality:  in.Personality,
		Background:   in.Background,
		VoiceStyle:   in.VoiceStyle,
		Status:       in.Status,
	})
}

// Get returns the identity with its careers and knowledge.
func (s *IdentityService) Get(ctx context.Context, id string) (*model.IdentityDetail, error) {
	m, err := s.identity(ctx, id)
	if err != nil {
		return nil, err
	}
	careers, err := s.store.IdentityCareers().List(ctx, id)
	if err != nil {
		return nil, err
	}
	knowledge, err := s.store.Knowledge().List(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.IdentityDetail{Identity: *m, Careers: careers, Knowledge: knowledge}, nil
}

// ListByProject returns one page of a project's identities and the total.
func (s *IdentityService) ListByProject(ctx context.Context, f model.IdentityFilter) ([]*model.Identity, int, error) {
	if err := required("project_id", f.ProjectID); err != nil {
		return nil, 0, err
	}
	if f.IdentityType != "" {
		if err := oneOf("identity_type", f.IdentityType, identityTypes); err != nil {
			return nil, 0, err
		}
	}
	if f.Status != "" {
		if err := oneOf("status", f.Status, identityStatus); err != nil {
			return nil, 0, err
		}
	}
	if f.SortBy != "" {
		if err := oneOf("sort_by", f.SortBy, []string{"created_at", "updated_at", "name"}); err != nil {
			return nil, 0, err
		}
	}
	if f.Limit < 0 || f.Offset < 0 {
		return nil, 0, NewValidationError("page", "must not be negative")
	}
	return s.store.Identities().List(ctx, f)
}

// ListByCharacter lists a character's identities, primary first.
func (s *IdentityService) ListByCharacter(ctx context.Context, characterID string) ([]*model.Identity, error) {
	if _, err := s.store.Characters().Get(ctx, characterID); err != nil {
		return nil, mapNotFound(err, "character_id", "character does not exist")
	}
	return s.store.Identities().ListByCharacter(ctx, characterID)
}

func (s *IdentityService) Update(ctx context.Context, id string, p model.IdentityPatch) (*model.Identity, error) {
	if _, err := s.identity(ctx, id); err != nil {
		return nil, err
	}
	if p.Name != nil {
		if err := validName(*p.Name); err != nil {
			return nil, err
		}
	}
	if p.IdentityType != nil {
		if err := oneOf("identity_type", *p.IdentityType, identityTypes); err != nil {
			return nil, err
		}
	}
	if p.Status != nil {
		if err := oneOf("status", *p.Status, identityStatus); err != nil {
			return nil, err
		}
	}
	out, err := s.store.Identities().Update(ctx, id, p)
	if err != nil {
		return nil, mapNotFound(err, "identity_id", "identity does not exist")
	}
	return out, nil
}

func (s *IdentityService) Delete(ctx context.Context, id string) error {
	if _, err := s.identity(ctx, id); err != nil {
		return err
	}
	return mapNotFound(s.store.Identities().Delete(ctx, id), "identity_id", "identity does not exist")
}

// SetPrimary makes id the character's only primary identity.
func (s *IdentityService) SetPrimary(ctx context.Context, characterID, id string) (*model.Identity, error) {
	if err := required("character_id", characterID); err != nil {
		return nil, err
	}
	m, err := s.identity(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.CharacterID != characterID {
		return nil, NewValidationError("character_id", "identity does not belong to this character")
	}
	out, err := s.store.Identities().SetPrimary(ctx, characterID, id)
	if err != nil {
		return nil, mapNotFound(err, "identity_id", "identity does not exist")
	}
	return out, nil
}
