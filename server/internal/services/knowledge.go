package services

import (
	"context"
	"errors"

	"github.com/mycelian/mycelian-identities/server/internal/model"
	"github.com/mycelian/mycelian-identities/server/internal/store"
)

// AddKnowledgeInput is the body of POST /api/identities/{id}/knowledge.
type AddKnowledgeInput struct {
	KnowerCharacterID string `json:"knower_character_id"`
	KnowledgeLevel    string `json:"knowledge_level"`
	SinceWhen         string `json:"since_when"`
	DiscoveredHow     string `json:"discovered_how"`
	IsSecret          *bool  `json:"is_secret"`
}

// KnowledgeService records which characters know about an identity.
type KnowledgeService struct {
	store      store.Store
	identities *IdentityService
}

func NewKnowledgeService(s store.Store, identities *IdentityService) *KnowledgeService {
	return &KnowledgeService{store: s, identities: identities}
}

func (s *KnowledgeService) List(ctx context.Context, identityID string) ([]*model.IdentityKnowledge, error) {
	if _, err := s.identities.identity(ctx, identityID); err != nil {
		return nil, err
	}
	return s.store.Knowledge().List(ctx, identityID)
}

func (s *KnowledgeService) Add(ctx context.Context, identityID string, in AddKnowledgeInput) (*model.IdentityKnowledge, error) {
	ident, err := s.identities.identity(ctx, identityID)
	if err != nil {
		return nil, err
	}
	if err := required("knower_character_id", in.KnowerCharacterID); err != nil {
		return nil, err
	}
	if err := oneOf("knowledge_level", in.KnowledgeLevel, knowledgeLevels); err != nil {
		return nil, err
	}
	if err := required("since_when", in.SinceWhen); err != nil {
		return nil, err
	}
	knower, err := s.store.Characters().Get(ctx, in.KnowerCharacterID)
	if err != nil || knower.ProjectID != ident.ProjectID {
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return nil, err
		}
		return nil, NewNotFoundError("knower_character_id", "knower does not exist in this project")
	}
	if _, err := s.store.Knowledge().FindByKnower(ctx, identityID, in.KnowerCharacterID); err == nil {
		return nil, NewConflictError("knower_character_id", "this character already has a knowledge record for the identity")
	} else if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	secret := true
	if in.IsSecret != nil {
		secret = *in.IsSecret
	}
	return s.store.Knowledge().Add(ctx, &model.IdentityKnowledge{
		IdentityID:        identityID,
		KnowerCharacterID: in.KnowerCharacterID,
		KnowledgeLevel:    in.KnowledgeLevel,
		SinceWhen:         in.SinceWhen,
		DiscoveredHow:     in.DiscoveredHow,
		IsSecret:          secret,
	})
}

func (s *KnowledgeService) Update(ctx context.Context, identityID, knowledgeID string, p model.KnowledgePatch) (*model.IdentityKnowledge, error) {
	if _, err := s.identities.identity(ctx, identityID); err != nil {
		return nil, err
	}
	if p.KnowledgeLevel != nil {
		if err := oneOf("knowledge_level", *p.KnowledgeLevel, knowledgeLevels); err != nil {
			return nil, err
		}
	}
	if p.SinceWhen != nil {
		if err := required("since_when", *p.SinceWhen); err != nil {
			return nil, err
		}
	}
	out, err := s.store.Knowledge().Update(ctx, identityID, knowledgeID, p)
	if err != nil {
		return nil, mapNotFound(err, "knowledge_id", "knowledge record does not exist")
	}
	return out, nil
}

func (s *KnowledgeService) Delete(ctx context.Context, identityID, knowledgeID string) error {
	if _, err := s.identities.identity(ctx, identityID); err != nil {
		return err
	}
	return mapNotFound(s.store.Knowledge().Delete(ctx, identityID, knowledgeID), "knowledge_id", "knowledge record does not exist")
}

// Check reports whether knowerCharacterID knows about the identity.
func (s *KnowledgeService) Check(ctx context.Context, identityID, knowerCharacterID string) (*model.KnowledgeCheck, error) {
	if _, err := s.identities.identity(ctx, identityID); err != nil {
		return nil, err
	}
	if err := required("knower_character_id", knowerCharacterID); err != nil {
		return nil, err
	}
	k, err := s.store.Knowledge().FindByKnower(ctx, identityID, knowerCharacterID)
	if errors.Is(err, model.ErrNotFound) {
		return &model.KnowledgeCheck{Knows: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return &model.KnowledgeCheck{Knows: true, KnowledgeLevel: k.KnowledgeLevel, Knowledge: k}, nil
}
