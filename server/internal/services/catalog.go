package services

import (
	"context"

	"github.com/mycelian/mycelian-identities/server/internal/model"
	"github.com/mycelian/mycelian-identities/server/internal/store"
)

// CatalogService seeds and lists the characters and careers identities
// refer to. In a full deployment these live in other services.
type CatalogService struct {
	store store.Store
}

func NewCatalogService(s store.Store) *CatalogService {
	return &CatalogService{store: s}
}

func (s *CatalogService) CreateCharacter(ctx context.Context, c *model.Character) (*model.Character, error) {
	if err := required("project_id", c.ProjectID); err != nil {
		return nil, err
	}
	if err := validName(c.Name); err != nil {
		return nil, err
	}
	return s.store.Characters().Create(ctx, c)
}

func (s *CatalogService) ListCharacters(ctx context.Context, projectID string) ([]*model.Character, error) {
	if err := required("project_id", projectID); err != nil {
		return nil, err
	}
	return s.store.Characters().ListByProject(ctx, projectID)
}

func (s *CatalogService) CreateCareer(ctx context.Context, c *model.Career) (*model.Career, error) {
	if err := required("project_id", c.ProjectID); err != nil {
		return nil, err
	}
	if err := validName(c.Name); err != nil {
		return nil, err
	}
	if err := oneOf("type", c.Type, careerTypes); err != nil {
		return nil, err
	}
	if c.MaxStage < minStage {
		return nil, NewValidationError("max_stage", "must be at least 1")
	}
	return s.store.Careers().Create(ctx, c)
}

func (s *CatalogService) ListCareers(ctx context.Context, projectID string) ([]*model.Career, error) {
	if err := required("project_id", projectID); err != nil {
		return nil, err
	}
	return s.store.Careers().ListByProject(ctx, projectID)
}
