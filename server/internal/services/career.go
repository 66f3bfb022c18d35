package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mycelian/mycelian-identities/server/internal/model"
	"github.com/mycelian/mycelian-identities/server/internal/store"
)

// AddCareerInput is the body of POST /api/identities/{id}/careers.
type AddCareerInput struct {
	CareerID              string `json:"career_id"`
	CareerType            string `json:"career_type"`
	CurrentStage          *int   `json:"current_stage"`
	StageProgress         *int   `json:"stage_progress"`
	StartedAt             string `json:"started_at"`
	ReachedCurrentStageAt string `json:"reached_current_stage_at"`
	Notes                 string `json:"notes"`
}

// CareerService attaches catalog careers to identities.
type CareerService struct {
	store      store.Store
	identities *IdentityService
}

func NewCareerService(s store.Store, identities *IdentityService) *CareerService {
	return &CareerService{store: s, identities: identities}
}

func (s *CareerService) List(ctx context.Context, identityID string) ([]*model.IdentityCareer, error) {
	if _, err := s.identities.identity(ctx, identityID); err != nil {
		return nil, err
	}
	return s.store.IdentityCareers().List(ctx, identityID)
}

func (s *CareerService) Add(ctx context.Context, identityID string, in AddCareerInput) (*model.IdentityCareer, error) {
	ident, err := s.identities.identity(ctx, identityID)
	if err != nil {
		return nil, err
	}
	if err := required("career_id", in.CareerID); err != nil {
		return nil, err
	}
	if err := oneOf("career_type", in.CareerType, careerTypes); err != nil {
		return nil, err
	}
	stage := minStage
	if in.CurrentStage != nil {
		stage = *in.CurrentStage
	}
	if err := validStage(stage); err != nil {
		return nil, err
	}
	progress := 0
	if in.StageProgress != nil {
		progress = *in.StageProgress
	}
	if err := validProgress(progress); err != nil {
		return nil, err
	}

	career, err := s.store.Careers().Get(ctx, in.CareerID)
	if err != nil || career.ProjectID != ident.ProjectID {
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return nil, err
		}
		return nil, NewNotFoundError("career_id", "career does not exist in this project")
	}
	if career.Type != in.CareerType {
		return nil, NewValidationError("career_type", fmt.Sprintf("career is %s, not %s", career.Type, in.CareerType))
	}
	if career.MaxStage > 0 && stage > career.MaxStage {
		return nil, NewValidationError("current_stage", fmt.Sprintf("must be at most %d", career.MaxStage))
	}
	if _, err := s.store.IdentityCareers().Get(ctx, identityID, in.CareerID); err == nil {
		return nil, NewConflictError("career_id", fmt.Sprintf("identity already has career %s", career.Name))
	} else if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	return s.store.IdentityCareers().Add(ctx, &model.IdentityCareer{
		IdentityID:            identityID,
		CareerID:              in.CareerID,
		CareerType:            in.CareerType,
		CurrentStage:          stage,
		StageProgress:         progress,
		StartedAt:             in.StartedAt,
		ReachedCurrentStageAt: in.ReachedCurrentStageAt,
		Notes:                 in.Notes,
	})
}

// Update changes stage, progress, dates or notes of the career addressed by
// its catalog id.
func (s *CareerService) Update(ctx context.Context, identityID, careerID string, p model.CareerPatch) (*model.IdentityCareer, error) {
	if _, err := s.identities.identity(ctx, identityID); err != nil {
		return nil, err
	}
	cur, err := s.store.IdentityCareers().Get(ctx, identityID, careerID)
	if err != nil {
		return nil, mapNotFound(err, "career_id", "identity has no such career")
	}
	if p.CurrentStage != nil {
		if err := validStage(*p.CurrentStage); err != nil {
			return nil, err
		}
		if cur.CareerMaxStage > 0 && *p.CurrentStage > cur.CareerMaxStage {
			return nil, NewValidationError("current_stage", fmt.Sprintf("must be at most %d", cur.CareerMaxStage))
		}
	}
	if p.StageProgress != nil {
		if err := validProgress(*p.StageProgress); err != nil {
			return nil, err
		}
	}
	out, err := s.store.IdentityCareers().Update(ctx, identityID, careerID, p)
	if err != nil {
		return nil, mapNotFound(err, "career_id", "identity has no such career")
	}
	return out, nil
}

func (s *CareerService) Delete(ctx context.Context, identityID, careerID string) error {
	if _, err := s.identities.identity(ctx, identityID); err != nil {
		return err
	}
	return mapNotFound(s.store.IdentityCareers().Delete(ctx, identityID, careerID), "career_id", "identity has no such career")
}
