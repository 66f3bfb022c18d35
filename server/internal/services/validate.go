package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mycelian/mycelian-identities/server/internal/model"
)

const (
	maxNameLength    = 100
	minStage         = 1
	maxStageProgress = 100
)

var (
	identityTypes   = []string{model.IdentityReal, model.IdentityPublic, model.IdentitySecret, model.IdentityDisguise}
	identityStatus  = []string{model.StatusActive, model.StatusInactive, model.StatusBurned}
	careerTypes     = []string{model.CareerMain, model.CareerSub}
	knowledgeLevels = []string{model.KnowledgeFull, model.KnowledgePartial, model.KnowledgeSuspected}
)

func oneOf(field, v string, allowed []string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return NewValidationError(field, fmt.Sprintf("must be one of %s", strings.Join(allowed, ", ")))
}

func required(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return NewValidationError(field, "is required")
	}
	return nil
}

func validName(v string) error {
	if err := required("name", v); err != nil {
		return err
	}
	if utf8.RuneCountInString(v) > maxNameLength {
		return NewValidationError("name", fmt.Sprintf("must be at most %d characters", maxNameLength))
	}
	return nil
}

func validStage(stage int) error {
	if stage < minStage {
		return NewValidationError("current_stage", fmt.Sprintf("must be at least %d", minStage))
	}
	return nil
}

func validProgress(p int) error {
	if p < 0 || p > maxStageProgress {
		return NewValidationError("stage_progress", fmt.Sprintf("must be between 0 and %d", maxStageProgress))
	}
	return nil
}
