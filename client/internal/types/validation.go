package types

import (
	"fmt"
	"net/http"
	"strings"
)

// ------------------------------
// Shared Interfaces
// ------------------------------

// HTTPClient interface for dependency injection
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ------------------------------
// Validation helpers
// ------------------------------

// ValidateIDPresent rejects empty or whitespace-only identifiers.
func ValidateIDPresent(id, field string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// Valid reports whether t is a known identity type.
func (t IdentityType) Valid() bool {
	switch t {
	case IdentityReal, IdentityPublic, IdentitySecret, IdentityDisguise:
		return true
	}
	return false
}

// Valid reports whether s is a known identity status.
func (s IdentityStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusBurned:
		return true
	}
	return false
}

// Valid reports whether t is main or sub.
func (t CareerType) Valid() bool { return t == CareerMain || t == CareerSub }

// Valid reports whether l is a known knowledge level.
func (l KnowledgeLevel) Valid() bool {
	switch l {
	case KnowledgeFull, KnowledgePartial, KnowledgeSuspected:
		return true
	}
	return false
}

// Stage and progress bounds shared by forms and the service.
const (
	MinStage         = 1
	MinStageProgress = 0
	MaxStageProgress = 100
	MaxNameLength    = 100
)

// ValidStage reports whether stage is an acceptable current_stage.
func ValidStage(stage int) bool { return stage >= MinStage }

// ValidStageProgress reports whether p lies in [0, 100].
func ValidStageProgress(p int) bool { return p >= MinStageProgress && p <= MaxStageProgress }
