package client

import "github.com/mycelian/mycelian-identities/client/internal/types"

// Public type aliases so SDK consumers can import only the client package.
type (
	// Requests
	IdentityCreate          = types.IdentityCreate
	IdentityUpdate          = types.IdentityUpdate
	IdentityCareerCreate    = types.IdentityCareerCreate
	IdentityCareerUpdate    = types.IdentityCareerUpdate
	IdentityKnowledgeCreate = types.IdentityKnowledgeCreate
	IdentityKnowledgeUpdate = types.IdentityKnowledgeUpdate
	ListParams              = types.ListParams

	// Domain entities
	Identity          = types.Identity
	IdentityDetail    = types.IdentityDetail
	IdentityCareer    = types.IdentityCareer
	IdentityKnowledge = types.IdentityKnowledge
	Character         = types.Character
	Career            = types.Career

	// Enumerations
	IdentityType   = types.IdentityType
	IdentityStatus = types.IdentityStatus
	CareerType     = types.CareerType
	KnowledgeLevel = types.KnowledgeLevel

	// Responses
	IdentityList   = types.IdentityList
	Ack            = types.Ack
	KnowledgeCheck = types.KnowledgeCheck
)

const (
	IdentityReal     = types.IdentityReal
	IdentityPublic   = types.IdentityPublic
	IdentitySecret   = types.IdentitySecret
	IdentityDisguise = types.IdentityDisguise

	StatusActive   = types.StatusActive
	StatusInactive = types.StatusInactive
	StatusBurned   = types.StatusBurned

	CareerMain = types.CareerMain
	CareerSub  = types.CareerSub

	KnowledgeFull      = types.KnowledgeFull
	KnowledgePartial   = types.KnowledgePartial
	KnowledgeSuspected = types.KnowledgeSuspected
)

// Bounds shared with form validation.
const (
	MinStage         = types.MinStage
	MaxStageProgress = types.MaxStageProgress
	MaxNameLength    = types.MaxNameLength
)

// Ptr returns a pointer to v; handy for partial update payloads.
func Ptr[T any](v T) *T { return &v }
