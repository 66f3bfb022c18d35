// Package view holds the selection and dialog state of the identity screens:
// which character and identity are focused, which dialog is open, and what
// its form contains. Presentations render it and forward user intents.
package view

import (
	"context"

	"github.com/mycelian/mycelian-identities/client"
)

// IdentityAPI is the part of the resource client the identities page uses.
type IdentityAPI interface {
	ListProjectCharacters(ctx context.Context, projectID string) ([]client.Character, error)
	ListCharacterIdentities(ctx context.Context, characterID string, params client.ListParams) ([]client.Identity, error)
	CreateIdentity(ctx context.Context, req client.IdentityCreate) (*client.Identity, error)
	UpdateIdentity(ctx context.Context, id string, req client.IdentityUpdate) (*client.Identity, error)
	DeleteIdentity(ctx context.Context, id string) (*client.Ack, error)
	SetPrimaryIdentity(ctx context.Context, characterID, id string) (*client.Identity, error)
}

// CareerAPI is the part of the resource client the career panel uses.
type CareerAPI interface {
	ListCareers(ctx context.Context, identityID string) ([]client.IdentityCareer, error)
	AddCareer(ctx context.Context, identityID string, req client.IdentityCareerCreate) (*client.IdentityCareer, error)
	UpdateCareer(ctx context.Context, identityID, careerID string, req client.IdentityCareerUpdate) (*client.IdentityCareer, error)
	DeleteCareer(ctx context.Context, identityID, careerID string) (*client.Ack, error)
}

// KnowledgeAPI is the part of the resource client the knowledge panel uses.
type KnowledgeAPI interface {
	ListKnowledge(ctx context.Context, identityID string) ([]client.IdentityKnowledge, error)
	AddKnowledge(ctx context.Context, identityID string, req client.IdentityKnowledgeCreate) (*client.IdentityKnowledge, error)
	UpdateKnowledge(ctx context.Context, identityID, knowledgeID string, req client.IdentityKnowledgeUpdate) (*client.IdentityKnowledge, error)
	DeleteKnowledge(ctx context.Context, identityID, knowledgeID string) (*client.Ack, error)
	CheckKnowledge(ctx context.Context, identityID, knowerCharacterID string) (*client.KnowledgeCheck, error)
}

var (
	_ IdentityAPI  = (*client.Client)(nil)
	_ CareerAPI    = (*client.Client)(nil)
	_ KnowledgeAPI = (*client.Client)(nil)
)
