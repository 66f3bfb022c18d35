package store

import (
	"context"

	"github.com/mycelian/mycelian-identities/server/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (sqlite, postgres);
// both share the SQL in internal/store/sqlstore.
type Store interface {
	Characters() Characters
	Careers() Careers
	Identities() Identities
	IdentityCareers() IdentityCareers
	Knowledge() Knowledge
	HealthPing(ctx context.Context) error
	Close() error
}

type Characters interface {
	Create(ctx context.Context, c *model.Character) (*model.Character, error)
	Get(ctx context.Context, id string) (*model.Character, error)
	ListByProject(ctx context.Context, projectID string) ([]*model.Character, error)
}

// Careers is the career catalog.
type Careers interface {
	Create(ctx context.Context, c *model.Career) (*model.Career, error)
	Get(ctx context.Context, id string) (*model.Career, error)
	ListByProject(ctx context.Context, projectID string) ([]*model.Career, error)
}

type Identities interface {
	// Create inserts the identity; when it is primary the character's other
	// identities are demoted in the same transaction.
	Create(ctx context.Context, id *model.Identity) (*model.Identity, error)
	Get(ctx context.Context, id string) (*model.Identity, error)
	// List returns one page of a project's identities and the total match count.
	List(ctx context.Context, f model.IdentityFilter) ([]*model.Identity, int, error)
	// ListByCharacter orders the primary first, then by creation time.
	ListByCharacter(ctx context.Context, characterID string) ([]*model.Identity, error)
	Update(ctx context.Context, id string, p model.IdentityPatch) (*model.Identity, error)
	SetPrimary(ctx context.Context, characterID, id string) (*model.Identity, error)
	// Delete removes the identity with its careers and knowledge.
	Delete(ctx context.Context, id string) error
}

// IdentityCareers are addressed by (identity id, catalog career id).
type IdentityCareers interface {
	Add(ctx context.Context, c *model.IdentityCareer) (*model.IdentityCareer, error)
	Get(ctx context.Context, identityID, careerID string) (*model.IdentityCareer, error)
	List(ctx context.Context, identityID string) ([]*model.IdentityCareer, error)
	Update(ctx context.Context, identityID, careerID string, p model.CareerPatch) (*model.IdentityCareer, error)
	Delete(ctx context.Context, identityID, careerID string) error
}

type Knowledge interface {
	Add(ctx context.Context, k *model.IdentityKnowledge) (*model.IdentityKnowledge, error)
	Get(ctx context.Context, identityID, id string) (*model.IdentityKnowledge, error)
	FindByKnower(ctx context.Context, identityID, knowerCharacterID string) (*model.IdentityKnowledge, error)
	List(ctx context.Context, identityID string) ([]*model.IdentityKnowledge, error)
	Update(ctx context.Context, identityID, id string, p model.KnowledgePatch) (*model.IdentityKnowledge, error)
	Delete(ctx context.Context, identityID, id string) error
}
