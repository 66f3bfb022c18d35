package view

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mycelian/mycelian-identities/client"
)

var errServer = errors.New("internal server error")

// fakeService is an in-memory identity service that upholds the same
// contract as the real one: one primary per character, cascading deletes.
type fakeService struct {
	mu         sync.Mutex
	seq        int
	characters map[string][]client.Character // by project
	identities []client.Identity
	careers    []client.IdentityCareer
	knowledge  []client.IdentityKnowledge

	calls      []string
	failChar   map[string]bool // ListCharacterIdentities fails for these
	failCreate error

	lastCreate       client.IdentityCreate
	lastUpdate       client.IdentityUpdate
	lastCareerUpdate client.IdentityCareerUpdate
	lastKnowledgeAdd client.IdentityKnowledgeCreate
}

func newFakeService() *fakeService {
	return &fakeService{characters: map[string][]client.Character{}, failChar: map[string]bool{}}
}

func (f *fakeService) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeService) callCount(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func (f *fakeService) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s%d", prefix, f.seq)
}

func (f *fakeService) addCharacter(projectID, id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.characters[projectID] = append(f.characters[projectID], client.Character{ID: id, ProjectID: projectID, Name: name})
}

func (f *fakeService) seedIdentity(id client.Identity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.identities = append(f.identities, id)
}

func (f *fakeService) ListProjectCharacters(ctx context.Context, projectID string) ([]client.Character, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListProjectCharacters")
	return append([]client.Character(nil), f.characters[projectID]...), nil
}

func (f *fakeService) ListCharacterIdentities(ctx context.Context, characterID string, _ client.ListParams) ([]client.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListCharacterIdentities:" + characterID)
	if f.failChar[characterID] {
		return nil, errServer
	}
	var primary, rest []client.Identity
	for _, id := range f.identities {
		if id.CharacterID != characterID {
			continue
		}
		if id.IsPrimary {
			primary = append(primary, id)
		} else {
			rest = append(rest, id)
		}
	}
	return append(primary, rest...), nil
}

func (f *fakeService) demote(characterID, except string) {
	for i := range f.identities {
		if f.identities[i].CharacterID == characterID && f.identities[i].ID != except {
			f.identities[i].IsPrimary = false
		}
	}
}

func (f *fakeService) CreateIdentity(ctx context.Context, req client.IdentityCreate) (*client.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateIdentity")
	f.lastCreate = req
	if f.failCreate != nil {
		return nil, f.failCreate
	}
	id := client.Identity{
		ID: f.nextID("i"), CharacterID: req.CharacterID, Name: req.Name, IdentityType: req.IdentityType,
		IsPrimary: req.IsPrimary, Status: req.Status, Appearance: req.Appearance,
	}
	if id.IsPrimary {
		f.demote(id.CharacterID, "")
	}
	f.identities = append(f.identities, id)
	return &id, nil
}

func (f *fakeService) UpdateIdentity(ctx context.Context, id string, req client.IdentityUpdate) (*client.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateIdentity")
	f.lastUpdate = req
	for i := range f.identities {
		cur := &f.identities[i]
		if cur.ID != id {
			continue
		}
		if req.Name != nil {
			cur.Name = *req.Name
		}
		if req.Status != nil {
			cur.Status = *req.Status
		}
		if req.IdentityType != nil {
			cur.IdentityType = *req.IdentityType
		}
		if req.Appearance != nil {
			cur.Appearance = *req.Appearance
		}
		if req.IsPrimary != nil {
			if *req.IsPrimary {
				f.demote(cur.CharacterID, cur.ID)
			}
			cur.IsPrimary = *req.IsPrimary
		}
		out := *cur
		return &out, nil
	}
	return nil, client.ErrNotFound
}

func (f *fakeService) DeleteIdentity(ctx context.Context, id string) (*client.Ack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteIdentity")
	kept := f.identities[:0]
	found := false
	for _, it := range f.identities {
		if it.ID == id {
			found = true
			continue
		}
		kept = append(kept, it)
	}
	f.identities = kept
	if !found {
		return nil, client.ErrNotFound
	}
	return &client.Ack{Message: "Identity deleted"}, nil
}

func (f *fakeService) SetPrimaryIdentity(ctx context.Context, characterID, id string) (*client.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SetPrimaryIdentity")
	f.demote(characterID, id)
	for i := range f.identities {
		if f.identities[i].ID == id {
			f.identities[i].IsPrimary = true
			out := f.identities[i]
			return &out, nil
		}
	}
	return nil, client.ErrNotFound
}

func (f *fakeService) ListCareers(ctx context.Context, identityID string) ([]client.IdentityCareer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListCareers")
	var out []client.IdentityCareer
	for _, c := range f.careers {
		if c.IdentityID == identityID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeService) AddCareer(ctx context.Context, identityID string, req client.IdentityCareerCreate) (*client.IdentityCareer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("AddCareer")
	for _, c := range f.careers {
		if c.IdentityID == identityID && c.CareerID == req.CareerID {
			return nil, errors.New("Career already assigned to this identity")
		}
	}
	c := client.IdentityCareer{ID: f.nextID("ic"), IdentityID: identityID, CareerID: req.CareerID, CareerType: req.CareerType, CurrentStage: client.MinStage, Notes: req.Notes}
	if req.CurrentStage != nil {
		c.CurrentStage = *req.CurrentStage
	}
	if req.StageProgress != nil {
		c.StageProgress = *req.StageProgress
	}
	f.careers = append(f.careers, c)
	return &c, nil
}

func (f *fakeService) UpdateCareer(ctx context.Context, identityID, careerID string, req client.IdentityCareerUpdate) (*client.IdentityCareer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateCareer:" + careerID)
	f.lastCareerUpdate = req
	for i := range f.careers {
		c := &f.careers[i]
		if c.IdentityID == identityID && c.CareerID == careerID {
			if req.CurrentStage != nil {
				c.CurrentStage = *req.CurrentStage
			}
			if req.StageProgress != nil {
				c.StageProgress = *req.StageProgress
			}
			if req.Notes != nil {
				c.Notes = *req.Notes
			}
			out := *c
			return &out, nil
		}
	}
	return nil, client.ErrNotFound
}

func (f *fakeService) DeleteCareer(ctx context.Context, identityID, careerID string) (*client.Ack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteCareer:" + careerID)
	kept := f.careers[:0]
	for _, c := range f.careers {
		if c.IdentityID == identityID && c.CareerID == careerID {
			continue
		}
		kept = append(kept, c)
	}
	f.careers = kept
	return &client.Ack{Message: "Career removed"}, nil
}

func (f *fakeService) ListKnowledge(ctx context.Context, identityID string) ([]client.IdentityKnowledge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListKnowledge")
	var out []client.IdentityKnowledge
	for _, k := range f.knowledge {
		if k.IdentityID == identityID {
			out = append(out, k)
		}
	}
	return out, nil
}

func (f *fakeService) AddKnowledge(ctx context.Context, identityID string, req client.IdentityKnowledgeCreate) (*client.IdentityKnowledge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("AddKnowledge")
	f.lastKnowledgeAdd = req
	k := client.IdentityKnowledge{
		ID: f.nextID("k"), IdentityID: identityID, KnowerCharacterID: req.KnowerCharacterID,
		KnowledgeLevel: req.KnowledgeLevel, SinceWhen: req.SinceWhen, DiscoveredHow: req.DiscoveredHow,
	}
	if req.IsSecret != nil {
		k.IsSecret = *req.IsSecret
	}
	f.knowledge = append(f.knowledge, k)
	return &k, nil
}

func (f *fakeService) UpdateKnowledge(ctx context.Context, identityID, knowledgeID string, req client.IdentityKnowledgeUpdate) (*client.IdentityKnowledge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateKnowledge")
	for i := range f.knowledge {
		k := &f.knowledge[i]
		if k.ID == knowledgeID && k.IdentityID == identityID {
			if req.KnowledgeLevel != nil {
				k.KnowledgeLevel = *req.KnowledgeLevel
			}
			if req.SinceWhen != nil {
				k.SinceWhen = *req.SinceWhen
			}
			if req.IsSecret != nil {
				k.IsSecret = *req.IsSecret
			}
			out := *k
			return &out, nil
		}
	}
	return nil, client.ErrNotFound
}

func (f *fakeService) DeleteKnowledge(ctx context.Context, identityID, knowledgeID string) (*client.Ack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteKnowledge")
	kept := f.knowledge[:0]
	for _, k := range f.knowledge {
		if k.ID == knowledgeID && k.IdentityID == identityID {
			continue
		}
		kept = append(kept, k)
	}
	f.knowledge = kept
	return &client.Ack{Message: "Knowledge removed"}, nil
}

func (f *fakeService) CheckKnowledge(ctx context.Context, identityID, knowerCharacterID string) (*client.KnowledgeCheck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CheckKnowledge")
	for _, k := range f.knowledge {
		if k.IdentityID == identityID && k.KnowerCharacterID == knowerCharacterID {
			kk := k
			return &client.KnowledgeCheck{Knows: true, KnowledgeLevel: k.KnowledgeLevel, Knowledge: &kk}, nil
		}
	}
	return &client.KnowledgeCheck{Knows: false}, nil
}
