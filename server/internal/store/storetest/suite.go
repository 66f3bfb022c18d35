package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mycelian/mycelian-identities/server/internal/model"
	"github.com/mycelian/mycelian-identities/server/internal/store"
)

func ptr[T any](v T) *T { return &v }

// Run exercises a compliance suite against a store.Store implementation.
// Every run uses fresh project ids so a shared database is fine.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()
	project := "p-" + uuid.New().String()

	// Characters and catalog
	c1, err := s.Characters().Create(ctx, &model.Character{ProjectID: project, Name: "Li Wei"})
	if err != nil {
		t.Fatalf("CreateCharacter: %v", err)
	}
	c2, err := s.Characters().Create(ctx, &model.Character{ProjectID: project, Name: "Zhao Min"})
	if err != nil {
		t.Fatalf("CreateCharacter: %v", err)
	}
	if c1.ID == "" || c1.CreatedAt.IsZero() {
		t.Fatalf("CreateCharacter: missing id or timestamp: %+v", c1)
	}
	if lst, err := s.Characters().ListByProject(ctx, project); err != nil || len(lst) != 2 || lst[0].ID != c1.ID {
		t.Fatalf("ListCharacters: %v err=%v", lst, err)
	}
	if _, err := s.Characters().Get(ctx, "missing"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetCharacter missing: %v", err)
	}

	sword, err := s.Careers().Create(ctx, &model.Career{ProjectID: project, Name: "Swordsman", Type: model.CareerMain, MaxStage: 9})
	if err != nil {
		t.Fatalf("CreateCareer: %v", err)
	}
	if got, err := s.Careers().Get(ctx, sword.ID); err != nil || got.MaxStage != 9 {
		t.Fatalf("GetCareer: %+v err=%v", got, err)
	}
	if lst, err := s.Careers().ListByProject(ctx, project); err != nil || len(lst) != 1 {
		t.Fatalf("ListCareers: n=%d err=%v", len(lst), err)
	}

	// Identities and the single-primary rule
	trueName, err := s.Identities().Create(ctx, &model.Identity{
		ProjectID: project, CharacterID: c1.ID, Name: "Li Wei", IdentityType: model.IdentityReal,
		IsPrimary: true, Status: model.StatusActive,
	})
	if err != nil {
		t.Fatalf("CreateIdentity: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	shadow, err := s.Identities().Create(ctx, &model.Identity{
		ProjectID: project, CharacterID: c1.ID, Name: "Shadow", IdentityType: model.IdentitySecret,
		Status: model.StatusActive, Appearance: "masked",
	})
	if err != nil {
		t.Fatalf("CreateIdentity: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	other, err := s.Identities().Create(ctx, &model.Identity{
		ProjectID: project, CharacterID: c2.ID, Name: "Min", IdentityType: model.IdentityPublic,
		IsPrimary: true, Status: model.StatusInactive,
	})
	if err != nil {
		t.Fatalf("CreateIdentity: %v", err)
	}

	got, err := s.Identities().Get(ctx, shadow.ID)
	if err != nil || got.Appearance != "masked" || got.IsPrimary {
		t.Fatalf("GetIdentity: %+v err=%v", got, err)
	}

	byChar, err := s.Identities().ListByCharacter(ctx, c1.ID)
	if err != nil || len(byChar) != 2 || byChar[0].ID != trueName.ID {
		t.Fatalf("ListByCharacter: primary must come first: %v err=%v", byChar, err)
	}

	promoted, err := s.Identities().SetPrimary(ctx, c1.ID, shadow.ID)
	if err != nil || !promoted.IsPrimary {
		t.Fatalf("SetPrimary: %+v err=%v", promoted, err)
	}
	assertSinglePrimary(t, s, c1.ID, shadow.ID)
	if _, err := s.Identities().SetPrimary(ctx, c2.ID, shadow.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("SetPrimary with wrong character: %v", err)
	}

	updated, err := s.Identities().Update(ctx, trueName.ID, model.IdentityPatch{IsPrimary: ptr(true), Name: ptr("Li Wei (true name)")})
	if err != nil || updated.Name != "Li Wei (true name)" || updated.IdentityType != model.IdentityReal {
		t.Fatalf("UpdateIdentity: %+v err=%v", updated, err)
	}
	assertSinglePrimary(t, s, c1.ID, trueName.ID)
	if _, err := s.Identities().Update(ctx, "missing", model.IdentityPatch{Name: ptr("x")}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("UpdateIdentity missing: %v", err)
	}

	// Filters, ordering, paging
	all, total, err := s.Identities().List(ctx, model.IdentityFilter{ProjectID: project, Descending: true})
	if err != nil || total != 3 || len(all) != 3 || all[0].ID != other.ID {
		t.Fatalf("ListIdentities desc: total=%d %v err=%v", total, all, err)
	}
	page, total, err := s.Identities().List(ctx, model.IdentityFilter{ProjectID: project, Limit: 1, Offset: 1})
	if err != nil || total != 3 || len(page) != 1 || page[0].ID != shadow.ID {
		t.Fatalf("ListIdentities page: total=%d %v err=%v", total, page, err)
	}
	inactive, total, err := s.Identities().List(ctx, model.IdentityFilter{ProjectID: project, Status: model.StatusInactive})
	if err != nil || total != 1 || inactive[0].ID != other.ID {
		t.Fatalf("ListIdentities status filter: %v err=%v", inactive, err)
	}
	secret, total, err := s.Identities().List(ctx, model.IdentityFilter{ProjectID: project, CharacterID: c1.ID, IdentityType: model.IdentitySecret})
	if err != nil || total != 1 || secret[0].ID != shadow.ID {
		t.Fatalf("ListIdentities type filter: %v err=%v", secret, err)
	}

	// Careers
	ic, err := s.IdentityCareers().Add(ctx, &model.IdentityCareer{
		IdentityID: shadow.ID, CareerID: sword.ID, CareerType: model.CareerMain, CurrentStage: 1, StartedAt: "year 1",
	})
	if err != nil || ic.CareerName != "Swordsman" || ic.CareerMaxStage != 9 {
		t.Fatalf("AddCareer: %+v err=%v", ic, err)
	}
	if _, err := s.IdentityCareers().Add(ctx, &model.IdentityCareer{IdentityID: shadow.ID, CareerID: sword.ID, CareerType: model.CareerMain, CurrentStage: 1}); err == nil {
		t.Fatalf("AddCareer duplicate must fail")
	}
	icu, err := s.IdentityCareers().Update(ctx, shadow.ID, sword.ID, model.CareerPatch{CurrentStage: ptr(3), StageProgress: ptr(50)})
	if err != nil || icu.CurrentStage != 3 || icu.StageProgress != 50 || icu.StartedAt != "year 1" {
		t.Fatalf("UpdateCareer: %+v err=%v", icu, err)
	}
	if lst, err := s.IdentityCareers().List(ctx, shadow.ID); err != nil || len(lst) != 1 {
		t.Fatalf("ListCareers: n=%d err=%v", len(lst), err)
	}

	// Knowledge
	k, err := s.Knowledge().Add(ctx, &model.IdentityKnowledge{
		IdentityID: shadow.ID, KnowerCharacterID: c2.ID, KnowledgeLevel: model.KnowledgePartial, SinceWhen: "year 1", IsSecret: true,
	})
	if err != nil || k.KnowerName != "Zhao Min" || !k.IsSecret {
		t.Fatalf("AddKnowledge: %+v err=%v", k, err)
	}
	if found, err := s.Knowledge().FindByKnower(ctx, shadow.ID, c2.ID); err != nil || found.ID != k.ID {
		t.Fatalf("FindByKnower: %+v err=%v", found, err)
	}
	if _, err := s.Knowledge().FindByKnower(ctx, trueName.ID, c2.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("FindByKnower other identity: %v", err)
	}
	ku, err := s.Knowledge().Update(ctx, shadow.ID, k.ID, model.KnowledgePatch{KnowledgeLevel: ptr(model.KnowledgeFull), IsSecret: ptr(false)})
	if err != nil || ku.KnowledgeLevel != model.KnowledgeFull || ku.IsSecret || ku.SinceWhen != "year 1" {
		t.Fatalf("UpdateKnowledge: %+v err=%v", ku, err)
	}
	if _, err := s.Knowledge().Get(ctx, trueName.ID, k.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("knowledge must be scoped to its identity: %v", err)
	}

	// Deletes
	if err := s.Knowledge().Delete(ctx, shadow.ID, k.ID); err != nil {
		t.Fatalf("DeleteKnowledge: %v", err)
	}
	if err := s.Knowledge().Delete(ctx, shadow.ID, k.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("DeleteKnowledge twice: %v", err)
	}
	if _, err := s.Knowledge().Add(ctx, &model.IdentityKnowledge{IdentityID: shadow.ID, KnowerCharacterID: c2.ID, KnowledgeLevel: model.KnowledgeSuspected, SinceWhen: "year 2"}); err != nil {
		t.Fatalf("AddKnowledge after delete: %v", err)
	}
	if err := s.Identities().Delete(ctx, shadow.ID); err != nil {
		t.Fatalf("DeleteIdentity: %v", err)
	}
	if lst, _ := s.IdentityCareers().List(ctx, shadow.ID); len(lst) != 0 {
		t.Fatalf("careers must cascade: %v", lst)
	}
	if lst, _ := s.Knowledge().List(ctx, shadow.ID); len(lst) != 0 {
		t.Fatalf("knowledge must cascade: %v", lst)
	}
	if err := s.Identities().Delete(ctx, shadow.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("DeleteIdentity twice: %v", err)
	}
	if err := s.IdentityCareers().Delete(ctx, shadow.ID, sword.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("DeleteCareer after cascade: %v", err)
	}

	if err := s.HealthPing(ctx); err != nil {
		t.Fatalf("HealthPing: %v", err)
	}
}

func assertSinglePrimary(t *testing.T, s store.Store, characterID, wantID string) {
	t.Helper()
	lst, err := s.Identities().ListByCharacter(context.Background(), characterID)
	if err != nil {
		t.Fatalf("ListByCharacter: %v", err)
	}
	n := 0
	for _, it := range lst {
		if it.IsPrimary {
			n++
			if it.ID != wantID {
				t.Fatalf("primary = %s, want %s", it.ID, wantID)
			}
		}
	}
	if n != 1 {
		t.Fatalf("expected exactly one primary, got %d", n)
	}
}
