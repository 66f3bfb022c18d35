package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mycelian/mycelian-identities/server/internal/model"
	"github.com/mycelian/mycelian-identities/server/internal/store/sqlite"
)

type fixture struct {
	identities *IdentityService
	careers    *CareerService
	knowledge  *KnowledgeService
	catalog    *CatalogService

	hero, rival *model.Character
	sword       *model.Career
}

func ptr[T any](v T) *T { return &v }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	st, err := sqlite.New(ctx, filepath.Join(t.TempDir(), "identities.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	f := &fixture{catalog: NewCatalogService(st), identities: NewIdentityService(st)}
	f.careers = NewCareerService(st, f.identities)
	f.knowledge = NewKnowledgeService(st, f.identities)

	f.hero, err = f.catalog.CreateCharacter(ctx, &model.Character{ProjectID: "p1", Name: "Li Wei"})
	require.NoError(t, err)
	f.rival, err = f.catalog.CreateCharacter(ctx, &model.Character{ProjectID: "p1", Name: "Zhao Min"})
	require.NoError(t, err)
	f.sword, err = f.catalog.CreateCareer(ctx, &model.Career{ProjectID: "p1", Name: "Swordsman", Type: model.CareerMain, MaxStage: 9})
	require.NoError(t, err)
	return f
}

func (f *fixture) identity(t *testing.T, name, typ string, primary bool) *model.Identity {
	t.Helper()
	m, err := f.identities.Create(context.Background(), CreateIdentityInput{
		CharacterID: f.hero.ID, Name: name, IdentityType: typ, IsPrimary: primary,
	})
	require.NoError(t, err)
	return m
}

func TestIdentityCreateDefaultsAndValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m := f.identity(t, "Li Wei", model.IdentityReal, true)
	assert.Equal(t, model.StatusActive, m.Status)
	assert.Equal(t, "p1", m.ProjectID)
	assert.True(t, m.IsPrimary)

	cases := []struct {
		name  string
		in    CreateIdentityInput
		field string
	}{
		{"missing character", CreateIdentityInput{Name: "x", IdentityType: model.IdentityPublic}, "character_id"},
		{"blank name", CreateIdentityInput{CharacterID: f.hero.ID, Name: "  ", IdentityType: model.IdentityPublic}, "name"},
		{"bad type", CreateIdentityInput{CharacterID: f.hero.ID, Name: "x", IdentityType: "alias"}, "identity_type"},
		{"bad status", CreateIdentityInput{CharacterID: f.hero.ID, Name: "x", IdentityType: model.IdentityPublic, Status: "lost"}, "status"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.identities.Create(ctx, tc.in)
			var ve ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}

	_, err := f.identities.Create(ctx, CreateIdentityInput{CharacterID: "nope", Name: "x", IdentityType: model.IdentityPublic})
	assert.True(t, IsNotFoundError(err))
}

func TestIdentitySinglePrimary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.identity(t, "Li Wei", model.IdentityReal, true)
	second := f.identity(t, "Night Crow", model.IdentitySecret, true)

	lst, err := f.identities.ListByCharacter(ctx, f.hero.ID)
	require.NoError(t, err)
	require.Len(t, lst, 2)
	assert.Equal(t, second.ID, lst[0].ID)
	assert.False(t, lst[1].IsPrimary)

	got, err := f.identities.SetPrimary(ctx, f.hero.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPrimary)

	lst, err = f.identities.ListByCharacter(ctx, f.hero.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, lst[0].ID)
	assert.False(t, lst[1].IsPrimary)

	_, err = f.identities.SetPrimary(ctx, f.rival.ID, first.ID)
	assert.True(t, IsValidationError(err))
	_, err = f.identities.SetPrimary(ctx, f.hero.ID, "missing")
	assert.True(t, IsNotFoundError(err))
}

func TestIdentityUpdateAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.identity(t, "Li Wei", model.IdentityReal, true)
	f.identity(t, "Night Crow", model.IdentitySecret, false)

	up, err := f.identities.Update(ctx, m.ID, model.IdentityPatch{Status: ptr(model.StatusBurned), Appearance: ptr("scarred")})
	require.NoError(t, err)
	assert.Equal(t, model.StatusBurned, up.Status)
	assert.Equal(t, "scarred", up.Appearance)
	assert.Equal(t, "Li Wei", up.Name)

	_, err = f.identities.Update(ctx, m.ID, model.IdentityPatch{IdentityType: ptr("alias")})
	assert.True(t, IsValidationError(err))

	page, total, err := f.identities.ListByProject(ctx, model.IdentityFilter{ProjectID: "p1", Status: model.StatusBurned})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, page, 1)
	assert.Equal(t, m.ID, page[0].ID)

	_, _, err = f.identities.ListByProject(ctx, model.IdentityFilter{ProjectID: "p1", SortBy: "status"})
	assert.True(t, IsValidationError(err))
	_, _, err = f.identities.ListByProject(ctx, model.IdentityFilter{})
	assert.True(t, IsValidationError(err))

	_, err = f.identities.ListByCharacter(ctx, "nobody")
	assert.True(t, IsNotFoundError(err))
}

func TestCareerRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.identity(t, "Li Wei", model.IdentityReal, true)

	c, err := f.careers.Add(ctx, m.ID, AddCareerInput{CareerID: f.sword.ID, CareerType: model.CareerMain})
	require.NoError(t, err)
	assert.Equal(t, 1, c.CurrentStage)
	assert.Equal(t, 0, c.StageProgress)
	assert.Equal(t, "Swordsman", c.CareerName)

	_, err = f.careers.Add(ctx, m.ID, AddCareerInput{CareerID: f.sword.ID, CareerType: model.CareerMain})
	assert.True(t, IsConflictError(err))

	_, err = f.careers.Add(ctx, m.ID, AddCareerInput{CareerID: "missing", CareerType: model.CareerMain})
	assert.True(t, IsNotFoundError(err))

	other, err := f.catalog.CreateCareer(ctx, &model.Career{ProjectID: "p2", Name: "Alchemist", Type: model.CareerSub, MaxStage: 3})
	require.NoError(t, err)
	_, err = f.careers.Add(ctx, m.ID, AddCareerInput{CareerID: other.ID, CareerType: model.CareerSub})
	assert.True(t, IsNotFoundError(err), "career from another project")

	herb, err := f.catalog.CreateCareer(ctx, &model.Career{ProjectID: "p1", Name: "Herbalist", Type: model.CareerSub, MaxStage: 3})
	require.NoError(t, err)
	_, err = f.careers.Add(ctx, m.ID, AddCareerInput{CareerID: herb.ID, CareerType: model.CareerMain})
	assert.True(t, IsValidationError(err), "type mismatch")
	_, err = f.careers.Add(ctx, m.ID, AddCareerInput{CareerID: herb.ID, CareerType: model.CareerSub, CurrentStage: ptr(4)})
	assert.True(t, IsValidationError(err), "stage beyond max")
	_, err = f.careers.Add(ctx, m.ID, AddCareerInput{CareerID: herb.ID, CareerType: model.CareerSub, CurrentStage: ptr(0)})
	assert.True(t, IsValidationError(err), "explicit stage zero")
	_, err = f.careers.Add(ctx, m.ID, AddCareerInput{CareerID: herb.ID, CareerType: model.CareerSub, StageProgress: ptr(101)})
	assert.True(t, IsValidationError(err))

	up, err := f.careers.Update(ctx, m.ID, f.sword.ID, model.CareerPatch{CurrentStage: ptr(5), StageProgress: ptr(40)})
	require.NoError(t, err)
	assert.Equal(t, 5, up.CurrentStage)
	assert.Equal(t, 40, up.StageProgress)

	_, err = f.careers.Update(ctx, m.ID, f.sword.ID, model.CareerPatch{CurrentStage: ptr(10)})
	assert.True(t, IsValidationError(err))
	_, err = f.careers.Update(ctx, m.ID, herb.ID, model.CareerPatch{Notes: ptr("x")})
	assert.True(t, IsNotFoundError(err))

	lst, err := f.careers.List(ctx, m.ID)
	require.NoError(t, err)
	assert.Len(t, lst, 1)

	require.NoError(t, f.careers.Delete(ctx, m.ID, f.sword.ID))
	assert.True(t, IsNotFoundError(f.careers.Delete(ctx, m.ID, f.sword.ID)))
}

func TestKnowledgeRulesAndCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.identity(t, "Night Crow", model.IdentitySecret, false)

	check, err := f.knowledge.Check(ctx, m.ID, f.rival.ID)
	require.NoError(t, err)
	assert.False(t, check.Knows)

	_, err = f.knowledge.Add(ctx, m.ID, AddKnowledgeInput{KnowerCharacterID: f.rival.ID, KnowledgeLevel: model.KnowledgePartial})
	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "since_when", ve.Field)

	k, err := f.knowledge.Add(ctx, m.ID, AddKnowledgeInput{
		KnowerCharacterID: f.rival.ID, KnowledgeLevel: model.KnowledgePartial, SinceWhen: "year 1",
	})
	require.NoError(t, err)
	assert.True(t, k.IsSecret)
	assert.Equal(t, "Zhao Min", k.KnowerName)

	_, err = f.knowledge.Add(ctx, m.ID, AddKnowledgeInput{
		KnowerCharacterID: f.rival.ID, KnowledgeLevel: model.KnowledgeFull, SinceWhen: "year 2",
	})
	assert.True(t, IsConflictError(err))

	stranger, err := f.catalog.CreateCharacter(ctx, &model.Character{ProjectID: "p2", Name: "Stranger"})
	require.NoError(t, err)
	_, err = f.knowledge.Add(ctx, m.ID, AddKnowledgeInput{
		KnowerCharacterID: stranger.ID, KnowledgeLevel: model.KnowledgeFull, SinceWhen: "year 2",
	})
	assert.True(t, IsNotFoundError(err))

	check, err = f.knowledge.Check(ctx, m.ID, f.rival.ID)
	require.NoError(t, err)
	assert.True(t, check.Knows)
	assert.Equal(t, model.KnowledgePartial, check.KnowledgeLevel)

	up, err := f.knowledge.Update(ctx, m.ID, k.ID, model.KnowledgePatch{KnowledgeLevel: ptr(model.KnowledgeFull), IsSecret: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, model.KnowledgeFull, up.KnowledgeLevel)
	assert.False(t, up.IsSecret)

	_, err = f.knowledge.Update(ctx, m.ID, k.ID, model.KnowledgePatch{SinceWhen: ptr("")})
	assert.True(t, IsValidationError(err))

	require.NoError(t, f.knowledge.Delete(ctx, m.ID, k.ID))
	check, err = f.knowledge.Check(ctx, m.ID, f.rival.ID)
	require.NoError(t, err)
	assert.False(t, check.Knows)
}

func TestIdentityDeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.identity(t, "Li Wei", model.IdentityReal, true)
	_, err := f.careers.Add(ctx, m.ID, AddCareerInput{CareerID: f.sword.ID, CareerType: model.CareerMain})
	require.NoError(t, err)
	_, err = f.knowledge.Add(ctx, m.ID, AddKnowledgeInput{KnowerCharacterID: f.rival.ID, KnowledgeLevel: model.KnowledgeSuspected, SinceWhen: "spring"})
	require.NoError(t, err)

	detail, err := f.identities.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Careers, 1)
	assert.Len(t, detail.Knowledge, 1)

	require.NoError(t, f.identities.Delete(ctx, m.ID))
	_, err = f.identities.Get(ctx, m.ID)
	assert.True(t, IsNotFoundError(err))
	_, err = f.careers.List(ctx, m.ID)
	assert.True(t, IsNotFoundError(err))
}

func TestCatalogValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.catalog.CreateCareer(ctx, &model.Career{ProjectID: "p1", Name: "Scribe", Type: model.CareerSub})
	assert.True(t, IsValidationError(err))
	_, err = f.catalog.CreateCharacter(ctx, &model.Character{Name: "x"})
	assert.True(t, IsValidationError(err))

	chars, err := f.catalog.ListCharacters(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, chars, 2)
	careers, err := f.catalog.ListCareers(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, careers, 1)
}
