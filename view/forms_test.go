package view

import (
	"errors"
	"strings"
	"testing"

	"github.com/mycelian/mycelian-identities/client"
)

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	return ve.Field
}

func TestIdentityForm_Defaults(t *testing.T) {
	f := DefaultIdentityForm()
	if f.IdentityType != client.IdentityPublic || f.Status != client.StatusActive || f.IsPrimary {
		t.Fatalf("unexpected defaults: %+v", f)
	}
}

func TestIdentityForm_Validate(t *testing.T) {
	valid := IdentityForm{CharacterID: "c1", Name: "张三", IdentityType: client.IdentityPublic, Status: client.StatusActive}

	cases := []struct {
		name   string
		mutate func(*IdentityForm)
		create bool
		field  string
	}{
		{"missing character on create", func(f *IdentityForm) { f.CharacterID = "" }, true, "character_id"},
		{"blank name", func(f *IdentityForm) { f.Name = "   " }, false, "name"},
		{"name too long", func(f *IdentityForm) { f.Name = strings.Repeat("名", client.MaxNameLength+1) }, false, "name"},
		{"unknown type", func(f *IdentityForm) { f.IdentityType = "alter" }, false, "identity_type"},
		{"missing status", func(f *IdentityForm) { f.Status = "" }, false, "status"},
		{"unknown status", func(f *IdentityForm) { f.Status = "retired" }, false, "status"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := valid
			tc.mutate(&f)
			if got := fieldOf(t, f.Validate(tc.create)); got != tc.field {
				t.Fatalf("field = %q, want %q", got, tc.field)
			}
		})
	}

	if err := valid.Validate(true); err != nil {
		t.Fatalf("valid form rejected: %v", err)
	}
	edit := valid
	edit.CharacterID = ""
	if err := edit.Validate(false); err != nil {
		t.Fatalf("edit does not need a character: %v", err)
	}
	exact := valid
	exact.Name = strings.Repeat("名", client.MaxNameLength)
	if err := exact.Validate(true); err != nil {
		t.Fatalf("name of max length rejected: %v", err)
	}
}

func TestIdentityForm_ToUpdateSendsOnlyChanges(t *testing.T) {
	orig := client.Identity{ID: "i1", CharacterID: "c1", Name: "Old", IdentityType: client.IdentityPublic, Status: client.StatusActive, Appearance: "tall"}
	f := IdentityFormFrom(orig)

	if u := f.ToUpdate(orig); !u.IsEmpty() {
		t.Fatalf("unchanged form produced %+v", u)
	}

	f.Name = " New "
	f.Status = client.StatusBurned
	u := f.ToUpdate(orig)
	if u.Name == nil || *u.Name != "New" {
		t.Fatalf("name not sent: %+v", u.Name)
	}
	if u.Status == nil || *u.Status != client.StatusBurned {
		t.Fatalf("status not sent")
	}
	if u.IdentityType != nil || u.Appearance != nil || u.IsPrimary != nil || u.Personality != nil {
		t.Fatalf("unchanged fields sent: %+v", u)
	}

	f = IdentityFormFrom(orig)
	f.Appearance = ""
	if u := f.ToUpdate(orig); u.Appearance == nil || *u.Appearance != "" {
		t.Fatalf("clearing a field must send the empty value")
	}
}

func TestCareerForm_StageBounds(t *testing.T) {
	f := DefaultCareerForm()
	if f.CareerType != client.CareerSub || f.CurrentStage != 1 || f.StageProgress != 0 {
		t.Fatalf("unexpected defaults: %+v", f)
	}
	f.CareerID = "k1"
	if err := f.Validate(true); err != nil {
		t.Fatalf("defaults rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*CareerForm)
		field  string
	}{
		{"stage zero", func(f *CareerForm) { f.CurrentStage = 0 }, "current_stage"},
		{"negative progress", func(f *CareerForm) { f.StageProgress = -1 }, "stage_progress"},
		{"progress above max", func(f *CareerForm) { f.StageProgress = 101 }, "stage_progress"},
		{"missing career", func(f *CareerForm) { f.CareerID = "" }, "career_id"},
		{"bad type", func(f *CareerForm) { f.CareerType = "hobby" }, "career_type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := f
			tc.mutate(&g)
			if got := fieldOf(t, g.Validate(true)); got != tc.field {
				t.Fatalf("field = %q, want %q", got, tc.field)
			}
		})
	}

	edge := f
	edge.StageProgress = 100
	if err := edge.Validate(false); err != nil {
		t.Fatalf("progress 100 rejected: %v", err)
	}
}

func TestCareerForm_ToUpdate(t *testing.T) {
	orig := client.IdentityCareer{CareerID: "k1", CareerType: client.CareerMain, CurrentStage: 2, StageProgress: 40, Notes: "n"}
	f := CareerFormFrom(orig)
	f.StageProgress = 60
	u := f.ToUpdate(orig)
	if u.StageProgress == nil || *u.StageProgress != 60 {
		t.Fatalf("progress not sent")
	}
	if u.CurrentStage != nil || u.Notes != nil || u.StartedAt != nil {
		t.Fatalf("unchanged fields sent: %+v", u)
	}
}

func TestKnowledgeForm(t *testing.T) {
	f := DefaultKnowledgeForm()
	if f.KnowledgeLevel != client.KnowledgePartial || !f.IsSecret {
		t.Fatalf("unexpected defaults: %+v", f)
	}
	if got := fieldOf(t, f.Validate(true)); got != "knower_character_id" {
		t.Fatalf("field = %q", got)
	}
	f.KnowerCharacterID = "c2"
	if got := fieldOf(t, f.Validate(true)); got != "since_when" {
		t.Fatalf("field = %q", got)
	}
	f.SinceWhen = "year 1"
	if err := f.Validate(true); err != nil {
		t.Fatal(err)
	}
	f.KnowledgeLevel = "rumour"
	if got := fieldOf(t, f.Validate(true)); got != "knowledge_level" {
		t.Fatalf("field = %q", got)
	}

	req := DefaultKnowledgeForm()
	req.KnowerCharacterID, req.SinceWhen = "c2", " year 1 "
	c := req.ToCreate()
	if c.SinceWhen != "year 1" || c.IsSecret == nil || !*c.IsSecret {
		t.Fatalf("unexpected create payload: %+v", c)
	}

	orig := client.IdentityKnowledge{ID: "k1", KnowerCharacterID: "c2", KnowledgeLevel: client.KnowledgePartial, SinceWhen: "year 1", IsSecret: true}
	e := KnowledgeFormFrom(orig)
	e.IsSecret = false
	u := e.ToUpdate(orig)
	if u.IsSecret == nil || *u.IsSecret || u.KnowledgeLevel != nil || u.SinceWhen != nil {
		t.Fatalf("unexpected update: %+v", u)
	}
}
