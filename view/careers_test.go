package view

import (
	"context"
	"errors"
	"testing"

	"github.com/mycelian/mycelian-identities/client"
	"github.com/mycelian/mycelian-identities/collection"
)

func mountedCareers(t *testing.T, svc *fakeService, identityID string) (*CareerPanel, *collection.Recorder) {
	t.Helper()
	rec := &collection.Recorder{}
	p := NewCareerPanel(svc, WithNotifier(rec))
	t.Cleanup(p.Release)
	if err := p.Mount(context.Background(), identityID); err != nil {
		t.Fatalf("mount: %v", err)
	}
	return p, rec
}

func TestCareerPanel_AddEditDelete(t *testing.T) {
	svc := newFakeService()
	p, rec := mountedCareers(t, svc, "i1")
	ctx := context.Background()

	if v := p.View(); !v.Careers.Empty() || v.IdentityID != "i1" {
		t.Fatalf("expected empty panel, got %+v", v)
	}

	p.OpenAdd()
	p.Dialog.Edit(func(f *CareerForm) { f.CareerID = "swordsman"; f.CareerType = client.CareerMain })
	if err := p.Submit(ctx); err != nil {
		t.Fatal(err)
	}
	v := p.View()
	if v.DialogOpen || len(v.Careers.Items) != 1 || v.Careers.Items[0].CurrentStage != 1 {
		t.Fatalf("after add: %+v", v)
	}

	if err := p.OpenEdit("swordsman"); err != nil {
		t.Fatal(err)
	}
	if target, _ := p.Dialog.Target(); target != "swordsman" {
		t.Fatalf("edit target = %q", target)
	}
	p.Dialog.Edit(func(f *CareerForm) { f.CurrentStage = 3; f.StageProgress = 100 })
	if err := p.Submit(ctx); err != nil {
		t.Fatal(err)
	}
	if svc.callCount("UpdateCareer:swordsman") != 1 {
		t.Fatal("career must be addressed by its catalog id")
	}
	if u := svc.lastCareerUpdate; u.Notes != nil || u.CurrentStage == nil || *u.CurrentStage != 3 {
		t.Fatalf("unexpected update: %+v", u)
	}
	if got := p.View().Careers.Items[0]; got.CurrentStage != 3 || got.StageProgress != 100 {
		t.Fatalf("not refreshed: %+v", got)
	}

	if err := p.Delete(ctx, "swordsman"); err != nil {
		t.Fatal(err)
	}
	if !p.View().Careers.Empty() {
		t.Fatal("career not removed")
	}
	if rec.Count(collection.LevelSuccess) != 3 || rec.Count(collection.LevelError) != 0 {
		t.Fatalf("notifications: %+v", rec.All())
	}
}

func TestCareerPanel_StageBoundsRejectedLocally(t *testing.T) {
	svc := newFakeService()
	p, _ := mountedCareers(t, svc, "i1")

	p.OpenAdd()
	p.Dialog.Edit(func(f *CareerForm) { f.CareerID = "mage"; f.StageProgress = 101 })
	if err := p.Submit(context.Background()); err == nil {
		t.Fatal("expected validation error")
	}
	p.Dialog.Edit(func(f *CareerForm) { f.StageProgress = 0; f.CurrentStage = 0 })
	if err := p.Submit(context.Background()); err == nil {
		t.Fatal("expected validation error")
	}
	if svc.callCount("AddCareer") != 0 {
		t.Fatal("invalid career must not be sent")
	}
	if !p.Dialog.IsOpen() {
		t.Fatal("dialog must stay open")
	}
}

func TestCareerPanel_DuplicateCareerNotifiesOnce(t *testing.T) {
	svc := newFakeService()
	p, rec := mountedCareers(t, svc, "i1")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		p.OpenAdd()
		p.Dialog.Edit(func(f *CareerForm) { f.CareerID = "mage" })
		err := p.Submit(ctx)
		if i == 0 && err != nil {
			t.Fatal(err)
		}
		if i == 1 && err == nil {
			t.Fatal("duplicate career accepted")
		}
	}
	if rec.Count(collection.LevelError) != 1 || len(p.View().Careers.Items) != 1 {
		t.Fatalf("notifications: %+v", rec.All())
	}
	if !p.Dialog.IsOpen() {
		t.Fatal("dialog must stay open after a failed add")
	}
}

func TestCareerPanel_RemountClosesDialog(t *testing.T) {
	svc := newFakeService()
	p, _ := mountedCareers(t, svc, "i1")
	p.OpenAdd()
	if err := p.Mount(context.Background(), "i2"); err != nil {
		t.Fatal(err)
	}
	if p.Dialog.IsOpen() || p.View().IdentityID != "i2" {
		t.Fatal("remount must reset the panel")
	}
	if err := p.OpenEdit("nothing"); !errors.Is(err, ErrUnknownEntity) {
		t.Fatalf("err = %v", err)
	}
}
