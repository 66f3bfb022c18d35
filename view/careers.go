package view

import (
	"context"
	"errors"

	"github.com/mycelian/mycelian-identities/client"
	"github.com/mycelian/mycelian-identities/collection"
)

// CareerPanelView is what a presentation renders for an identity's careers.
type CareerPanelView struct {
	IdentityID string
	Careers    collection.Snapshot[client.IdentityCareer]
	DialogOpen bool
	EditTarget string // catalog career id being edited; empty when adding
	Form       CareerForm
}

// CareerPanel lists and edits the careers of one identity. Career records
// are addressed by their catalog career id.
type CareerPanel struct {
	api    CareerAPI
	cfg    settings
	store  *collection.Store[client.IdentityCareer]
	Dialog *Dialog[CareerForm]
}

// NewCareerPanel returns an unmounted panel.
func NewCareerPanel(api CareerAPI, opts ...Option) *CareerPanel {
	p := &CareerPanel{api: api, cfg: newSettings(opts), Dialog: NewDialog(DefaultCareerForm)}
	p.store = collection.NewStore("careers", func(ctx context.Context, identityID string) ([]client.IdentityCareer, error) {
		return api.ListCareers(ctx, identityID)
	}, p.cfg.storeOptions()...)
	return p
}

// Mount scopes the panel to an identity. Results for a previous identity
// are discarded.
func (p *CareerPanel) Mount(ctx context.Context, identityID string) error {
	p.Dialog.Close()
	return p.store.Mount(ctx, identityID)
}

// Refresh re-fetches the careers.
func (p *CareerPanel) Refresh(ctx context.Context) error { return p.store.Refresh(ctx) }

// View returns the panel state.
func (p *CareerPanel) View() CareerPanelView {
	snap := p.store.Snapshot()
	v := CareerPanelView{IdentityID: snap.Scope, Careers: snap}
	v.DialogOpen, v.EditTarget, v.Form = p.Dialog.state()
	return v
}

// OpenAdd opens the dialog with a blank form.
func (p *CareerPanel) OpenAdd() { p.Dialog.OpenCreate() }

// OpenEdit opens the dialog pre-filled for the career with catalog id careerID.
func (p *CareerPanel) OpenEdit(careerID string) error {
	c, ok := p.find(careerID)
	if !ok {
		return ErrUnknownEntity
	}
	p.Dialog.OpenEdit(careerID, CareerFormFrom(c))
	return nil
}

// CloseDialog cancels the dialog.
func (p *CareerPanel) CloseDialog() { p.Dialog.Close() }

// Submit validates and sends the dialog.
func (p *CareerPanel) Submit(ctx context.Context) error {
	open, target, form := p.Dialog.state()
	if !open {
		return errors.New("career form is not open")
	}
	identityID := p.store.Snapshot().Scope
	adding := target == ""
	if err := form.Validate(adding); err != nil {
		return err
	}

	var m collection.Mutation
	if adding {
		req := form.ToCreate()
		m = collection.Mutation{Op: "add career", Success: "Career added", Do: func(ctx context.Context) error {
			_, err := p.api.AddCareer(ctx, identityID, req)
			return err
		}}
	} else {
		orig, ok := p.find(target)
		if !ok {
			return ErrUnknownEntity
		}
		req := form.ToUpdate(orig)
		m = collection.Mutation{Op: "update career", Success: "Career updated", Do: func(ctx context.Context) error {
			_, err := p.api.UpdateCareer(ctx, identityID, target, req)
			return err
		}}
	}
	return p.mutate(ctx, m, true)
}

// Delete detaches the career with catalog id careerID.
func (p *CareerPanel) Delete(ctx context.Context, careerID string) error {
	identityID := p.store.Snapshot().Scope
	return p.mutate(ctx, collection.Mutation{Op: "delete career", Success: "Career removed", Do: func(ctx context.Context) error {
		_, err := p.api.DeleteCareer(ctx, identityID, careerID)
		return err
	}}, false)
}

// Release discards the panel.
func (p *CareerPanel) Release() {
	p.store.Release()
	p.Dialog.Close()
}

func (p *CareerPanel) mutate(ctx context.Context, m collection.Mutation, closeDialog bool) error {
	if closeDialog {
		do := m.Do
		m.Do = func(ctx context.Context) error {
			if err := do(ctx); err != nil {
				return err
			}
			p.Dialog.Close()
			return nil
		}
	}
	if err := p.store.Mutate(ctx, m); err != nil {
		return err
	}
	p.cfg.changed(ctx)
	return nil
}

func (p *CareerPanel) find(careerID string) (client.IdentityCareer, bool) {
	for _, c := range p.store.Items() {
		if c.CareerID == careerID {
			return c, true
		}
	}
	return client.IdentityCareer{}, false
}
