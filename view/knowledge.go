package view

import (
	"context"
	"errors"

	"github.com/mycelian/mycelian-identities/client"
	"github.com/mycelian/mycelian-identities/collection"
)

// KnowledgePanelView is what a presentation renders for an identity's
// knowledge records.
type KnowledgePanelView struct {
	IdentityID string
	Knowledge  collection.Snapshot[client.IdentityKnowledge]
	DialogOpen bool
	EditTarget string // knowledge record id being edited; empty when adding
	Form       KnowledgeForm
}

// KnowledgePanel lists and edits who knows about one identity.
type KnowledgePanel struct {
	api    KnowledgeAPI
	cfg    settings
	store  *collection.Store[client.IdentityKnowledge]
	Dialog *Dialog[KnowledgeForm]
}

// NewKnowledgePanel returns an unmounted panel.
func NewKnowledgePanel(api KnowledgeAPI, opts ...Option) *KnowledgePanel {
	p := &KnowledgePanel{api: api, cfg: newSettings(opts), Dialog: NewDialog(DefaultKnowledgeForm)}
	p.store = collection.NewStore("knowledge", func(ctx context.Context, identityID string) ([]client.IdentityKnowledge, error) {
		return api.ListKnowledge(ctx, identityID)
	}, p.cfg.storeOptions()...)
	return p
}

// Mount scopes the panel to an identity.
func (p *KnowledgePanel) Mount(ctx context.Context, identityID string) error {
	p.Dialog.Close()
	return p.store.Mount(ctx, identityID)
}

// Refresh re-fetches the knowledge records.
func (p *KnowledgePanel) Refresh(ctx context.Context) error { return p.store.Refresh(ctx) }

// View returns the panel state.
func (p *KnowledgePanel) View() KnowledgePanelView {
	snap := p.store.Snapshot()
	v := KnowledgePanelView{IdentityID: snap.Scope, Knowledge: snap}
	v.DialogOpen, v.EditTarget, v.Form = p.Dialog.state()
	return v
}

// OpenAdd opens the dialog with a blank form.
func (p *KnowledgePanel) OpenAdd() { p.Dialog.OpenCreate() }

// OpenEdit opens the dialog pre-filled for the record knowledgeID.
func (p *KnowledgePanel) OpenEdit(knowledgeID string) error {
	k, ok := p.find(knowledgeID)
	if !ok {
		return ErrUnknownEntity
	}
	p.Dialog.OpenEdit(knowledgeID, KnowledgeFormFrom(k))
	return nil
}

// CloseDialog cancels the dialog.
func (p *KnowledgePanel) CloseDialog() { p.Dialog.Close() }

// Submit validates and sends the dialog.
func (p *KnowledgePanel) Submit(ctx context.Context) error {
	open, target, form := p.Dialog.state()
	if !open {
		return errors.New("knowledge form is not open")
	}
	identityID := p.store.Snapshot().Scope
	adding := target == ""
	if err := form.Validate(adding); err != nil {
		return err
	}

	var m collection.Mutation
	if adding {
		req := form.ToCreate()
		m = collection.Mutation{Op: "add knowledge", Success: "Knowledge added", Do: func(ctx context.Context) error {
			_, err := p.api.AddKnowledge(ctx, identityID, req)
			return err
		}}
	} else {
		orig, ok := p.find(target)
		if !ok {
			return ErrUnknownEntity
		}
		req := form.ToUpdate(orig)
		m = collection.Mutation{Op: "update knowledge", Success: "Knowledge updated", Do: func(ctx context.Context) error {
			_, err := p.api.UpdateKnowledge(ctx, identityID, target, req)
			return err
		}}
	}

	do := m.Do
	m.Do = func(ctx context.Context) error {
		if err := do(ctx); err != nil {
			return err
		}
		p.Dialog.Close()
		return nil
	}
	if err := p.store.Mutate(ctx, m); err != nil {
		return err
	}
	p.cfg.changed(ctx)
	return nil
}

// Delete removes the record knowledgeID.
func (p *KnowledgePanel) Delete(ctx context.Context, knowledgeID string) error {
	identityID := p.store.Snapshot().Scope
	err := p.store.Mutate(ctx, collection.Mutation{Op: "delete knowledge", Success: "Knowledge removed", Do: func(ctx context.Context) error {
		_, err := p.api.DeleteKnowledge(ctx, identityID, knowledgeID)
		return err
	}})
	if err != nil {
		return err
	}
	p.cfg.changed(ctx)
	return nil
}

// Check asks whether knowerCharacterID knows about the mounted identity.
// It is a read and leaves the collection alone.
func (p *KnowledgePanel) Check(ctx context.Context, knowerCharacterID string) (*client.KnowledgeCheck, error) {
	return p.api.CheckKnowledge(ctx, p.store.Snapshot().Scope, knowerCharacterID)
}

// Release discards the panel.
func (p *KnowledgePanel) Release() {
	p.store.Release()
	p.Dialog.Close()
}

func (p *KnowledgePanel) find(knowledgeID string) (client.IdentityKnowledge, bool) {
	for _, k := range p.store.Items() {
		if k.ID == knowledgeID {
			return k, true
		}
	}
	return client.IdentityKnowledge{}, false
}
