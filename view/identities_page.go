package view

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/mycelian/mycelian-identities/client"
	"github.com/mycelian/mycelian-identities/collection"
)

// ErrAlreadyPrimary is returned when set-primary is requested for the
// identity that already is primary. No request is made.
var ErrAlreadyPrimary = errors.New("identity is already primary")

// ErrUnknownEntity is returned when a selection or edit names an id that the
// current collection does not contain.
var ErrUnknownEntity = errors.New("not in the current collection")

// CharacterRoster is a character together with its identities.
type CharacterRoster struct {
	Character  client.Character
	Identities []client.Identity
}

// PageView is what a presentation renders for the identities page.
type PageView struct {
	State             collection.State
	Err               error
	Characters        []CharacterRoster
	SelectedCharacter *CharacterRoster
	SelectedIdentity  *client.Identity

	FormOpen   bool
	FormTarget string // identity being edited; empty when creating
	Form       IdentityForm
	DetailOpen bool
	DetailOf   *client.Identity
}

// IdentitiesPage is the project-level identities screen: every character that
// has identities, a focused character and identity, one create/edit dialog
// and one detail dialog.
type IdentitiesPage struct {
	api    IdentityAPI
	cfg    settings
	roster *collection.Store[CharacterRoster]
	unsub  func()

	Form   *Dialog[IdentityForm]
	Detail *Dialog[struct{}]

	mu                sync.Mutex
	selectedCharacter string
	selectedIdentity  string
}

// NewIdentitiesPage wires the page to api.
func NewIdentitiesPage(api IdentityAPI, opts ...Option) *IdentitiesPage {
	p := &IdentitiesPage{
		api:    api,
		cfg:    newSettings(opts),
		Form:   NewDialog(DefaultIdentityForm),
		Detail: NewDialog(func() struct{} { return struct{}{} }),
	}
	p.roster = collection.NewStore("identities", p.fetchRoster, p.cfg.storeOptions()...)
	p.unsub = p.roster.Subscribe(p.reconcile)
	return p
}

// Load scopes the page to a project and fetches it.
func (p *IdentitiesPage) Load(ctx context.Context, projectID string) error {
	p.mu.Lock()
	p.selectedCharacter, p.selectedIdentity = "", ""
	p.mu.Unlock()
	return p.roster.Mount(ctx, projectID)
}

// Refresh re-fetches the current project.
func (p *IdentitiesPage) Refresh(ctx context.Context) error {
	return p.roster.Refresh(ctx)
}

// fetchRoster loads the project's characters and then each character's
// identities concurrently. A failed per-character fetch counts as no
// identities; characters without identities are left out.
func (p *IdentitiesPage) fetchRoster(ctx context.Context, projectID string) ([]CharacterRoster, error) {
	chars, err := p.api.ListProjectCharacters(ctx, projectID)
	if err != nil {
		return nil, err
	}

	lists := make([][]client.Identity, len(chars))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.concurrency)
	for i, ch := range chars {
		g.Go(func() error {
			ids, err := p.api.ListCharacterIdentities(gctx, ch.ID, client.ListParams{})
			if err != nil {
				log.Debug().Err(err).Str("character_id", ch.ID).Msg("identities fetch failed, treating as empty")
				return nil
			}
			lists[i] = ids
			return nil
		})
	}
	_ = g.Wait()

	out := make([]CharacterRoster, 0, len(chars))
	for i, ch := range chars {
		if len(lists[i]) == 0 {
			continue
		}
		out = append(out, CharacterRoster{Character: ch, Identities: lists[i]})
	}
	return out, nil
}

// reconcile drops selections that no longer exist and applies the default
// selection (first character, its first identity) when nothing is selected.
func (p *IdentitiesPage) reconcile(snap collection.Snapshot[CharacterRoster]) {
	if snap.State == collection.Loading {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := findCharacter(snap.Items, p.selectedCharacter); !ok {
		p.selectedCharacter = ""
	}
	if c, id, ok := findIdentity(snap.Items, p.selectedIdentity); !ok || (p.selectedCharacter != "" && c.Character.ID != p.selectedCharacter) {
		p.selectedIdentity = ""
	} else if p.selectedCharacter == "" {
		p.selectedCharacter = id.CharacterID
	}

	if p.selectedCharacter == "" && len(snap.Items) > 0 {
		first := snap.Items[0]
		p.selectedCharacter = first.Character.ID
		if p.selectedIdentity == "" && len(first.Identities) > 0 {
			p.selectedIdentity = first.Identities[0].ID
		}
	}
}

// View returns everything a presentation needs to render the page.
func (p *IdentitiesPage) View() PageView {
	snap := p.roster.Snapshot()
	p.mu.Lock()
	charID, identID := p.selectedCharacter, p.selectedIdentity
	p.mu.Unlock()

	v := PageView{State: snap.State, Err: snap.Err, Characters: snap.Items}
	if c, ok := findCharacter(snap.Items, charID); ok {
		cc := c
		v.SelectedCharacter = &cc
	}
	if _, id, ok := findIdentity(snap.Items, identID); ok {
		v.SelectedIdentity = &id
	}
	v.FormOpen, v.FormTarget, v.Form = p.Form.state()
	if open, target, _ := p.Detail.state(); open {
		if _, id, ok := findIdentity(snap.Items, target); ok {
			v.DetailOpen = true
			v.DetailOf = &id
		}
	}
	return v
}

// SelectCharacter focuses a character. The identity selection is kept only
// when it belongs to that character.
func (p *IdentitiesPage) SelectCharacter(characterID string) error {
	items := p.roster.Items()
	if _, ok := findCharacter(items, characterID); !ok {
		return ErrUnknownEntity
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selectedCharacter = characterID
	if c, _, ok := findIdentity(items, p.selectedIdentity); ok && c.Character.ID != characterID {
		p.selectedIdentity = ""
	}
	return nil
}

// SelectIdentity focuses an identity and its character.
func (p *IdentitiesPage) SelectIdentity(identityID string) error {
	c, _, ok := findIdentity(p.roster.Items(), identityID)
	if !ok {
		return ErrUnknownEntity
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selectedCharacter = c.Character.ID
	p.selectedIdentity = identityID
	return nil
}

// OpenCreate opens the create dialog for characterID, or for the selected
// character when characterID is empty.
func (p *IdentitiesPage) OpenCreate(characterID string) {
	if characterID == "" {
		p.mu.Lock()
		characterID = p.selectedCharacter
		p.mu.Unlock()
	}
	p.Form.OpenCreate()
	p.Form.Edit(func(f *IdentityForm) { f.CharacterID = characterID })
}

// OpenEdit opens the edit dialog pre-filled from the identity.
func (p *IdentitiesPage) OpenEdit(identityID string) error {
	_, id, ok := findIdentity(p.roster.Items(), identityID)
	if !ok {
		return ErrUnknownEntity
	}
	p.Form.OpenEdit(identityID, IdentityFormFrom(id))
	return nil
}

// CloseForm cancels the create/edit dialog.
func (p *IdentitiesPage) CloseForm() { p.Form.Close() }

// SubmitForm validates and sends the dialog. On success the dialog closes
// and the page re-fetches; on failure it stays open with its inputs.
func (p *IdentitiesPage) SubmitForm(ctx context.Context) error {
	open, target, form := p.Form.state()
	if !open {
		return errors.New("identity form is not open")
	}
	creating := target == ""
	if err := form.Validate(creating); err != nil {
		return err
	}

	var m collection.Mutation
	if creating {
		req := form.ToCreate()
		m = collection.Mutation{Op: "create identity", Success: "Identity created", Do: func(ctx context.Context) error {
			_, err := p.api.CreateIdentity(ctx, req)
			return err
		}}
	} else {
		_, orig, ok := findIdentity(p.roster.Items(), target)
		if !ok {
			return ErrUnknownEntity
		}
		req := form.ToUpdate(orig)
		m = collection.Mutation{Op: "update identity", Success: "Identity updated", Do: func(ctx context.Context) error {
			_, err := p.api.UpdateIdentity(ctx, target, req)
			return err
		}}
	}

	do := m.Do
	m.Do = func(ctx context.Context) error {
		if err := do(ctx); err != nil {
			return err
		}
		p.Form.Close()
		return nil
	}
	if err := p.roster.Mutate(ctx, m); err != nil {
		return err
	}
	p.cfg.changed(ctx)
	return nil
}

// Delete removes an identity. On success the identity selection is cleared.
func (p *IdentitiesPage) Delete(ctx context.Context, identityID string) error {
	err := p.roster.Mutate(ctx, collection.Mutation{Op: "delete identity", Success: "Identity deleted", Do: func(ctx context.Context) error {
		if _, err := p.api.DeleteIdentity(ctx, identityID); err != nil {
			return err
		}
		p.mu.Lock()
		p.selectedIdentity = ""
		p.mu.Unlock()
		if _, target, _ := p.Detail.state(); target == identityID {
			p.Detail.Close()
		}
		return nil
	}})
	if err != nil {
		return err
	}
	p.cfg.changed(ctx)
	return nil
}

// SetPrimary promotes a non-primary identity. The service demotes the old
// primary; the page re-fetches instead of flipping flags locally.
func (p *IdentitiesPage) SetPrimary(ctx context.Context, identityID string) error {
	c, id, ok := findIdentity(p.roster.Items(), identityID)
	if !ok {
		return ErrUnknownEntity
	}
	if !CanSetPrimary(id) {
		return ErrAlreadyPrimary
	}
	characterID := c.Character.ID
	err := p.roster.Mutate(ctx, collection.Mutation{Op: "set primary identity", Success: "Primary identity set", Do: func(ctx context.Context) error {
		_, err := p.api.SetPrimaryIdentity(ctx, characterID, identityID)
		return err
	}})
	if err != nil {
		return err
	}
	p.cfg.changed(ctx)
	return nil
}

// OpenDetail shows the detail dialog for an identity.
func (p *IdentitiesPage) OpenDetail(identityID string) error {
	if _, _, ok := findIdentity(p.roster.Items(), identityID); !ok {
		return ErrUnknownEntity
	}
	p.Detail.OpenEdit(identityID, struct{}{})
	return nil
}

// CloseDetail hides the detail dialog.
func (p *IdentitiesPage) CloseDetail() { p.Detail.Close() }

// Subscribe forwards roster changes to fn.
func (p *IdentitiesPage) Subscribe(fn func(PageView)) func() {
	return p.roster.Subscribe(func(snap collection.Snapshot[CharacterRoster]) {
		p.reconcile(snap)
		fn(p.View())
	})
}

// Release discards the page; late responses are ignored.
func (p *IdentitiesPage) Release() {
	p.unsub()
	p.roster.Release()
	p.Form.Close()
	p.Detail.Close()
}

func findCharacter(items []CharacterRoster, characterID string) (CharacterRoster, bool) {
	if characterID == "" {
		return CharacterRoster{}, false
	}
	for _, c := range items {
		if c.Character.ID == characterID {
			return c, true
		}
	}
	return CharacterRoster{}, false
}

func findIdentity(items []CharacterRoster, identityID string) (CharacterRoster, client.Identity, bool) {
	if identityID == "" {
		return CharacterRoster{}, client.Identity{}, false
	}
	for _, c := range items {
		for _, id := range c.Identities {
			if id.ID == identityID {
				return c, id, true
			}
		}
	}
	return CharacterRoster{}, client.Identity{}, false
}
