package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mycelian/mycelian-identities/client"
	"github.com/mycelian/mycelian-identities/view"
)

func newIdentitiesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "identities", Aliases: []string{"identity", "id"}, Short: "Identity operations"}
	cmd.AddCommand(newIdentitiesListCmd(a))
	cmd.AddCommand(newIdentitiesCreateCmd(a))
	cmd.AddCommand(newIdentitiesUpdateCmd(a))
	cmd.AddCommand(newIdentitiesDeleteCmd(a))
	cmd.AddCommand(newIdentitiesSetPrimaryCmd(a))
	return cmd
}

func newIdentitiesListCmd(a *app) *cobra.Command {
	var characterID string
	var params client.ListParams
	var typ, status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List identities of a character (--character) or one page of the project",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVarP(&characterID, "character", "c", "", "list this character's identities, primary first")
	cmd.Flags().IntVar(&params.Page, "page", 0, "page number (project listing)")
	cmd.Flags().IntVar(&params.Limit, "limit", 0, "page size (project listing)")
	cmd.Flags().StringVar(&params.SortBy, "sort-by", "", "created_at, updated_at or name")
	cmd.Flags().StringVar(&params.SortOrder, "sort-order", "", "asc or desc")
	cmd.Flags().StringVar(&typ, "type", "", "filter by identity type")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.RunE = a.run(func(ctx context.Context, _ []string) error {
		if characterID != "" {
			ids, err := a.client.ListCharacterIdentities(ctx, characterID, client.ListParams{})
			if err != nil {
				return err
			}
			renderIdentities(a.out, ids)
			return nil
		}
		project, err := a.projectID()
		if err != nil {
			return err
		}
		params.IdentityType = client.IdentityType(typ)
		params.Status = client.IdentityStatus(status)
		list, err := a.client.ListProjectIdentities(ctx, project, params)
		if err != nil {
			return err
		}
		renderIdentityList(a.out, list)
		return nil
	})
	return cmd
}

// identityFlags binds the editable identity fields.
type identityFlags struct {
	name, typ, status                          string
	appearance, personality, background, voice string
	primary                                    bool
}

func (f *identityFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "identity name")
	cmd.Flags().StringVarP(&f.typ, "type", "t", "", "real, public, secret or disguise")
	cmd.Flags().StringVar(&f.status, "status", "", "active, inactive or burned")
	cmd.Flags().StringVar(&f.appearance, "appearance", "", "appearance notes")
	cmd.Flags().StringVar(&f.personality, "personality", "", "personality notes")
	cmd.Flags().StringVar(&f.background, "background", "", "background notes")
	cmd.Flags().StringVar(&f.voice, "voice", "", "voice style")
	cmd.Flags().BoolVar(&f.primary, "primary", false, "make this the character's primary identity")
}

// apply copies the flags the user actually set onto form.
func (f *identityFlags) apply(cmd *cobra.Command, form *view.IdentityForm) {
	set := cmd.Flags().Changed
	if set("name") {
		form.Name = f.name
	}
	if set("type") {
		form.IdentityType = client.IdentityType(f.typ)
	}
	if set("status") {
		form.Status = client.IdentityStatus(f.status)
	}
	if set("appearance") {
		form.Appearance = f.appearance
	}
	if set("personality") {
		form.Personality = f.personality
	}
	if set("background") {
		form.Background = f.background
	}
	if set("voice") {
		form.VoiceStyle = f.voice
	}
	if set("primary") {
		form.IsPrimary = f.primary
	}
}

// loadPage loads the project's identities page.
func (a *app) loadPage(ctx context.Context) (*view.IdentitiesPage, error) {
	project, err := a.projectID()
	if err != nil {
		return nil, err
	}
	page := view.NewIdentitiesPage(a.client, a.viewOpts()...)
	if err := page.Load(ctx, project); err != nil {
		page.Release()
		return nil, err
	}
	return page, nil
}

func newIdentitiesCreateCmd(a *app) *cobra.Command {
	var flags identityFlags
	var characterID string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an identity for a character",
		Args:  cobra.NoArgs,
	}
	flags.bind(cmd)
	cmd.Flags().StringVarP(&characterID, "character", "c", "", "owning character id (required)")
	_ = cmd.MarkFlagRequired("character")
	_ = cmd.MarkFlagRequired("name")
	cmd.RunE = a.run(func(ctx context.Context, _ []string) error {
		page, err := a.loadPage(ctx)
		if err != nil {
			return err
		}
		defer page.Release()
		page.OpenCreate(characterID)
		page.Form.Edit(func(f *view.IdentityForm) { flags.apply(cmd, f) })
		if err := page.SubmitForm(ctx); err != nil {
			return err
		}
		renderPage(a.out, page.View())
		return nil
	})
	return cmd
}

func newIdentitiesUpdateCmd(a *app) *cobra.Command {
	var flags identityFlags
	cmd := &cobra.Command{
		Use:   "update IDENTITY_ID",
		Short: "Change the given fields of an identity",
		Args:  cobra.ExactArgs(1),
	}
	flags.bind(cmd)
	cmd.RunE = a.run(func(ctx context.Context, args []string) error {
		page, err := a.loadPage(ctx)
		if err != nil {
			return err
		}
		defer page.Release()
		if err := page.OpenEdit(args[0]); err != nil {
			return fmt.Errorf("identity %s: %w", args[0], err)
		}
		page.Form.Edit(func(f *view.IdentityForm) { flags.apply(cmd, f) })
		if err := page.SubmitForm(ctx); err != nil {
			return err
		}
		if err := page.SelectIdentity(args[0]); err == nil {
			renderIdentity(a.out, *page.View().SelectedIdentity)
		}
		return nil
	})
	return cmd
}

func newIdentitiesDeleteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete IDENTITY_ID",
		Short: "Delete an identity with its careers and knowledge",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.run(func(ctx context.Context, args []string) error {
		page, err := a.loadPage(ctx)
		if err != nil {
			return err
		}
		defer page.Release()
		if err := page.Delete(ctx, args[0]); err != nil {
			return err
		}
		renderPage(a.out, page.View())
		return nil
	})
	return cmd
}

func newIdentitiesSetPrimaryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-primary IDENTITY_ID",
		Short: "Make an identity its character's primary identity",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.run(func(ctx context.Context, args []string) error {
		page, err := a.loadPage(ctx)
		if err != nil {
			return err
		}
		defer page.Release()
		if err := page.SetPrimary(ctx, args[0]); err != nil {
			return err
		}
		_ = page.SelectIdentity(args[0])
		renderPage(a.out, page.View())
		return nil
	})
	return cmd
}
