package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mycelian/mycelian-identities/view"
)

func newBrowseCmd(a *app) *cobra.Command {
	var identityID string
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Show the project's characters with their identities",
		Long:  "Shows every character that has identities. With --identity the identity's details, careers and knowledge follow.",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVarP(&identityID, "identity", "i", "", "identity to open")
	cmd.RunE = a.run(func(ctx context.Context, _ []string) error {
		project, err := a.projectID()
		if err != nil {
			return err
		}
		page := view.NewIdentitiesPage(a.client, a.viewOpts()...)
		defer page.Release()
		if err := page.Load(ctx, project); err != nil {
			renderPage(a.out, page.View())
			return err
		}
		if identityID != "" {
			if err := page.SelectIdentity(identityID); err != nil {
				return fmt.Errorf("identity %s: %w", identityID, err)
			}
		}
		v := page.View()
		renderPage(a.out, v)
		if v.SelectedIdentity == nil {
			return nil
		}

		fmt.Fprintln(a.out)
		renderIdentity(a.out, *v.SelectedIdentity)

		careers := view.NewCareerPanel(a.client, a.viewOpts()...)
		defer careers.Release()
		knowledge := view.NewKnowledgePanel(a.client, a.viewOpts()...)
		defer knowledge.Release()
		// failures land in the panel state and are rendered below
		var g errgroup.Group
		g.Go(func() error { _ = careers.Mount(ctx, v.SelectedIdentity.ID); return nil })
		g.Go(func() error { _ = knowledge.Mount(ctx, v.SelectedIdentity.ID); return nil })
		_ = g.Wait()

		fmt.Fprintln(a.out, "\nCareers")
		renderCareers(a.out, careers.View().Careers)
		fmt.Fprintln(a.out, "\nKnown by")
		renderKnowledge(a.out, knowledge.View().Knowledge)
		return nil
	})
	return cmd
}
