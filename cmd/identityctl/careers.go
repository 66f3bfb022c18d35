package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mycelian/mycelian-identities/client"
	"github.com/mycelian/mycelian-identities/view"
)

func newCareersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "careers", Aliases: []string{"career"}, Short: "Careers of an identity"}
	cmd.AddCommand(newCareersListCmd(a))
	cmd.AddCommand(newCareersAddCmd(a))
	cmd.AddCommand(newCareersUpdateCmd(a))
	cmd.AddCommand(newCareersDeleteCmd(a))
	return cmd
}

type careerFlags struct {
	careerID, typ        string
	stage, progress      int
	startedAt, reachedAt string
	notes                string
}

func (f *careerFlags) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.stage, "stage", client.MinStage, "current stage")
	cmd.Flags().IntVar(&f.progress, "progress", 0, "progress within the stage, 0-100")
	cmd.Flags().StringVar(&f.startedAt, "started-at", "", "in-story date the career started")
	cmd.Flags().StringVar(&f.reachedAt, "reached-at", "", "in-story date the current stage was reached")
	cmd.Flags().StringVar(&f.notes, "notes", "", "free-form notes")
}

func (f *careerFlags) apply(cmd *cobra.Command, form *view.CareerForm) {
	set := cmd.Flags().Changed
	if set("career") {
		form.CareerID = f.careerID
	}
	if set("type") {
		form.CareerType = client.CareerType(f.typ)
	}
	if set("stage") {
		form.CurrentStage = f.stage
	}
	if set("progress") {
		form.StageProgress = f.progress
	}
	if set("started-at") {
		form.StartedAt = f.startedAt
	}
	if set("reached-at") {
		form.ReachedCurrentStageAt = f.reachedAt
	}
	if set("notes") {
		form.Notes = f.notes
	}
}

// mountCareers returns a career panel mounted on identityID.
func (a *app) mountCareers(ctx context.Context, identityID string) (*view.CareerPanel, error) {
	p := view.NewCareerPanel(a.client, a.viewOpts()...)
	if err := p.Mount(ctx, identityID); err != nil {
		p.Release()
		return nil, err
	}
	return p, nil
}

func newCareersListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "list IDENTITY_ID", Short: "List an identity's careers", Args: cobra.ExactArgs(1)}
	cmd.RunE = a.run(func(ctx context.Context, args []string) error {
		p := view.NewCareerPanel(a.client, a.viewOpts()...)
		defer p.Release()
		err := p.Mount(ctx, args[0])
		renderCareers(a.out, p.View().Careers)
		return err
	})
	return cmd
}

func newCareersAddCmd(a *app) *cobra.Command {
	var flags careerFlags
	cmd := &cobra.Command{Use: "add IDENTITY_ID", Short: "Attach a catalog career to an identity", Args: cobra.ExactArgs(1)}
	flags.bind(cmd)
	cmd.Flags().StringVar(&flags.careerID, "career", "", "catalog career id (required)")
	cmd.Flags().StringVar(&flags.typ, "type", string(client.CareerSub), "main or sub")
	_ = cmd.MarkFlagRequired("career")
	cmd.RunE = a.run(func(ctx context.Context, args []string) error {
		p, err := a.mountCareers(ctx, args[0])
		if err != nil {
			return err
		}
		defer p.Release()
		p.OpenAdd()
		p.Dialog.Edit(func(f *view.CareerForm) { flags.apply(cmd, f) })
		if err := p.Submit(ctx); err != nil {
			return err
		}
		renderCareers(a.out, p.View().Careers)
		return nil
	})
	return cmd
}

func newCareersUpdateCmd(a *app) *cobra.Command {
	var flags careerFlags
	cmd := &cobra.Command{
		Use:   "update IDENTITY_ID CAREER_ID",
		Short: "Change stage, progress, dates or notes of a career",
		Args:  cobra.ExactArgs(2),
	}
	flags.bind(cmd)
	cmd.RunE = a.run(func(ctx context.Context, args []string) error {
		p, err := a.mountCareers(ctx, args[0])
		if err != nil {
			return err
		}
		defer p.Release()
		if err := p.OpenEdit(args[1]); err != nil {
			return fmt.Errorf("career %s: %w", args[1], err)
		}
		p.Dialog.Edit(func(f *view.CareerForm) { flags.apply(cmd, f) })
		if err := p.Submit(ctx); err != nil {
			return err
		}
		renderCareers(a.out, p.View().Careers)
		return nil
	})
	return cmd
}

func newCareersDeleteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "delete IDENTITY_ID CAREER_ID", Short: "Detach a career", Args: cobra.ExactArgs(2)}
	cmd.RunE = a.run(func(ctx context.Context, args []string) error {
		p, err := a.mountCareers(ctx, args[0])
		if err != nil {
			return err
		}
		defer p.Release()
		if err := p.Delete(ctx, args[1]); err != nil {
			return err
		}
		renderCareers(a.out, p.View().Careers)
		return nil
	})
	return cmd
}
