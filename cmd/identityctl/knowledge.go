package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mycelian/mycelian-identities/client"
	"github.com/mycelian/mycelian-identities/view"
)

func newKnowledgeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "knowledge", Short: "Who knows about an identity"}
	cmd.AddCommand(newKnowledgeListCmd(a))
	cmd.AddCommand(newKnowledgeAddCmd(a))
	cmd.AddCommand(newKnowledgeUpdateCmd(a))
	cmd.AddCommand(newKnowledgeDeleteCmd(a))
	cmd.AddCommand(newKnowledgeCheckCmd(a))
	return cmd
}

type knowledgeFlags struct {
	knower, level, since, how string
	secret                    bool
}

func (f *knowledgeFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.level, "level", string(client.KnowledgePartial), "full, partial or suspected")
	cmd.Flags().StringVar(&f.since, "since", "", "in-story time the knower found out")
	cmd.Flags().StringVar(&f.how, "how", "", "how the knower found out")
	cmd.Flags().BoolVar(&f.secret, "secret", true, "the knower keeps it secret")
}

func (f *knowledgeFlags) apply(cmd *cobra.Command, form *view.KnowledgeForm) {
	set := cmd.Flags().Changed
	if set("knower") {
		form.KnowerCharacterID = f.knower
	}
	if set("level") {
		form.KnowledgeLevel = client.KnowledgeLevel(f.level)
	}
	if set("since") {
		form.SinceWhen = f.since
	}
	if set("how") {
		form.DiscoveredHow = f.how
	}
	if set("secret") {
		form.IsSecret = f.secret
	}
}

func (a *app) mountKnowledge(ctx context.Context, identityID string) (*view.KnowledgePanel, error) {
	p := view.NewKnowledgePanel(a.client, a.viewOpts()...)
	if err := p.Mount(ctx, identityID); err != nil {
		p.Release()
		return nil, err
	}
	return p, nil
}

func newKnowledgeListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "list IDENTITY_ID", Short: "List who knows about an identity", Args: cobra.ExactArgs(1)}
	cmd.RunE = a.run(func(ctx context.Context, args []string) error {
		p := view.NewKnowledgePanel(a.client, a.viewOpts()...)
		defer p.Release()
		err := p.Mount(ctx, args[0])
		renderKnowledge(a.out, p.View().Knowledge)
		return err
	})
	return cmd
}

func newKnowledgeAddCmd(a *app) *cobra.Command {
	var flags knowledgeFlags
	cmd := &cobra.Command{Use: "add IDENTITY_ID", Short: "Record that a character knows about an identity", Args: cobra.ExactArgs(1)}
	flags.bind(cmd)
	cmd.Flags().StringVar(&flags.knower, "knower", "", "knowing character id (required)")
	_ = cmd.MarkFlagRequired("knower")
	_ = cmd.MarkFlagRequired("since")
	cmd.RunE = a.run(func(ctx context.Context, args []string) error {
		p, err := a.mountKnowledge(ctx, args[0])
		if err != nil {
			return err
		}
		defer p.Release()
		p.OpenAdd()
		p.Dialog.Edit(func(f *view.KnowledgeForm) { flags.apply(cmd, f) })
		if err := p.Submit(ctx); err != nil {
			return err
		}
		renderKnowledge(a.out, p.View().Knowledge)
		return nil
	})
	return cmd
}

func newKnowledgeUpdateCmd(a *app) *cobra.Command {
	var flags knowledgeFlags
	cmd := &cobra.Command{Use: "update IDENTITY_ID KNOWLEDGE_ID", Short: "Change a knowledge record", Args: cobra.ExactArgs(2)}
	flags.bind(cmd)
	cmd.RunE = a.run(func(ctx context.Context, args []string) error {
		p, err := a.mountKnowledge(ctx, args[0])
		if err != nil {
			return err
		}
		defer p.Release()
		if err := p.OpenEdit(args[1]); err != nil {
			return fmt.Errorf("knowledge %s: %w", args[1], err)
		}
		p.Dialog.Edit(func(f *view.KnowledgeForm) { flags.apply(cmd, f) })
		if err := p.Submit(ctx); err != nil {
			return err
		}
		renderKnowledge(a.out, p.View().Knowledge)
		return nil
	})
	return cmd
}

func newKnowledgeDeleteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "delete IDENTITY_ID KNOWLEDGE_ID", Short: "Remove a knowledge record", Args: cobra.ExactArgs(2)}
	cmd.RunE = a.run(func(ctx context.Context, args []string) error {
		p, err := a.mountKnowledge(ctx, args[0])
		if err != nil {
			return err
		}
		defer p.Release()
		if err := p.Delete(ctx, args[1]); err != nil {
			return err
		}
		renderKnowledge(a.out, p.View().Knowledge)
		return nil
	})
	return cmd
}

func newKnowledgeCheckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check IDENTITY_ID KNOWER_CHARACTER_ID",
		Short: "Ask whether a character knows about an identity",
		Args:  cobra.ExactArgs(2),
	}
	cmd.RunE = a.run(func(ctx context.Context, args []string) error {
		p, err := a.mountKnowledge(ctx, args[0])
		if err != nil {
			return err
		}
		defer p.Release()
		res, err := p.Check(ctx, args[1])
		if err != nil {
			return err
		}
		renderCheck(a.out, args[1], res)
		return nil
	})
	return cmd
}
