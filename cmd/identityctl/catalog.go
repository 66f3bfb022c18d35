package main

import (
	"context"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"

	"github.com/mycelian/mycelian-identities/client"
	"github.com/mycelian/mycelian-identities/devmode"
)

// The catalog belongs to the character and career resources. identityctl
// only seeds it, so these calls go straight to the service rather than
// through the identity client.

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "catalog", Short: "Seed and list the characters and careers identities refer to"}

	chars := &cobra.Command{Use: "characters", Aliases: []string{"character"}, Short: "Project characters"}
	chars.AddCommand(newCatalogCharacterListCmd(a), newCatalogCharacterCreateCmd(a))

	careers := &cobra.Command{Use: "careers", Aliases: []string{"career"}, Short: "Project career catalog"}
	careers.AddCommand(newCatalogCareerListCmd(a), newCatalogCareerCreateCmd(a))

	cmd.AddCommand(chars, careers)
	return cmd
}

// rest returns a resty client carrying the configured bearer token.
func (a *app) rest(ctx context.Context) (*resty.Client, error) {
	token := a.cfg.Token
	if token == "" && a.cfg.DevMode {
		token = devmode.Token
	}
	if token == "" {
		t, err := a.cfg.TokenSource().Token(ctx)
		if err != nil {
			return nil, err
		}
		token = t
	}
	return resty.New().
		SetBaseURL(a.cfg.BaseURL).
		SetTimeout(a.cfg.HTTPTimeout).
		SetAuthToken(token).
		SetDebug(a.cfg.Debug), nil
}

// send performs the request and turns error statuses into *client.APIError.
func send(req *resty.Request, method, path, op string) error {
	resp, err := req.Execute(method, path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return client.NewAPIError(op, resp.StatusCode(), resp.Body())
	}
	return nil
}

func newCatalogCharacterListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "list", Short: "List the project's characters", Args: cobra.NoArgs}
	cmd.RunE = a.run(func(ctx context.Context, _ []string) error {
		project, err := a.projectID()
		if err != nil {
			return err
		}
		chars, err := a.client.ListProjectCharacters(ctx, project)
		if err != nil {
			return err
		}
		renderCharacters(a.out, chars)
		return nil
	})
	return cmd
}

func newCatalogCharacterCreateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "create NAME", Short: "Add a character to the project", Args: cobra.ExactArgs(1)}
	cmd.RunE = a.run(func(ctx context.Context, args []string) error {
		project, err := a.projectID()
		if err != nil {
			return err
		}
		rc, err := a.rest(ctx)
		if err != nil {
			return err
		}
		var out client.Character
		req := rc.R().SetContext(ctx).
			SetBody(client.Character{ProjectID: project, Name: strings.TrimSpace(args[0])}).
			SetResult(&out)
		if err := send(req, resty.MethodPost, "/api/characters", "create character"); err != nil {
			return err
		}
		renderCharacters(a.out, []client.Character{out})
		return nil
	})
	return cmd
}

func newCatalogCareerListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "list", Short: "List the project's career catalog", Args: cobra.NoArgs}
	cmd.RunE = a.run(func(ctx context.Context, _ []string) error {
		project, err := a.projectID()
		if err != nil {
			return err
		}
		rc, err := a.rest(ctx)
		if err != nil {
			return err
		}
		out := []client.Career{}
		req := rc.R().SetContext(ctx).SetPathParam("projectId", project).SetResult(&out)
		if err := send(req, resty.MethodGet, "/api/careers/project/{projectId}", "list careers"); err != nil {
			return err
		}
		renderCatalogCareers(a.out, out)
		return nil
	})
	return cmd
}

func newCatalogCareerCreateCmd(a *app) *cobra.Command {
	var (
		typ      string
		maxStage int
	)
	cmd := &cobra.Command{Use: "create NAME", Short: "Add a career to the project catalog", Args: cobra.ExactArgs(1)}
	cmd.Flags().StringVar(&typ, "type", string(client.CareerMain), "main or sub")
	cmd.Flags().IntVar(&maxStage, "max-stage", 9, "highest stage of the career")
	cmd.RunE = a.run(func(ctx context.Context, args []string) error {
		project, err := a.projectID()
		if err != nil {
			return err
		}
		rc, err := a.rest(ctx)
		if err != nil {
			return err
		}
		var out client.Career
		req := rc.R().SetContext(ctx).
			SetBody(client.Career{
				ProjectID: project,
				Name:      strings.TrimSpace(args[0]),
				Type:      client.CareerType(typ),
				MaxStage:  maxStage,
			}).
			SetResult(&out)
		if err := send(req, resty.MethodPost, "/api/careers", "create career"); err != nil {
			return err
		}
		renderCatalogCareers(a.out, []client.Career{out})
		return nil
	})
	return cmd
}
