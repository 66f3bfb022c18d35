package api

import (
	"context"
	"net/http"

	"github.com/mycelian/mycelian-identities/client/internal/types"
)

// GetIdentity fetches one identity with its careers and knowledge embedded.
func GetIdentity(ctx context.Context, httpClient *http.Client, baseURL, id string) (*types.IdentityDetail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(id, "identityId"); err != nil {
		return nil, err
	}
	var out types.IdentityDetail
	if err := do(ctx, httpClient, baseURL, request{
		op:     "get identity",
		method: http.MethodGet,
		path:   "/api/identities/" + escape(id),
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListProjectIdentities returns one page of a project's identities.
func ListProjectIdentities(ctx context.Context, httpClient *http.Client, baseURL, projectID string, params types.ListParams) (*types.IdentityList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(projectID, "projectId"); err != nil {
		return nil, err
	}
	var out types.IdentityList
	if err := do(ctx, httpClient, baseURL, request{
		op:     "list project identities",
		method: http.MethodGet,
		path:   "/api/identities/project/" + escape(projectID),
		query:  params.Query(),
	}, &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []types.Identity{}
	}
	return &out, nil
}

// ListCharacterIdentities returns every identity of a character, primary first.
func ListCharacterIdentities(ctx context.Context, httpClient *http.Client, baseURL, characterID string, params types.ListParams) ([]types.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(characterID, "characterId"); err != nil {
		return nil, err
	}
	out := []types.Identity{}
	if err := do(ctx, httpClient, baseURL, request{
		op:     "list character identities",
		method: http.MethodGet,
		path:   "/api/identities/character/" + escape(characterID),
		query:  params.Query(),
	}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateIdentity creates an identity for req.CharacterID.
func CreateIdentity(ctx context.Context, httpClient *http.Client, baseURL string, req types.IdentityCreate) (*types.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(req.CharacterID, "characterId"); err != nil {
		return nil, err
	}
	var out types.Identity
	if err := do(ctx, httpClient, baseURL, request{
		op:     "create identity",
		method: http.MethodPost,
		path:   "/api/identities",
		body:   req,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateIdentity applies a partial update. Only non-nil fields are sent.
func UpdateIdentity(ctx context.Context, httpClient *http.Client, baseURL, id string, req types.IdentityUpdate) (*types.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(id, "identityId"); err != nil {
		return nil, err
	}
	var out types.Identity
	if err := do(ctx, httpClient, baseURL, request{
		op:     "update identity",
		method: http.MethodPut,
		path:   "/api/identities/" + escape(id),
		body:   req,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteIdentity removes an identity; the service cascades to its careers
// and knowledge.
func DeleteIdentity(ctx context.Context, httpClient *http.Client, baseURL, id string) (*types.Ack, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(id, "identityId"); err != nil {
		return nil, err
	}
	var out types.Ack
	if err := do(ctx, httpClient, baseURL, request{
		op:     "delete identity",
		method: http.MethodDelete,
		path:   "/api/identities/" + escape(id),
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetPrimaryIdentity makes id the character's primary identity.
func SetPrimaryIdentity(ctx context.Context, httpClient *http.Client, baseURL, characterID, id string) (*types.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(characterID, "characterId"); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(id, "identityId"); err != nil {
		return nil, err
	}
	var out types.Identity
	if err := do(ctx, httpClient, baseURL, request{
		op:     "set primary identity",
		method: http.MethodPost,
		path:   "/api/identities/" + escape(id) + "/set-primary",
		body:   types.SetPrimaryRequest{CharacterID: characterID},
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
