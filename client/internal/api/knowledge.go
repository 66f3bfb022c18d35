package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mycelian/mycelian-identities/client/internal/types"
)

func knowledgePath(identityID string) string {
	return "/api/identities/" + escape(identityID) + "/knowledge"
}

// ListKnowledge returns who knows about an identity.
func ListKnowledge(ctx context.Context, httpClient *http.Client, baseURL, identityID string) ([]types.IdentityKnowledge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(identityID, "identityId"); err != nil {
		return nil, err
	}
	out := []types.IdentityKnowledge{}
	if err := do(ctx, httpClient, baseURL, request{
		op:     "list knowledge",
		method: http.MethodGet,
		path:   knowledgePath(identityID),
	}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddKnowledge records that a character knows about an identity.
func AddKnowledge(ctx context.Context, httpClient *http.Client, baseURL, identityID string, req types.IdentityKnowledgeCreate) (*types.IdentityKnowledge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(identityID, "identityId"); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(req.KnowerCharacterID, "knowerCharacterId"); err != nil {
		return nil, err
	}
	var out types.IdentityKnowledge
	if err := do(ctx, httpClient, baseURL, request{
		op:     "add knowledge",
		method: http.MethodPost,
		path:   knowledgePath(identityID),
		body:   req,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateKnowledge applies a partial update to a knowledge record.
func UpdateKnowledge(ctx context.Context, httpClient *http.Client, baseURL, identityID, knowledgeID string, req types.IdentityKnowledgeUpdate) (*types.IdentityKnowledge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(identityID, "identityId"); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(knowledgeID, "knowledgeId"); err != nil {
		return nil, err
	}
	var out types.IdentityKnowledge
	if err := do(ctx, httpClient, baseURL, request{
		op:     "update knowledge",
		method: http.MethodPut,
		path:   knowledgePath(identityID) + "/" + escape(knowledgeID),
		body:   req,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteKnowledge removes a knowledge record.
func DeleteKnowledge(ctx context.Context, httpClient *http.Client, baseURL, identityID, knowledgeID string) (*types.Ack, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(identityID, "identityId"); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(knowledgeID, "knowledgeId"); err != nil {
		return nil, err
	}
	var out types.Ack
	if err := do(ctx, httpClient, baseURL, request{
		op:     "delete knowledge",
		method: http.MethodDelete,
		path:   knowledgePath(identityID) + "/" + escape(knowledgeID),
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckKnowledge asks whether knowerCharacterID knows about the identity.
func CheckKnowledge(ctx context.Context, httpClient *http.Client, baseURL, identityID, knowerCharacterID string) (*types.KnowledgeCheck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(identityID, "identityId"); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(knowerCharacterID, "knowerCharacterId"); err != nil {
		return nil, err
	}
	var out types.KnowledgeCheck
	if err := do(ctx, httpClient, baseURL, request{
		op:     "check knowledge",
		method: http.MethodGet,
		path:   knowledgePath(identityID) + "/check",
		query:  url.Values{"knower_character_id": []string{knowerCharacterID}},
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
