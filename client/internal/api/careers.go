package api

import (
	"context"
	"net/http"

	"github.com/mycelian/mycelian-identities/client/internal/types"
)

func careersPath(identityID string) string {
	return "/api/identities/" + escape(identityID) + "/careers"
}

// ListCareers returns the careers attached to an identity.
func ListCareers(ctx context.Context, httpClient *http.Client, baseURL, identityID string) ([]types.IdentityCareer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(identityID, "identityId"); err != nil {
		return nil, err
	}
	out := []types.IdentityCareer{}
	if err := do(ctx, httpClient, baseURL, request{
		op:     "list careers",
		method: http.MethodGet,
		path:   careersPath(identityID),
	}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddCareer attaches a catalog career to an identity.
func AddCareer(ctx context.Context, httpClient *http.Client, baseURL, identityID string, req types.IdentityCareerCreate) (*types.IdentityCareer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(identityID, "identityId"); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(req.CareerID, "careerId"); err != nil {
		return nil, err
	}
	var out types.IdentityCareer
	if err := do(ctx, httpClient, baseURL, request{
		op:     "add career",
		method: http.MethodPost,
		path:   careersPath(identityID),
		body:   req,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCareer updates the identity's record for the catalog career careerID.
func UpdateCareer(ctx context.Context, httpClient *http.Client, baseURL, identityID, careerID string, req types.IdentityCareerUpdate) (*types.IdentityCareer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(identityID, "identityId"); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(careerID, "careerId"); err != nil {
		return nil, err
	}
	var out types.IdentityCareer
	if err := do(ctx, httpClient, baseURL, request{
		op:     "update career",
		method: http.MethodPut,
		path:   careersPath(identityID) + "/" + escape(careerID),
		body:   req,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCareer detaches the catalog career careerID from the identity.
func DeleteCareer(ctx context.Context, httpClient *http.Client, baseURL, identityID, careerID string) (*types.Ack, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(identityID, "identityId"); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(careerID, "careerId"); err != nil {
		return nil, err
	}
	var out types.Ack
	if err := do(ctx, httpClient, baseURL, request{
		op:     "delete career",
		method: http.MethodDelete,
		path:   careersPath(identityID) + "/" + escape(careerID),
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
