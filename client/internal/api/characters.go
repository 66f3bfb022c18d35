package api

import (
	"context"
	"net/http"

	"github.com/mycelian/mycelian-identities/client/internal/types"
)

// ListProjectCharacters reads the project's characters from the character
// resource. Identities never write characters.
func ListProjectCharacters(ctx context.Context, httpClient *http.Client, baseURL, projectID string) ([]types.Character, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(projectID, "projectId"); err != nil {
		return nil, err
	}
	out := []types.Character{}
	if err := do(ctx, httpClient, baseURL, request{
		op:     "list project characters",
		method: http.MethodGet,
		path:   "/api/characters/project/" + escape(projectID),
	}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
