package handlers

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mycelian/mycelian-identities/client"
)

// CharacterHandler lets an agent discover character ids before it creates
// identities.
type CharacterHandler struct {
	client *client.Client
}

func NewCharacterHandler(c *client.Client) *CharacterHandler { return &CharacterHandler{client: c} }

func (h *CharacterHandler) RegisterTools(s *server.MCPServer) error {
	list := mcp.NewTool("list_characters",
		mcp.WithDescription("List a project's characters (id and name)"),
		mcp.WithString("project_id", mcp.Required()),
	)
	s.AddTool(list, h.handleList)
	return nil
}

func (h *CharacterHandler) handleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, err := req.RequireString("project_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	chars, err := h.client.ListProjectCharacters(ctx, projectID)
	if err != nil {
		return toolError("list_characters", err)
	}
	type lite struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	out := make([]lite, len(chars))
	for i, c := range chars {
		out[i] = lite{ID: c.ID, Name: c.Name}
	}
	return jsonResult(out)
}
