package handlers

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mycelian/mycelian-identities/client"
)

// CareerHandler exposes the careers attached to an identity. Careers are
// addressed by their catalog career id.
type CareerHandler struct {
	client *client.Client
}

func NewCareerHandler(c *client.Client) *CareerHandler { return &CareerHandler{client: c} }

func (h *CareerHandler) RegisterTools(s *server.MCPServer) error {
	list := mcp.NewTool("list_identity_careers",
		mcp.WithDescription("List the careers of an identity with stage and progress"),
		mcp.WithString("identity_id", mcp.Required()),
	)
	add := mcp.NewTool("add_identity_career",
		mcp.WithDescription("Attach a catalog career to an identity"),
		mcp.WithString("identity_id", mcp.Required()),
		mcp.WithString("career_id", mcp.Required(), mcp.Description("Catalog career id")),
		mcp.WithString("career_type", mcp.Required(), mcp.Enum(string(client.CareerMain), string(client.CareerSub))),
		mcp.WithNumber("current_stage", mcp.Description("Defaults to 1; must not exceed the career's max stage")),
		mcp.WithNumber("stage_progress", mcp.Description("0-100, defaults to 0")),
		mcp.WithString("started_at"),
		mcp.WithString("reached_current_stage_at"),
		mcp.WithString("notes"),
	)
	update := mcp.NewTool("update_identity_career",
		mcp.WithDescription("Change stage, progress, dates or notes; omitted fields stay unchanged"),
		mcp.WithString("identity_id", mcp.Required()),
		mcp.WithString("career_id", mcp.Required()),
		mcp.WithNumber("current_stage"),
		mcp.WithNumber("stage_progress"),
		mcp.WithString("started_at"),
		mcp.WithString("reached_current_stage_at"),
		mcp.WithString("notes"),
	)
	remove := mcp.NewTool("remove_identity_career",
		mcp.WithDescription("Detach a career from an identity"),
		mcp.WithString("identity_id", mcp.Required()),
		mcp.WithString("career_id", mcp.Required()),
	)

	s.AddTool(list, h.handleList)
	s.AddTool(add, h.handleAdd)
	s.AddTool(update, h.handleUpdate)
	s.AddTool(remove, h.handleRemove)
	return nil
}

func (h *CareerHandler) handleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identityID, err := req.RequireString("identity_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := h.client.ListCareers(ctx, identityID)
	if err != nil {
		return toolError("list_identity_careers", err)
	}
	return jsonResult(out)
}

func (h *CareerHandler) handleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identityID, err := req.RequireString("identity_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	careerID, err := req.RequireString("career_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	typ, err := req.RequireString("career_type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := h.client.AddCareer(ctx, identityID, client.IdentityCareerCreate{
		CareerID:              careerID,
		CareerType:            client.CareerType(typ),
		CurrentStage:          optInt(req, "current_stage"),
		StageProgress:         optInt(req, "stage_progress"),
		StartedAt:             argString(req, "started_at"),
		ReachedCurrentStageAt: argString(req, "reached_current_stage_at"),
		Notes:                 argString(req, "notes"),
	})
	if err != nil {
		return toolError("add_identity_career", err)
	}
	return jsonResult(out)
}

func (h *CareerHandler) handleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identityID, err := req.RequireString("identity_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	careerID, err := req.RequireString("career_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := h.client.UpdateCareer(ctx, identityID, careerID, client.IdentityCareerUpdate{
		CurrentStage:          optInt(req, "current_stage"),
		StageProgress:         optInt(req, "stage_progress"),
		StartedAt:             optString(req, "started_at"),
		ReachedCurrentStageAt: optString(req, "reached_current_stage_at"),
		Notes:                 optString(req, "notes"),
	})
	if err != nil {
		return toolError("update_identity_career", err)
	}
	return jsonResult(out)
}

func (h *CareerHandler) handleRemove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identityID, err := req.RequireString("identity_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	careerID, err := req.RequireString("career_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ack, err := h.client.DeleteCareer(ctx, identityID, careerID)
	if err != nil {
		return toolError("remove_identity_career", err)
	}
	return jsonResult(ack)
}
