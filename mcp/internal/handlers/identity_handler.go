package handlers

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/mycelian/mycelian-identities/client"
)

var (
	identityTypes    = []string{string(client.IdentityReal), string(client.IdentityPublic), string(client.IdentitySecret), string(client.IdentityDisguise)}
	identityStatuses = []string{string(client.StatusActive), string(client.StatusInactive), string(client.StatusBurned)}
)

// IdentityHandler exposes identity CRUD and the primary switch.
type IdentityHandler struct {
	client *client.Client
}

func NewIdentityHandler(c *client.Client) *IdentityHandler { return &IdentityHandler{client: c} }

func (h *IdentityHandler) RegisterTools(s *server.MCPServer) error {
	listProject := mcp.NewTool("list_identities",
		mcp.WithDescription("List one page of a project's identities; returns total and items"),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project id")),
		mcp.WithNumber("page", mcp.Description("1-based page, default 1")),
		mcp.WithNumber("limit", mcp.Description("Page size, default 20, max 100")),
		mcp.WithString("sort_by", mcp.Enum("created_at", "updated_at", "name")),
		mcp.WithString("sort_order", mcp.Enum("asc", "desc")),
		mcp.WithString("identity_type", mcp.Enum(identityTypes...)),
		mcp.WithString("status", mcp.Enum(identityStatuses...)),
	)
	listCharacter := mcp.NewTool("list_character_identities",
		mcp.WithDescription("List every identity of one character, primary first"),
		mcp.WithString("character_id", mcp.Required(), mcp.Description("Character id")),
	)
	get := mcp.NewTool("get_identity",
		mcp.WithDescription("Get an identity with its careers and knowledge records"),
		mcp.WithString("identity_id", mcp.Required()),
	)
	create := mcp.NewTool("create_identity",
		mcp.WithDescription("Create an identity for a character"),
		mcp.WithString("character_id", mcp.Required()),
		mcp.WithString("name", mcp.Required(), mcp.Description("1-100 characters")),
		mcp.WithString("identity_type", mcp.Required(), mcp.Enum(identityTypes...)),
		mcp.WithBoolean("is_primary", mcp.Description("Make this the character's primary identity")),
		mcp.WithString("appearance"),
		mcp.WithString("personality"),
		mcp.WithString("background"),
		mcp.WithString("voice_style"),
		mcp.WithString("status", mcp.Enum(identityStatuses...)),
	)
	update := mcp.NewTool("update_identity",
		mcp.WithDescription("Change fields of an identity; omitted fields stay unchanged"),
		mcp.WithString("identity_id", mcp.Required()),
		mcp.WithString("name"),
		mcp.WithString("identity_type", mcp.Enum(identityTypes...)),
		mcp.WithString("appearance"),
		mcp.WithString("personality"),
		mcp.WithString("background"),
		mcp.WithString("voice_style"),
		mcp.WithString("status", mcp.Enum(identityStatuses...)),
		mcp.WithBoolean("is_primary", mcp.Description("true demotes the character's other primary identity")),
	)
	del := mcp.NewTool("delete_identity",
		mcp.WithDescription("Delete an identity together with its careers and knowledge"),
		mcp.WithString("identity_id", mcp.Required()),
	)
	setPrimary := mcp.NewTool("set_primary_identity",
		mcp.WithDescription("Make an identity the character's only primary identity"),
		mcp.WithString("character_id", mcp.Required()),
		mcp.WithString("identity_id", mcp.Required()),
	)

	s.AddTool(listProject, h.handleListProject)
	s.AddTool(listCharacter, h.handleListCharacter)
	s.AddTool(get, h.handleGet)
	s.AddTool(create, h.handleCreate)
	s.AddTool(update, h.handleUpdate)
	s.AddTool(del, h.handleDelete)
	s.AddTool(setPrimary, h.handleSetPrimary)
	return nil
}

func (h *IdentityHandler) handleListProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, err := req.RequireString("project_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	params := client.ListParams{
		Page:         argInt(req, "page"),
		Limit:        argInt(req, "limit"),
		SortBy:       argString(req, "sort_by"),
		SortOrder:    argString(req, "sort_order"),
		IdentityType: client.IdentityType(argString(req, "identity_type")),
		Status:       client.IdentityStatus(argString(req, "status")),
	}

	start := time.Now()
	list, err := h.client.ListProjectIdentities(ctx, projectID, params)
	if err != nil {
		return toolError("list_identities", err)
	}
	log.Debug().Str("project_id", projectID).Int("total", list.Total).Dur("elapsed", time.Since(start)).Msg("list_identities")
	return jsonResult(list)
}

func (h *IdentityHandler) handleListCharacter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	characterID, err := req.RequireString("character_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ids, err := h.client.ListCharacterIdentities(ctx, characterID, client.ListParams{})
	if err != nil {
		return toolError("list_character_identities", err)
	}
	return jsonResult(ids)
}

func (h *IdentityHandler) handleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("identity_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := h.client.GetIdentity(ctx, id)
	if err != nil {
		return toolError("get_identity", err)
	}
	return jsonResult(detail)
}

func (h *IdentityHandler) handleCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	characterID, err := req.RequireString("character_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	typ, err := req.RequireString("identity_type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	log.Debug().Str("character_id", characterID).Str("name", name).Msg("create_identity invoked")

	out, err := h.client.CreateIdentity(ctx, client.IdentityCreate{
		CharacterID:  characterID,
		Name:         name,
		IdentityType: client.IdentityType(typ),
		IsPrimary:    argBool(req, "is_primary"),
		Appearance:   argString(req, "appearance"),
		Personality:  argString(req, "personality"),
		Background:   argString(req, "background"),
		VoiceStyle:   argString(req, "voice_style"),
		Status:       client.IdentityStatus(argString(req, "status")),
	})
	if err != nil {
		return toolError("create_identity", err)
	}
	return jsonResult(out)
}

func (h *IdentityHandler) handleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("identity_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	upd := client.IdentityUpdate{
		Name:        optString(req, "name"),
		Appearance:  optString(req, "appearance"),
		Personality: optString(req, "personality"),
		Background:  optString(req, "background"),
		VoiceStyle:  optString(req, "voice_style"),
		IsPrimary:   optBool(req, "is_primary"),
	}
	if v := optString(req, "identity_type"); v != nil {
		upd.IdentityType = client.Ptr(client.IdentityType(*v))
	}
	if v := optString(req, "status"); v != nil {
		upd.Status = client.Ptr(client.IdentityStatus(*v))
	}
	if upd.IsEmpty() {
		return mcp.NewToolResultError("update_identity: no fields to change"), nil
	}
	out, err := h.client.UpdateIdentity(ctx, id, upd)
	if err != nil {
		return toolError("update_identity", err)
	}
	return jsonResult(out)
}

func (h *IdentityHandler) handleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("identity_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ack, err := h.client.DeleteIdentity(ctx, id)
	if err != nil {
		return toolError("delete_identity", err)
	}
	return jsonResult(ack)
}

func (h *IdentityHandler) handleSetPrimary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	characterID, err := req.RequireString("character_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := req.RequireString("identity_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := h.client.SetPrimaryIdentity(ctx, characterID, id)
	if err != nil {
		return toolError("set_primary_identity", err)
	}
	return jsonResult(out)
}
