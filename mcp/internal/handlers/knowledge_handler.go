package handlers

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/mycelian/mycelian-identities/client"
)

var knowledgeLevels = []string{string(client.KnowledgeFull), string(client.KnowledgePartial), string(client.KnowledgeSuspected)}

// KnowledgeHandler exposes who knows about an identity.
type KnowledgeHandler struct {
	client *client.Client
}

func NewKnowledgeHandler(c *client.Client) *KnowledgeHandler { return &KnowledgeHandler{client: c} }

func (h *KnowledgeHandler) RegisterTools(s *server.MCPServer) error {
	list := mcp.NewTool("list_identity_knowledge",
		mcp.WithDescription("List the characters that know about an identity"),
		mcp.WithString("identity_id", mcp.Required()),
	)
	add := mcp.NewTool("add_identity_knowledge",
		mcp.WithDescription("Record that a character knows about an identity"),
		mcp.WithString("identity_id", mcp.Required()),
		mcp.WithString("knower_character_id", mcp.Required()),
		mcp.WithString("knowledge_level", mcp.Required(), mcp.Enum(knowledgeLevels...)),
		mcp.WithString("since_when", mcp.Required(), mcp.Description("In-story time the knower found out")),
		mcp.WithString("discovered_how"),
		mcp.WithBoolean("is_secret", mcp.Description("Defaults to true")),
	)
	update := mcp.NewTool("update_identity_knowledge",
		mcp.WithDescription("Change a knowledge record; omitted fields stay unchanged"),
		mcp.WithString("identity_id", mcp.Required()),
		mcp.WithString("knowledge_id", mcp.Required()),
		mcp.WithString("knowledge_level", mcp.Enum(knowledgeLevels...)),
		mcp.WithString("since_when"),
		mcp.WithString("discovered_how"),
		mcp.WithBoolean("is_secret"),
	)
	remove := mcp.NewTool("remove_identity_knowledge",
		mcp.WithDescription("Delete a knowledge record"),
		mcp.WithString("identity_id", mcp.Required()),
		mcp.WithString("knowledge_id", mcp.Required()),
	)
	check := mcp.NewTool("check_identity_knowledge",
		mcp.WithDescription("Ask whether a character knows about an identity, and how well"),
		mcp.WithString("identity_id", mcp.Required()),
		mcp.WithString("knower_character_id", mcp.Required()),
	)

	s.AddTool(list, h.handleList)
	s.AddTool(add, h.handleAdd)
	s.AddTool(update, h.handleUpdate)
	s.AddTool(remove, h.handleRemove)
	s.AddTool(check, h.handleCheck)
	return nil
}

func (h *KnowledgeHandler) handleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identityID, err := req.RequireString("identity_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := h.client.ListKnowledge(ctx, identityID)
	if err != nil {
		return toolError("list_identity_knowledge", err)
	}
	return jsonResult(out)
}

func (h *KnowledgeHandler) handleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identityID, err := req.RequireString("identity_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	knower, err := req.RequireString("knower_character_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	level, err := req.RequireString("knowledge_level")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	since, err := req.RequireString("since_when")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	log.Debug().Str("identity_id", identityID).Str("knower", knower).Msg("add_identity_knowledge invoked")

	out, err := h.client.AddKnowledge(ctx, identityID, client.IdentityKnowledgeCreate{
		KnowerCharacterID: knower,
		KnowledgeLevel:    client.KnowledgeLevel(level),
		SinceWhen:         since,
		DiscoveredHow:     argString(req, "discovered_how"),
		IsSecret:          optBool(req, "is_secret"),
	})
	if err != nil {
		return toolError("add_identity_knowledge", err)
	}
	return jsonResult(out)
}

func (h *KnowledgeHandler) handleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identityID, err := req.RequireString("identity_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	knowledgeID, err := req.RequireString("knowledge_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	upd := client.IdentityKnowledgeUpdate{
		SinceWhen:     optString(req, "since_when"),
		DiscoveredHow: optString(req, "discovered_how"),
		IsSecret:      optBool(req, "is_secret"),
	}
	if v := optString(req, "knowledge_level"); v != nil {
		upd.KnowledgeLevel = client.Ptr(client.KnowledgeLevel(*v))
	}
	out, err := h.client.UpdateKnowledge(ctx, identityID, knowledgeID, upd)
	if err != nil {
		return toolError("update_identity_knowledge", err)
	}
	return jsonResult(out)
}

func (h *KnowledgeHandler) handleRemove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identityID, err := req.RequireString("identity_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	knowledgeID, err := req.RequireString("knowledge_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ack, err := h.client.DeleteKnowledge(ctx, identityID, knowledgeID)
	if err != nil {
		return toolError("remove_identity_knowledge", err)
	}
	return jsonResult(ack)
}

func (h *KnowledgeHandler) handleCheck(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identityID, err := req.RequireString("identity_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	knower, err := req.RequireString("knower_character_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := h.client.CheckKnowledge(ctx, identityID, knower)
	if err != nil {
		return toolError("check_identity_knowledge", err)
	}
	return jsonResult(out)
}
