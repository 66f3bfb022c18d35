package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/mycelian/mycelian-identities/client"
)

// ToolRegisterer is implemented by every handler in this package.
type ToolRegisterer interface {
	RegisterTools(s *server.MCPServer) error
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(b)), nil
}

// toolError reports a failed client call as a tool-level error so the agent
// sees the service message instead of a protocol failure.
func toolError(tool string, err error) (*mcp.CallToolResult, error) {
	log.Error().Err(err).Str("tool", tool).Msg("tool call failed")
	return mcp.NewToolResultError(fmt.Sprintf("%s failed: %s", tool, client.Message(err))), nil
}

func argString(req mcp.CallToolRequest, key string) string {
	v, _ := req.GetArguments()[key].(string)
	return v
}

// argInt accepts JSON numbers, which arrive as float64.
func argInt(req mcp.CallToolRequest, key string) int {
	switch v := req.GetArguments()[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func argBool(req mcp.CallToolRequest, key string) bool {
	v, _ := req.GetArguments()[key].(bool)
	return v
}

// optString returns a pointer to the argument only when the caller passed it.
func optString(req mcp.CallToolRequest, key string) *string {
	v, ok := req.GetArguments()[key].(string)
	if !ok {
		return nil
	}
	return &v
}

func optInt(req mcp.CallToolRequest, key string) *int {
	if _, ok := req.GetArguments()[key]; !ok {
		return nil
	}
	v := argInt(req, key)
	return &v
}

func optBool(req mcp.CallToolRequest, key string) *bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return nil
	}
	return &v
}
