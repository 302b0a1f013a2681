package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	mcpGoServer "github.com/mark3labs/mcp-go/server"

	"github.com/xano-community/xano-mcp/internal/domain"
)

// Toolset owns the Xano tool handlers and their registration. The bearer
// credential is injected once at construction; individual calls may still
// override it through their trailing config argument.
type Toolset struct {
	token      string
	debug      bool
	dispatcher Dispatcher
	specs      SpecFetcher
	registry   ToolRegistry
	logger     *slog.Logger
}

// NewToolset wires the toolset. debug turns verbose request logging on for
// every call; otherwise only calls asking for it via config get it.
func NewToolset(
	token string,
	dispatcher Dispatcher,
	specs SpecFetcher,
	registry ToolRegistry,
	debug bool,
	logger *slog.Logger,
) *Toolset {
	return &Toolset{
		token:      token,
		debug:      debug,
		dispatcher: dispatcher,
		specs:      specs,
		registry:   registry,
		logger:     logger.With("component", "toolset"),
	}
}

type toolDef struct {
	tool    mcp.Tool
	handler mcpGoServer.ToolHandlerFunc
}

// RegisterAll adds every tool to the MCP server and records the set in the
// registry for the admin listing.
func (t *Toolset) RegisterAll(ctx context.Context, srv MCPServerAdapter) error {
	defs := []toolDef{
		t.listInstancesTool(),
		t.getInstanceDetailsTool(),
		t.listDatabasesTool(),
		t.getWorkspaceDetailsTool(),
		t.listTablesTool(),
		t.getTableDetailsTool(),
		t.browseTableContentTool(),
		t.searchTableContentTool(),
		t.getTableRecordTool(),
		t.createTableRecordTool(),
		t.updateTableRecordTool(),
		t.deleteTableRecordTool(),
		t.bulkDeleteRecordsTool(),
		t.uploadFileTool(),
		t.getAPISpecTool(),
	}

	infos := make([]domain.ToolInfo, 0, len(defs))
	for _, def := range defs {
		srv.AddTool(def.tool, def.handler)
		infos = append(infos, domain.ToolInfo{Name: def.tool.Name, Description: def.tool.Description})
	}
	if err := t.registry.Save(ctx, infos); err != nil {
		return fmt.Errorf("failed to record registered tools: %w", err)
	}
	t.logger.Info("Registered Xano tools.", slog.Int("count", len(infos)))
	return nil
}

// configArg is the optional trailing argument every tool accepts: a
// per-call credential override and a debug toggle.
func configArg() mcp.ToolOption {
	return mcp.WithObject("config",
		mcp.Description("Optional per-call settings: api_token overrides the configured credential, debug enables verbose request logging."),
	)
}

// callContext resolves the per-call credential and debug flag from the
// optional config argument and returns the outbound headers for the call.
func (t *Toolset) callContext(ctx context.Context, args map[string]any) (context.Context, map[string]string) {
	token := t.token
	debug := t.debug
	if cfg, ok := args["config"].(map[string]any); ok {
		if v, ok := cfg["api_token"].(string); ok && v != "" {
			token = v
		}
		if v, ok := cfg["debug"].(bool); ok {
			debug = v
		}
	}
	if debug {
		ctx = domain.WithDebug(ctx)
	}
	return ctx, authHeaders(token)
}

func authHeaders(token string) map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + token,
		"Content-Type":  "application/json",
		"Accept":        "application/json",
	}
}

// jsonResult renders v as the tool's text content.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errorResult converts err into the {"error": ...} payload callers expect.
// API failures stay ordinary tool results; the protocol layer never sees
// them as call failures.
func errorResult(err error) *mcp.CallToolResult {
	data, _ := json.Marshal(map[string]string{"error": err.Error()})
	return mcp.NewToolResultText(string(data))
}

func requireString(args map[string]any, key string) (string, error) {
	v, ok := args[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("missing required argument: %s", key)
	}
	return v, nil
}

// intArg reads an integer argument, tolerating the float64 shape JSON
// decoding produces.
func intArg(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}
