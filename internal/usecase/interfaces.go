package usecase

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpGoServer "github.com/mark3labs/mcp-go/server"

	"github.com/xano-community/xano-mcp/internal/domain"
)

// Dispatcher executes one outbound API request and returns either the
// decoded JSON value or a *domain.APIError. Tool handlers depend on this
// port only; the xanoapi adapter implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, req domain.APIRequest) (any, error)
}

// SpecFetcher retrieves an instance's published OpenAPI document and
// condenses it into the summary shape.
type SpecFetcher interface {
	Fetch(ctx context.Context, url string, headers map[string]string) (domain.APISpecSummary, error)
}

// ToolRegistry records the tools registered on the MCP server, so surfaces
// outside the MCP session (the admin endpoint) can list them.
type ToolRegistry interface {
	Save(ctx context.Context, tools []domain.ToolInfo) error
	List(ctx context.Context) ([]domain.ToolInfo, error)
}

// MCPServerAdapter is the slice of the mcp-go server the toolset needs for
// registration. *server.MCPServer satisfies it directly.
type MCPServerAdapter interface {
	AddTool(tool mcp.Tool, handler mcpGoServer.ToolHandlerFunc)
}
