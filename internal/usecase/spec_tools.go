package usecase

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/xano-community/xano-mcp/internal/domain"
)

func (t *Toolset) getAPISpecTool() toolDef {
	tool := mcp.NewTool("xano_get_api_spec",
		mcp.WithDescription("Fetch an instance's published OpenAPI document and return a condensed summary of its operations."),
		mcp.WithString("instance_name",
			mcp.Required(),
			mcp.Description("The name of the Xano instance")),
		configArg(),
	)
	return toolDef{tool: tool, handler: t.handleGetAPISpec}
}

func (t *Toolset) handleGetAPISpec(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	name, err := requireString(args, "instance_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ctx, headers := t.callContext(ctx, args)

	inst := domain.NewInstance(name)
	summary, err := t.specs.Fetch(ctx, inst.MetaSwagger, headers)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(summary)
}
