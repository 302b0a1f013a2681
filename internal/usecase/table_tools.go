package usecase

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/xano-community/xano-mcp/internal/domain"
)

func (t *Toolset) listTablesTool() toolDef {
	tool := mcp.NewTool("xano_list_tables",
		mcp.WithDescription("List all tables in a specific Xano database (workspace)."),
		mcp.WithString("instance_name",
			mcp.Required(),
			mcp.Description("The name of the Xano instance")),
		mcp.WithString("database_name",
			mcp.Required(),
			mcp.Description("The ID of the Xano workspace (database)")),
		configArg(),
	)
	return toolDef{tool: tool, handler: t.handleListTables}
}

func (t *Toolset) handleListTables(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	name, err := requireString(args, "instance_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	database, err := requireString(args, "database_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ctx, headers := t.callContext(ctx, args)

	inst := domain.NewInstance(name)
	result, err := t.dispatcher.Dispatch(ctx, domain.GetRequest{
		URL:     inst.MetaAPI + "/workspace/" + domain.NormalizeID(database) + "/table",
		Headers: headers,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]any{"tables": result})
}

func (t *Toolset) getTableDetailsTool() toolDef {
	tool := mcp.NewTool("xano_get_table_details",
		mcp.WithDescription("Get details for a specific Xano table."),
		mcp.WithString("instance_name",
			mcp.Required(),
			mcp.Description("The name of the Xano instance")),
		mcp.WithString("workspace_id",
			mcp.Required(),
			mcp.Description("The ID of the workspace")),
		mcp.WithString("table_id",
			mcp.Required(),
			mcp.Description("The ID of the table")),
		configArg(),
	)
	return toolDef{tool: tool, handler: t.handleGetTableDetails}
}

func (t *Toolset) handleGetTableDetails(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	name, err := requireString(args, "instance_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	workspaceID, err := requireString(args, "workspace_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tableID, err := requireString(args, "table_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ctx, headers := t.callContext(ctx, args)

	inst := domain.NewInstance(name)
	result, err := t.dispatcher.Dispatch(ctx, domain.GetRequest{
		URL:     tableURL(inst, workspaceID, tableID),
		Headers: headers,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(result)
}

// tableURL builds {meta}/workspace/{ws}/table/{t} with both IDs normalized.
func tableURL(inst domain.Instance, workspaceID, tableID string) string {
	return inst.MetaAPI + "/workspace/" + domain.NormalizeID(workspaceID) +
		"/table/" + domain.NormalizeID(tableID)
}
