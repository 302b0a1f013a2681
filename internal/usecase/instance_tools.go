package usecase

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/xano-community/xano-mcp/internal/domain"
)

// errInstanceListing is surfaced when the account endpoint answers but
// carries no instances field. Older deployments simply do not expose the
// listing; fabricating entries would be worse than saying so.
var errInstanceListing = errors.New("instance listing is not supported by this deployment")

func (t *Toolset) listInstancesTool() toolDef {
	tool := mcp.NewTool("xano_list_instances",
		mcp.WithDescription("List all Xano instances associated with the account."),
		configArg(),
	)
	return toolDef{tool: tool, handler: t.handleListInstances}
}

func (t *Toolset) handleListInstances(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	ctx, headers := t.callContext(ctx, args)

	result, err := t.dispatcher.Dispatch(ctx, domain.GetRequest{
		URL:     domain.GlobalMetaAPI + "/auth/me",
		Headers: headers,
	})
	if err != nil {
		return errorResult(err), nil
	}

	account, ok := result.(map[string]any)
	if !ok {
		return errorResult(errInstanceListing), nil
	}
	instances, ok := account["instances"]
	if !ok {
		return errorResult(errInstanceListing), nil
	}
	return jsonResult(map[string]any{"instances": instances})
}

func (t *Toolset) getInstanceDetailsTool() toolDef {
	tool := mcp.NewTool("xano_get_instance_details",
		mcp.WithDescription("Get details for a specific Xano instance."),
		mcp.WithString("instance_name",
			mcp.Required(),
			mcp.Description("The name of the Xano instance")),
		configArg(),
	)
	return toolDef{tool: tool, handler: t.handleGetInstanceDetails}
}

// handleGetInstanceDetails answers from the instance name alone; the
// endpoints are fully derivable, so no network call is made.
func (t *Toolset) handleGetInstanceDetails(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	name, err := requireString(args, "instance_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(domain.NewInstance(name))
}

func (t *Toolset) listDatabasesTool() toolDef {
	tool := mcp.NewTool("xano_list_databases",
		mcp.WithDescription("List all databases (workspaces) in a specific Xano instance."),
		mcp.WithString("instance_name",
			mcp.Required(),
			mcp.Description("The name of the Xano instance")),
		configArg(),
	)
	return toolDef{tool: tool, handler: t.handleListDatabases}
}

func (t *Toolset) handleListDatabases(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	name, err := requireString(args, "instance_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ctx, headers := t.callContext(ctx, args)

	inst := domain.NewInstance(name)
	result, err := t.dispatcher.Dispatch(ctx, domain.GetRequest{
		URL:     inst.MetaAPI + "/workspace",
		Headers: headers,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]any{"databases": result})
}

func (t *Toolset) getWorkspaceDetailsTool() toolDef {
	tool := mcp.NewTool("xano_get_workspace_details",
		mcp.WithDescription("Get details for a specific Xano workspace."),
		mcp.WithString("instance_name",
			mcp.Required(),
			mcp.Description("The name of the Xano instance")),
		mcp.WithString("workspace_id",
			mcp.Required(),
			mcp.Description("The ID of the workspace")),
		configArg(),
	)
	return toolDef{tool: tool, handler: t.handleGetWorkspaceDetails}
}

func (t *Toolset) handleGetWorkspaceDetails(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	name, err := requireString(args, "instance_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	workspaceID, err := requireString(args, "workspace_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ctx, headers := t.callContext(ctx, args)

	inst := domain.NewInstance(name)
	result, err := t.dispatcher.Dispatch(ctx, domain.GetRequest{
		URL:     inst.MetaAPI + "/workspace/" + domain.NormalizeID(workspaceID),
		Headers: headers,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(result)
}
