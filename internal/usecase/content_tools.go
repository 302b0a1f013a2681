package usecase

import (
	"context"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/xano-community/xano-mcp/internal/domain"
)

// Defaults for paginated content listings, matching the Xano meta API.
const (
	defaultPage    = 1
	defaultPerPage = 50
)

// contentArgs is the (instance, workspace, table) triple every content tool
// starts from.
type contentArgs struct {
	instance    domain.Instance
	workspaceID string
	tableID     string
}

func (a contentArgs) url() string {
	return tableURL(a.instance, a.workspaceID, a.tableID) + "/content"
}

func contentArgsFrom(args map[string]any) (contentArgs, error) {
	name, err := requireString(args, "instance_name")
	if err != nil {
		return contentArgs{}, err
	}
	workspaceID, err := requireString(args, "workspace_id")
	if err != nil {
		return contentArgs{}, err
	}
	tableID, err := requireString(args, "table_id")
	if err != nil {
		return contentArgs{}, err
	}
	return contentArgs{
		instance:    domain.NewInstance(name),
		workspaceID: workspaceID,
		tableID:     tableID,
	}, nil
}

func (t *Toolset) browseTableContentTool() toolDef {
	tool := mcp.NewTool("xano_browse_table_content",
		mcp.WithDescription("Browse content for a specific Xano table, paginated."),
		mcp.WithString("instance_name",
			mcp.Required(),
			mcp.Description("The name of the Xano instance")),
		mcp.WithString("workspace_id",
			mcp.Required(),
			mcp.Description("The ID of the workspace")),
		mcp.WithString("table_id",
			mcp.Required(),
			mcp.Description("The ID of the table")),
		mcp.WithNumber("page",
			mcp.Description("Page number (default: 1)")),
		mcp.WithNumber("per_page",
			mcp.Description("Number of records per page (default: 50)")),
		configArg(),
	)
	return toolDef{tool: tool, handler: t.handleBrowseTableContent}
}

func (t *Toolset) handleBrowseTableContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	content, err := contentArgsFrom(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ctx, headers := t.callContext(ctx, args)

	result, err := t.dispatcher.Dispatch(ctx, domain.GetRequest{
		URL:     content.url(),
		Headers: headers,
		Query: map[string]string{
			"page":     strconv.Itoa(intArg(args, "page", defaultPage)),
			"per_page": strconv.Itoa(intArg(args, "per_page", defaultPerPage)),
		},
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(result)
}

func (t *Toolset) searchTableContentTool() toolDef {
	tool := mcp.NewTool("xano_search_table_content",
		mcp.WithDescription("Search table content using complex filtering."),
		mcp.WithString("instance_name",
			mcp.Required(),
			mcp.Description("The name of the Xano instance")),
		mcp.WithString("workspace_id",
			mcp.Required(),
			mcp.Description("The ID of the workspace")),
		mcp.WithString("table_id",
			mcp.Required(),
			mcp.Description("The ID of the table")),
		mcp.WithArray("search_conditions",
			mcp.Description("List of search condition objects")),
		mcp.WithObject("sort",
			mcp.Description("Field names mapped to \"asc\" or \"desc\"")),
		mcp.WithNumber("page",
			mcp.Description("Page number (default: 1)")),
		mcp.WithNumber("per_page",
			mcp.Description("Number of records per page (default: 50)")),
		configArg(),
	)
	return toolDef{tool: tool, handler: t.handleSearchTableContent}
}

func (t *Toolset) handleSearchTableContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	content, err := contentArgsFrom(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ctx, headers := t.callContext(ctx, args)

	body := map[string]any{
		"page":     intArg(args, "page", defaultPage),
		"per_page": intArg(args, "per_page", defaultPerPage),
	}
	if conditions, ok := args["search_conditions"].([]any); ok && len(conditions) > 0 {
		body["search"] = conditions
	}
	if sort, ok := args["sort"].(map[string]any); ok && len(sort) > 0 {
		body["sort"] = sort
	}

	result, err := t.dispatcher.Dispatch(ctx, domain.PostRequest{
		URL:     content.url() + "/search",
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(result)
}

func (t *Toolset) getTableRecordTool() toolDef {
	tool := mcp.NewTool("xano_get_table_record",
		mcp.WithDescription("Get a specific record from a table."),
		mcp.WithString("instance_name",
			mcp.Required(),
			mcp.Description("The name of the Xano instance")),
		mcp.WithString("workspace_id",
			mcp.Required(),
			mcp.Description("The ID of the workspace")),
		mcp.WithString("table_id",
			mcp.Required(),
			mcp.Description("The ID of the table")),
		mcp.WithString("record_id",
			mcp.Required(),
			mcp.Description("The ID of the record to retrieve")),
		configArg(),
	)
	return toolDef{tool: tool, handler: t.handleGetTableRecord}
}

func (t *Toolset) handleGetTableRecord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	content, err := contentArgsFrom(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	recordID, err := requireString(args, "record_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ctx, headers := t.callContext(ctx, args)

	result, err := t.dispatcher.Dispatch(ctx, domain.GetRequest{
		URL:     content.url() + "/" + domain.NormalizeID(recordID),
		Headers: headers,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(result)
}

func (t *Toolset) createTableRecordTool() toolDef {
	tool := mcp.NewTool("xano_create_table_record",
		mcp.WithDescription("Create a new record in a table."),
		mcp.WithString("instance_name",
			mcp.Required(),
			mcp.Description("The name of the Xano instance")),
		mcp.WithString("workspace_id",
			mcp.Required(),
			mcp.Description("The ID of the workspace")),
		mcp.WithString("table_id",
			mcp.Required(),
			mcp.Description("The ID of the table")),
		mcp.WithObject("record_data",
			mcp.Required(),
			mcp.Description("The data for the new record")),
		configArg(),
	)
	return toolDef{tool: tool, handler: t.handleCreateTableRecord}
}

func (t *Toolset) handleCreateTableRecord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	content, err := contentArgsFrom(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	record, ok := args["record_data"].(map[string]any)
	if !ok {
		return mcp.NewToolResultError("missing required argument: record_data"), nil
	}
	ctx, headers := t.callContext(ctx, args)

	result, err := t.dispatcher.Dispatch(ctx, domain.PostRequest{
		URL:     content.url(),
		Headers: headers,
		Body:    record,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(result)
}

func (t *Toolset) updateTableRecordTool() toolDef {
	tool := mcp.NewTool("xano_update_table_record",
		mcp.WithDescription("Update an existing record in a table."),
		mcp.WithString("instance_name",
			mcp.Required(),
			mcp.Description("The name of the Xano instance")),
		mcp.WithString("workspace_id",
			mcp.Required(),
			mcp.Description("The ID of the workspace")),
		mcp.WithString("table_id",
			mcp.Required(),
			mcp.Description("The ID of the table")),
		mcp.WithString("record_id",
			mcp.Required(),
			mcp.Description("The ID of the record to update")),
		mcp.WithObject("record_data",
			mcp.Required(),
			mcp.Description("The updated data for the record")),
		configArg(),
	)
	return toolDef{tool: tool, handler: t.handleUpdateTableRecord}
}

func (t *Toolset) handleUpdateTableRecord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	content, err := contentArgsFrom(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	recordID, err := requireString(args, "record_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	record, ok := args["record_data"].(map[string]any)
	if !ok {
		return mcp.NewToolResultError("missing required argument: record_data"), nil
	}
	ctx, headers := t.callContext(ctx, args)

	result, err := t.dispatcher.Dispatch(ctx, domain.PutRequest{
		URL:     content.url() + "/" + domain.NormalizeID(recordID),
		Headers: headers,
		Body:    record,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(result)
}

func (t *Toolset) deleteTableRecordTool() toolDef {
	tool := mcp.NewTool("xano_delete_table_record",
		mcp.WithDescription("Delete a specific record from a table."),
		mcp.WithString("instance_name",
			mcp.Required(),
			mcp.Description("The name of the Xano instance")),
		mcp.WithString("workspace_id",
			mcp.Required(),
			mcp.Description("The ID of the workspace")),
		mcp.WithString("table_id",
			mcp.Required(),
			mcp.Description("The ID of the table")),
		mcp.WithString("record_id",
			mcp.Required(),
			mcp.Description("The ID of the record to delete")),
		configArg(),
	)
	return toolDef{tool: tool, handler: t.handleDeleteTableRecord}
}

func (t *Toolset) handleDeleteTableRecord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	content, err := contentArgsFrom(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	recordID, err := requireString(args, "record_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ctx, headers := t.callContext(ctx, args)

	result, err := t.dispatcher.Dispatch(ctx, domain.DeleteRequest{
		URL:     content.url() + "/" + domain.NormalizeID(recordID),
		Headers: headers,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(result)
}

func (t *Toolset) bulkDeleteRecordsTool() toolDef {
	tool := mcp.NewTool("xano_bulk_delete_records",
		mcp.WithDescription("Delete multiple records from a table in one call."),
		mcp.WithString("instance_name",
			mcp.Required(),
			mcp.Description("The name of the Xano instance")),
		mcp.WithString("workspace_id",
			mcp.Required(),
			mcp.Description("The ID of the workspace")),
		mcp.WithString("table_id",
			mcp.Required(),
			mcp.Description("The ID of the table")),
		mcp.WithArray("record_ids",
			mcp.Required(),
			mcp.Description("IDs of the records to delete")),
		configArg(),
	)
	return toolDef{tool: tool, handler: t.handleBulkDeleteRecords}
}

// handleBulkDeleteRecords hits the one meta API endpoint that wants a DELETE
// with a body.
func (t *Toolset) handleBulkDeleteRecords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	content, err := contentArgsFrom(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	recordIDs, ok := args["record_ids"].([]any)
	if !ok || len(recordIDs) == 0 {
		return mcp.NewToolResultError("missing required argument: record_ids"), nil
	}
	ctx, headers := t.callContext(ctx, args)

	result, err := t.dispatcher.Dispatch(ctx, domain.DeleteRequest{
		URL:     content.url() + "/bulk/delete",
		Headers: headers,
		Body:    map[string]any{"row_ids": recordIDs},
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(result)
}
