package usecase

import (
	"context"
	"encoding/base64"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/xano-community/xano-mcp/internal/domain"
)

func (t *Toolset) uploadFileTool() toolDef {
	tool := mcp.NewTool("xano_upload_file",
		mcp.WithDescription("Upload a file to a Xano workspace."),
		mcp.WithString("instance_name",
			mcp.Required(),
			mcp.Description("The name of the Xano instance")),
		mcp.WithString("workspace_id",
			mcp.Required(),
			mcp.Description("The ID of the workspace")),
		mcp.WithString("file_name",
			mcp.Required(),
			mcp.Description("File name, including extension")),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("File content, base64-encoded")),
		mcp.WithString("type",
			mcp.Description("Optional file kind hint (image, video, audio, ...)")),
		configArg(),
	)
	return toolDef{tool: tool, handler: t.handleUploadFile}
}

// handleUploadFile is the only multipart path: the file travels as a binary
// form part, everything else as plain form fields.
func (t *Toolset) handleUploadFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	name, err := requireString(args, "instance_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	workspaceID, err := requireString(args, "workspace_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fileName, err := requireString(args, "file_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	encoded, err := requireString(args, "content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return mcp.NewToolResultError("content is not valid base64: " + err.Error()), nil
	}
	ctx, headers := t.callContext(ctx, args)

	fields := map[string]string{}
	if kind, ok := args["type"].(string); ok && kind != "" {
		fields["type"] = kind
	}

	inst := domain.NewInstance(name)
	result, err := t.dispatcher.Dispatch(ctx, domain.MultipartRequest{
		URL:     inst.MetaAPI + "/workspace/" + domain.NormalizeID(workspaceID) + "/file",
		Headers: headers,
		Fields:  fields,
		Files: []domain.FilePart{
			{Field: "content", FileName: fileName, Content: data},
		},
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(result)
}
