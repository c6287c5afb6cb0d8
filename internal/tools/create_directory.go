package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// CreateDirectoryTool handles the create_directory MCP tool.
type CreateDirectoryTool struct {
	box *Toolbox
}

// NewCreateDirectoryTool creates a CreateDirectoryTool.
func NewCreateDirectoryTool(box *Toolbox) *CreateDirectoryTool {
	return &CreateDirectoryTool{box: box}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateDirectoryTool) Definition() mcp.Tool {
	return mcp.NewTool("create_directory",
		mcp.WithDescription(
			"Create a directory in the workspace. Creating a directory that "+
				"already exists is a no-op success.",
		),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Directory path, relative to workspace_root"),
		),
		mcp.WithBoolean("recursive",
			mcp.Description("Create missing parent directories too (default true)"),
		),
		mcp.WithString("workspace_root",
			mcp.Required(),
			mcp.Description(workspaceRootDescription),
		),
	)
}

// Handle processes the create_directory tool call.
func (t *CreateDirectoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	if path == "" {
		return errResult("'path' is required"), nil
	}
	workspaceRoot := req.GetString("workspace_root", "")

	abs, errRes := t.box.resolveGuarded(workspaceRoot, path, true)
	if errRes != nil {
		return errRes, nil
	}

	if err := t.box.Engine.CreateDirectory(abs, boolArg(req, "recursive", true)); err != nil {
		return errResult("%v", err), nil
	}

	t.box.noteWorkspace(workspaceRoot)
	return mcp.NewToolResultText(fmt.Sprintf("Created directory %s", abs)), nil
}
