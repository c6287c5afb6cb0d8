package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// ReadFileTool handles the read_file MCP tool.
type ReadFileTool struct {
	box *Toolbox
}

// NewReadFileTool creates a ReadFileTool.
func NewReadFileTool(box *Toolbox) *ReadFileTool {
	return &ReadFileTool{box: box}
}

// Definition returns the MCP tool definition for registration.
func (t *ReadFileTool) Definition() mcp.Tool {
	return mcp.NewTool("read_file",
		mcp.WithDescription("Read the full content of a workspace file."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("File to read, relative to workspace_root"),
		),
		mcp.WithString("workspace_root",
			mcp.Required(),
			mcp.Description(workspaceRootDescription),
		),
	)
}

// Handle processes the read_file tool call.
func (t *ReadFileTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	if path == "" {
		return errResult("'path' is required"), nil
	}
	workspaceRoot := req.GetString("workspace_root", "")

	abs, errRes := t.box.resolveGuarded(workspaceRoot, path, false)
	if errRes != nil {
		return errRes, nil
	}

	content, err := t.box.Engine.ReadFile(abs)
	if err != nil {
		return errResult("%v", err), nil
	}

	t.box.noteWorkspace(workspaceRoot)
	return mcp.NewToolResultText(content), nil
}
