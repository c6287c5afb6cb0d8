package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
)

// CopyFileTool handles the copy_file MCP tool.
type CopyFileTool struct {
	box *Toolbox
}

// NewCopyFileTool creates a CopyFileTool.
func NewCopyFileTool(box *Toolbox) *CopyFileTool {
	return &CopyFileTool{box: box}
}

// Definition returns the MCP tool definition for registration.
func (t *CopyFileTool) Definition() mcp.Tool {
	return mcp.NewTool("copy_file",
		mcp.WithDescription(
			"Copy a file within the workspace, leaving the source intact.",
		),
		mcp.WithString("source_path",
			mcp.Required(),
			mcp.Description("File to copy, relative to workspace_root"),
		),
		mcp.WithString("target_path",
			mcp.Required(),
			mcp.Description("Destination path, relative to workspace_root"),
		),
		mcp.WithBoolean("overwrite",
			mcp.Description("Replace the target if it already exists (default false)"),
		),
		mcp.WithBoolean("create_target_dirs",
			mcp.Description("Create missing parent directories of the target (default true)"),
		),
		mcp.WithString("workspace_root",
			mcp.Required(),
			mcp.Description(workspaceRootDescription),
		),
	)
}

// Handle processes the copy_file tool call.
func (t *CopyFileTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sourcePath := req.GetString("source_path", "")
	targetPath := req.GetString("target_path", "")
	if sourcePath == "" || targetPath == "" {
		return errResult("'source_path' and 'target_path' are required"), nil
	}
	workspaceRoot := req.GetString("workspace_root", "")

	from, errRes := t.box.resolveGuarded(workspaceRoot, sourcePath, true)
	if errRes != nil {
		return errRes, nil
	}
	to, errRes := t.box.resolveGuarded(workspaceRoot, targetPath, true)
	if errRes != nil {
		return errRes, nil
	}

	if !boolArg(req, "create_target_dirs", true) {
		if _, err := os.Stat(filepath.Dir(to)); os.IsNotExist(err) {
			return errResult("parent directory of %s does not exist and create_target_dirs is false", to), nil
		}
	}

	if err := t.box.Engine.CopyFile(from, to, boolArg(req, "overwrite", false)); err != nil {
		return errResult("%v", err), nil
	}

	t.box.noteWorkspace(workspaceRoot)
	return mcp.NewToolResultText(fmt.Sprintf("Copied %s to %s", from, to)), nil
}
