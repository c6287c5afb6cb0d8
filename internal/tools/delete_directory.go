package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// DeleteDirectoryTool handles the delete_directory MCP tool.
type DeleteDirectoryTool struct {
	box *Toolbox
}

// NewDeleteDirectoryTool creates a DeleteDirectoryTool.
func NewDeleteDirectoryTool(box *Toolbox) *DeleteDirectoryTool {
	return &DeleteDirectoryTool{box: box}
}

// Definition returns the MCP tool definition for registration.
func (t *DeleteDirectoryTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_directory",
		mcp.WithDescription(
			"Delete a directory from the workspace. Non-empty directories are "+
				"refused unless recursive is set. With dry_run, reports what the "+
				"deletion would do without touching anything. Requires "+
				"confirm_deletion=true as a safety latch.",
		),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Directory to delete, relative to workspace_root"),
		),
		mcp.WithBoolean("confirm_deletion",
			mcp.Required(),
			mcp.Description("Must be true to confirm the deletion is intended"),
		),
		mcp.WithBoolean("recursive",
			mcp.Description("Delete the directory and everything under it (default false)"),
		),
		mcp.WithBoolean("dry_run",
			mcp.Description("Report the outcome without deleting anything (default false)"),
		),
		mcp.WithString("workspace_root",
			mcp.Required(),
			mcp.Description(workspaceRootDescription),
		),
	)
}

// Handle processes the delete_directory tool call.
func (t *DeleteDirectoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	if path == "" {
		return errResult("'path' is required"), nil
	}
	dryRun := boolArg(req, "dry_run", false)
	if !dryRun && !boolArg(req, "confirm_deletion", false) {
		return errResult("deletion not confirmed; pass confirm_deletion=true to proceed"), nil
	}
	workspaceRoot := req.GetString("workspace_root", "")

	abs, errRes := t.box.resolveGuarded(workspaceRoot, path, true)
	if errRes != nil {
		return errRes, nil
	}

	summary, err := t.box.Engine.DeleteDirectory(abs, boolArg(req, "recursive", false), dryRun)
	if err != nil {
		return errResult("%v", err), nil
	}

	t.box.noteWorkspace(workspaceRoot)

	if dryRun {
		return mcp.NewToolResultText(fmt.Sprintf("Dry run: %s", summary)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deleted directory %s", abs)), nil
}
