package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// DeleteFileTool handles the delete_file MCP tool.
type DeleteFileTool struct {
	box *Toolbox
}

// NewDeleteFileTool creates a DeleteFileTool.
func NewDeleteFileTool(box *Toolbox) *DeleteFileTool {
	return &DeleteFileTool{box: box}
}

// Definition returns the MCP tool definition for registration.
func (t *DeleteFileTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_file",
		mcp.WithDescription(
			"Delete a file from the workspace. Deleting a file that does not exist "+
				"is a no-op success. Requires confirm_deletion=true as a safety latch.",
		),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("File to delete, relative to workspace_root"),
		),
		mcp.WithBoolean("confirm_deletion",
			mcp.Required(),
			mcp.Description("Must be true; confirms the deletion is intended"),
		),
		mcp.WithBoolean("create_backup",
			mcp.Description("Write the file's content to <path>.bak before deleting"),
		),
		mcp.WithString("workspace_root",
			mcp.Required(),
			mcp.Description(workspaceRootDescription),
		),
	)
}

// Handle processes the delete_file tool call.
func (t *DeleteFileTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	if path == "" {
		return errResult("'path' is required"), nil
	}
	if !boolArg(req, "confirm_deletion", false) {
		return errResult("deletion not confirmed; pass confirm_deletion=true to proceed"), nil
	}
	workspaceRoot := req.GetString("workspace_root", "")

	abs, errRes := t.box.resolveGuarded(workspaceRoot, path, true)
	if errRes != nil {
		return errRes, nil
	}

	backupPath, errRes := t.box.backup(abs, boolArg(req, "create_backup", false))
	if errRes != nil {
		return errRes, nil
	}

	removed, err := t.box.Engine.DeleteFile(abs)
	if err != nil {
		return errResult("%v", err), nil
	}

	t.box.noteWorkspace(workspaceRoot)

	if !removed {
		return mcp.NewToolResultText(fmt.Sprintf("File %s does not exist; nothing to delete", abs)), nil
	}
	msg := fmt.Sprintf("Deleted file %s", abs)
	if backupPath != "" {
		msg += fmt.Sprintf("\nBackup written to %s", backupPath)
	}
	return mcp.NewToolResultText(msg), nil
}
