package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
)

// MoveFileTool handles the move_file MCP tool.
type MoveFileTool struct {
	box *Toolbox
}

// NewMoveFileTool creates a MoveFileTool.
func NewMoveFileTool(box *Toolbox) *MoveFileTool {
	return &MoveFileTool{box: box}
}

// Definition returns the MCP tool definition for registration.
func (t *MoveFileTool) Definition() mcp.Tool {
	return mcp.NewTool("move_file",
		mcp.WithDescription(
			"Move or rename a file within the workspace. The move is an atomic "+
				"rename where the filesystem allows it.",
		),
		mcp.WithString("source_path",
			mcp.Required(),
			mcp.Description("File to move, relative to workspace_root"),
		),
		mcp.WithString("target_path",
			mcp.Required(),
			mcp.Description("Destination path, relative to workspace_root"),
		),
		mcp.WithBoolean("overwrite",
			mcp.Description("Replace the target if it already exists (default false)"),
		),
		mcp.WithBoolean("create_backup",
			mcp.Description("Write the source's content to <source>.bak before moving"),
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

// Handle processes the move_file tool call.
func (t *MoveFileTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

	backupPath, errRes := t.box.backup(from, boolArg(req, "create_backup", false))
	if errRes != nil {
		return errRes, nil
	}

	if err := t.box.Engine.MoveFile(from, to, boolArg(req, "overwrite", false)); err != nil {
		return errResult("%v", err), nil
	}

	t.box.noteWorkspace(workspaceRoot)

	msg := fmt.Sprintf("Moved %s to %s", from, to)
	if backupPath != "" {
		msg += fmt.Sprintf("\nBackup written to %s", backupPath)
	}
	return mcp.NewToolResultText(msg), nil
}
