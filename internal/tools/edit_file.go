package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mfigueroa/taskdeck/internal/workspace"
)

// EditFileTool handles the edit_file MCP tool. Each call applies one
// change; callers needing several ordered edits use batch_operations,
// which accepts a change list per edit_file entry.
type EditFileTool struct {
	box *Toolbox
}

// NewEditFileTool creates an EditFileTool.
func NewEditFileTool(box *Toolbox) *EditFileTool {
	return &EditFileTool{box: box}
}

// Definition returns the MCP tool definition for registration.
func (t *EditFileTool) Definition() mcp.Tool {
	return mcp.NewTool("edit_file",
		mcp.WithDescription(
			"Apply a text edit to an existing file. "+
				"replace swaps the first occurrence of old_content for new_content; "+
				"append and prepend add content at the end or start; "+
				"insert_at_line inserts content as a new line at the given 0-based index. "+
				"An edit that cannot apply (text not found, line out of range) is reported as skipped, not failed.",
		),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("File to edit, relative to workspace_root"),
		),
		mcp.WithString("change_type",
			mcp.Required(),
			mcp.Description("Kind of edit to apply"),
			mcp.Enum("replace", "append", "prepend", "insert_at_line"),
		),
		mcp.WithString("old_content",
			mcp.Description("Text to find (replace only; first occurrence)"),
		),
		mcp.WithString("new_content",
			mcp.Description("Replacement text (replace only)"),
		),
		mcp.WithString("content",
			mcp.Description("Content to add (append, prepend, insert_at_line)"),
		),
		mcp.WithNumber("line",
			mcp.Description("0-based line index (insert_at_line only)"),
		),
		mcp.WithBoolean("create_backup",
			mcp.Description("Write the pre-edit content to <path>.bak first"),
		),
		mcp.WithString("workspace_root",
			mcp.Required(),
			mcp.Description(workspaceRootDescription),
		),
	)
}

// Handle processes the edit_file tool call.
func (t *EditFileTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	if path == "" {
		return errResult("'path' is required"), nil
	}
	changeType := workspace.ChangeType(req.GetString("change_type", ""))
	workspaceRoot := req.GetString("workspace_root", "")

	abs, errRes := t.box.resolveGuarded(workspaceRoot, path, true)
	if errRes != nil {
		return errRes, nil
	}

	change := workspace.Change{
		Type:       changeType,
		OldContent: req.GetString("old_content", ""),
		NewContent: req.GetString("new_content", ""),
		Content:    req.GetString("content", ""),
		Line:       intArg(req, "line", 0),
	}

	backupPath, errRes := t.box.backup(abs, boolArg(req, "create_backup", false))
	if errRes != nil {
		return errRes, nil
	}

	results, err := t.box.Engine.EditFile(abs, []workspace.Change{change})
	if err != nil {
		return errResult("%v", err), nil
	}

	t.box.noteWorkspace(workspaceRoot)

	var b strings.Builder
	res := results[0]
	if res.Applied {
		fmt.Fprintf(&b, "Edited %s: %s applied", abs, res.Type)
	} else {
		fmt.Fprintf(&b, "Edited %s: %s skipped (%s); file left unchanged", abs, res.Type, res.Reason)
	}
	if backupPath != "" {
		fmt.Fprintf(&b, "\nBackup written to %s", backupPath)
	}
	return mcp.NewToolResultText(b.String()), nil
}
