package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mfigueroa/taskdeck/internal/workspace"
)

// CreateFileTool handles the create_file MCP tool.
type CreateFileTool struct {
	box *Toolbox
}

// NewCreateFileTool creates a CreateFileTool.
func NewCreateFileTool(box *Toolbox) *CreateFileTool {
	return &CreateFileTool{box: box}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateFileTool) Definition() mcp.Tool {
	return mcp.NewTool("create_file",
		mcp.WithDescription(
			"Create a file in the workspace with the given content. "+
				"Fails if the file already exists unless overwrite is set.",
		),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("File path, relative to workspace_root (absolute paths are used as-is)"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Full content to write"),
		),
		mcp.WithString("workspace_root",
			mcp.Required(),
			mcp.Description(workspaceRootDescription),
		),
		mcp.WithBoolean("overwrite",
			mcp.Description("Replace the file if it already exists (default false)"),
		),
		mcp.WithBoolean("create_parent_dirs",
			mcp.Description("Create missing parent directories (default true)"),
		),
	)
}

// Handle processes the create_file tool call.
func (t *CreateFileTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	if path == "" {
		return errResult("'path' is required"), nil
	}
	content := req.GetString("content", "")
	overwrite := boolArg(req, "overwrite", false)
	createParents := boolArg(req, "create_parent_dirs", true)
	workspaceRoot := req.GetString("workspace_root", "")

	abs, errRes := t.box.resolveGuarded(workspaceRoot, path, true)
	if errRes != nil {
		return errRes, nil
	}

	if !createParents {
		if _, err := os.Stat(filepath.Dir(abs)); os.IsNotExist(err) {
			return errResult("parent directory of %s does not exist and create_parent_dirs is false", abs), nil
		}
	}

	if err := t.box.Engine.CreateFile(abs, content, overwrite); err != nil {
		return errResult("%v", err), nil
	}

	t.box.noteWorkspace(workspaceRoot)
	return mcp.NewToolResultText(fmt.Sprintf("Created file %s (%s)", abs, workspace.HumanSize(int64(len(content))))), nil
}
