package tools

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mfigueroa/taskdeck/internal/workspace"
)

// FileInfoTool handles the get_file_info MCP tool.
type FileInfoTool struct {
	box *Toolbox
}

// NewFileInfoTool creates a FileInfoTool.
func NewFileInfoTool(box *Toolbox) *FileInfoTool {
	return &FileInfoTool{box: box}
}

// Definition returns the MCP tool definition for registration.
func (t *FileInfoTool) Definition() mcp.Tool {
	return mcp.NewTool("get_file_info",
		mcp.WithDescription(
			"Report metadata for a workspace file or directory: type, size, "+
				"permissions and modification time.",
		),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to inspect, relative to workspace_root"),
		),
		mcp.WithString("workspace_root",
			mcp.Required(),
			mcp.Description(workspaceRootDescription),
		),
	)
}

// Handle processes the get_file_info tool call.
func (t *FileInfoTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	if path == "" {
		return errResult("'path' is required"), nil
	}
	workspaceRoot := req.GetString("workspace_root", "")

	abs, errRes := t.box.resolveGuarded(workspaceRoot, path, false)
	if errRes != nil {
		return errRes, nil
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return errResult("%s does not exist", abs), nil
		}
		return errResult("stat %s: %v", abs, err), nil
	}

	kind := "file"
	if info.IsDir() {
		kind = "directory"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Path: %s\n", abs)
	fmt.Fprintf(&b, "Type: %s\n", kind)
	if !info.IsDir() {
		fmt.Fprintf(&b, "Size: %s\n", workspace.HumanSize(info.Size()))
	}
	fmt.Fprintf(&b, "Permissions: %s\n", info.Mode().Perm())
	fmt.Fprintf(&b, "Modified: %s", info.ModTime().UTC().Format("2006-01-02 15:04:05 UTC"))
	return mcp.NewToolResultText(b.String()), nil
}
