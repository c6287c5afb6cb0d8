package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ListDirectoryTool handles the list_directory MCP tool.
type ListDirectoryTool struct {
	box *Toolbox
}

// NewListDirectoryTool creates a ListDirectoryTool.
func NewListDirectoryTool(box *Toolbox) *ListDirectoryTool {
	return &ListDirectoryTool{box: box}
}

// Definition returns the MCP tool definition for registration.
func (t *ListDirectoryTool) Definition() mcp.Tool {
	return mcp.NewTool("list_directory",
		mcp.WithDescription(
			"List the entries of a workspace directory. Directories are listed "+
				"before files, each group sorted by name. Hidden entries are "+
				"omitted unless include_hidden is set.",
		),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Directory to list, relative to workspace_root"),
		),
		mcp.WithBoolean("include_hidden",
			mcp.Description("Include entries whose names start with a dot (default false)"),
		),
		mcp.WithString("workspace_root",
			mcp.Required(),
			mcp.Description(workspaceRootDescription),
		),
	)
}

// Handle processes the list_directory tool call.
func (t *ListDirectoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	if path == "" {
		return errResult("'path' is required"), nil
	}
	workspaceRoot := req.GetString("workspace_root", "")

	abs, errRes := t.box.resolveGuarded(workspaceRoot, path, false)
	if errRes != nil {
		return errRes, nil
	}

	listing, err := t.box.Engine.ListDirectory(abs, boolArg(req, "include_hidden", false))
	if err != nil {
		return errResult("%v", err), nil
	}

	if len(listing.Directories) == 0 && len(listing.Files) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Directory %s is empty", abs)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Contents of %s:\n", abs)
	for _, dir := range listing.Directories {
		fmt.Fprintf(&b, "  %s/\n", dir)
	}
	for _, f := range listing.Files {
		fmt.Fprintf(&b, "  %s (%s)\n", f.Name, f.Size)
	}
	return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
}
