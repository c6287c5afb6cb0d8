package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// SetProjectTool handles the set_current_project MCP tool.
type SetProjectTool struct {
	box *Toolbox
}

// NewSetProjectTool creates a SetProjectTool.
func NewSetProjectTool(box *Toolbox) *SetProjectTool {
	return &SetProjectTool{box: box}
}

// Definition returns the MCP tool definition for registration.
func (t *SetProjectTool) Definition() mcp.Tool {
	return mcp.NewTool("set_current_project",
		mcp.WithDescription(
			"Register a workspace as a named project and make it the current "+
				"one. Subsequent get_project_info calls report it.",
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Project name"),
		),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Absolute path of the project's workspace root"),
		),
	)
}

// Handle processes the set_current_project tool call.
func (t *SetProjectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.box.Registry == nil {
		return errResult("project registry is not available"), nil
	}
	name := req.GetString("name", "")
	path := req.GetString("path", "")
	if name == "" || path == "" {
		return errResult("'name' and 'path' are required"), nil
	}

	if _, err := t.box.Resolver.Resolve(path, "."); err != nil {
		return errResult("invalid project path %q: %v", path, err), nil
	}

	if err := t.box.Registry.Set(name, path, nil); err != nil {
		return errResult("registering project: %v", err), nil
	}
	if err := t.box.Registry.SetCurrent(name); err != nil {
		return errResult("setting current project: %v", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Current project is now %q (%s)", name, path)), nil
}

// ProjectInfoTool handles the get_project_info MCP tool.
type ProjectInfoTool struct {
	box *Toolbox
}

// NewProjectInfoTool creates a ProjectInfoTool.
func NewProjectInfoTool(box *Toolbox) *ProjectInfoTool {
	return &ProjectInfoTool{box: box}
}

// Definition returns the MCP tool definition for registration.
func (t *ProjectInfoTool) Definition() mcp.Tool {
	return mcp.NewTool("get_project_info",
		mcp.WithDescription(
			"Report the current project and every registered project.",
		),
	)
}

// Handle processes the get_project_info tool call.
func (t *ProjectInfoTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.box.Registry == nil {
		return errResult("project registry is not available"), nil
	}

	current, err := t.box.Registry.Current()
	if err != nil {
		return errResult("reading current project: %v", err), nil
	}
	entries, err := t.box.Registry.List()
	if err != nil {
		return errResult("listing projects: %v", err), nil
	}

	var b strings.Builder
	if current != nil {
		fmt.Fprintf(&b, "Current project: %s (%s)\n", current.Name, current.Path)
	} else {
		b.WriteString("No current project set\n")
	}
	if len(entries) == 0 {
		b.WriteString("No projects registered")
	} else {
		fmt.Fprintf(&b, "Registered projects (%d):\n", len(entries))
		for _, e := range entries {
			fmt.Fprintf(&b, "  %s: %s (updated %s)\n", e.Name, e.Path, e.UpdatedAt)
		}
	}
	return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
}
