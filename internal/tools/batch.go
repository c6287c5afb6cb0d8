package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mfigueroa/taskdeck/internal/batch"
)

// BatchTool handles the batch_operations MCP tool. It validates the
// whole batch against the workspace before touching the filesystem,
// then runs the operations strictly in order.
type BatchTool struct {
	box      *Toolbox
	executor *batch.Executor
}

// NewBatchTool creates a BatchTool.
func NewBatchTool(box *Toolbox) *BatchTool {
	return &BatchTool{
		box:      box,
		executor: batch.NewExecutor(box.Engine, box.Resolver, box.Guard),
	}
}

// Definition returns the MCP tool definition for registration.
func (t *BatchTool) Definition() mcp.Tool {
	return mcp.NewTool("batch_operations",
		mcp.WithDescription(
			"Run a sequence of file operations against the workspace. The batch "+
				"is validated up front: if any operation is malformed or targets a "+
				"protected path, nothing runs. Operations then execute in order; "+
				"later operations see the effects of earlier ones. With dry_run, "+
				"each operation yields a preview instead of being executed. "+
				"Supported types: create_file, edit_file, delete_file, move_file, "+
				"copy_file, create_directory, delete_directory.",
		),
		mcp.WithString("operations",
			mcp.Required(),
			mcp.Description("JSON array of operation objects, each with a 'type' and the fields that operation needs"),
		),
		mcp.WithBoolean("dry_run",
			mcp.Description("Preview every operation without executing (default false)"),
		),
		mcp.WithBoolean("continue_on_error",
			mcp.Description("Keep executing after a failed operation instead of halting (default false)"),
		),
		mcp.WithString("workspace_root",
			mcp.Required(),
			mcp.Description(workspaceRootDescription),
		),
	)
}

// Handle processes the batch_operations tool call.
func (t *BatchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawOps := req.GetString("operations", "")
	if rawOps == "" {
		return errResult("'operations' is required"), nil
	}
	workspaceRoot := req.GetString("workspace_root", "")
	dryRun := boolArg(req, "dry_run", false)
	continueOnError := boolArg(req, "continue_on_error", false)

	ops, err := batch.Decode(rawOps)
	if err != nil {
		return errResult("%v", err), nil
	}

	results, err := t.executor.Run(ctx, ops, workspaceRoot, dryRun, continueOnError)
	if err != nil {
		return errResult("%v", err), nil
	}

	t.box.noteWorkspace(workspaceRoot)

	succeeded := 0
	for _, res := range results {
		if res.Status == "success" || res.Status == "preview" {
			succeeded++
		}
	}

	var b strings.Builder
	switch {
	case dryRun:
		fmt.Fprintf(&b, "Dry run of %d operation(s):\n", len(results))
	case batch.Succeeded(results):
		fmt.Fprintf(&b, "Executed %d operation(s), all succeeded:\n", len(results))
	default:
		fmt.Fprintf(&b, "Executed %d operation(s), %d succeeded:\n", len(results), succeeded)
	}
	for _, res := range results {
		fmt.Fprintf(&b, "  [%d] %s %s: %s\n", res.Index, res.Type, res.Status, res.Message)
	}
	return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
}
