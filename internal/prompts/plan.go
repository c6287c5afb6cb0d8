// Package prompts implements MCP prompt handlers for taskdeck.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// PlanPrompt handles the taskdeck-plan MCP prompt. It instructs the AI
// to preview a set of file changes with batch_operations before
// executing them.
type PlanPrompt struct{}

// NewPlanPrompt creates a PlanPrompt.
func NewPlanPrompt() *PlanPrompt {
	return &PlanPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *PlanPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("taskdeck-plan",
		mcp.WithPromptDescription(
			"Plan a set of workspace file changes safely: describe the goal, "+
				"assemble the operations, dry-run them, then execute only after "+
				"reviewing the preview.",
		),
		mcp.WithArgument("goal",
			mcp.ArgumentDescription("What the file changes should accomplish"),
		),
		mcp.WithArgument("workspace_root",
			mcp.ArgumentDescription("Absolute path of the workspace to operate on"),
		),
	)
}

// Handle processes the taskdeck-plan prompt request.
func (p *PlanPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	goal := "the described change"
	if args := req.Params.Arguments; args != nil {
		if g, ok := args["goal"]; ok && g != "" {
			goal = g
		}
	}

	root := "the workspace root I give you"
	if args := req.Params.Arguments; args != nil {
		if r, ok := args["workspace_root"]; ok && r != "" {
			root = r
		}
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Plan workspace changes: %s", goal),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to make this change to my workspace at %s: %s\n\n"+
						"Please:\n"+
						"1. Use read_file and list_directory to understand the files involved\n"+
						"2. Assemble the full change as a batch_operations operation list\n"+
						"3. Run batch_operations with dry_run=true and show me the preview\n"+
						"4. Only after I approve the preview, run the batch for real\n"+
						"5. Use create_backup on any edit or delete that touches existing content",
					root, goal,
				)),
			},
		},
	}, nil
}
