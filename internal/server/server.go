// Package server wires all MCP components and creates the server
// instance. It is the composition root: concrete implementations are
// constructed here and injected into the tools, prompts and resources
// that depend on them. No business logic lives here, only wiring.
package server

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mfigueroa/taskdeck/internal/config"
	"github.com/mfigueroa/taskdeck/internal/logging"
	"github.com/mfigueroa/taskdeck/internal/project"
	"github.com/mfigueroa/taskdeck/internal/prompts"
	"github.com/mfigueroa/taskdeck/internal/resources"
	"github.com/mfigueroa/taskdeck/internal/tools"
	"github.com/mfigueroa/taskdeck/internal/workspace"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts and
// resources registered, reading configuration from cfgPath ("" means
// the default location, a missing file means defaults).
//
// The returned cleanup function closes the project registry and the log
// writer and must be called on shutdown (typically via defer). It is
// always non-nil and safe to call even when initialization partially
// failed.
func New(cfgPath string) (*server.MCPServer, func(), error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, noop, fmt.Errorf("loading configuration: %w", err)
	}

	log, closeLog := logging.New(cfg.Log)

	engine := workspace.NewEngine(log)
	resolver := &workspace.Resolver{AllowEscape: cfg.AllowEscape()}
	guard := &workspace.Guard{Extra: cfg.Workspace.ExtraCriticalPaths}

	// The project registry is advisory: if its database fails to open,
	// every file tool still works and the project tools report the
	// registry as unavailable.
	registry, regErr := project.New(project.DefaultConfig())
	if regErr != nil {
		log.Warn("project registry disabled", "error", regErr)
		registry = nil
	}

	cleanup := func() {
		if registry != nil {
			if err := registry.Close(); err != nil {
				log.Warn("closing project registry", "error", err)
			}
		}
		_ = closeLog()
	}

	box := tools.NewToolbox(engine, resolver, guard, registry, cfg.Backups.EnabledByDefault, log)

	s := server.NewMCPServer(
		"taskdeck",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	registerTools(s, box)

	planPrompt := prompts.NewPlanPrompt()
	s.AddPrompt(planPrompt.Definition(), planPrompt.Handle)

	resourceHandler := resources.NewHandler(registry)
	s.AddResource(resourceHandler.ProjectsResource(), resourceHandler.HandleProjects)

	log.Info("server configured", "version", Version, "registry", registry != nil)
	return s, cleanup, nil
}

// noop is the default cleanup when initialization fails early.
func noop() {}

// registerTools registers every file-operation and project tool.
func registerTools(s *server.MCPServer, box *tools.Toolbox) {
	createFile := tools.NewCreateFileTool(box)
	s.AddTool(createFile.Definition(), createFile.Handle)

	readFile := tools.NewReadFileTool(box)
	s.AddTool(readFile.Definition(), readFile.Handle)

	editFile := tools.NewEditFileTool(box)
	s.AddTool(editFile.Definition(), editFile.Handle)

	deleteFile := tools.NewDeleteFileTool(box)
	s.AddTool(deleteFile.Definition(), deleteFile.Handle)

	moveFile := tools.NewMoveFileTool(box)
	s.AddTool(moveFile.Definition(), moveFile.Handle)

	copyFile := tools.NewCopyFileTool(box)
	s.AddTool(copyFile.Definition(), copyFile.Handle)

	createDir := tools.NewCreateDirectoryTool(box)
	s.AddTool(createDir.Definition(), createDir.Handle)

	listDir := tools.NewListDirectoryTool(box)
	s.AddTool(listDir.Definition(), listDir.Handle)

	deleteDir := tools.NewDeleteDirectoryTool(box)
	s.AddTool(deleteDir.Definition(), deleteDir.Handle)

	fileInfo := tools.NewFileInfoTool(box)
	s.AddTool(fileInfo.Definition(), fileInfo.Handle)

	batchOps := tools.NewBatchTool(box)
	s.AddTool(batchOps.Definition(), batchOps.Handle)

	setProject := tools.NewSetProjectTool(box)
	s.AddTool(setProject.Definition(), setProject.Handle)

	projectInfo := tools.NewProjectInfoTool(box)
	s.AddTool(projectInfo.Definition(), projectInfo.Handle)
}

// serverInstructions returns the system instructions that tell the AI
// how to use taskdeck effectively.
func serverInstructions() string {
	return `You have access to taskdeck, a workspace file-operation MCP server.

## HOW TO USE taskdeck

Every file tool takes a workspace_root argument: the absolute path of
the directory the user is working in. Always pass it; there is no
implicit current directory, and "." is rejected.

- Relative paths resolve against workspace_root.
- Protected system and metadata paths (/etc, C:\Windows, .git,
  node_modules, lock files, key material) are refused for writes.
- Deletions require confirm_deletion=true.
- Pass create_backup=true on edits and deletes that touch content the
  user may want back; the previous content lands in a .bak sibling.

## BATCHES

For multi-step changes, prefer one batch_operations call over many
single-tool calls: the whole batch is validated before anything runs,
and dry_run=true gives the user a preview. Operations execute in order,
so later operations can rely on the effects of earlier ones.

## SAFETY

When in doubt, dry-run first and show the user the preview before
executing. An edit whose target text is not found is reported as
skipped, never silently dropped.`
}
