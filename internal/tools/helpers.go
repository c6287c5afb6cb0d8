// Package tools implements the MCP tool handlers for taskdeck's
// workspace file operations.
//
// Each tool follows the same pattern: a struct with its dependencies
// injected via the shared Toolbox, a Definition() returning the mcp.Tool
// schema, and a Handle() processing the request. Tool-level failures are
// returned as "Error: ..." text results so the model can read them;
// only infrastructure failures propagate as Go errors.
package tools

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mfigueroa/taskdeck/internal/project"
	"github.com/mfigueroa/taskdeck/internal/workspace"
)

// Toolbox bundles the dependencies every file-operation tool needs.
// The server constructs exactly one and hands it to each tool, so tests
// can build their own against temp directories and registries.
type Toolbox struct {
	Engine   *workspace.Engine
	Resolver *workspace.Resolver
	Guard    *workspace.Guard

	// Registry is advisory and may be nil when the project database
	// failed to open; file operations still work without it.
	Registry *project.Registry

	// BackupByDefault makes destructive tools write .bak siblings even
	// when the caller omits create_backup.
	BackupByDefault bool

	Log *slog.Logger
}

// NewToolbox builds a Toolbox, substituting a discard logger for nil.
func NewToolbox(engine *workspace.Engine, resolver *workspace.Resolver, guard *workspace.Guard, registry *project.Registry, backupByDefault bool, log *slog.Logger) *Toolbox {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Toolbox{
		Engine:          engine,
		Resolver:        resolver,
		Guard:           guard,
		Registry:        registry,
		BackupByDefault: backupByDefault,
		Log:             log,
	}
}

// errResult builds the user-visible error result. All tool errors read
// as a single "Error: ..." line, per the response contract.
func errResult(format string, args ...any) *mcp.CallToolResult {
	return mcp.NewToolResultError("Error: " + fmt.Sprintf(format, args...))
}

// resolveGuarded resolves target against workspaceRoot and, for
// destructive operations, vetoes critical paths and the tool's own
// installation directory. A non-nil result is the error to return.
func (b *Toolbox) resolveGuarded(workspaceRoot, target string, destructive bool) (string, *mcp.CallToolResult) {
	abs, err := b.Resolver.Resolve(workspaceRoot, target)
	if err != nil {
		return "", errResult("%v", err)
	}
	if destructive {
		if b.Guard.IsCritical(abs) {
			return "", errResult("%v: %s is a protected system or metadata path", workspace.ErrCriticalPath, abs)
		}
		if project.IsToolDirectory(abs) {
			return "", errResult("refusing to operate on taskdeck's own installation directory: %s", abs)
		}
	}
	return abs, nil
}

// noteWorkspace records the workspace root in the project registry as
// an informational side effect of a successful operation. Failures are
// logged and otherwise ignored; the registry is advisory.
func (b *Toolbox) noteWorkspace(workspaceRoot string) {
	if b.Registry == nil {
		return
	}
	base := filepath.Base(filepath.Clean(workspaceRoot))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return
	}
	// Directory names can carry spaces and punctuation; registry names
	// stay in the same safe alphabet as generated filenames.
	name := workspace.SanitizeFilename(base, "")
	if err := b.Registry.Set(name, workspaceRoot, nil); err != nil {
		b.Log.Warn("project registry update failed", "workspace", workspaceRoot, "error", err)
		return
	}
	if err := b.Registry.SetCurrent(name); err != nil {
		b.Log.Warn("setting current project failed", "name", name, "error", err)
	}
}

// backup writes the .bak sibling for path when requested (explicitly or
// by server default). A backup failure aborts the owning operation.
func (b *Toolbox) backup(path string, requested bool) (string, *mcp.CallToolResult) {
	if !requested && !b.BackupByDefault {
		return "", nil
	}
	backupPath, err := b.Engine.Backup(path)
	if err != nil {
		return "", errResult("%v", err)
	}
	return backupPath, nil
}

// boolArg extracts a boolean argument, returning defaultVal if the key
// is missing or not a bool.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// intArg extracts an integer argument (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// workspaceRootDescription is shared by every tool definition.
const workspaceRootDescription = "Absolute path of the workspace all relative paths resolve against. " +
	"Required on every call; there is no implicit current-directory fallback, and \".\" is rejected."
