// Taskdeck: workspace file-operation MCP server
//
// A universal MCP server that gives any AI coding tool (Claude Code,
// OpenCode, Gemini CLI, Codex, Cursor, VS Code Copilot) a safe,
// workspace-scoped set of file operations: create, read, edit, move,
// copy and delete files and directories, plus validated batches with
// dry-run previews.
//
// Usage:
//
//	taskdeck serve     # Start MCP server (stdio transport)
//	taskdeck update    # Update to the latest version
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mark3labs/mcp-go/server"
	flag "github.com/spf13/pflag"

	tdserver "github.com/mfigueroa/taskdeck/internal/server"
	"github.com/mfigueroa/taskdeck/internal/updater"
)

var (
	infoColor = color.New(color.FgCyan)
	okColor   = color.New(color.FgGreen)
	errColor  = color.New(color.FgRed)
)

func main() {
	flags := flag.NewFlagSet("taskdeck", flag.ExitOnError)
	cfgPath := flags.StringP("config", "c", "", "path to the YAML config file (default ~/.taskdeck/config.yaml)")
	flags.Usage = printUsage

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	_ = flags.Parse(os.Args[2:])

	switch cmd {
	case "serve":
		if err := run(*cfgPath); err != nil {
			errColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "update":
		runUpdate()
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("taskdeck v%s\n", tdserver.Version)
		os.Exit(0)
	default:
		errColor.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func run(cfgPath string) error {
	s, cleanup, err := tdserver.New(cfgPath)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Background version check prints to stderr so it does not
	// interfere with MCP's stdio transport on stdout.
	go checkForUpdates()

	return server.ServeStdio(s)
}

// checkForUpdates runs a non-blocking version check and prints a notice
// to stderr if an update is available. Best-effort: network failures
// are silently ignored.
func checkForUpdates() {
	result := updater.CheckVersion(tdserver.Version)
	if result.UpdateAvailable {
		infoColor.Fprintf(os.Stderr,
			"\n  Update available: v%s -> v%s\n"+
				"  Run: taskdeck update\n"+
				"  Release: %s\n\n",
			result.CurrentVersion, result.LatestVersion, result.ReleaseURL,
		)
	}
}

// runUpdate performs a self-update to the latest version.
func runUpdate() {
	infoColor.Fprintf(os.Stderr, "Checking for updates...\n")

	result := updater.CheckVersion(tdserver.Version)
	if !result.UpdateAvailable {
		okColor.Fprintf(os.Stderr, "Already at the latest version (v%s)\n", result.CurrentVersion)
		return
	}

	infoColor.Fprintf(os.Stderr, "New version available: v%s -> v%s\n", result.CurrentVersion, result.LatestVersion)
	infoColor.Fprintf(os.Stderr, "Downloading...\n")

	if err := updater.SelfUpdate(tdserver.Version); err != nil {
		errColor.Fprintf(os.Stderr, "Update failed: %v\n", err)
		fmt.Fprintf(os.Stderr, "\n   You can download manually from:\n   %s\n", result.ReleaseURL)
		os.Exit(1)
	}

	okColor.Fprintf(os.Stderr, "Updated to v%s!\n", result.LatestVersion)
	fmt.Fprintf(os.Stderr, "   Restart taskdeck to use the new version.\n")
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Taskdeck v%s - workspace file-operation MCP server

Usage:
  taskdeck serve [--config path]   Start the MCP server (stdio transport)
  taskdeck update                  Update to the latest version

Configuration:
  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "taskdeck": {
        "command": "taskdeck",
        "args": ["serve"]
      }
    }
  }

Learn more: https://github.com/mfigueroa/taskdeck
`, tdserver.Version)
}
