// Package batch validates and executes ordered lists of heterogeneous
// file operations against the workspace engine.
//
// Operations arrive from the model as a loosely-typed JSON array. Decode
// turns that blob into the closed Operation set once, up front; after
// that, validation and execution switch exhaustively on OpType instead
// of probing maps for fields.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mfigueroa/taskdeck/internal/workspace"
)

// ErrValidation is returned when the batch fails the up-front check.
// Validation is all-or-nothing: one bad operation rejects the whole
// batch before any I/O happens.
var ErrValidation = errors.New("batch validation failed")

// --- Operation type enum ---

// OpType identifies one kind of batch operation.
type OpType string

const (
	OpCreateFile      OpType = "create_file"
	OpEditFile        OpType = "edit_file"
	OpDeleteFile      OpType = "delete_file"
	OpMoveFile        OpType = "move_file"
	OpCopyFile        OpType = "copy_file"
	OpCreateDirectory OpType = "create_directory"
	OpDeleteDirectory OpType = "delete_directory"
)

// validOps is the closed set of operation types.
var validOps = map[OpType]bool{
	OpCreateFile:      true,
	OpEditFile:        true,
	OpDeleteFile:      true,
	OpMoveFile:        true,
	OpCopyFile:        true,
	OpCreateDirectory: true,
	OpDeleteDirectory: true,
}

// Operation is one entry in a batch. Which fields are meaningful depends
// on Type; Validate enforces the per-type requirements.
type Operation struct {
	Type         OpType             `json:"type" mapstructure:"type"`
	Path         string             `json:"path,omitempty" mapstructure:"path"`
	SourcePath   string             `json:"source_path,omitempty" mapstructure:"source_path"`
	TargetPath   string             `json:"target_path,omitempty" mapstructure:"target_path"`
	Content      string             `json:"content,omitempty" mapstructure:"content"`
	Changes      []workspace.Change `json:"changes,omitempty" mapstructure:"changes"`
	Overwrite    bool               `json:"overwrite,omitempty" mapstructure:"overwrite"`
	Recursive    bool               `json:"recursive,omitempty" mapstructure:"recursive"`
	CreateBackup bool               `json:"create_backup,omitempty" mapstructure:"create_backup"`
}

// Result reports the outcome of one operation in a batch.
type Result struct {
	Index   int    `json:"index"`
	Type    OpType `json:"type"`
	Status  string `json:"status"` // success | error | skipped | preview
	Message string `json:"message"`
}

// Executor runs batches against the engine. Operations execute strictly
// in array order, one at a time; later operations may depend on the
// filesystem state left by earlier ones.
type Executor struct {
	engine   *workspace.Engine
	resolver *workspace.Resolver
	guard    *workspace.Guard
}

// NewExecutor creates an Executor over the given engine, resolver, and guard.
func NewExecutor(engine *workspace.Engine, resolver *workspace.Resolver, guard *workspace.Guard) *Executor {
	return &Executor{engine: engine, resolver: resolver, guard: guard}
}

// paths returns the filesystem paths an operation touches, in
// (primary, secondary) order. Secondary is empty for single-path ops.
func (op *Operation) paths() (string, string) {
	switch op.Type {
	case OpMoveFile, OpCopyFile:
		return op.SourcePath, op.TargetPath
	default:
		return op.Path, ""
	}
}

// validate checks one operation's required fields.
func (op *Operation) validate(index int) error {
	if !validOps[op.Type] {
		return fmt.Errorf("operation %d: unknown type %q", index, op.Type)
	}

	switch op.Type {
	case OpMoveFile, OpCopyFile:
		if op.SourcePath == "" {
			return fmt.Errorf("operation %d (%s): source_path is required", index, op.Type)
		}
		if op.TargetPath == "" {
			return fmt.Errorf("operation %d (%s): target_path is required", index, op.Type)
		}
	case OpEditFile:
		if op.Path == "" {
			return fmt.Errorf("operation %d (%s): path is required", index, op.Type)
		}
		if len(op.Changes) == 0 {
			return fmt.Errorf("operation %d (%s): changes must not be empty", index, op.Type)
		}
	default:
		if op.Path == "" {
			return fmt.Errorf("operation %d (%s): path is required", index, op.Type)
		}
	}
	return nil
}

// Validate checks every operation up front: type and required fields,
// workspace-root resolution, and the critical-path guard on every source
// and destination. The first problem rejects the entire batch.
func (x *Executor) Validate(ops []Operation, workspaceRoot string) error {
	if len(ops) == 0 {
		return fmt.Errorf("%w: operations array is empty", ErrValidation)
	}

	for i, op := range ops {
		if err := op.validate(i); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		primary, secondary := op.paths()
		for _, p := range []string{primary, secondary} {
			if p == "" {
				continue
			}
			abs, err := x.resolver.Resolve(workspaceRoot, p)
			if err != nil {
				return fmt.Errorf("%w: operation %d: %v", ErrValidation, i, err)
			}
			if x.guard.IsCritical(abs) {
				return fmt.Errorf("%w: operation %d: %v: %s", ErrValidation, i, workspace.ErrCriticalPath, abs)
			}
		}
	}
	return nil
}

// Run validates and executes a batch. With dryRun, every operation is
// previewed and nothing is mutated. Otherwise operations run in order;
// an error either halts the batch or, with continueOnError, is recorded
// and execution moves on. The returned error is non-nil only for
// validation failures; per-operation outcomes live in the results.
func (x *Executor) Run(ctx context.Context, ops []Operation, workspaceRoot string, dryRun, continueOnError bool) ([]Result, error) {
	if err := x.Validate(ops, workspaceRoot); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(ops))
	for i, op := range ops {
		if err := ctx.Err(); err != nil {
			results = append(results, Result{Index: i, Type: op.Type, Status: "skipped", Message: "batch canceled"})
			break
		}

		if dryRun {
			results = append(results, Result{
				Index:   i,
				Type:    op.Type,
				Status:  "preview",
				Message: x.preview(op, workspaceRoot),
			})
			continue
		}

		msg, err := x.execute(op, workspaceRoot)
		if err != nil {
			results = append(results, Result{Index: i, Type: op.Type, Status: "error", Message: err.Error()})
			if !continueOnError {
				// The unattempted tail still shows up in the results so
				// callers can see exactly which operations never ran.
				for j := i + 1; j < len(ops); j++ {
					results = append(results, Result{Index: j, Type: ops[j].Type, Status: "skipped", Message: "not attempted: earlier operation failed"})
				}
				break
			}
			continue
		}
		results = append(results, Result{Index: i, Type: op.Type, Status: "success", Message: msg})
	}
	return results, nil
}

// Succeeded reports whether every attempted operation in results
// succeeded (previews count as success for dry runs).
func Succeeded(results []Result) bool {
	for _, r := range results {
		if r.Status == "error" {
			return false
		}
	}
	return true
}

// execute runs a single operation and returns its success message.
func (x *Executor) execute(op Operation, workspaceRoot string) (string, error) {
	primary, secondary := op.paths()

	abs, err := x.resolver.Resolve(workspaceRoot, primary)
	if err != nil {
		return "", err
	}
	var absTarget string
	if secondary != "" {
		if absTarget, err = x.resolver.Resolve(workspaceRoot, secondary); err != nil {
			return "", err
		}
	}

	if op.CreateBackup {
		switch op.Type {
		case OpEditFile, OpDeleteFile, OpMoveFile:
			if _, err := x.engine.Backup(abs); err != nil {
				return "", err
			}
		}
	}

	switch op.Type {
	case OpCreateFile:
		if err := x.engine.CreateFile(abs, op.Content, op.Overwrite); err != nil {
			return "", err
		}
		return fmt.Sprintf("Created file %s", abs), nil

	case OpEditFile:
		results, err := x.engine.EditFile(abs, op.Changes)
		if err != nil {
			return "", err
		}
		applied, skipped := 0, 0
		for _, r := range results {
			if r.Applied {
				applied++
			} else {
				skipped++
			}
		}
		if skipped > 0 {
			return fmt.Sprintf("Edited %s: %d change(s) applied, %d skipped", abs, applied, skipped), nil
		}
		return fmt.Sprintf("Edited %s: %d change(s) applied", abs, applied), nil

	case OpDeleteFile:
		removed, err := x.engine.DeleteFile(abs)
		if err != nil {
			return "", err
		}
		if !removed {
			return fmt.Sprintf("File %s does not exist; nothing to delete", abs), nil
		}
		return fmt.Sprintf("Deleted file %s", abs), nil

	case OpMoveFile:
		if err := x.engine.MoveFile(abs, absTarget, op.Overwrite); err != nil {
			return "", err
		}
		return fmt.Sprintf("Moved %s to %s", abs, absTarget), nil

	case OpCopyFile:
		if err := x.engine.CopyFile(abs, absTarget, op.Overwrite); err != nil {
			return "", err
		}
		return fmt.Sprintf("Copied %s to %s", abs, absTarget), nil

	case OpCreateDirectory:
		if err := x.engine.CreateDirectory(abs, op.Recursive); err != nil {
			return "", err
		}
		return fmt.Sprintf("Created directory %s", abs), nil

	case OpDeleteDirectory:
		msg, err := x.engine.DeleteDirectory(abs, op.Recursive, false)
		if err != nil {
			return "", err
		}
		return msg, nil
	}

	return "", fmt.Errorf("unknown operation type %q", op.Type)
}

// preview describes what an operation would do, including whether an
// existing target would be overwritten.
func (x *Executor) preview(op Operation, workspaceRoot string) string {
	primary, secondary := op.paths()
	abs, _ := x.resolver.Resolve(workspaceRoot, primary)
	var absTarget string
	if secondary != "" {
		absTarget, _ = x.resolver.Resolve(workspaceRoot, secondary)
	}

	var b strings.Builder
	switch op.Type {
	case OpCreateFile:
		fmt.Fprintf(&b, "Would create file %s (%d bytes)", abs, len(op.Content))
		if exists(abs) {
			if op.Overwrite {
				b.WriteString(", overwriting the existing file")
			} else {
				b.WriteString(". WOULD FAIL: file exists and overwrite is not set")
			}
		}
	case OpEditFile:
		fmt.Fprintf(&b, "Would apply %d change(s) to %s", len(op.Changes), abs)
		if !exists(abs) {
			b.WriteString(". WOULD FAIL: file does not exist")
		}
	case OpDeleteFile:
		if exists(abs) {
			fmt.Fprintf(&b, "Would delete file %s", abs)
		} else {
			fmt.Fprintf(&b, "File %s does not exist; delete would be a no-op", abs)
		}
	case OpMoveFile, OpCopyFile:
		verb := "move"
		if op.Type == OpCopyFile {
			verb = "copy"
		}
		fmt.Fprintf(&b, "Would %s %s to %s", verb, abs, absTarget)
		if !exists(abs) {
			b.WriteString(". WOULD FAIL: source does not exist")
		} else if exists(absTarget) {
			if op.Overwrite {
				b.WriteString(", overwriting the existing target")
			} else {
				b.WriteString(". WOULD FAIL: target exists and overwrite is not set")
			}
		}
	case OpCreateDirectory:
		fmt.Fprintf(&b, "Would create directory %s", abs)
		if op.Recursive {
			b.WriteString(" (with parents)")
		}
	case OpDeleteDirectory:
		msg, err := x.engine.DeleteDirectory(abs, op.Recursive, true)
		if err != nil {
			return fmt.Sprintf("Delete of directory %s would fail: %v", abs, err)
		}
		return msg
	}
	return b.String()
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
