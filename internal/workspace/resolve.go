// Package workspace implements the workspace-scoped file-operation engine.
//
// The package is split the same way the data flows: Resolve turns an
// untrusted target path into an absolute one, IsCriticalPath vetoes
// dangerous locations, and Engine performs the actual mutations.
// Callers (the MCP tool handlers) are responsible for invoking the
// resolver and the guard before handing paths to the engine.
package workspace

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrInvalidWorkspaceRoot is returned when the caller-supplied workspace
// root is empty, ".", or does not normalize to an absolute path. There is
// deliberately no fallback to the process working directory: every tool
// call must say which workspace it operates on.
var ErrInvalidWorkspaceRoot = errors.New("invalid workspace root")

// Resolver resolves caller-supplied paths against an explicit workspace root.
type Resolver struct {
	// AllowEscape controls what happens when the target is already an
	// absolute path. When true (the historical behavior), absolute targets
	// are used verbatim even if they point outside the workspace root.
	// When false, absolute targets outside the root are rejected.
	AllowEscape bool
}

// NewResolver returns a Resolver with the permissive historical default.
func NewResolver() *Resolver {
	return &Resolver{AllowEscape: true}
}

// encodedDrive matches a percent-encoded Windows drive prefix such as
// "/c%3A/Users" or "c%3A\Users". Some MCP hosts pass file-URI-style roots
// through without decoding them.
var encodedDrive = regexp.MustCompile(`(?i)^/?([a-z])%3a[/\\]`)

// doubledDrive matches the known double-encoding bug pattern where a drive
// letter got prefixed twice, e.g. "C:\c%3A\Users".
var doubledDrive = regexp.MustCompile(`(?i)^[a-z]:[/\\]([a-z])%3a[/\\]`)

// normalizeRoot repairs percent-encoded Windows drive letters in a
// workspace root. Only the root is normalized; targets are taken as-is.
func normalizeRoot(root string) string {
	if m := doubledDrive.FindStringSubmatch(root); m != nil {
		// Drop the bogus outer drive, keep the encoded inner one.
		idx := strings.Index(strings.ToLower(root), strings.ToLower(m[1])+"%3a")
		root = root[idx:]
	}
	if m := encodedDrive.FindStringSubmatch(root); m != nil {
		rest := root[len(m[0]):]
		if decoded, err := url.PathUnescape(rest); err == nil {
			rest = decoded
		}
		return strings.ToUpper(m[1]) + ":" + string(filepath.Separator) +
			strings.ReplaceAll(rest, "/", string(filepath.Separator))
	}
	return root
}

// isAbs reports whether p is absolute on any platform we care about:
// a rooted Unix path or a Windows drive-letter path. filepath.IsAbs alone
// is OS-dependent and would mis-classify "C:\x" on Linux hosts whose
// agents think in Windows paths.
func isAbs(p string) bool {
	if filepath.IsAbs(p) {
		return true
	}
	if len(p) >= 3 && p[1] == ':' && (p[2] == '\\' || p[2] == '/') {
		c := p[0]
		return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	}
	return false
}

// Resolve turns (workspaceRoot, target) into an absolute path.
//
// The root must be an explicit absolute directory; "" and "." are usage
// errors. Absolute targets are returned unchanged when AllowEscape is set;
// otherwise they must fall inside the root. Relative targets are joined
// onto the root with standard Clean semantics.
func (r *Resolver) Resolve(workspaceRoot, target string) (string, error) {
	root := strings.TrimSpace(workspaceRoot)
	if root == "" || root == "." {
		return "", fmt.Errorf("%w: workspace_root must be an explicit absolute path, got %q", ErrInvalidWorkspaceRoot, workspaceRoot)
	}

	root = normalizeRoot(root)
	if !isAbs(root) {
		return "", fmt.Errorf("%w: %q does not normalize to an absolute path", ErrInvalidWorkspaceRoot, workspaceRoot)
	}

	if isAbs(target) {
		if r.AllowEscape {
			return target, nil
		}
		if !isWithin(root, target) {
			return "", fmt.Errorf("%w: absolute target %q is outside the workspace root", ErrInvalidWorkspaceRoot, target)
		}
		return filepath.Clean(target), nil
	}

	resolved := filepath.Join(root, target)
	// A relative target can still climb out via "..". With confinement
	// on, the joined result must land inside the root too.
	if !r.AllowEscape && !isWithin(root, resolved) {
		return "", fmt.Errorf("%w: target %q resolves outside the workspace root", ErrInvalidWorkspaceRoot, target)
	}
	return resolved, nil
}

// isWithin reports whether path lies inside root (or is root itself).
func isWithin(root, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// maxFilenameLen caps filenames derived from free text.
const maxFilenameLen = 30

// SanitizeFilename derives a filesystem-safe filename from free text.
// Example: "Plan: refactor the auth layer!" → "plan_refactor_the_auth_layer.md"
func SanitizeFilename(text, extension string) string {
	s := strings.ToLower(strings.TrimSpace(text))

	var b strings.Builder
	prevUnderscore := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			prevUnderscore = false
		default:
			if !prevUnderscore {
				b.WriteByte('_')
				prevUnderscore = true
			}
		}
	}

	name := strings.Trim(b.String(), "_")
	if name == "" {
		name = "untitled"
	}
	if len(name) > maxFilenameLen {
		name = strings.Trim(name[:maxFilenameLen], "_")
	}

	if extension != "" && !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}
	return name + extension
}
