package workspace

import (
	"errors"
	"path"
	"strings"
)

// ErrCriticalPath is returned when an operation targets a path on the
// denylist. The check is best-effort pattern matching, not a security
// boundary; it exists to stop an agent from casually trashing system
// directories, VCS metadata, or secrets.
var ErrCriticalPath = errors.New("critical path denied")

// criticalDirs are directory prefixes (normalized to forward slashes,
// lowercase) that no destructive operation may touch.
var criticalDirs = []string{
	// Unix system directories
	"/etc/",
	"/bin/",
	"/sbin/",
	"/boot/",
	"/proc/",
	"/sys/",
	"/dev/",
	"/var/log/",
	"/var/spool/",
	// Windows system directories
	"c:/windows/",
	"c:/program files/",
	"c:/program files (x86)/",
	// VCS metadata
	".git/",
	".github/",
	// Dependency trees
	"node_modules/",
}

// criticalSubstrings are matched anywhere in the normalized path.
var criticalSubstrings = []string{
	"c:/system",
	"/appdata/",
}

// criticalBasenames are exact final-component matches.
var criticalBasenames = []string{
	"package-lock.json",
	"yarn.lock",
	".env",
	"authorized_keys",
	"id_rsa",
	".git",
	".github",
	"node_modules",
}

// criticalExtensions are file extensions that usually hold key material.
var criticalExtensions = []string{
	".pem",
}

// Guard classifies paths as critical. The zero value uses only the
// built-in denylist; Extra adds caller-configured patterns, matched as
// substrings against the normalized path.
type Guard struct {
	Extra []string
}

// IsCriticalPath reports whether p matches the built-in denylist.
// Matching is case-insensitive and separator-agnostic.
func IsCriticalPath(p string) bool {
	return (&Guard{}).IsCritical(p)
}

// IsCritical reports whether p matches the denylist or any Extra pattern.
func (g *Guard) IsCritical(p string) bool {
	norm := strings.ToLower(strings.ReplaceAll(p, "\\", "/"))
	// Trailing slash so prefix patterns also match the directory itself.
	withSlash := norm
	if !strings.HasSuffix(withSlash, "/") {
		withSlash += "/"
	}

	for _, dir := range criticalDirs {
		if strings.HasPrefix(withSlash, dir) || strings.Contains(norm, "/"+dir) {
			return true
		}
	}
	for _, sub := range criticalSubstrings {
		if strings.Contains(withSlash, sub) {
			return true
		}
	}
	base := path.Base(norm)
	for _, name := range criticalBasenames {
		if base == name {
			return true
		}
	}
	for _, ext := range criticalExtensions {
		if strings.HasSuffix(norm, ext) {
			return true
		}
	}
	for _, extra := range g.Extra {
		if extra == "" {
			continue
		}
		if strings.Contains(norm, strings.ToLower(strings.ReplaceAll(extra, "\\", "/"))) {
			return true
		}
	}
	return false
}
