package workspace

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Sentinel errors for the file-operation primitives. Tool handlers match
// on these to build their user-facing "Error: ..." messages.
var (
	ErrAlreadyExists  = errors.New("already exists")
	ErrNotFound       = errors.New("not found")
	ErrSourceNotFound = errors.New("source not found")
	ErrNotEmpty       = errors.New("directory not empty")
	ErrBackupFailed   = errors.New("backup failed")
)

// BackupSuffix is appended to a file's path to form its backup sibling.
const BackupSuffix = ".bak"

// Engine performs file and directory primitives on already-resolved
// absolute paths. It does not resolve or guard paths itself; callers run
// Resolver and Guard first. All methods are synchronous; a returned nil
// error means the mutation is fully on disk.
type Engine struct {
	log *slog.Logger
}

// NewEngine creates an Engine logging through logger. A nil logger
// disables logging.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{log: logger}
}

// CreateFile writes content to path, creating parent directories as
// needed. An existing file is an error unless overwrite is set.
func (e *Engine) CreateFile(path, content string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("file %s %w (pass overwrite to replace it)", path, ErrAlreadyExists)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating parent directories for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	e.log.Info("file created", "path", path, "bytes", len(content))
	return nil
}

// ReadFile returns the content of path.
func (e *Engine) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file %s %w", path, ErrNotFound)
		}
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// EditFile reads path once, applies changes in order via ApplyChanges,
// and writes the result back in a single write. Skipped changes are
// reported in the results, never as an error.
func (e *Engine) EditFile(path string, changes []Change) ([]ChangeResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file %s %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	updated, results := ApplyChanges(string(data), changes)

	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}

	applied := 0
	for _, r := range results {
		if r.Applied {
			applied++
		}
	}
	e.log.Info("file edited", "path", path, "applied", applied, "skipped", len(results)-applied)
	return results, nil
}

// DeleteFile removes path. A missing file is a no-op success: "nothing
// to do" is distinct from failure.
func (e *Engine) DeleteFile(path string) (bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}
	if err := os.Remove(path); err != nil {
		return false, fmt.Errorf("deleting %s: %w", path, err)
	}
	e.log.Info("file deleted", "path", path)
	return true, nil
}

// MoveFile renames from to to, creating destination parents as needed.
// The rename is atomic where the filesystem allows; a cross-device move
// falls back to copy-then-delete.
func (e *Engine) MoveFile(from, to string, overwrite bool) error {
	if _, err := os.Stat(from); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrSourceNotFound, from)
	}
	if _, err := os.Stat(to); err == nil && !overwrite {
		return fmt.Errorf("target %s %w (pass overwrite to replace it)", to, ErrAlreadyExists)
	}
	if err := os.MkdirAll(filepath.Dir(to), 0o755); err != nil {
		return fmt.Errorf("creating parent directories for %s: %w", to, err)
	}
	if err := os.Rename(from, to); err != nil {
		if err := copyContents(from, to); err != nil {
			return fmt.Errorf("moving %s to %s: %w", from, to, err)
		}
		if err := os.Remove(from); err != nil {
			return fmt.Errorf("removing source %s after copy: %w", from, err)
		}
	}
	e.log.Info("file moved", "from", from, "to", to)
	return nil
}

// CopyFile copies from to to with the same existence and overwrite rules
// as MoveFile, leaving the source intact.
func (e *Engine) CopyFile(from, to string, overwrite bool) error {
	if _, err := os.Stat(from); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrSourceNotFound, from)
	}
	if _, err := os.Stat(to); err == nil && !overwrite {
		return fmt.Errorf("target %s %w (pass overwrite to replace it)", to, ErrAlreadyExists)
	}
	if err := os.MkdirAll(filepath.Dir(to), 0o755); err != nil {
		return fmt.Errorf("creating parent directories for %s: %w", to, err)
	}
	if err := copyContents(from, to); err != nil {
		return fmt.Errorf("copying %s to %s: %w", from, to, err)
	}
	e.log.Info("file copied", "from", from, "to", to)
	return nil
}

// copyContents copies a single file byte-for-byte, preserving the
// source's mode bits.
func copyContents(from, to string) error {
	src, err := os.Open(from)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	info, err := src.Stat()
	if err != nil {
		return err
	}

	dst, err := os.OpenFile(to, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}

// CreateDirectory creates path. An existing directory is a no-op success.
// Without recursive, a missing parent is an error.
func (e *Engine) CreateDirectory(path string, recursive bool) error {
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return nil
		}
		return fmt.Errorf("%s %w as a file", path, ErrAlreadyExists)
	}
	var err error
	if recursive {
		err = os.MkdirAll(path, 0o755)
	} else {
		err = os.Mkdir(path, 0o755)
	}
	if err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	e.log.Info("directory created", "path", path, "recursive", recursive)
	return nil
}

// Listing is the result of ListDirectory: directories and files split
// out, each alphabetically sorted.
type Listing struct {
	Directories []string
	Files       []FileEntry
}

// FileEntry is one file in a Listing with its human-readable size.
type FileEntry struct {
	Name string
	Size string
}

// ListDirectory lists path. Dotfiles are excluded unless includeHidden.
func (e *Engine) ListDirectory(path string, includeHidden bool) (*Listing, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("directory %s %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("listing %s: %w", path, err)
	}

	listing := &Listing{}
	for _, entry := range entries {
		name := entry.Name()
		if !includeHidden && strings.HasPrefix(name, ".") {
			continue
		}
		if entry.IsDir() {
			listing.Directories = append(listing.Directories, name)
			continue
		}
		size := ""
		if info, err := entry.Info(); err == nil {
			size = HumanSize(info.Size())
		}
		listing.Files = append(listing.Files, FileEntry{Name: name, Size: size})
	}

	sort.Strings(listing.Directories)
	sort.Slice(listing.Files, func(i, j int) bool {
		return listing.Files[i].Name < listing.Files[j].Name
	})
	return listing, nil
}

// DeleteDirectory removes path. Non-empty directories require recursive.
// With dryRun, a preview string describes what would happen and nothing
// is touched.
func (e *Engine) DeleteDirectory(path string, recursive, dryRun bool) (string, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("directory %s %w", path, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("inspecting %s: %w", path, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return "", fmt.Errorf("inspecting %s: %w", path, err)
	}

	if dryRun {
		if len(entries) > 0 && !recursive {
			return fmt.Sprintf("Dry run: deleting %s would fail: directory contains %d entries and recursive is not set", path, len(entries)), nil
		}
		if recursive {
			return fmt.Sprintf("Dry run: would recursively delete %s (%d direct entries)", path, len(entries)), nil
		}
		return fmt.Sprintf("Dry run: would delete empty directory %s", path), nil
	}

	if len(entries) > 0 && !recursive {
		return "", fmt.Errorf("%w: %s contains %d entries (pass recursive to delete anyway)", ErrNotEmpty, path, len(entries))
	}

	if recursive {
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}
	if err != nil {
		return "", fmt.Errorf("deleting directory %s: %w", path, err)
	}
	e.log.Info("directory deleted", "path", path, "recursive", recursive)
	return fmt.Sprintf("Deleted directory %s", path), nil
}

// Backup writes the current content of path to its .bak sibling,
// overwriting any prior backup. A missing original is a no-op (there is
// nothing to protect). A failed backup write must abort the owning
// operation, so it is returned as ErrBackupFailed.
func (e *Engine) Backup(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("%w: reading %s: %v", ErrBackupFailed, path, err)
	}
	backupPath := path + BackupSuffix
	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: writing %s: %v", ErrBackupFailed, backupPath, err)
	}
	e.log.Info("backup written", "path", backupPath)
	return backupPath, nil
}

// HumanSize renders a byte count as B, KB, or MB with one decimal place
// and a 1024 threshold.
func HumanSize(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}
