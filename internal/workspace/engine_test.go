package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestEngine() *Engine {
	return NewEngine(nil)
}

func TestEngine_CreateFileRoundTrip(t *testing.T) {
	e := newTestEngine()
	p := filepath.Join(t.TempDir(), "nested", "notes.md")

	if err := e.CreateFile(p, "hello", false); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}

	got, err := e.ReadFile(p)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got != "hello" {
		t.Errorf("content = %q, want %q", got, "hello")
	}
}

func TestEngine_CreateFileRefusesOverwrite(t *testing.T) {
	e := newTestEngine()
	p := filepath.Join(t.TempDir(), "f.txt")

	if err := e.CreateFile(p, "v1", false); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	if err := e.CreateFile(p, "v2", false); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("second create error = %v, want ErrAlreadyExists", err)
	}
	if err := e.CreateFile(p, "v2", true); err != nil {
		t.Fatalf("overwrite create: %v", err)
	}
	if got, _ := e.ReadFile(p); got != "v2" {
		t.Errorf("content after overwrite = %q", got)
	}
}

func TestEngine_ReadFileNotFound(t *testing.T) {
	e := newTestEngine()
	_, err := e.ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestEngine_EditFile(t *testing.T) {
	e := newTestEngine()
	p := filepath.Join(t.TempDir(), "f.txt")
	if err := e.CreateFile(p, "aa", false); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}

	results, err := e.EditFile(p, []Change{
		{Type: ChangeReplace, OldContent: "a", NewContent: "b"},
	})
	if err != nil {
		t.Fatalf("EditFile: %v", err)
	}
	if len(results) != 1 || !results[0].Applied {
		t.Errorf("results = %+v", results)
	}
	if got, _ := e.ReadFile(p); got != "ba" {
		t.Errorf("content = %q, want %q", got, "ba")
	}
}

func TestEngine_EditFileMissing(t *testing.T) {
	e := newTestEngine()
	_, err := e.EditFile(filepath.Join(t.TempDir(), "missing.txt"), []Change{
		{Type: ChangeAppend, Content: "x"},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestEngine_DeleteFileIdempotent(t *testing.T) {
	e := newTestEngine()
	p := filepath.Join(t.TempDir(), "f.txt")

	removed, err := e.DeleteFile(p)
	if err != nil {
		t.Fatalf("delete of missing file must not error: %v", err)
	}
	if removed {
		t.Error("removed should be false for a missing file")
	}

	if err := e.CreateFile(p, "x", false); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	removed, err = e.DeleteFile(p)
	if err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	if !removed {
		t.Error("removed should be true for an existing file")
	}
}

func TestEngine_MoveFile(t *testing.T) {
	e := newTestEngine()
	dir := t.TempDir()
	from := filepath.Join(dir, "a.txt")
	to := filepath.Join(dir, "sub", "b.txt")

	if err := e.CreateFile(from, "payload", false); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	if err := e.MoveFile(from, to, false); err != nil {
		t.Fatalf("MoveFile: %v", err)
	}

	if _, err := os.Stat(from); !os.IsNotExist(err) {
		t.Error("source should no longer exist after move")
	}
	if got, _ := e.ReadFile(to); got != "payload" {
		t.Errorf("moved content = %q", got)
	}
}

func TestEngine_MoveFileErrors(t *testing.T) {
	e := newTestEngine()
	dir := t.TempDir()
	from := filepath.Join(dir, "a.txt")
	to := filepath.Join(dir, "b.txt")

	if err := e.MoveFile(from, to, false); !errors.Is(err, ErrSourceNotFound) {
		t.Errorf("missing source error = %v, want ErrSourceNotFound", err)
	}

	if err := e.CreateFile(from, "1", false); err != nil {
		t.Fatal(err)
	}
	if err := e.CreateFile(to, "2", false); err != nil {
		t.Fatal(err)
	}
	if err := e.MoveFile(from, to, false); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("existing target error = %v, want ErrAlreadyExists", err)
	}
	if err := e.MoveFile(from, to, true); err != nil {
		t.Fatalf("overwrite move: %v", err)
	}
	if got, _ := e.ReadFile(to); got != "1" {
		t.Errorf("content after overwrite move = %q", got)
	}
}

func TestEngine_MoveThenCopyComposes(t *testing.T) {
	e := newTestEngine()
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	c := filepath.Join(dir, "c.txt")

	if err := e.CreateFile(a, "original", false); err != nil {
		t.Fatal(err)
	}
	if err := e.MoveFile(a, b, false); err != nil {
		t.Fatalf("MoveFile: %v", err)
	}
	if err := e.CopyFile(b, c, false); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}

	if got, _ := e.ReadFile(c); got != "original" {
		t.Errorf("final content = %q, want original", got)
	}
	if _, err := os.Stat(a); !os.IsNotExist(err) {
		t.Error("original source must not exist after move")
	}
	if got, _ := e.ReadFile(b); got != "original" {
		t.Error("copy must leave its source intact")
	}
}

func TestEngine_CreateDirectory(t *testing.T) {
	e := newTestEngine()
	dir := t.TempDir()

	// Plain create.
	p := filepath.Join(dir, "d1")
	if err := e.CreateDirectory(p, false); err != nil {
		t.Fatalf("CreateDirectory: %v", err)
	}
	// Existing directory is a no-op success.
	if err := e.CreateDirectory(p, false); err != nil {
		t.Errorf("existing directory should be a no-op: %v", err)
	}
	// Missing parent without recursive fails.
	if err := e.CreateDirectory(filepath.Join(dir, "x", "y"), false); err == nil {
		t.Error("missing parent without recursive should fail")
	}
	// Recursive create.
	if err := e.CreateDirectory(filepath.Join(dir, "x", "y"), true); err != nil {
		t.Fatalf("recursive create: %v", err)
	}
}

func TestEngine_ListDirectory(t *testing.T) {
	e := newTestEngine()
	dir := t.TempDir()

	for _, name := range []string{"zeta.txt", "alpha.txt", ".hidden"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	for _, name := range []string{"bdir", "adir", ".hiddendir"} {
		if err := os.Mkdir(filepath.Join(dir, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	listing, err := e.ListDirectory(dir, false)
	if err != nil {
		t.Fatalf("ListDirectory: %v", err)
	}

	wantDirs := []string{"adir", "bdir"}
	if len(listing.Directories) != len(wantDirs) {
		t.Fatalf("directories = %v, want %v", listing.Directories, wantDirs)
	}
	for i, d := range wantDirs {
		if listing.Directories[i] != d {
			t.Errorf("directories[%d] = %q, want %q (alpha order)", i, listing.Directories[i], d)
		}
	}

	if len(listing.Files) != 2 || listing.Files[0].Name != "alpha.txt" || listing.Files[1].Name != "zeta.txt" {
		t.Errorf("files = %+v, want alpha.txt then zeta.txt", listing.Files)
	}
	if listing.Files[0].Size != "1 B" {
		t.Errorf("size annotation = %q, want \"1 B\"", listing.Files[0].Size)
	}

	withHidden, err := e.ListDirectory(dir, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(withHidden.Files) != 3 || len(withHidden.Directories) != 3 {
		t.Errorf("include_hidden listing = %d dirs, %d files", len(withHidden.Directories), len(withHidden.Files))
	}
}

func TestEngine_ListDirectoryMissing(t *testing.T) {
	e := newTestEngine()
	if _, err := e.ListDirectory(filepath.Join(t.TempDir(), "nope"), false); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestEngine_DeleteDirectory(t *testing.T) {
	e := newTestEngine()
	dir := t.TempDir()
	p := filepath.Join(dir, "d")
	if err := os.MkdirAll(filepath.Join(p, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	// Non-empty without recursive fails.
	if _, err := e.DeleteDirectory(p, false, false); !errors.Is(err, ErrNotEmpty) {
		t.Errorf("error = %v, want ErrNotEmpty", err)
	}

	// Dry run on the same shape previews the failure and mutates nothing.
	preview, err := e.DeleteDirectory(p, false, true)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if !strings.Contains(preview, "would fail") {
		t.Errorf("preview = %q, want a 'would fail' notice", preview)
	}
	if listing, err := e.ListDirectory(p, false); err != nil || len(listing.Directories) != 1 {
		t.Error("dry run must not mutate the directory")
	}

	// Recursive dry run previews without deleting.
	preview, err = e.DeleteDirectory(p, true, true)
	if err != nil {
		t.Fatalf("recursive dry run: %v", err)
	}
	if !strings.Contains(preview, "would recursively delete") {
		t.Errorf("preview = %q", preview)
	}
	if _, err := os.Stat(p); err != nil {
		t.Error("recursive dry run must not delete")
	}

	// Real recursive delete.
	if _, err := e.DeleteDirectory(p, true, false); err != nil {
		t.Fatalf("recursive delete: %v", err)
	}
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		t.Error("directory should be gone")
	}

	if _, err := e.DeleteDirectory(p, false, false); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleting missing directory error = %v, want ErrNotFound", err)
	}
}

func TestEngine_Backup(t *testing.T) {
	e := newTestEngine()
	dir := t.TempDir()
	p := filepath.Join(dir, "f.txt")
	if err := e.CreateFile(p, "original", false); err != nil {
		t.Fatal(err)
	}

	backupPath, err := e.Backup(p)
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if backupPath != p+BackupSuffix {
		t.Errorf("backup path = %q", backupPath)
	}
	if got, _ := e.ReadFile(backupPath); got != "original" {
		t.Errorf("backup content = %q", got)
	}

	// A second backup overwrites the first.
	if err := e.CreateFile(p, "updated", true); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Backup(p); err != nil {
		t.Fatal(err)
	}
	if got, _ := e.ReadFile(backupPath); got != "updated" {
		t.Errorf("second backup content = %q", got)
	}

	// Backing up a missing file is a no-op.
	bp, err := e.Backup(filepath.Join(dir, "missing.txt"))
	if err != nil || bp != "" {
		t.Errorf("backup of missing file = (%q, %v), want no-op", bp, err)
	}
}

func TestHumanSize(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1024 * 1024, "1.0 MB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tc := range cases {
		if got := HumanSize(tc.n); got != tc.want {
			t.Errorf("HumanSize(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}
