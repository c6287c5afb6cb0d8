package project

import (
	"testing"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := New(Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestRegistry_SetGet(t *testing.T) {
	r := newTestRegistry(t)

	if err := r.Set("demo", "/ws/demo", map[string]string{"lang": "go"}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	entry, err := r.Get("demo")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if entry == nil {
		t.Fatal("entry should exist")
	}
	if entry.Path != "/ws/demo" || entry.Metadata["lang"] != "go" {
		t.Errorf("entry = %+v", entry)
	}
	if entry.UpdatedAt == "" {
		t.Error("UpdatedAt should be set")
	}
}

func TestRegistry_GetMissing(t *testing.T) {
	r := newTestRegistry(t)

	entry, err := r.Get("nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if entry != nil {
		t.Errorf("missing project should return nil, got %+v", entry)
	}
}

func TestRegistry_SetUpsertsLastWriterWins(t *testing.T) {
	r := newTestRegistry(t)

	if err := r.Set("demo", "/old", nil); err != nil {
		t.Fatal(err)
	}
	if err := r.Set("demo", "/new", nil); err != nil {
		t.Fatal(err)
	}

	entry, _ := r.Get("demo")
	if entry.Path != "/new" {
		t.Errorf("path = %q, want /new", entry.Path)
	}

	entries, err := r.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("upsert should not duplicate, got %d entries", len(entries))
	}
}

func TestRegistry_Current(t *testing.T) {
	r := newTestRegistry(t)

	// No current project initially.
	cur, err := r.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if cur != nil {
		t.Errorf("current should be nil initially, got %+v", cur)
	}

	// Cannot point at an unregistered project.
	if err := r.SetCurrent("ghost"); err == nil {
		t.Error("SetCurrent of unregistered project should fail")
	}

	if err := r.Set("a", "/ws/a", nil); err != nil {
		t.Fatal(err)
	}
	if err := r.Set("b", "/ws/b", nil); err != nil {
		t.Fatal(err)
	}
	if err := r.SetCurrent("a"); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}
	if err := r.SetCurrent("b"); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}

	cur, err = r.Current()
	if err != nil {
		t.Fatal(err)
	}
	if cur == nil || cur.Name != "b" {
		t.Errorf("current = %+v, want b (last writer wins)", cur)
	}
}

func TestRegistry_List(t *testing.T) {
	r := newTestRegistry(t)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := r.Set(name, "/ws/"+name, nil); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := r.List()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if len(entries) != len(want) {
		t.Fatalf("len = %d, want %d", len(entries), len(want))
	}
	for i, name := range want {
		if entries[i].Name != name {
			t.Errorf("entries[%d].Name = %q, want %q (name order)", i, entries[i].Name, name)
		}
	}
}

func TestRegistry_RejectsEmptyName(t *testing.T) {
	r := newTestRegistry(t)
	if err := r.Set("  ", "/ws", nil); err == nil {
		t.Error("empty name should be rejected")
	}
}

func TestIsToolDirectory(t *testing.T) {
	orig := toolDir
	defer func() { toolDir = orig }()
	toolDir = "/opt/taskdeck"

	cases := []struct {
		path string
		want bool
	}{
		{"/opt/taskdeck", true},
		{"/opt/taskdeck/taskdeck", true},
		{"/opt/taskdeck/sub/file", true},
		{"/opt/other", false},
		{"/opt/taskdeck-sibling/x", false},
		{"/home/dev/project", false},
	}
	for _, tc := range cases {
		if got := IsToolDirectory(tc.path); got != tc.want {
			t.Errorf("IsToolDirectory(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}
