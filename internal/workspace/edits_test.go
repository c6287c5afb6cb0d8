package workspace

import (
	"strings"
	"testing"
)

func TestApplyChanges_ReplaceFirstOccurrenceOnly(t *testing.T) {
	got, results := ApplyChanges("aa", []Change{
		{Type: ChangeReplace, OldContent: "a", NewContent: "b"},
	})
	if got != "ba" {
		t.Errorf("content = %q, want %q", got, "ba")
	}
	if len(results) != 1 || !results[0].Applied {
		t.Errorf("expected one applied result, got %+v", results)
	}
}

func TestApplyChanges_RepeatedReplaceEntries(t *testing.T) {
	// Multiple occurrences are edited with multiple replace entries.
	got, _ := ApplyChanges("aaa", []Change{
		{Type: ChangeReplace, OldContent: "a", NewContent: "b"},
		{Type: ChangeReplace, OldContent: "a", NewContent: "b"},
	})
	if got != "bba" {
		t.Errorf("content = %q, want %q", got, "bba")
	}
}

func TestApplyChanges_OrderMatters(t *testing.T) {
	// Each change operates on the result of the previous one.
	got, _ := ApplyChanges("start", []Change{
		{Type: ChangeAppend, Content: "-mid"},
		{Type: ChangeReplace, OldContent: "start-mid", NewContent: "done"},
	})
	if got != "done" {
		t.Errorf("content = %q, want %q", got, "done")
	}
}

func TestApplyChanges_AppendPrepend(t *testing.T) {
	got, _ := ApplyChanges("body", []Change{
		{Type: ChangePrepend, Content: "head\n"},
		{Type: ChangeAppend, Content: "\ntail"},
	})
	if got != "head\nbody\ntail" {
		t.Errorf("content = %q", got)
	}
}

func TestApplyChanges_InsertAtLine(t *testing.T) {
	content := "one\ntwo\nthree"

	got, _ := ApplyChanges(content, []Change{
		{Type: ChangeInsertAtLine, Line: 1, Content: "inserted"},
	})
	if got != "one\ninserted\ntwo\nthree" {
		t.Errorf("insert at 1 = %q", got)
	}

	got, _ = ApplyChanges(content, []Change{
		{Type: ChangeInsertAtLine, Line: 0, Content: "first"},
	})
	if !strings.HasPrefix(got, "first\n") {
		t.Errorf("insert at 0 = %q", got)
	}

	got, _ = ApplyChanges(content, []Change{
		{Type: ChangeInsertAtLine, Line: 3, Content: "last"},
	})
	if !strings.HasSuffix(got, "\nlast") {
		t.Errorf("insert at line count = %q", got)
	}
}

func TestApplyChanges_InsertAtLineOutOfRange(t *testing.T) {
	content := "one\ntwo\nthree"

	got, results := ApplyChanges(content, []Change{
		{Type: ChangeInsertAtLine, Line: 100, Content: "nope"},
	})
	if got != content {
		t.Errorf("out-of-range insert must leave content unchanged, got %q", got)
	}
	if len(results) != 1 || results[0].Applied {
		t.Fatalf("expected a skipped result, got %+v", results)
	}
	if results[0].Reason == "" {
		t.Error("skipped result should carry a reason")
	}
}

func TestApplyChanges_MalformedChangeIsSkippedNotFailed(t *testing.T) {
	got, results := ApplyChanges("content", []Change{
		{Type: ChangeReplace}, // missing old_content
		{Type: "explode"},     // unknown type
		{Type: ChangeAppend, Content: "!"},
	})
	if got != "content!" {
		t.Errorf("later changes must still run, got %q", got)
	}
	if results[0].Applied || results[1].Applied {
		t.Error("malformed changes must be recorded as skipped")
	}
	if !results[2].Applied {
		t.Error("valid trailing change must apply")
	}
}

func TestApplyChanges_ReplaceMissingOldContent(t *testing.T) {
	got, results := ApplyChanges("hello", []Change{
		{Type: ChangeReplace, OldContent: "absent", NewContent: "x"},
	})
	if got != "hello" {
		t.Errorf("content = %q, want unchanged", got)
	}
	if results[0].Applied {
		t.Error("replace of missing text should be skipped")
	}
}
