package workspace

import (
	"fmt"
	"strings"
)

// --- Change type enum ---

// ChangeType identifies one kind of text edit.
type ChangeType string

const (
	ChangeReplace      ChangeType = "replace"
	ChangeAppend       ChangeType = "append"
	ChangePrepend      ChangeType = "prepend"
	ChangeInsertAtLine ChangeType = "insert_at_line"
)

// Change is a single edit instruction. Which fields are meaningful
// depends on Type:
//
//	replace:        OldContent, NewContent
//	append:         Content
//	prepend:        Content
//	insert_at_line: Line, Content
type Change struct {
	Type       ChangeType `json:"type" mapstructure:"type"`
	OldContent string     `json:"old_content,omitempty" mapstructure:"old_content"`
	NewContent string     `json:"new_content,omitempty" mapstructure:"new_content"`
	Content    string     `json:"content,omitempty" mapstructure:"content"`
	Line       int        `json:"line,omitempty" mapstructure:"line"`
}

// ChangeResult reports what happened to one change instruction.
// Malformed instructions and out-of-range line inserts are skipped
// rather than failed (the historical best-effort contract), but the
// skip is recorded here so callers can tell "applied" from "ignored".
type ChangeResult struct {
	Index   int
	Type    ChangeType
	Applied bool
	Reason  string // set when Applied is false
}

// ApplyChanges applies changes to content strictly in order, each change
// operating on the result of the previous one. It never fails: bad
// instructions turn into skipped ChangeResults and the remaining changes
// still run.
func ApplyChanges(content string, changes []Change) (string, []ChangeResult) {
	results := make([]ChangeResult, 0, len(changes))

	for i, ch := range changes {
		res := ChangeResult{Index: i, Type: ch.Type}

		switch ch.Type {
		case ChangeReplace:
			if ch.OldContent == "" {
				res.Reason = "replace requires old_content"
				break
			}
			if !strings.Contains(content, ch.OldContent) {
				res.Reason = fmt.Sprintf("old_content not found: %.40q", ch.OldContent)
				break
			}
			// First occurrence only. Repeated edits are expressed as
			// repeated replace entries.
			content = strings.Replace(content, ch.OldContent, ch.NewContent, 1)
			res.Applied = true

		case ChangeAppend:
			content += ch.Content
			res.Applied = true

		case ChangePrepend:
			content = ch.Content + content
			res.Applied = true

		case ChangeInsertAtLine:
			lines := strings.Split(content, "\n")
			if ch.Line < 0 || ch.Line > len(lines) {
				res.Reason = fmt.Sprintf("line %d out of range (0-%d)", ch.Line, len(lines))
				break
			}
			lines = append(lines[:ch.Line], append([]string{ch.Content}, lines[ch.Line:]...)...)
			content = strings.Join(lines, "\n")
			res.Applied = true

		default:
			res.Reason = fmt.Sprintf("unknown change type %q", ch.Type)
		}

		results = append(results, res)
	}

	return content, results
}
