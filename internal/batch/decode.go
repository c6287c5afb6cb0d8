package batch

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Decode parses the serialized operations array the model passes to
// batch_operations. The JSON is unmarshaled generically first, then each
// entry is decoded into the typed Operation with unknown-field
// detection, so a typo like "sourcepath" fails validation here instead
// of silently producing an empty field.
func Decode(operationsJSON string) ([]Operation, error) {
	trimmed := strings.TrimSpace(operationsJSON)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: operations must be a JSON array", ErrValidation)
	}

	var raw []map[string]any
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return nil, fmt.Errorf("%w: parsing operations JSON: %v", ErrValidation, err)
	}

	ops := make([]Operation, 0, len(raw))
	for i, entry := range raw {
		var op Operation
		var meta mapstructure.Metadata
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &op,
			Metadata:         &meta,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return nil, fmt.Errorf("building operation decoder: %w", err)
		}
		if err := dec.Decode(entry); err != nil {
			return nil, fmt.Errorf("%w: operation %d: %v", ErrValidation, i, err)
		}
		if len(meta.Unused) > 0 {
			return nil, fmt.Errorf("%w: operation %d: unknown field(s): %s", ErrValidation, i, strings.Join(meta.Unused, ", "))
		}
		ops = append(ops, op)
	}
	return ops, nil
}
