package audit

import (
	"bytes"
	"encoding/json"
)

// Diff returns, for every field of after, the before/after pair when the
// JSON encodings differ. Fields only present in before are ignored.
func Diff(before, after any) map[string]Change {
	afterFields := toFields(after)
	if len(afterFields) == 0 {
		return nil
	}
	beforeFields := toFields(before)

	changes := make(map[string]Change)
	for key, next := range afterFields {
		prev, ok := beforeFields[key]
		if ok && bytes.Equal(prev, next) {
			continue
		}
		changes[key] = Change{Before: decode(prev), After: decode(next)}
	}
	if len(changes) == 0 {
		return nil
	}
	return changes
}

func toFields(v any) map[string]json.RawMessage {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}
	return fields
}

func decode(raw json.RawMessage) any {
	if raw == nil {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}
