package db

import "encoding/json"

// marshalJSON encodes v for a TEXT column, defaulting to fallback on error or
// nil input. Column defaults keep these fields non-null.
func marshalJSON(v any, fallback string) string {
	if v == nil {
		return fallback
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fallback
	}
	return string(b)
}

// unmarshalJSON decodes a TEXT column into v, ignoring empty values.
func unmarshalJSON(raw string, v any) {
	if raw == "" {
		return
	}
	_ = json.Unmarshal([]byte(raw), v)
}
