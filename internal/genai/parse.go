package genai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// stripFences removes a surrounding markdown code fence, with or without a
// language tag. Models add these even when told not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		first := strings.TrimSpace(s[:nl])
		// Drop a language tag line like "json"; keep content that starts
		// immediately after the fence.
		if first == "" || !strings.ContainsAny(first, "{[") {
			s = s[nl+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// extractJSON finds the first JSON object or array in s, tolerating prose
// before and after it.
func extractJSON(s string) string {
	s = stripFences(s)
	objStart := strings.IndexByte(s, '{')
	arrStart := strings.IndexByte(s, '[')
	start := objStart
	open, close := byte('{'), byte('}')
	if arrStart >= 0 && (objStart < 0 || arrStart < objStart) {
		start = arrStart
		open, close = '[', ']'
	}
	if start < 0 {
		return s
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return s[start:]
}

// decodeJSON parses the first JSON value found in raw into v.
func decodeJSON(raw string, v any) error {
	text := extractJSON(raw)
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("decoding collaborator response: %w", err)
	}
	return nil
}
