package validator

import "strings"

// ExtractJSON finds the first balanced JSON object or array within s,
// tolerating leading/trailing prose and Markdown code fences. It returns
// the raw substring, not a parsed value — Repair and json.Unmarshal handle
// the rest of the validation pipeline.
func ExtractJSON(s string) (string, bool) {
	s = stripFences(s)

	start := -1
	var open, close byte
	for i := 0; i < len(s); i++ {
		if s[i] == '{' || s[i] == '[' {
			start = i
			if s[i] == '{' {
				open, close = '{', '}'
			} else {
				open, close = '[', ']'
			}
			break
		}
	}
	if start == -1 {
		return "", false
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
				return s[start : i+1], true
			}
		}
	}
	// Unbalanced: return what we have from start to end of input, letting
	// Repair attempt to close the trailing brackets.
	return s[start:], false
}

// stripFences removes a single leading/trailing Markdown code fence
// (```json ... ``` or ``` ... ```) if present, leaving the inner text.
func stripFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return s
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return s
	}
	if !strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		return s
	}
	return strings.Join(lines[1:len(lines)-1], "\n")
}
