package validator

import (
	"strings"
	"unicode"
)

// MaxFieldLength bounds any single free-text field accepted from a
// completion.
const MaxFieldLength = 2000

// injectionMarkers are literal control tokens that must never survive into
// narrative text: if an LLM response echoes a prompt-injection attempt
// (e.g. a role marker or an instruction-override phrase), the field is
// rejected rather than sanitized, forcing a fallback.
var injectionMarkers = []string{
	"<|system|>", "<|assistant|>", "<|user|>",
	"ignore previous instructions", "disregard all prior",
}

// SanitizeField strips control characters and truncates to MaxFieldLength.
// It returns an error if the field contains a known prompt-injection
// marker, since such a field cannot be made safe by truncation alone.
func SanitizeField(s string) (string, error) {
	lower := strings.ToLower(s)
	for _, marker := range injectionMarkers {
		if strings.Contains(lower, marker) {
			return "", &ValidationError{Reason: "field contains a disallowed control marker"}
		}
	}

	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\t' {
			b.WriteRune(r)
			continue
		}
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	out := b.String()
	if len(out) > MaxFieldLength {
		out = out[:MaxFieldLength]
	}
	return out, nil
}

// SanitizeFields applies SanitizeField to each of fields, returning the
// sanitized values in a new slice, or nil and the first error encountered.
func SanitizeFields(fields []string) ([]string, error) {
	out := make([]string, len(fields))
	for i, f := range fields {
		clean, err := SanitizeField(f)
		if err != nil {
			return nil, err
		}
		out[i] = clean
	}
	return out, nil
}

// ValidationError is returned by sanitization and schema checks; the
// Validator pipeline treats it the same as a parse failure, invoking the
// fallback engine rather than surfacing it to the caller.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validator: " + e.Reason
}
