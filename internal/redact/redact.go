package redact

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// Token-ish sequences (API keys, JWT fragments, etc.).
	tokenPattern = regexp.MustCompile(`(?i)([a-z0-9_\-]{20,}|eyJ[a-zA-Z0-9_\-]+\.[a-zA-Z0-9_\-]+\.[a-zA-Z0-9_\-]+)`)
)

// DefaultKeys are the field names redacted when no explicit set is given.
var DefaultKeys = []string{
	"accessToken",
	"refreshToken",
	"password",
	"clientSecret",
	"authorization",
	"apiKey",
	"secret",
	"sessionId",
}

// Sanitizer replaces values of sensitive fields with redaction markers. It
// is deterministic and side-effect-free: inputs are never mutated.
type Sanitizer struct {
	keys map[string]struct{}
}

func New(keys ...string) *Sanitizer {
	if len(keys) == 0 {
		keys = DefaultKeys
	}
	set := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		set[strings.ToLower(key)] = struct{}{}
	}
	return &Sanitizer{keys: set}
}

// Value returns a deep copy of input with sensitive fields redacted. Map
// keys in the redact set get a marker that keeps the original string length
// but not its content; nil and non-string values get a generic marker.
// Slice elements are recursed only when they are maps.
func (s *Sanitizer) Value(input any) any {
	switch v := input.(type) {
	case map[string]any:
		return s.Map(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			if m, ok := item.(map[string]any); ok {
				out[i] = s.Map(m)
			} else {
				out[i] = item
			}
		}
		return out
	default:
		return input
	}
}

func (s *Sanitizer) Map(input map[string]any) map[string]any {
	if input == nil {
		return nil
	}
	out := make(map[string]any, len(input))
	for key, value := range input {
		if _, sensitive := s.keys[strings.ToLower(key)]; sensitive {
			out[key] = marker(value)
			continue
		}
		out[key] = s.Value(value)
	}
	return out
}

// String scrubs token-looking sequences out of free-form text, for log
// lines that carry upstream messages.
func (s *Sanitizer) String(input string) string {
	return tokenPattern.ReplaceAllString(input, "[REDACTED]")
}

func marker(value any) string {
	if str, ok := value.(string); ok {
		return fmt.Sprintf("[REDACTED - length: %d]", len(str))
	}
	return "[REDACTED]"
}
