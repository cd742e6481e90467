package service

import "strings"

// ParseTextToArray converts a multi-line admin textarea into a list: split on
// comma, semicolon or newline, trim each piece, drop empties. Joining the
// result with newlines and re-parsing yields the same list.
func ParseTextToArray(text string) []string {
	if text == "" {
		return nil
	}

	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})

	var out []string
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
