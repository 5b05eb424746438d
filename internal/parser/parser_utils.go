package parser

import (
	"strings"
	"unicode/utf8"
)

// sanitizeUTF8 ensures a string is valid UTF-8 for database storage.
// It replaces invalid UTF-8 sequences with the replacement character '?'.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	var result strings.Builder
	for _, r := range s {
		if r == utf8.RuneError {
			result.WriteRune('?')
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
