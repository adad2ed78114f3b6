package util

import (
	"html"
	"strings"
	"unicode"
)

// SanitizeInput trims whitespace, strips control characters and escapes
// HTML so event descriptions can be rendered on the dashboard safely.
func SanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return html.EscapeString(s)
}
