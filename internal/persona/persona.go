// Package persona normalizes free-text audience descriptions before they are
// interpolated into prompts and scoring requests.
package persona

import "strings"

// MaxLength is the maximum number of characters kept from raw input.
const MaxLength = 50

// allowed reports whether r may appear in a sanitized persona.
func allowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == ' ', r == '-', r == ',', r == '.', r == '\'':
		return true
	}
	return false
}

// Sanitize truncates raw to MaxLength characters, drops everything outside
// the allow-list (letters, digits, space, hyphen, comma, period, apostrophe)
// and collapses whitespace. It returns "" when nothing survives.
func Sanitize(raw string) string {
	if raw == "" {
		return ""
	}

	s := strings.TrimSpace(truncate(raw, MaxLength))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if allowed(r) {
			b.WriteRune(r)
		}
	}

	// Fields splits on any run of spaces; newlines and tabs were already dropped.
	return strings.Join(strings.Fields(b.String()), " ")
}

// Filtered reports whether Sanitize changed raw beyond trimming and
// truncation, i.e. whether some characters were rejected.
func Filtered(raw string) bool {
	if raw == "" {
		return false
	}
	return Sanitize(raw) != strings.TrimSpace(truncate(raw, MaxLength))
}

// truncate keeps the first n runes of s.
func truncate(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
