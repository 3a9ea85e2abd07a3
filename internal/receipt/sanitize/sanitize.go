// internal/receipt/sanitize/sanitize.go

// Package sanitize produces filesystem-safe tokens from free-form text.
package sanitize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxTokenLen = 50

// stripMarks decomposes characters and removes the combining marks, so
// "Pérez" becomes "Perez".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Clean strips diacritics, drops every character outside [A-Za-z0-9-_ ],
// trims, collapses internal whitespace runs to single underscores and
// truncates to 50 characters. Deterministic; empty input yields "".
func Clean(s string) string {
	plain, _, err := transform.String(stripMarks, s)
	if err != nil {
		plain = s
	}

	var b strings.Builder
	b.Grow(len(plain))
	for _, r := range plain {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == ' ':
			b.WriteRune(r)
		}
	}

	token := strings.TrimSpace(b.String())
	token = strings.Join(strings.Fields(token), "_")
	if len(token) > maxTokenLen {
		token = token[:maxTokenLen]
	}
	return token
}

// CleanOr returns Clean(s), or fallback when the cleaned token is empty.
func CleanOr(s, fallback string) string {
	if token := Clean(s); token != "" {
		return token
	}
	return fallback
}
