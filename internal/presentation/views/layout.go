// Package views renders the admin placeholder pages as templ components.
//
//go:generate templ generate
package views

import (
	"strings"
	"unicode"
)

const fallbackFontStack = "system-ui, -apple-system, sans-serif"

// Meta is the document level metadata applied by Layout.
type Meta struct {
	Title       string
	Description string
	FontFamily  string
	FontURL     string
}

// fontStack keeps only the characters of a plain family name and emits it
// unquoted ahead of the system fallbacks.
func fontStack(family string) string {
	clean := strings.Join(strings.Fields(strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			return r
		}
		return -1
	}, family)), " ")

	if clean == "" {
		return fallbackFontStack
	}
	return clean + ", " + fallbackFontStack
}
