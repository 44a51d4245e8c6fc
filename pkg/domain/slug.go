package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// Slugify lowercases s and collapses runs of non-alphanumeric
// characters into single hyphens. Returns "" if nothing survives.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// UniqueSlug derives a slug from base (falling back to fallback when
// base slugifies to nothing) and appends a numeric suffix until exists
// reports it free.
func UniqueSlug(base, fallback string, exists func(string) bool) string {
	slug := Slugify(base)
	if slug == "" {
		slug = fallback
	}
	candidate := slug
	for counter := 1; exists(candidate); counter++ {
		candidate = fmt.Sprintf("%s-%d", slug, counter)
	}
	return candidate
}
