// internal/app/system/normalize/normalize.go

// Package normalize holds the field normalizers applied before user data is
// compared or persisted. Every write path goes through these so that lookups
// by email/phone behave consistently regardless of how the value arrived
// (form input, spreadsheet cell, API payload).
package normalize

import "strings"

// Email trims whitespace and lower-cases. Email is the natural key for
// duplicate detection, so this must match the normalization used at query
// time.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims whitespace; case is preserved for display.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role lower-cases and trims. Validation against the role enum is the
// caller's job.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Status lower-cases and trims.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Phone converts a free-form phone value into a dialable E.164 number.
// Numbers already carrying a "+" keep their country code; everything else
// is stripped to digits and prefixed with countryCode (e.g. "+1").
// Returns "" when no digits survive.
func Phone(s, countryCode string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	hasPlus := strings.HasPrefix(s, "+")
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	if hasPlus {
		return "+" + digits
	}
	return countryCode + digits
}
