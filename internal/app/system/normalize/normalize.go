// internal/app/system/normalize/normalize.go

// Package normalize trims and canonicalizes user-supplied identity fields
// before they are validated or written to the database.
package normalize

import "strings"

// Email lowercases and trims an email address. Member emails coming off
// webhooks and admin emails both pass through here so lookups stay
// case-insensitive without collation tricks.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Username lowercases and trims a login username.
func Username(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name collapses interior runs of whitespace and trims the ends.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Role lowercases and trims a role string.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
