// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips dangerous markup from rich-text fields.
// Chapter, event, and opportunity descriptions are stored sanitized so
// whatever renders them later cannot be used for XSS.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var policy = bluemonday.UGCPolicy()

// Sanitize returns s with scripts, event handlers, and javascript: URLs
// removed. Safe formatting tags (p, strong, em, a, lists) survive.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}
