// Package htmlsanitize strips dangerous markup from user-supplied rich
// text before it is stored. Profile bios are the only user-authored field
// that may legitimately carry formatting; everything else is plain text.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var policy = bluemonday.UGCPolicy()

// Sanitize returns s with any unsafe HTML removed. Safe formatting
// (paragraphs, emphasis, lists, tables, http/https links) is preserved;
// scripts, event handlers, and javascript: URLs are stripped.
func Sanitize(s string) string {
	return policy.Sanitize(s)
}
