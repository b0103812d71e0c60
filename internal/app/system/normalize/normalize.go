// Package normalize canonicalizes user-entered identity fields before they
// are stored or matched against unique indexes.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Username lowercases and trims a username. Usernames are matched
// case-insensitively at signin, so they are stored folded.
func Username(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name, preserving case.
func Name(s string) string {
	return strings.TrimSpace(s)
}
