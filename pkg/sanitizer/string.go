// Package sanitizer normalizes free-text input before validation, so that
// stray whitespace never produces spurious duplicates in the catalog.
package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims the string and collapses internal whitespace runs
// to single spaces.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeResourceName cleans a resource's display name.
func NormalizeResourceName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeUserID strips whitespace from a caller-supplied user reference.
func NormalizeUserID(id string) string {
	return strings.TrimSpace(id)
}
