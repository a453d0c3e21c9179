// Package shared provides common utility functions used across multiple
// packages in the ros-pkgbuild codebase.
package shared

import (
	"fmt"
	"strings"
)

// DescriptionMaxLength is the recipe format's maximum pkgdesc length,
// including the truncation marker.
const DescriptionMaxLength = 80

// descriptionTruncationMarker is appended when a description is trimmed.
const descriptionTruncationMarker = "[...]"

// illegalDescriptionChars are stripped from descriptions before rendering
// because they are unsafe inside a double-quoted shell assignment.
const illegalDescriptionChars = "()[]{}|^$\\#\t\n\r\v\f'\"`"

// SanitizeDescription removes every character of the illegal set from a
// raw description. Spacing is preserved.
func SanitizeDescription(value string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(illegalDescriptionChars, r) {
			return -1
		}
		return r
	}, value)
}

// TrimDescription collapses an overlong description to
// DescriptionMaxLength characters, ending in the truncation marker.
func TrimDescription(value string) string {
	if len(value) <= DescriptionMaxLength {
		return value
	}
	return value[:DescriptionMaxLength-len(descriptionTruncationMarker)] + descriptionTruncationMarker
}

// HTTPStatusError creates a formatted error for non-2xx HTTP responses.
func HTTPStatusError(status int, url string) error {
	return fmt.Errorf("status=%d url=%s", status, url)
}
