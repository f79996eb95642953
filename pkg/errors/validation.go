package errors

import (
	"strings"
	"unicode"
)

const maxIDLength = 128

// ValidateMemberID checks a chart member identifier.
//
// IDs end up in SVG attributes, DOT source and URL-less JSON keys, so the
// rules are conservative:
//   - No empty IDs
//   - No control characters or whitespace
//   - No quotes
//   - Maximum length of 128 characters
func ValidateMemberID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidChart, "member id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidChart, "member id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidChart, "member id %q contains whitespace or control characters", id)
		}
	}
	if strings.ContainsAny(id, `"'`) {
		return New(ErrCodeInvalidChart, "member id %q contains quotes", id)
	}
	return nil
}

// ValidatePath validates an output or input file path supplied by a user.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}
