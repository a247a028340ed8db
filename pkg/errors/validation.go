package errors

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
)

// MaxGenerations bounds hourglass and lineage expansion requests.
const MaxGenerations = 64

// ValidateLimit checks a generation bound: it must be positive and at most
// [MaxGenerations]. name is used in the message ("up", "down", "depth").
func ValidateLimit(name string, n int) error {
	if n < 1 {
		return New(ErrCodeInvalidLimit, "%s must be positive, got %d", name, n)
	}
	if n > MaxGenerations {
		return New(ErrCodeInvalidLimit, "%s too large (max %d), got %d", name, MaxGenerations, n)
	}
	return nil
}

// identifierRegex matches record identifiers with or without the
// surrounding @ signs: "I1", "@I1@", "@F_12@".
var identifierRegex = regexp.MustCompile(`^@?[A-Za-z0-9_]+@?$`)

// ValidateIdentifier validates a record identifier supplied by a user or a
// request path.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - Maximum length of 64 characters
//   - Letters, digits and underscores only, optionally wrapped in @
func ValidateIdentifier(id string) error {
	if id == "" {
		return New(ErrCodeInvalidIdentifier, "identifier cannot be empty")
	}
	if len(id) > 64 {
		return New(ErrCodeInvalidIdentifier, "identifier too long (max 64 characters)")
	}
	if !identifierRegex.MatchString(id) {
		return New(ErrCodeInvalidIdentifier, "invalid identifier: %q", id)
	}
	return nil
}

// ValidateFormat checks that format is one of allowed (case-insensitive).
func ValidateFormat(format string, allowed ...string) error {
	if slices.Contains(allowed, strings.ToLower(format)) {
		return nil
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want one of: %s)", format, strings.Join(allowed, ", "))
}

// ValidatePath validates a local file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
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
