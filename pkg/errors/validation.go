package errors

import (
	"slices"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// MaxGridSize bounds puzzle width and height accepted from untrusted input.
const MaxGridSize = 1024

// ValidateFormat checks that name is one of the known codec format names.
// Matching is case-insensitive.
func ValidateFormat(name string, known []string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "format cannot be empty")
	}
	if !slices.ContainsFunc(known, func(k string) bool { return strings.EqualFold(k, name) }) {
		return New(ErrCodeUnsupported, "unknown format %q (available: %s)", name, strings.Join(known, ", "))
	}
	return nil
}

// ValidateDimensions rejects non-positive or absurdly large grids.
func ValidateDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidFormat, "invalid dimensions %dx%d", width, height)
	}
	if width > MaxGridSize || height > MaxGridSize {
		return New(ErrCodeInvalidFormat, "dimensions %dx%d exceed %d", width, height, MaxGridSize)
	}
	return nil
}

// ValidateRecordID validates an archive record identifier (a UUID).
func ValidateRecordID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "record id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid record id %q", id)
	}
	return nil
}

// ValidatePath validates a relative file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}
