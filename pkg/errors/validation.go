package errors

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxLetterLength bounds a letter name. Real letters are one or two
// characters ("A", "Φ-", "W-"), with a few longer dash forms.
const maxLetterLength = 8

// ValidateLetter validates a letter name taken from user input.
//
// Letters are matched exactly against the override and direction tables, so
// anything with whitespace or control characters can never match and is
// rejected early rather than silently producing algorithmic placement.
func ValidateLetter(letter string) error {
	if letter == "" {
		return New(ErrCodeInvalidLetter, "letter cannot be empty")
	}
	if utf8.RuneCountInString(letter) > maxLetterLength {
		return New(ErrCodeInvalidLetter, "letter too long (max %d characters)", maxLetterLength)
	}
	for _, r := range letter {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidLetter, "letter %q contains whitespace or control characters", letter)
		}
	}
	return nil
}

// sequenceIDRegex matches stored sequence identifiers: UUIDs and short slugs.
var sequenceIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// ValidateSequenceID validates a sequence identifier used as a storage key.
// IDs double as file names in the file store, so path characters are refused.
func ValidateSequenceID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "sequence id cannot be empty")
	}
	if !sequenceIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid sequence id: %q", id)
	}
	return nil
}

// ValidateFilename validates a table or sequence filename for safety.
// It ensures the filename is a simple basename without path components.
func ValidateFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidPath, "filename cannot be empty")
	}
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidPath, "filename cannot contain path separators")
	}
	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidPath, "filename cannot be a hidden file")
	}
	return nil
}

// ValidatePath validates a relative file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
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

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
