// Package validation checks command-line input before any stream is opened:
// paths, language and session code lists, and the filter options as a whole.
package validation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// MaxPathLength is the maximum allowed path length.
const MaxPathLength = 4096

// Common validation errors.
var (
	ErrPathTooLong      = errors.New("path too long")
	ErrInvalidCharacter = errors.New("invalid character in path")
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrSameFile         = errors.New("output would overwrite input")
)

// ValidatePath performs comprehensive path validation without requiring a base directory.
// It checks for dangerous patterns, length limits, and invalid characters.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}

	// Check length
	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}

	// Check for null bytes
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: null byte not allowed", ErrInvalidCharacter)
	}

	// Check for control characters
	for _, r := range path {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}

	return nil
}

// ValidateDistinct rejects an output path that names the input file. The
// output is created before the input has been read, so writing in place
// would truncate the document being filtered. Standard streams never clash.
func ValidateDistinct(input, output string) error {
	if isStdio(input) || isStdio(output) {
		return nil
	}

	if filepath.Clean(input) == filepath.Clean(output) {
		return ErrSameFile
	}

	in, err := os.Stat(input)
	if err != nil {
		return nil
	}
	out, err := os.Stat(output)
	if err != nil {
		return nil
	}
	if os.SameFile(in, out) {
		return ErrSameFile
	}
	return nil
}

func isStdio(path string) bool {
	return path == "" || path == "-"
}
