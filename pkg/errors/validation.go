package errors

import (
	"os"
	"strings"
	"unicode"
)

// MaxExtension is the largest Ψ_k depth accepted from user input. The
// extension test enumerates all disjoint vertex-set pairs of size k, so the
// cost grows like n^(2k).
const MaxExtension = 4

// MaxCommonNeighbor is the largest independent-set size accepted for the
// common-neighbor test.
const MaxCommonNeighbor = 4

// MaxJobs bounds the number of concurrent batch workers.
const MaxJobs = 256

// ValidateInputFile checks that path names an existing regular file.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - The file must exist and must not be a directory
func ValidateInputFile(path string) error {
	if err := validatePathText(path); err != nil {
		return err
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return New(ErrCodeFileNotFound, "input file not found: %s", path)
	}
	if err != nil {
		return Wrap(ErrCodeInvalidPath, err, "cannot stat %s", path)
	}
	if info.IsDir() {
		return New(ErrCodeInvalidPath, "%s is a directory", path)
	}
	return nil
}

// ValidateOutputDir checks that path is usable as an output directory. A
// missing directory is fine; a path that exists as a file is not.
func ValidateOutputDir(path string) error {
	if err := validatePathText(path); err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err == nil && !info.IsDir() {
		return New(ErrCodeInvalidPath, "%s exists and is not a directory", path)
	}
	return nil
}

func validatePathText(path string) error {
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

// ValidateExtension checks the Ψ_k depth; 0 disables the test.
func ValidateExtension(k int) error {
	if k < 0 || k > MaxExtension {
		return New(ErrCodeInvalidConfig, "extension depth must be between 0 and %d, got %d", MaxExtension, k)
	}
	return nil
}

// ValidateCommonNeighbor checks the common-neighbor set size; 0 disables
// the test.
func ValidateCommonNeighbor(size int) error {
	if size < 0 || size > MaxCommonNeighbor {
		return New(ErrCodeInvalidConfig, "common-neighbor size must be between 0 and %d, got %d", MaxCommonNeighbor, size)
	}
	return nil
}

// ValidateJobs checks a batch worker count; 0 selects the default.
func ValidateJobs(n int) error {
	if n < 0 || n > MaxJobs {
		return New(ErrCodeInvalidConfig, "jobs must be between 0 and %d, got %d", MaxJobs, n)
	}
	return nil
}

// ValidateFormat checks that format is one of the allowed output formats.
func ValidateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (valid: %s)", format, strings.Join(allowed, ", "))
}

// ValidateGraph6Line performs a cheap syntactic check of one graph6 line
// before it is decoded: printable ASCII in the range 63..126, and not a
// sparse6 or digraph6 record.
func ValidateGraph6Line(line string) error {
	if line == "" {
		return New(ErrCodeInvalidGraph, "empty graph6 record")
	}
	switch line[0] {
	case ':':
		return New(ErrCodeInvalidGraph, "sparse6 records are not supported")
	case '&':
		return New(ErrCodeInvalidGraph, "digraph6 records are not supported")
	}
	for i := 0; i < len(line); i++ {
		if c := line[i]; c < 63 || c > 126 {
			return New(ErrCodeInvalidGraph, "invalid graph6 byte %q at offset %d", c, i)
		}
	}
	return nil
}
