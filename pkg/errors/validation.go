package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateName validates a block, terminal or node name as it appears in the
// input files. Names are single whitespace-free tokens.
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "name %q contains whitespace or control characters", name)
		}
	}
	return nil
}

// ValidateUploadFilename validates the client-supplied name of an uploaded
// file. The server only uses it for display and to derive output names, but a
// path component would leak into Content-Disposition headers.
func ValidateUploadFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidPath, "filename cannot be empty")
	}

	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidPath, "filename cannot contain path separators")
	}

	if strings.Contains(filename, "..") {
		return New(ErrCodeInvalidPath, "filename cannot contain path traversal sequences (..)")
	}

	for _, r := range filename {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "filename contains invalid characters")
		}
	}
	return nil
}

// ValidateOutputPath validates an output path given on the command line.
// It rejects directories-only paths and empty extensions for multi-format runs.
func ValidateOutputPath(path string) error {
	if path == "" {
		return nil
	}
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "output %q is a directory; give a file name or base name", path)
	}
	for _, r := range path {
		if r == '\x00' {
			return New(ErrCodeInvalidPath, "output path contains a null byte")
		}
	}
	return nil
}
