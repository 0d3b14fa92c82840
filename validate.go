package filekeep

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultAllowedExtensions is the extension allow-list used when none is configured.
var DefaultAllowedExtensions = []string{".json", ".txt", ".pdf"}

// FileValidator checks uploaded filenames against an extension allow-list.
type FileValidator struct {
	allowed map[string]struct{}
}

// NewFileValidator builds a validator. Extensions are matched case-insensitively
// and may be given with or without the leading dot. A nil or empty list falls
// back to DefaultAllowedExtensions.
func NewFileValidator(allowed []string) *FileValidator {
	if len(allowed) == 0 {
		allowed = DefaultAllowedExtensions
	}
	m := make(map[string]struct{}, len(allowed))
	for _, ext := range allowed {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		m[ext] = struct{}{}
	}
	return &FileValidator{allowed: m}
}

// Extension returns the lower-cased last dot-delimited segment of name,
// including the dot, or "" when name has no extension.
func Extension(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// Validate returns an ErrInvalidInput error naming the rejected extension, or
// naming the malformed filename.
func (v *FileValidator) Validate(name string) error {
	if !IsValidFilename(name) {
		return fmt.Errorf("%w: invalid filename %q", ErrInvalidInput, name)
	}

	ext := Extension(name)
	if _, ok := v.allowed[ext]; !ok {
		if ext == "" {
			return fmt.Errorf("%w: file type without extension not allowed", ErrInvalidInput)
		}
		return fmt.Errorf("%w: file type %s not allowed", ErrInvalidInput, ext)
	}

	return nil
}
