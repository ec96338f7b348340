package attachments

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Validator checks a file's declared content type and filename extension
// against configured allow-lists. Validation is a precondition gate: it
// runs before any byte reaches storage.
type Validator struct {
	types map[string]struct{}
	exts  map[string]struct{}
}

// NewValidator creates a Validator from the configured allow-lists.
func NewValidator(cfg *Config) *Validator {
	v := &Validator{
		types: make(map[string]struct{}, len(cfg.AllowedTypes)),
		exts:  make(map[string]struct{}, len(cfg.AllowedExtensions)),
	}
	for _, t := range cfg.AllowedTypes {
		v.types[strings.ToLower(t)] = struct{}{}
	}
	for _, e := range cfg.AllowedExtensions {
		v.exts[strings.ToLower(e)] = struct{}{}
	}
	return v
}

// Validate accepts a file when both its declared content type and its
// filename extension are allow-listed. Returns ErrInvalidFileType otherwise.
func (v *Validator) Validate(contentType, filename string) error {
	mediaType := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}

	if _, ok := v.types[mediaType]; !ok {
		return fmt.Errorf("%w: %s (%s)", ErrInvalidFileType, filename, contentType)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := v.exts[ext]; !ok {
		return fmt.Errorf("%w: %s", ErrInvalidFileType, filename)
	}

	return nil
}
