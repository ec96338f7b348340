package attachments_test

import (
	"errors"
	"testing"

	"github.com/givehub/givehub/internal/attachments"
)

func defaultValidator(t *testing.T) *attachments.Validator {
	t.Helper()

	cfg := attachments.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize config: %v", err)
	}
	return attachments.NewValidator(&cfg)
}

func TestValidatorValidate(t *testing.T) {
	v := defaultValidator(t)

	tests := []struct {
		name        string
		contentType string
		filename    string
		valid       bool
	}{
		{"png image", "image/png", "logo.png", true},
		{"jpeg image", "image/jpeg", "photo.jpg", true},
		{"pdf document", "application/pdf", "report.pdf", true},
		{"docx document", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "proposal.docx", true},
		{"xlsx spreadsheet", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "budget.xlsx", true},
		{"content type with parameters", "image/png; charset=binary", "logo.png", true},
		{"mixed case", "Image/PNG", "LOGO.PNG", true},
		{"executable", "application/x-msdownload", "setup.exe", false},
		{"script", "text/javascript", "inject.js", false},
		{"allowed type with disallowed extension", "application/pdf", "report.exe", false},
		{"disallowed type with allowed extension", "application/zip", "archive.pdf", false},
		{"no extension", "application/pdf", "report", false},
		{"empty content type", "", "report.pdf", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.contentType, tt.filename)
			if tt.valid && err != nil {
				t.Errorf("validate failed: %v", err)
			}
			if !tt.valid {
				if err == nil {
					t.Fatal("validate passed, want ErrInvalidFileType")
				}
				if !errors.Is(err, attachments.ErrInvalidFileType) {
					t.Errorf("err = %v, want ErrInvalidFileType", err)
				}
			}
		})
	}
}

func TestValidatorCustomAllowLists(t *testing.T) {
	cfg := attachments.Config{
		AllowedTypes:      []string{"text/plain"},
		AllowedExtensions: []string{".txt"},
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize config: %v", err)
	}
	v := attachments.NewValidator(&cfg)

	if err := v.Validate("text/plain", "notes.txt"); err != nil {
		t.Errorf("validate failed: %v", err)
	}
	if err := v.Validate("application/pdf", "report.pdf"); !errors.Is(err, attachments.ErrInvalidFileType) {
		t.Errorf("err = %v, want ErrInvalidFileType", err)
	}
}
