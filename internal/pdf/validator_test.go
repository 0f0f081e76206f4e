package pdf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to create %s: %v", name, err)
	}
	return path
}

func TestValidator_Check(t *testing.T) {
	validator := NewValidator(1024 * 1024) // 1MB limit
	tempDir := t.TempDir()

	validPath := writeFile(t, tempDir, "order.pdf", make([]byte, 1024))
	upperPath := writeFile(t, tempDir, "ORDER.PDF", make([]byte, 1024))
	largePath := writeFile(t, tempDir, "large.pdf", make([]byte, 2*1024*1024))
	emptyPath := writeFile(t, tempDir, "empty.pdf", []byte{})
	textPath := writeFile(t, tempDir, "order.txt", make([]byte, 1024))
	dirPath := filepath.Join(tempDir, "folder.pdf")
	if err := os.Mkdir(dirPath, 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"valid", validPath, ""},
		{"upper case extension", upperPath, ""},
		{"empty path", "", "path cannot be empty"},
		{"missing", filepath.Join(tempDir, "missing.pdf"), "file does not exist"},
		{"directory", dirPath, "not a regular file"},
		{"wrong extension", textPath, "file is not a PDF"},
		{"empty file", emptyPath, "file is empty"},
		{"too large", largePath, "file too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.Check(tt.path)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidator_ValidateRejectsGarbage(t *testing.T) {
	validator := NewValidator(1024 * 1024)
	path := writeFile(t, t.TempDir(), "scan.pdf", []byte("this is not a pdf document"))

	if err := validator.Check(path); err != nil {
		t.Fatalf("file level check should pass: %v", err)
	}
	err := validator.Validate(path)
	if err == nil {
		t.Fatal("expected structural validation to fail")
	}
	if !strings.Contains(err.Error(), "invalid PDF file") {
		t.Errorf("unexpected error: %v", err)
	}
	if validator.IsValidPDF(path) {
		t.Error("IsValidPDF should be false")
	}
}

func TestValidator_MaxFileSize(t *testing.T) {
	if got := NewValidator(42).MaxFileSize(); got != 42 {
		t.Errorf("MaxFileSize() = %d, want 42", got)
	}
}
