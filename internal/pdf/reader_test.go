package pdf

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func TestNewTextReader(t *testing.T) {
	r := NewTextReader(NewValidator(1024))
	if r.maxTextSize != defaultMaxTextSize {
		t.Errorf("maxTextSize = %d, want %d", r.maxTextSize, defaultMaxTextSize)
	}
}

func TestTextReader_Text_Errors(t *testing.T) {
	tempDir := t.TempDir()
	reader := NewTextReader(NewValidator(1024 * 1024))

	garbage := writeFile(t, tempDir, "broken.pdf", []byte("%PDF-1.4 truncated"))
	textFile := writeFile(t, tempDir, "notes.txt", []byte("ABC - 01"))

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"empty path", "", "path cannot be empty"},
		{"missing file", filepath.Join(tempDir, "missing.pdf"), "file does not exist"},
		{"not a pdf", textFile, "file is not a PDF"},
		{"unparseable", garbage, "failed to open PDF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := reader.Text(context.Background(), tt.path)
			if err == nil {
				t.Fatalf("expected error, got document %+v", doc)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		input   string
		want    Method
		wantErr bool
	}{
		{"text", MethodText, false},
		{" OCR ", MethodOCR, false},
		{"Auto", MethodAuto, false},
		{"vision", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMethod(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMethod(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMethod(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestJoinPages(t *testing.T) {
	got := joinPages([]string{"ABC - 01\nfirst", "ABC - 02\nsecond"})
	if got != "ABC - 01\nfirst\nABC - 02\nsecond" {
		t.Errorf("joinPages() = %q", got)
	}
	if joinPages(nil) != "" {
		t.Error("joinPages(nil) should be empty")
	}
}

func TestImageExtractor_Errors(t *testing.T) {
	tempDir := t.TempDir()
	extractor := NewImageExtractor(NewValidator(1024 * 1024))

	if _, err := extractor.Images(context.Background(), filepath.Join(tempDir, "missing.pdf")); err == nil {
		t.Error("expected error for missing file")
	}

	garbage := writeFile(t, tempDir, "scan.pdf", []byte("not a pdf"))
	_, err := extractor.Images(context.Background(), garbage)
	if err == nil {
		t.Fatal("expected error for unparseable file")
	}
	if errors.Is(err, ErrNoImages) {
		t.Error("a parse failure is not ErrNoImages")
	}
}

func TestImageExtractor_RecoversFromPanic(t *testing.T) {
	extractor := NewImageExtractor(NewValidator(1024 * 1024))
	extractor.extract = func(io.ReadSeeker, func(model.Image, bool, int) error) error {
		panic("corrupt image stream")
	}

	scan := writeFile(t, t.TempDir(), "scan.pdf", []byte("%PDF-1.4"))
	images, err := extractor.Images(context.Background(), scan)
	if err == nil {
		t.Fatal("expected error when extraction panics")
	}
	if !strings.Contains(err.Error(), "corrupt image stream") {
		t.Errorf("error should carry the panic value, got: %v", err)
	}
	if images != nil {
		t.Errorf("expected no images, got %d", len(images))
	}
}

func TestImageExtractor_CollectsDigestedImages(t *testing.T) {
	extractor := NewImageExtractor(NewValidator(1024 * 1024))
	extractor.extract = func(_ io.ReadSeeker, digest func(model.Image, bool, int) error) error {
		for _, img := range []model.Image{
			{Reader: strings.NewReader("p2"), Name: "Im2", PageNr: 2, FileType: "png"},
			{Reader: strings.NewReader("p1"), Name: "Im1", PageNr: 1, FileType: "jpg"},
		} {
			if err := digest(img, false, 0); err != nil {
				return err
			}
		}
		return nil
	}

	scan := writeFile(t, t.TempDir(), "scan.pdf", []byte("%PDF-1.4"))
	images, err := extractor.Images(context.Background(), scan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(images) != 2 || images[0].Page != 1 || string(images[1].Data) != "p2" {
		t.Errorf("unexpected images: %+v", images)
	}
}

func TestSortImages(t *testing.T) {
	images := []Image{{Page: 3, Name: "a"}, {Page: 1, Name: "b"}, {Page: 3, Name: "c"}, {Page: 2, Name: "d"}}
	sortImages(images)

	var names []string
	for _, img := range images {
		names = append(names, img.Name)
	}
	if got := strings.Join(names, ""); got != "bdac" {
		t.Errorf("order = %s, want bdac", got)
	}
}
