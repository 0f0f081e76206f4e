package pdf

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Method selects how the text of a PDF is obtained
type Method string

const (
	// MethodText reads the text layer of a digitally produced PDF
	MethodText Method = "text"
	// MethodOCR recognizes the page images embedded in a scanned PDF
	MethodOCR Method = "ocr"
	// MethodAuto reads the text layer and falls back to OCR for scans
	MethodAuto Method = "auto"
)

var (
	// ErrNoText is returned when a document yields no text at all
	ErrNoText = errors.New("no text content could be extracted from PDF")
	// ErrNoImages is returned when a scanned document carries no page images
	ErrNoImages = errors.New("no page images found in PDF")
)

// Methods lists the supported extraction methods
func Methods() []Method {
	return []Method{MethodText, MethodOCR, MethodAuto}
}

// ParseMethod converts a method name, ignoring case and surrounding space
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Methods() {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown extraction method %q (supported: text, ocr, auto)", s)
}

// Document is the plain text of one PDF file
type Document struct {
	Path   string
	Pages  int
	Text   string
	Method Method
}

// TextSource produces the plain text of a PDF file
type TextSource interface {
	Text(ctx context.Context, path string) (*Document, error)
}

// joinPages concatenates page texts with a single line break so that line
// anchored patterns keep working across page boundaries.
func joinPages(pages []string) string {
	return strings.Join(pages, "\n")
}
