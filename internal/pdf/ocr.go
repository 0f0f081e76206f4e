package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Recognizer turns one page image into text
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// TesseractRecognizer recognizes text with a local Tesseract installation.
// Each call uses its own client, so one recognizer may be shared.
type TesseractRecognizer struct {
	languages     []string
	pageSegMode   int
	clientFactory func() *gosseract.Client
}

// NewTesseractRecognizer creates a recognizer for the given languages. A
// positive pageSegMode overrides Tesseract's page segmentation mode.
func NewTesseractRecognizer(languages []string, pageSegMode int) *TesseractRecognizer {
	return &TesseractRecognizer{
		languages:     languages,
		pageSegMode:   pageSegMode,
		clientFactory: gosseract.NewClient,
	}
}

// Recognize implements Recognizer
func (r *TesseractRecognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := r.clientFactory()
	defer c.Close()

	if len(r.languages) > 0 {
		if err := c.SetLanguage(r.languages...); err != nil {
			return "", fmt.Errorf("set languages: %w", err)
		}
	}
	if r.pageSegMode > 0 {
		if err := c.SetPageSegMode(gosseract.PageSegMode(r.pageSegMode)); err != nil {
			return "", fmt.Errorf("set page segmentation mode: %w", err)
		}
	}
	// size tables are column aligned
	if err := c.SetVariable(gosseract.SettableVariable("preserve_interword_spaces"), "1"); err != nil {
		return "", fmt.Errorf("set variable: %w", err)
	}
	if err := c.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}

// OCRReader produces document text by recognizing the page images of a
// scanned PDF
type OCRReader struct {
	images     ImageSource
	recognizer Recognizer
}

// NewOCRReader creates an OCR reader
func NewOCRReader(images ImageSource, recognizer Recognizer) *OCRReader {
	return &OCRReader{images: images, recognizer: recognizer}
}

// Text implements TextSource
func (r *OCRReader) Text(ctx context.Context, path string) (*Document, error) {
	images, err := r.images.Images(ctx, path)
	if err != nil {
		return nil, err
	}

	pages := make([]string, 0, len(images))
	seen := make(map[int]bool)
	for _, img := range images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := r.recognizer.Recognize(ctx, img.Data)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", img.Page, err)
		}
		pages = append(pages, text)
		seen[img.Page] = true
	}

	text := joinPages(pages)
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}

	return &Document{
		Path:   path,
		Pages:  len(seen),
		Text:   text,
		Method: MethodOCR,
	}, nil
}
