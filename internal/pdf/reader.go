package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// defaultMaxTextSize caps the extracted text of one document
const defaultMaxTextSize = 10 * 1024 * 1024

// TextReader reads the text layer of digitally produced PDFs
type TextReader struct {
	validator   *Validator
	maxTextSize int
}

// NewTextReader creates a text layer reader using validator for file checks
func NewTextReader(validator *Validator) *TextReader {
	return &TextReader{
		validator:   validator,
		maxTextSize: defaultMaxTextSize,
	}
}

// Text implements TextSource
func (r *TextReader) Text(ctx context.Context, path string) (*Document, error) {
	if err := r.validator.Check(path); err != nil {
		return nil, err
	}

	f, pdfReader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	text, err := r.extractTextContent(ctx, pdfReader)
	if err != nil {
		return nil, err
	}

	return &Document{
		Path:   path,
		Pages:  pdfReader.NumPage(),
		Text:   text,
		Method: MethodText,
	}, nil
}

// extractTextContent collects the plain text of every page in page order
func (r *TextReader) extractTextContent(ctx context.Context, pdfReader *pdf.Reader) (string, error) {
	var pages []string
	totalLength := 0

	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			// one broken page should not hide the others
			continue
		}

		if totalLength+len(content) > r.maxTextSize {
			if remaining := r.maxTextSize - totalLength; remaining > 0 {
				pages = append(pages, content[:remaining])
			}
			break
		}

		pages = append(pages, content)
		totalLength += len(content)
	}

	text := joinPages(pages)
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}

	return text, nil
}
