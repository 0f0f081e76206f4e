package pdf

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
)

// DefaultMinTextLength is the shortest text layer still treated as a digital
// document
const DefaultMinTextLength = 50

// AutoReader reads the text layer first and falls back to OCR when the
// document looks scanned
type AutoReader struct {
	text       TextSource
	ocr        TextSource
	minTextLen int
	logger     logrus.FieldLogger
}

// NewAutoReader creates a reader that prefers text and falls back to ocr when
// the text layer is missing or shorter than minTextLen characters
func NewAutoReader(text, ocr TextSource, minTextLen int, logger logrus.FieldLogger) *AutoReader {
	if minTextLen <= 0 {
		minTextLen = DefaultMinTextLength
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AutoReader{text: text, ocr: ocr, minTextLen: minTextLen, logger: logger}
}

// Text implements TextSource
func (r *AutoReader) Text(ctx context.Context, path string) (*Document, error) {
	doc, err := r.text.Text(ctx, path)
	switch {
	case err == nil && len(strings.TrimSpace(doc.Text)) >= r.minTextLen:
		return doc, nil
	case err != nil && !errors.Is(err, ErrNoText):
		return nil, err
	}

	r.logger.WithField("path", path).Info("text layer too short, falling back to OCR")
	return r.ocr.Text(ctx, path)
}
