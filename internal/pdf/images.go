package pdf

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Image is one embedded image of a PDF page
type Image struct {
	Page   int
	Name   string
	Format string
	Data   []byte
}

// ImageSource returns the embedded images of a PDF in page order
type ImageSource interface {
	Images(ctx context.Context, path string) ([]Image, error)
}

// ImageExtractor pulls embedded images out of a PDF with pdfcpu. Scanned
// documents carry one image per page.
type ImageExtractor struct {
	validator *Validator
	extract   func(rs io.ReadSeeker, digest func(model.Image, bool, int) error) error
}

// NewImageExtractor creates an extractor using validator for file checks
func NewImageExtractor(validator *Validator) *ImageExtractor {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	return &ImageExtractor{
		validator: validator,
		extract: func(rs io.ReadSeeker, digest func(model.Image, bool, int) error) error {
			return api.ExtractImages(rs, nil, digest, conf)
		},
	}
}

// Images implements ImageSource
func (e *ImageExtractor) Images(ctx context.Context, path string) ([]Image, error) {
	if err := e.validator.Check(path); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer file.Close()

	var images []Image
	digest := func(img model.Image, _ bool, _ int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := io.ReadAll(img)
		if err != nil {
			return fmt.Errorf("read image %s on page %d: %w", img.Name, img.PageNr, err)
		}
		images = append(images, Image{
			Page:   img.PageNr,
			Name:   img.Name,
			Format: img.FileType,
			Data:   data,
		})
		return nil
	}

	if err := e.extractImages(file, digest); err != nil {
		return nil, fmt.Errorf("failed to extract images: %w", err)
	}

	if len(images) == 0 {
		return nil, ErrNoImages
	}

	sortImages(images)
	return images, nil
}

// extractImages runs the extraction, turning a panic on a malformed image
// stream into an error
func (e *ImageExtractor) extractImages(rs io.ReadSeeker, digest func(model.Image, bool, int) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during image extraction: %v", r)
		}
	}()
	return e.extract(rs, digest)
}

func sortImages(images []Image) {
	sort.SliceStable(images, func(i, j int) bool {
		return images[i].Page < images[j].Page
	})
}
