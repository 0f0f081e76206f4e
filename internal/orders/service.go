// Package orders runs extractions end to end: it resolves the input file,
// obtains its text and parses it with the requested layout.
package orders

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/AB1903/Extracted-into-json/internal/config"
	"github.com/AB1903/Extracted-into-json/internal/pdf"
	"github.com/AB1903/Extracted-into-json/internal/products"
)

// ErrUnsupportedMethod is returned when no text source serves a method
var ErrUnsupportedMethod = errors.New("unsupported extraction method")

// defaultMethods pairs each built-in layout with the way its documents are
// produced: Autry confirmations are digital, Copenhagen lists are scans.
var defaultMethods = map[string]pdf.Method{
	products.LayoutAutry:      pdf.MethodText,
	products.LayoutCopenhagen: pdf.MethodOCR,
}

// ExtractRequest names one document and how to read it
type ExtractRequest struct {
	Path   string
	Layout string
	// Method overrides the layout's default method when set
	Method pdf.Method
}

// ExtractResult is the outcome of one extraction run
type ExtractResult struct {
	RunID       string
	Path        string
	Layout      string
	Method      pdf.Method
	Pages       int
	Products    []products.Product
	Diagnostics []products.Diagnostic
}

// Warnings returns the diagnostics of warning severity
func (r *ExtractResult) Warnings() []products.Diagnostic {
	res := products.Result{Diagnostics: r.Diagnostics}
	return res.Warnings()
}

// LayoutInfo describes a registered layout
type LayoutInfo struct {
	Name          string
	Brand         string
	DefaultMethod pdf.Method
	ListsRetail   bool
}

// Service extracts products from order documents
type Service struct {
	registry  *products.Registry
	sources   map[pdf.Method]pdf.TextSource
	validator *pdf.Validator
	paths     *PathValidator
	methods   map[string]pdf.Method
	workers   int
	logger    logrus.FieldLogger
}

// Option configures a Service
type Option func(*Service)

// WithValidator runs a structural PDF check before reading each file
func WithValidator(v *pdf.Validator) Option {
	return func(s *Service) { s.validator = v }
}

// WithPathValidator restricts inputs to the validator's directory
func WithPathValidator(v *PathValidator) Option {
	return func(s *Service) { s.paths = v }
}

// WithWorkers sets how many segments of a document are parsed concurrently
func WithWorkers(n int) Option {
	return func(s *Service) { s.workers = n }
}

// WithDefaultMethod sets the method used for layout when a request names none
func WithDefaultMethod(layout string, method pdf.Method) Option {
	return func(s *Service) { s.methods[layout] = method }
}

// WithLogger sets the service logger
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a service over the given layouts and text sources
func NewService(registry *products.Registry, sources map[pdf.Method]pdf.TextSource, opts ...Option) (*Service, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("at least one text source is required")
	}

	s := &Service{
		registry: registry,
		sources:  sources,
		methods:  make(map[string]pdf.Method, len(defaultMethods)),
		workers:  1,
		logger:   logrus.StandardLogger(),
	}
	for layout, method := range defaultMethods {
		s.methods[layout] = method
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewFromConfig wires the PDF readers, the Tesseract recognizer and the
// built-in layouts as configured
func NewFromConfig(cfg *config.Config, logger logrus.FieldLogger) (*Service, error) {
	validator := pdf.NewValidator(cfg.MaxFileSize)
	textReader := pdf.NewTextReader(validator)
	ocrReader := pdf.NewOCRReader(
		pdf.NewImageExtractor(validator),
		pdf.NewTesseractRecognizer(cfg.OCRLanguages, cfg.OCRPageSegMode),
	)

	sources := map[pdf.Method]pdf.TextSource{
		pdf.MethodText: textReader,
		pdf.MethodOCR:  ocrReader,
		pdf.MethodAuto: pdf.NewAutoReader(textReader, ocrReader, cfg.MinTextLength, logger),
	}

	opts := []Option{
		WithValidator(validator),
		WithWorkers(cfg.Workers),
		WithLogger(logger),
	}
	if cfg.Directory != "" {
		paths, err := NewPathValidator(cfg.Directory)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithPathValidator(paths))
	}

	return NewService(products.DefaultRegistry(), sources, opts...)
}

// Layouts describes every registered layout in name order
func (s *Service) Layouts() []LayoutInfo {
	var infos []LayoutInfo
	for _, name := range s.registry.Names() {
		l, err := s.registry.Lookup(name)
		if err != nil {
			continue
		}
		infos = append(infos, LayoutInfo{
			Name:          l.Name,
			Brand:         l.Brand,
			DefaultMethod: s.DefaultMethod(l.Name),
			ListsRetail:   l.ListsRetail(),
		})
	}
	return infos
}

// DefaultMethod returns the method used for layout when a request names none
func (s *Service) DefaultMethod(layout string) pdf.Method {
	if m, ok := s.methods[layout]; ok {
		return m
	}
	return pdf.MethodAuto
}

// Methods returns the methods this service can serve, sorted
func (s *Service) Methods() []pdf.Method {
	methods := make([]pdf.Method, 0, len(s.sources))
	for m := range s.sources {
		methods = append(methods, m)
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i] < methods[j] })
	return methods
}

// ExtractFile reads one PDF and parses its products
func (s *Service) ExtractFile(ctx context.Context, req ExtractRequest) (*ExtractResult, error) {
	started := time.Now()
	runID := uuid.NewString()
	log := s.logger.WithFields(logrus.Fields{"run": runID, "layout": req.Layout})

	layout, err := s.registry.Lookup(req.Layout)
	if err != nil {
		return nil, err
	}

	path := req.Path
	if s.paths != nil {
		if path, err = s.paths.Resolve(path); err != nil {
			return nil, err
		}
	}
	log = log.WithField("path", path)

	method := req.Method
	if method == "" {
		method = s.DefaultMethod(layout.Name)
	}
	source, ok := s.sources[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}

	if s.validator != nil {
		if err := s.validator.Validate(path); err != nil {
			return nil, err
		}
	}

	log.WithField("method", method).Debug("reading document")
	doc, err := source.Text(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	res, err := s.parse(layout, doc.Text, log)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	log.WithFields(logrus.Fields{
		"method":     doc.Method,
		"pages":      doc.Pages,
		"products":   len(res.Products),
		"warnings":   len(res.Warnings()),
		"elapsed_ms": time.Since(started).Milliseconds(),
	}).Info("extraction finished")

	return &ExtractResult{
		RunID:       runID,
		Path:        path,
		Layout:      layout.Name,
		Method:      doc.Method,
		Pages:       doc.Pages,
		Products:    res.Products,
		Diagnostics: res.Diagnostics,
	}, nil
}

// ExtractText parses text that was already extracted from a document
func (s *Service) ExtractText(layoutName, text string) (*ExtractResult, error) {
	runID := uuid.NewString()
	log := s.logger.WithFields(logrus.Fields{"run": runID, "layout": layoutName})

	layout, err := s.registry.Lookup(layoutName)
	if err != nil {
		return nil, err
	}

	res, err := s.parse(layout, text, log)
	if err != nil {
		return nil, err
	}

	return &ExtractResult{
		RunID:       runID,
		Layout:      layout.Name,
		Products:    res.Products,
		Diagnostics: res.Diagnostics,
	}, nil
}

// ExtractDirectory extracts every PDF below dir with the same layout and
// method. Files that fail are logged and reported in the returned error while
// the remaining files are still processed.
func (s *Service) ExtractDirectory(ctx context.Context, dir string, req ExtractRequest) ([]*ExtractResult, error) {
	if s.paths != nil {
		var err error
		if dir, err = s.paths.Resolve(dir); err != nil {
			return nil, err
		}
	}

	files, err := FindPDFs(dir, s.paths)
	if err != nil {
		return nil, err
	}

	var results []*ExtractResult
	var errs []error
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		fileReq := req
		fileReq.Path = file
		res, err := s.ExtractFile(ctx, fileReq)
		if err != nil {
			s.logger.WithField("path", file).WithError(err).Warn("extraction failed")
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

// IsDirectory reports whether path names an existing directory
func IsDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (s *Service) parse(layout *products.Layout, text string, log logrus.FieldLogger) (*products.Result, error) {
	pipeline := products.NewPipeline(layout,
		products.WithWorkers(s.workers),
		products.WithLogger(log),
	)
	return pipeline.Parse(text)
}
