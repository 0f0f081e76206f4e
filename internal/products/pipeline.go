package products

import (
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Pipeline turns document text into product records for one layout. It holds
// no state between runs, so one pipeline may parse many documents
// concurrently.
type Pipeline struct {
	layout  *Layout
	workers int
	logger  logrus.FieldLogger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithWorkers sets how many segments are extracted concurrently. Values below
// 2 keep extraction sequential. Output order is document order either way.
func WithWorkers(n int) Option {
	return func(p *Pipeline) { p.workers = n }
}

// WithLogger sets the logger diagnostics are reported to
func WithLogger(logger logrus.FieldLogger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPipeline creates a pipeline for layout
func NewPipeline(layout *Layout, opts ...Option) *Pipeline {
	p := &Pipeline{layout: layout, workers: 1, logger: discardLogger()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Layout returns the layout this pipeline parses
func (p *Pipeline) Layout() *Layout {
	return p.layout
}

type segmentOutcome struct {
	product *Product
	diags   []Diagnostic
}

// Parse extracts every product of text. Segments failing required-field
// extraction are left out and reported as diagnostics. The only error is a
// NumberFormatError, which aborts the whole run.
func (p *Pipeline) Parse(text string) (*Result, error) {
	text = NormalizeText(text)
	log := p.logger.WithField("layout", p.layout.Name)

	result := &Result{Layout: p.layout.Name, Products: []Product{}}

	segments := p.layout.Segmenter.Split(text)
	if len(segments) == 0 {
		d := Diagnostic{
			Kind:     KindSegmentationEmpty,
			Severity: SeverityInfo,
			Message:  "no product headers found",
		}
		log.Info(d.Message)
		result.Diagnostics = append(result.Diagnostics, d)
		return result, nil
	}

	outcomes := make([]segmentOutcome, len(segments))
	if p.workers > 1 {
		var g errgroup.Group
		g.SetLimit(p.workers)
		for i, seg := range segments {
			g.Go(func() error {
				prod, diags, err := p.layout.extract(seg, text)
				outcomes[i] = segmentOutcome{product: prod, diags: diags}
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, seg := range segments {
			prod, diags, err := p.layout.extract(seg, text)
			if err != nil {
				return nil, err
			}
			outcomes[i] = segmentOutcome{product: prod, diags: diags}
		}
	}

	for i, o := range outcomes {
		segLog := log.WithField("segment", segments[i].Header)
		for _, d := range o.diags {
			entry := segLog.WithField("field", d.Field)
			if d.Severity == SeverityWarning {
				entry.Warn(d.Message)
			} else {
				entry.Debug(d.Message)
			}
		}
		result.Diagnostics = append(result.Diagnostics, o.diags...)
		if o.product != nil {
			segLog.Debug("product extracted")
			result.Products = append(result.Products, *o.product)
		}
	}

	log.WithFields(logrus.Fields{
		"segments": len(segments),
		"products": len(result.Products),
		"warnings": len(result.Warnings()),
	}).Info("document parsed")

	return result, nil
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
