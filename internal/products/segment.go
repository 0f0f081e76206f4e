package products

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Segmenter splits a document into per-product segments in document order.
type Segmenter interface {
	Split(text string) []Segment
}

// HeaderSegmenter anchors segments on a header pattern matched at line start.
// The matched header becomes Segment.Header and the text up to the next header
// becomes Segment.Body. Anything before the first header is discarded.
type HeaderSegmenter struct {
	Pattern *regexp.Regexp
}

// NewHeaderSegmenter compiles header, which must not carry its own line anchor.
func NewHeaderSegmenter(header string) *HeaderSegmenter {
	return &HeaderSegmenter{Pattern: regexp.MustCompile(`(?m)^(?:` + header + `)`)}
}

// Split implements Segmenter
func (s *HeaderSegmenter) Split(text string) []Segment {
	locs := s.Pattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	segments := make([]Segment, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		segments = append(segments, Segment{
			Index:  i,
			Header: strings.TrimSpace(text[loc[0]:loc[1]]),
			Body:   text[loc[1]:end],
		})
	}
	return segments
}

var textReplacer = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\u00a0", " ",
	"\u2013", "-",
	"\u2014", "-",
)

// NormalizeText prepares extracted or OCR'd text for segmentation: composed
// unicode forms, LF line endings, plain spaces instead of no-break spaces and
// hyphens instead of en and em dashes.
func NormalizeText(text string) string {
	return textReplacer.Replace(norm.NFC.String(text))
}
