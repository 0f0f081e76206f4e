package products

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"
)

// ErrUnknownLayout is returned when a layout name is not registered.
var ErrUnknownLayout = errors.New("unknown layout")

// Built-in layout names.
const (
	LayoutAutry      = "autry"
	LayoutCopenhagen = "copenhagen"
)

// Material and colour keywords of the Copenhagen price lists.
var (
	CopenhagenMaterials = []string{"leather", "hairy", "vintage", "nubuck"}
	CopenhagenColours   = []string{"cream", "brown", "black", "white", "blue"}
)

// AutryLayout describes the digitally extracted Autry order confirmation.
// Products start with a code such as "ABC - 01", carry a "qty unit€ total€"
// line and list sizes as numeric label/quantity row pairs, twice at most.
func AutryLayout() *Layout {
	return &Layout{
		Name:            LayoutAutry,
		Brand:           "Autry",
		Segmenter:       NewHeaderSegmenter(`[A-Z]{3,4} - [A-Z0-9]{2,4}`),
		NamePattern:     regexp.MustCompile(`(?m)^(.+?)\s+\d+`),
		LineItemPattern: regexp.MustCompile(`(\d+)\s+(\d[\d.,]*)\s*€\s+(\d[\d.,]*)\s*€`),
		Sizes:           PairedRows{MaxGroups: 2},
		Attributes:      SeparatorSplitter{Separator: "-"},
	}
}

// CopenhagenLayout describes the OCR'd Copenhagen price list. Products start
// with a "CPH" number followed by the name, sizes are inline "[38]: 2 pc"
// tokens, the retail price sits in the segment and the "EK" cost price is
// looked up in the whole document.
func CopenhagenLayout() *Layout {
	return CopenhagenLayoutWith(NewVocabulary(CopenhagenMaterials, CopenhagenColours))
}

// CopenhagenLayoutWith is CopenhagenLayout with a custom keyword vocabulary.
func CopenhagenLayoutWith(vocabulary Vocabulary) *Layout {
	return &Layout{
		Name:          LayoutCopenhagen,
		Brand:         "Copenhagen",
		Segmenter:     NewHeaderSegmenter(`CPH\d+`),
		NamePattern:   regexp.MustCompile(`\A\s+([^\[\n]+)`),
		RetailPattern: regexp.MustCompile(`retail price\s+(\d[\d.,]*)\s*€`),
		CostLookup:    costPriceLookup,
		Sizes:         InlineSizes{Pattern: regexp.MustCompile(`\[(\d+)\]:\s*(\d+)\s*p[ce]`)},
		Attributes:    KeywordSplitter{Vocabulary: vocabulary},
	}
}

func costPriceLookup(id string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)` + regexp.QuoteMeta(id) + `.*?EK[\s:]*(\d[\d.,]*)\s*€`)
}

// Registry holds the layouts available to a run, keyed by name
type Registry struct {
	mu      sync.RWMutex
	layouts map[string]*Layout
}

// NewRegistry creates a registry holding the given layouts
func NewRegistry(layouts ...*Layout) (*Registry, error) {
	r := &Registry{layouts: make(map[string]*Layout)}
	for _, l := range layouts {
		if err := r.Register(l); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// DefaultRegistry returns a registry with the built-in layouts
func DefaultRegistry() *Registry {
	r, err := NewRegistry(AutryLayout(), CopenhagenLayout())
	if err != nil {
		panic(fmt.Sprintf("built-in layouts: %v", err))
	}
	return r
}

// Register adds or replaces a layout
func (r *Registry) Register(l *Layout) error {
	if l == nil {
		return fmt.Errorf("layout cannot be nil")
	}
	if err := l.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layouts[l.Name] = l
	return nil
}

// Lookup returns the layout registered under name
func (r *Registry) Lookup(name string) (*Layout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.layouts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLayout, name)
	}
	return l, nil
}

// Names returns the registered layout names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.layouts))
	for name := range r.layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
