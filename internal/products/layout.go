package products

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Discount is the fixed discount written on every record. Source documents do
// not carry one.
const Discount = 0.0

// Layout describes how one vendor's document encodes product data. The
// pipeline is the same for every layout; only the descriptor changes.
type Layout struct {
	// Name identifies the layout in the registry.
	Name string
	// Brand is written on every record of this layout.
	Brand string

	Segmenter Segmenter

	// NamePattern is matched against the segment body, group 1 is the product
	// name. A segment without a name is dropped.
	NamePattern *regexp.Regexp

	// LineItemPattern captures total quantity, unit price and total cost.
	// When set, a segment without a priced line item is dropped.
	LineItemPattern *regexp.Regexp

	// RetailPattern captures the retail price (group 1) inside the segment.
	// Layouts with a retail pattern always serialize retail_price.
	RetailPattern *regexp.Regexp

	// CostLookup builds a pattern, keyed on the product identifier, that is
	// matched against the whole document. Group 1 is the unit cost price.
	// The match starts at the first occurrence of the identifier anywhere in
	// the document, so identifiers that prefix one another can pick up a
	// neighbour's price.
	CostLookup func(id string) *regexp.Regexp

	Sizes      SizeTableStrategy
	Attributes AttributeSplitter
}

// ListsRetail reports whether records of this layout carry a retail price.
func (l *Layout) ListsRetail() bool {
	return l.RetailPattern != nil
}

// Validate checks that the descriptor has every part the pipeline needs.
func (l *Layout) Validate() error {
	switch {
	case l.Name == "":
		return fmt.Errorf("layout name cannot be empty")
	case l.Segmenter == nil:
		return fmt.Errorf("layout %s: segmenter is required", l.Name)
	case l.NamePattern == nil:
		return fmt.Errorf("layout %s: name pattern is required", l.Name)
	case l.Sizes == nil:
		return fmt.Errorf("layout %s: size table strategy is required", l.Name)
	case l.Attributes == nil:
		return fmt.Errorf("layout %s: attribute splitter is required", l.Name)
	}
	if l.LineItemPattern != nil && l.LineItemPattern.NumSubexp() < 3 {
		return fmt.Errorf("layout %s: line item pattern needs 3 groups", l.Name)
	}
	return nil
}

// fields holds what the extractor recovered from one segment.
type fields struct {
	id       string
	name     string
	sizes    []Size
	quantity *int
	unit     *decimal.Decimal
	total    *decimal.Decimal
	retail   *decimal.Decimal
}

// extract applies the layout's field patterns to one segment. A nil product
// with a nil error means the segment was dropped; the diagnostics say why.
func (l *Layout) extract(seg Segment, document string) (*Product, []Diagnostic, error) {
	var diags []Diagnostic
	f := fields{id: seg.Header}

	m := l.NamePattern.FindStringSubmatch(seg.Body)
	if m != nil {
		f.name = strings.TrimSpace(m[1])
	}
	if f.name == "" {
		return nil, append(diags, requiredMissing(seg, FieldName, "no product name found")), nil
	}

	if l.LineItemPattern != nil {
		m := l.LineItemPattern.FindStringSubmatch(seg.Body)
		if m == nil {
			return nil, append(diags, requiredMissing(seg, FieldLineItem, "priced line item not found")), nil
		}
		qty, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, diags, &NumberFormatError{Input: m[1], Err: err}
		}
		f.quantity = &qty
		if f.unit, err = decimalPtr(m[2]); err != nil {
			return nil, diags, err
		}
		if f.total, err = decimalPtr(m[3]); err != nil {
			return nil, diags, err
		}
	}

	f.sizes = l.Sizes.Sizes(seg.Body)
	if len(f.sizes) == 0 {
		diags = append(diags, optionalMissing(seg, FieldSizes, "no size table found"))
	}

	if l.RetailPattern != nil {
		if m := l.RetailPattern.FindStringSubmatch(seg.Body); m != nil {
			retail, err := decimalPtr(m[1])
			if err != nil {
				return nil, diags, err
			}
			f.retail = retail
		} else {
			diags = append(diags, optionalMissing(seg, FieldRetailPrice, "retail price not found"))
		}
	}

	if l.CostLookup != nil && f.unit == nil {
		if m := l.CostLookup(f.id).FindStringSubmatch(document); m != nil {
			unit, err := decimalPtr(m[1])
			if err != nil {
				return nil, diags, err
			}
			f.unit = unit
		} else {
			diags = append(diags, optionalMissing(seg, FieldCostPrice, "cost price not found"))
		}
	}

	p, ok := l.assemble(f)
	if !ok {
		return nil, diags, nil
	}
	return &p, diags, nil
}

// assemble builds the record and derives the fields the document did not state.
func (l *Layout) assemble(f fields) (Product, bool) {
	if f.id == "" || f.name == "" {
		return Product{}, false
	}

	sizes := f.sizes
	if sizes == nil {
		sizes = []Size{}
	}

	quantity := TotalQuantity(sizes)
	if f.quantity != nil {
		quantity = *f.quantity
	}

	material, colour := l.Attributes.Split(f.name)

	p := Product{
		Name:          f.name,
		ID:            f.id,
		Brand:         l.Brand,
		Colours:       []Colour{{Name: colour, Sizes: sizes}},
		Material:      material,
		TotalQuantity: quantity,
		Discount:      Discount,
		RetailListed:  l.ListsRetail(),
	}

	if f.unit != nil {
		p.UnitPrice = toFloat(*f.unit)
	}
	switch {
	case f.total != nil:
		p.TotalCost = toFloat(*f.total)
	case f.unit != nil:
		p.TotalCost = toFloat(f.unit.Mul(decimal.NewFromInt(int64(quantity))).Round(2))
	}
	if f.retail != nil {
		p.RetailPrice = toFloat(*f.retail)
	}
	return p, true
}

func decimalPtr(s string) (*decimal.Decimal, error) {
	d, err := ParseLocaleDecimal(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func toFloat(d decimal.Decimal) *float64 {
	f, _ := d.Float64()
	return floatPtr(f)
}
