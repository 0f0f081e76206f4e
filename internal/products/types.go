package products

import (
	"bytes"
	"encoding/json"
)

// Size is one size label with its ordered quantity. Quantity is always positive.
type Size struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Colour groups the sizes ordered for one colour variant.
type Colour struct {
	Name  string `json:"name"`
	Sizes []Size `json:"sizes"`
}

// Product is the normalized record produced for one product segment.
type Product struct {
	Name          string   `json:"name"`
	ID            string   `json:"id"`
	Brand         string   `json:"brand"`
	Colours       []Colour `json:"colours"`
	Material      string   `json:"material"`
	TotalQuantity int      `json:"total_quantity"`
	UnitPrice     *float64 `json:"unit_price"`
	TotalCost     *float64 `json:"total_cost"`
	Discount      float64  `json:"discount"`

	// RetailPrice is only serialized when RetailListed is set, where a missing
	// price is written as null.
	RetailPrice  *float64 `json:"-"`
	RetailListed bool     `json:"-"`
}

// Colour returns the product's single colour variant.
func (p Product) Colour() Colour {
	if len(p.Colours) == 0 {
		return Colour{}
	}
	return p.Colours[0]
}

type productFields struct {
	Name          string   `json:"name"`
	ID            string   `json:"id"`
	Brand         string   `json:"brand"`
	Colours       []Colour `json:"colours"`
	Material      string   `json:"material"`
	TotalQuantity int      `json:"total_quantity"`
	UnitPrice     *float64 `json:"unit_price"`
	TotalCost     *float64 `json:"total_cost"`
}

// MarshalJSON writes retail_price, ahead of discount, only for layouts that
// list retail prices. HTML characters in names are kept as they are.
func (p Product) MarshalJSON() ([]byte, error) {
	fields := productFields{
		Name:          p.Name,
		ID:            p.ID,
		Brand:         p.Brand,
		Colours:       p.Colours,
		Material:      p.Material,
		TotalQuantity: p.TotalQuantity,
		UnitPrice:     p.UnitPrice,
		TotalCost:     p.TotalCost,
	}
	if !p.RetailListed {
		return marshalUnescaped(struct {
			productFields
			Discount float64 `json:"discount"`
		}{fields, p.Discount})
	}
	return marshalUnescaped(struct {
		productFields
		RetailPrice *float64 `json:"retail_price"`
		Discount    float64  `json:"discount"`
	}{fields, p.RetailPrice, p.Discount})
}

func marshalUnescaped(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Segment is the text span of one product, from its header to just before the
// next header.
type Segment struct {
	Index  int
	Header string
	Body   string
}

// Result is the outcome of parsing one document.
type Result struct {
	Layout      string
	Products    []Product
	Diagnostics []Diagnostic
}

// Warnings returns the diagnostics of warning severity, in document order.
func (r *Result) Warnings() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}

func floatPtr(f float64) *float64 {
	return &f
}
