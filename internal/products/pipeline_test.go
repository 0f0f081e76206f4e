package products

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const autryDocument = "Autry Action Shoes srl\nOrder confirmation 2024-118\n" +
	"ABC - 01\nSneaker Model - leather black\n10 50,00€ 500,00€\n36 38\n2 3\n39 40\n5 0\n" +
	"MEDL - L2\nMedalist Low - suede white\n4 1.250,00 € 5.000,00 €\n41 42\n4 0\n" +
	"ZZZ - 99\nGift card\n1 voucher\n"

const copenhagenDocument = "COPENHAGEN STUDIOS price list\n" +
	"CPH101 Runner leather black [38]: 2 pc [39]: 3 pc\n" +
	"EK: 45,50 €\n" +
	"CPH202 Court Alpha [40]: 1 pe\n" +
	"retail price 120,00 €\n" +
	"EK 60,00 €\n"

func float(f float64) *float64 { return &f }

func TestPipeline_AutryScenario(t *testing.T) {
	p := NewPipeline(AutryLayout())
	res, err := p.Parse("ABC - 01\nSneaker Model - leather black\n10 50,00€ 500,00€\n36 38\n2 3\n39 40\n5 0\n")
	require.NoError(t, err)
	require.Len(t, res.Products, 1)

	got := res.Products[0]
	assert.Equal(t, "ABC - 01", got.ID)
	assert.Equal(t, "Sneaker Model - leather black", got.Name)
	assert.Equal(t, "Autry", got.Brand)
	assert.Equal(t, "leather", got.Material)
	require.Len(t, got.Colours, 1)
	assert.Equal(t, "black", got.Colour().Name)
	assert.Equal(t, []Size{{"36", 2}, {"38", 3}, {"39", 5}}, got.Colour().Sizes)
	assert.Equal(t, 10, got.TotalQuantity)
	assert.Equal(t, float(50), got.UnitPrice)
	assert.Equal(t, float(500), got.TotalCost)
	assert.Nil(t, got.RetailPrice)
	assert.False(t, got.RetailListed)
	assert.Equal(t, 0.0, got.Discount)
	assert.Empty(t, res.Warnings())
}

func TestPipeline_AutryDocument(t *testing.T) {
	res, err := NewPipeline(AutryLayout()).Parse(autryDocument)
	require.NoError(t, err)

	require.Len(t, res.Products, 2)
	assert.Equal(t, "ABC - 01", res.Products[0].ID)
	assert.Equal(t, "MEDL - L2", res.Products[1].ID)

	medalist := res.Products[1]
	assert.Equal(t, "suede", medalist.Material)
	assert.Equal(t, "white", medalist.Colour().Name)
	assert.Equal(t, []Size{{"41", 4}}, medalist.Colour().Sizes)
	assert.Equal(t, float(1250), medalist.UnitPrice)
	assert.Equal(t, float(5000), medalist.TotalCost)

	// the gift card has no priced line item
	warnings := res.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, KindRequiredFieldMissing, warnings[0].Kind)
	assert.Equal(t, "ZZZ - 99", warnings[0].Segment)
	assert.Equal(t, FieldLineItem, warnings[0].Field)
}

func TestPipeline_MissingLineItemSkipsOnlyThatSegment(t *testing.T) {
	text := "ABC - 01\nFirst - canvas red\n1 voucher\nABC - 02\nSecond - canvas blue\n3 10,00€ 30,00€\n"
	res, err := NewPipeline(AutryLayout()).Parse(text)
	require.NoError(t, err)

	require.Len(t, res.Products, 1)
	assert.Equal(t, "ABC - 02", res.Products[0].ID)
	assert.Empty(t, res.Products[0].Colour().Sizes)
	assert.NotNil(t, res.Products[0].Colour().Sizes)

	require.Len(t, res.Warnings(), 1)
	assert.Equal(t, "ABC - 01", res.Warnings()[0].Segment)
}

func TestPipeline_NoHeaders(t *testing.T) {
	for _, layout := range []*Layout{AutryLayout(), CopenhagenLayout()} {
		t.Run(layout.Name, func(t *testing.T) {
			res, err := NewPipeline(layout).Parse("nothing here\n12 34\n")
			require.NoError(t, err)
			assert.Empty(t, res.Products)
			require.Len(t, res.Diagnostics, 1)
			assert.Equal(t, KindSegmentationEmpty, res.Diagnostics[0].Kind)
			assert.Equal(t, SeverityInfo, res.Diagnostics[0].Severity)
		})
	}
}

func TestPipeline_CopenhagenDocument(t *testing.T) {
	res, err := NewPipeline(CopenhagenLayout()).Parse(copenhagenDocument)
	require.NoError(t, err)
	require.Len(t, res.Products, 2)

	runner := res.Products[0]
	assert.Equal(t, "CPH101", runner.ID)
	assert.Equal(t, "Runner leather black", runner.Name)
	assert.Equal(t, "Copenhagen", runner.Brand)
	assert.Equal(t, "leather", runner.Material)
	assert.Equal(t, "black", runner.Colour().Name)
	assert.Equal(t, []Size{{"38", 2}, {"39", 3}}, runner.Colour().Sizes)
	assert.Equal(t, 5, runner.TotalQuantity)
	assert.Equal(t, float(45.5), runner.UnitPrice)
	assert.Equal(t, float(227.5), runner.TotalCost)
	assert.Nil(t, runner.RetailPrice)
	assert.True(t, runner.RetailListed)

	court := res.Products[1]
	assert.Equal(t, "Court Alpha", court.Name)
	assert.Equal(t, "", court.Material)
	assert.Equal(t, "Alpha", court.Colour().Name)
	assert.Equal(t, 1, court.TotalQuantity)
	assert.Equal(t, float(120), court.RetailPrice)
	assert.Equal(t, float(60), court.UnitPrice)
	assert.Equal(t, float(60), court.TotalCost)

	assert.Empty(t, res.Warnings())
	var retailMissing int
	for _, d := range res.Diagnostics {
		if d.Field == FieldRetailPrice {
			retailMissing++
			assert.Equal(t, KindOptionalFieldMissing, d.Kind)
		}
	}
	assert.Equal(t, 1, retailMissing)
}

func TestPipeline_CopenhagenWithoutCostPrice(t *testing.T) {
	res, err := NewPipeline(CopenhagenLayout()).Parse("CPH7 Slipper brown [41]: 2 pc\nretail price 89,95 €\n")
	require.NoError(t, err)
	require.Len(t, res.Products, 1)

	got := res.Products[0]
	assert.Nil(t, got.UnitPrice)
	assert.Nil(t, got.TotalCost)
	assert.Equal(t, float(89.95), got.RetailPrice)
	assert.Equal(t, 2, got.TotalQuantity)
}

func TestPipeline_CopenhagenCostRounding(t *testing.T) {
	text := "CPH9 Mule white [36]: 3 pc\nEK 33,333 €\n"
	res, err := NewPipeline(CopenhagenLayout()).Parse(text)
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Equal(t, float(100), res.Products[0].TotalCost)
}

func TestPipeline_CopenhagenMissingName(t *testing.T) {
	res, err := NewPipeline(CopenhagenLayout()).Parse("CPH1\n[38]: 2 pc\nCPH2 Clog blue [39]: 1 pc\n")
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "CPH2", res.Products[0].ID)

	require.Len(t, res.Warnings(), 1)
	assert.Equal(t, FieldName, res.Warnings()[0].Field)
}

func TestPipeline_JSONShape(t *testing.T) {
	autry, err := NewPipeline(AutryLayout()).Parse(autryDocument)
	require.NoError(t, err)
	data, err := json.Marshal(autry.Products[0])
	require.NoError(t, err)
	assert.NotContains(t, string(data), "retail_price")
	assert.JSONEq(t, `{
		"name": "Sneaker Model - leather black",
		"id": "ABC - 01",
		"brand": "Autry",
		"colours": [{"name": "black", "sizes": [
			{"name": "36", "quantity": 2},
			{"name": "38", "quantity": 3},
			{"name": "39", "quantity": 5}
		]}],
		"material": "leather",
		"total_quantity": 10,
		"unit_price": 50,
		"total_cost": 500,
		"discount": 0
	}`, string(data))

	cph, err := NewPipeline(CopenhagenLayout()).Parse(copenhagenDocument)
	require.NoError(t, err)
	data, err = json.Marshal(cph.Products[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"total_cost":227.5,"retail_price":null,"discount":0}`)

	named := cph.Products[0]
	named.Name = "Black & White <Runner>"
	data, err = named.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name":"Black & White <Runner>"`)
	assert.False(t, strings.HasSuffix(string(data), "\n"))
}

func TestPipeline_Idempotent(t *testing.T) {
	for _, tc := range []struct {
		layout *Layout
		text   string
	}{
		{AutryLayout(), autryDocument},
		{CopenhagenLayout(), copenhagenDocument},
	} {
		t.Run(tc.layout.Name, func(t *testing.T) {
			first := marshalProducts(t, NewPipeline(tc.layout), tc.text)
			second := marshalProducts(t, NewPipeline(tc.layout), tc.text)
			parallel := marshalProducts(t, NewPipeline(tc.layout, WithWorkers(4)), tc.text)
			assert.Equal(t, first, second)
			assert.Equal(t, first, parallel)
		})
	}
}

func TestPipeline_ParallelKeepsDocumentOrder(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&b, "CPH%d Runner black [38]: %d pc\nEK %d,00 €\n", 1000+i, i+1, i+10)
	}
	res, err := NewPipeline(CopenhagenLayout(), WithWorkers(8)).Parse(b.String())
	require.NoError(t, err)
	require.Len(t, res.Products, 50)
	for i, p := range res.Products {
		assert.Equal(t, fmt.Sprintf("CPH%d", 1000+i), p.ID)
		assert.Equal(t, i+1, p.TotalQuantity)
	}
}

func TestPipeline_NumberFormatErrorAbortsRun(t *testing.T) {
	layout := AutryLayout()
	layout.LineItemPattern = regexp.MustCompile(`(\d+) (\S+)€ (\S+)€`)

	for _, workers := range []int{1, 4} {
		res, err := NewPipeline(layout, WithWorkers(workers)).Parse("ABC - 01\nBroken - x y\n2 ab€ cd€\n")
		require.Error(t, err)
		assert.Nil(t, res)
		assert.True(t, errors.Is(err, ErrNumberFormat))
	}
}

func marshalProducts(t *testing.T, p *Pipeline, text string) []byte {
	t.Helper()
	res, err := p.Parse(text)
	require.NoError(t, err)
	data, err := json.Marshal(res.Products)
	require.NoError(t, err)
	return data
}

func TestPipeline_AutryEnDashHeader(t *testing.T) {
	text := "ABC – 01\nSneaker Model – leather black\n10 50,00€ 500,00€\n36 38\n2 3\n39 40\n5 0\n"
	res, err := NewPipeline(AutryLayout()).Parse(text)
	require.NoError(t, err)
	require.Len(t, res.Products, 1)

	got := res.Products[0]
	assert.Equal(t, "ABC - 01", got.ID)
	assert.Equal(t, "leather", got.Material)
	assert.Equal(t, "black", got.Colour().Name)
}
