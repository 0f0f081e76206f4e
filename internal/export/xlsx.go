package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/AB1903/Extracted-into-json/internal/products"
)

// SheetName is the worksheet holding the exported products
const SheetName = "Products"

var xlsxHeaders = []string{
	"ID",
	"Name",
	"Brand",
	"Material",
	"Colour",
	"Size",
	"Quantity",
	"Total Quantity",
	"Unit Price",
	"Total Cost",
	"Discount",
	"Retail Price",
}

var xlsxColumnWidths = []struct {
	first, last string
	width       float64
}{
	{"A", "A", 14}, // id
	{"B", "B", 40}, // name
	{"C", "E", 14},
	{"F", "L", 12}, // sizes and amounts
}

// WriteXLSX writes a workbook with one row per product size. Products without
// sizes still get one row with empty size cells, unknown prices stay blank.
func WriteXLSX(w io.Writer, items []products.Product) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range xlsxHeaders {
		if err := setCell(f, i+1, 1, h); err != nil {
			return err
		}
	}

	row := 2
	for _, p := range items {
		if err := writeProductRows(f, p, &row); err != nil {
			return fmt.Errorf("product %s: %w", p.ID, err)
		}
	}

	for _, c := range xlsxColumnWidths {
		if err := f.SetColWidth(SheetName, c.first, c.last, c.width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

// writeProductRows writes one row per size of p starting at *row
func writeProductRows(f *excelize.File, p products.Product, row *int) error {
	colour := p.Colour()
	sizes := colour.Sizes
	if len(sizes) == 0 {
		sizes = []products.Size{{}}
	}

	for _, size := range sizes {
		values := map[int]any{
			1:  p.ID,
			2:  p.Name,
			3:  p.Brand,
			4:  p.Material,
			5:  colour.Name,
			8:  p.TotalQuantity,
			11: p.Discount,
		}
		if size.Name != "" {
			values[6] = size.Name
			values[7] = size.Quantity
		}
		for col, v := range map[int]*float64{9: p.UnitPrice, 10: p.TotalCost, 12: p.RetailPrice} {
			if v != nil {
				values[col] = *v
			}
		}

		for col := 1; col <= len(xlsxHeaders); col++ {
			v, ok := values[col]
			if !ok {
				continue
			}
			if err := setCell(f, col, *row, v); err != nil {
				return err
			}
		}
		*row++
	}
	return nil
}

func setCell(f *excelize.File, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(SheetName, cell, v); err != nil {
		return fmt.Errorf("set %s: %w", cell, err)
	}
	return nil
}
