// Package export serializes product records for hand-off.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/AB1903/Extracted-into-json/internal/products"
)

// Supported output formats
const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// WriteJSON writes products as an indented JSON array. Non-ASCII characters
// are written as UTF-8 and an empty result is written as [].
func WriteJSON(w io.Writer, items []products.Product) error {
	if items == nil {
		items = []products.Product{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encode products: %w", err)
	}
	return nil
}

// FormatFromPath picks the format implied by a file extension, JSON unless
// the path ends in .xlsx
func FormatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return FormatXLSX
	}
	return FormatJSON
}

// Write serializes products in the given format
func Write(format string, w io.Writer, items []products.Product) error {
	switch format {
	case FormatJSON, "":
		return WriteJSON(w, items)
	case FormatXLSX:
		return WriteXLSX(w, items)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
