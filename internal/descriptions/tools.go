package descriptions

// Tool descriptions with practical examples and use cases

const (
	ExtractProductsDescription = `Extract product records from an order confirmation or price list PDF.

**When to use:** A supplier PDF needs to become structured stock data: sizes, quantities, prices, material and colour per article.

**Layouts:**
• autry: digital order confirmations, one block per article with a "CODE - VARIANT" header and a size grid
• copenhagen: scanned price lists read through OCR, "[size]: quantity pc" cells and separate cost price lines

**Examples:**
• "Extract the products from inbox/autry-2024-118.pdf with layout autry"
• "Read scans/cph-spring.pdf as copenhagen using auto so a text layer is used when present"

**Result:** a JSON array of products followed by a short summary listing any skipped segments.

**Best practices:** Leave method empty to use the layout's default. Use auto when you are unsure whether the file is scanned.`

	ParseTextDescription = `Parse product records from document text that was already extracted.

**When to use:** The text of an order document is at hand already (copied from a viewer, produced by another OCR engine) and only the product parsing is needed.

**Examples:**
• "Parse this copenhagen price list text into products"
• "Check which autry segments in this text are missing a price line"

**Result:** the same JSON array and summary as extract_products.`

	ListLayoutsDescription = `List the supported document layouts.

**When to use:** Before calling extract_products or parse_text, to pick the layout matching the supplier.

**Result:** each layout with its brand and default extraction method.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"extract_products": ExtractProductsDescription,
	"parse_text":       ParseTextDescription,
	"list_layouts":     ListLayoutsDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}
