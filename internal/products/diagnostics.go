package products

import (
	"fmt"
)

// DiagnosticKind categorizes a non-fatal extraction problem
type DiagnosticKind int

const (
	KindUnknown DiagnosticKind = iota
	// KindSegmentationEmpty means no product header was found in the document.
	KindSegmentationEmpty
	// KindRequiredFieldMissing means a segment was dropped because the name or
	// the priced line item could not be matched.
	KindRequiredFieldMissing
	// KindOptionalFieldMissing means a field was left null or empty.
	KindOptionalFieldMissing
)

// String returns a string representation of the DiagnosticKind
func (k DiagnosticKind) String() string {
	switch k {
	case KindSegmentationEmpty:
		return "SEGMENTATION_EMPTY"
	case KindRequiredFieldMissing:
		return "REQUIRED_FIELD_MISSING"
	case KindOptionalFieldMissing:
		return "OPTIONAL_FIELD_MISSING"
	default:
		return "UNKNOWN"
	}
}

// Severity indicates how much attention a diagnostic deserves
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
)

// String returns a string representation of the Severity
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Field names used in diagnostics.
const (
	FieldName        = "name"
	FieldLineItem    = "line_item"
	FieldSizes       = "sizes"
	FieldRetailPrice = "retail_price"
	FieldCostPrice   = "cost_price"
)

// Diagnostic records one non-fatal problem found while parsing a document
type Diagnostic struct {
	Kind     DiagnosticKind `json:"kind"`
	Severity Severity       `json:"severity"`
	Segment  string         `json:"segment,omitempty"` // header of the affected segment
	Field    string         `json:"field,omitempty"`
	Message  string         `json:"message"`
}

// String implements fmt.Stringer
func (d Diagnostic) String() string {
	if d.Segment != "" {
		return fmt.Sprintf("[%s] %s: %s", d.Kind, d.Segment, d.Message)
	}
	return fmt.Sprintf("[%s] %s", d.Kind, d.Message)
}

func requiredMissing(seg Segment, field, msg string) Diagnostic {
	return Diagnostic{
		Kind:     KindRequiredFieldMissing,
		Severity: SeverityWarning,
		Segment:  seg.Header,
		Field:    field,
		Message:  msg,
	}
}

func optionalMissing(seg Segment, field, msg string) Diagnostic {
	return Diagnostic{
		Kind:     KindOptionalFieldMissing,
		Severity: SeverityInfo,
		Segment:  seg.Header,
		Field:    field,
		Message:  msg,
	}
}
