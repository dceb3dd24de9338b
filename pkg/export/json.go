package export

import (
	"encoding/json"
	"io"

	"veritas-hq/themis/pkg/compliance"
)

// JSONExporter exports violations as a JSON array.
type JSONExporter struct {
	// Pretty enables indented output.
	Pretty bool
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{Pretty: pretty}
}

// Export writes violations to w as a JSON array. A nil slice exports as
// an empty array, never null, so consumers always get a list.
func (e *JSONExporter) Export(violations []compliance.Violation, w io.Writer) error {
	if violations == nil {
		violations = []compliance.Violation{}
	}

	enc := json.NewEncoder(w)
	if e.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(violations); err != nil {
		return NewExportError("json", len(violations), err)
	}
	return nil
}
