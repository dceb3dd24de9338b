// Package export writes violation reports in CSV and JSON formats.
package export

import (
	"fmt"
	"io"

	"veritas-hq/themis/pkg/compliance"
)

// Exporter writes violations to a writer in a specific format.
type Exporter interface {
	Export(violations []compliance.Violation, w io.Writer) error
}

// ExportError represents a failure while writing a violation report.
type ExportError struct {
	Format      string // "csv" or "json"
	RecordCount int
	Cause       error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [format=%s, record_count=%d]: %v", e.Format, e.RecordCount, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewExportError creates a new ExportError.
func NewExportError(format string, recordCount int, cause error) *ExportError {
	return &ExportError{
		Format:      format,
		RecordCount: recordCount,
		Cause:       cause,
	}
}

// ForFormat returns the exporter for a format name.
func ForFormat(format string) (Exporter, error) {
	switch format {
	case "csv":
		return NewCSVExporter(true), nil
	case "json":
		return NewJSONExporter(true), nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}
