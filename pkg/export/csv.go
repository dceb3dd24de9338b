package export

import (
	"encoding/csv"
	"io"

	"veritas-hq/themis/pkg/compliance"
)

// CSVExporter exports violations to CSV format.
type CSVExporter struct {
	// IncludeHeader includes a header row with column names.
	IncludeHeader bool
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{IncludeHeader: includeHeader}
}

// Export writes violations to w in CSV format, one row per violation, in
// the order given.
func (e *CSVExporter) Export(violations []compliance.Violation, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if e.IncludeHeader {
		header := []string{
			"policy_id", "rule_id", "dataset_id",
			"employee_identifier", "risk", "evidence", "explanation",
		}
		if err := writer.Write(header); err != nil {
			return NewExportError("csv", len(violations), err)
		}
	}

	for _, v := range violations {
		row := []string{
			v.PolicyID,
			v.RuleID,
			v.DatasetID,
			v.EmployeeIdentifier,
			string(v.Risk),
			v.Evidence,
			v.Explanation,
		}
		if err := writer.Write(row); err != nil {
			return NewExportError("csv", len(violations), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return NewExportError("csv", len(violations), err)
	}
	return nil
}
