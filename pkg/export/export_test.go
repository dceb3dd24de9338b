package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"veritas-hq/themis/pkg/compliance"
	"veritas-hq/themis/pkg/rules"
)

func sampleViolations() []compliance.Violation {
	return []compliance.Violation{
		{
			PolicyID:           "pol-1",
			RuleID:             "BEN_001",
			DatasetID:          "ds-1",
			EmployeeIdentifier: "E001",
			Evidence:           "Claim amount 1500 exceeds max allowed 1000.",
			Risk:               rules.SeverityHigh,
		},
		{
			PolicyID:           "pol-1",
			RuleID:             "BEN_002",
			DatasetID:          "ds-1",
			EmployeeIdentifier: "E002",
			Evidence:           "Receipt is required but 'receipt_attached' is 'no'.",
			Risk:               rules.SeverityMedium,
		},
	}
}

// TestCSVExporter tests header and row output.
func TestCSVExporter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewCSVExporter(true).Export(sampleViolations(), &buf); err != nil {
		t.Fatalf("Export() failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "policy_id,rule_id") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "E001") || !strings.Contains(lines[1], "high") {
		t.Errorf("row 1 = %q", lines[1])
	}
}

// TestCSVExporter_NoHeader tests header suppression.
func TestCSVExporter_NoHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := NewCSVExporter(false).Export(sampleViolations(), &buf); err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Errorf("expected 2 rows without header, got %d", len(lines))
	}
}

// TestJSONExporter tests round-trippable JSON output.
func TestJSONExporter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONExporter(false).Export(sampleViolations(), &buf); err != nil {
		t.Fatalf("Export() failed: %v", err)
	}

	var decoded []compliance.Violation
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 || decoded[0].RuleID != "BEN_001" {
		t.Errorf("decoded = %+v", decoded)
	}
}

// TestJSONExporter_EmptyIsArray tests that no violations exports as [].
func TestJSONExporter_EmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONExporter(false).Export(nil, &buf); err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("empty export = %q, want []", got)
	}
}

// TestForFormat tests exporter selection.
func TestForFormat(t *testing.T) {
	if _, err := ForFormat("csv"); err != nil {
		t.Errorf("ForFormat(csv) failed: %v", err)
	}
	if _, err := ForFormat("json"); err != nil {
		t.Errorf("ForFormat(json) failed: %v", err)
	}
	if _, err := ForFormat("xml"); err == nil {
		t.Error("ForFormat(xml) = nil error, want failure")
	}
}
