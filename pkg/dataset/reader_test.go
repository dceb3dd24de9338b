package dataset

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestReader_Basic tests reading a simple CSV with a header row.
func TestReader_Basic(t *testing.T) {
	csvData := "employee_id,claim_amount,receipt_attached\nE001,1200,yes\nE002,300,no\n"

	r, err := NewReader(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("NewReader() failed: %v", err)
	}

	if cols := r.Columns(); len(cols) != 3 || cols[0] != "employee_id" {
		t.Errorf("Columns() = %v", cols)
	}

	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if v, _ := rows[0].Get("claim_amount"); v != "1200" {
		t.Errorf("rows[0][claim_amount] = %q, want 1200", v)
	}
	if v, _ := rows[1].Get("receipt_attached"); v != "no" {
		t.Errorf("rows[1][receipt_attached] = %q, want no", v)
	}
}

// TestReader_BOM tests that a UTF-8 BOM on the header is stripped.
func TestReader_BOM(t *testing.T) {
	csvData := "\ufeffemployee_id,claim_amount\nE001,500\n"

	r, err := NewReader(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("NewReader() failed: %v", err)
	}
	if cols := r.Columns(); cols[0] != "employee_id" {
		t.Errorf("Columns()[0] = %q, BOM not stripped", cols[0])
	}

	// Rows must be keyed by the stripped column name.
	row, err := r.Next()
	if err != nil {
		t.Fatalf("Next() failed: %v", err)
	}
	if v, ok := row.Get("employee_id"); !ok || v != "E001" {
		t.Errorf("row.Get(employee_id) = %q, %v", v, ok)
	}
}

// TestReader_RaggedRows tests that short records pad with empty cells.
func TestReader_RaggedRows(t *testing.T) {
	csvData := "employee_id,claim_amount,claim_type\nE001,500\n"

	r, err := NewReader(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("NewReader() failed: %v", err)
	}
	row, err := r.Next()
	if err != nil {
		t.Fatalf("Next() failed: %v", err)
	}
	if v, ok := row.Get("claim_type"); !ok || v != "" {
		t.Errorf("short row claim_type = %q (ok=%v), want empty present", v, ok)
	}
}

// TestReader_EmptyFile tests that a file with no header fails.
func TestReader_EmptyFile(t *testing.T) {
	_, err := NewReader(strings.NewReader(""))
	if err == nil {
		t.Fatal("NewReader(empty) = nil error, want SourceError")
	}
	var se *SourceError
	if !errors.As(err, &se) {
		t.Errorf("error type = %T, want *SourceError", err)
	}
}

// TestReader_EOF tests stream termination.
func TestReader_EOF(t *testing.T) {
	r, err := NewReader(strings.NewReader("employee_id\nE001\n"))
	if err != nil {
		t.Fatalf("NewReader() failed: %v", err)
	}
	if _, err := r.Next(); err != nil {
		t.Fatalf("first Next() failed: %v", err)
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("Next() after last row = %v, want io.EOF", err)
	}
}

// TestRow_EmployeeIdentifier tests identifier column resolution order.
func TestRow_EmployeeIdentifier(t *testing.T) {
	tests := []struct {
		name string
		row  Row
		want string
	}{
		{"employee_id", Row{"employee_id": "E001", "employee": "shadowed"}, "E001"},
		{"employee fallback", Row{"employee": "Jordan Lee"}, "Jordan Lee"},
		{"emp_id fallback", Row{"emp_id": "42"}, "42"},
		{"empty value skipped", Row{"employee_id": "", "emp_id": "42"}, "42"},
		{"no identifier", Row{"claim_amount": "100"}, UnknownEmployee},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.row.EmployeeIdentifier(); got != tt.want {
				t.Errorf("EmployeeIdentifier() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestOpen tests the file-backed source.
func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leave.csv")
	content := "employee_id,request_date,leave_start_date\nE001,2024-01-01,2024-01-03\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	src, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer src.Close()

	rows, err := src.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() failed: %v", err)
	}
	if len(rows) != 1 || rows[0].EmployeeIdentifier() != "E001" {
		t.Errorf("unexpected rows: %v", rows)
	}
}

// TestOpen_Missing tests that a missing file surfaces a SourceError.
func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Fatal("Open(missing) = nil error")
	}
	var se *SourceError
	if !errors.As(err, &se) {
		t.Errorf("error type = %T, want *SourceError", err)
	}
}
