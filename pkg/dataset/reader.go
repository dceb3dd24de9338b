package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// SourceError represents a failure reading the dataset row source. It is
// fatal to the evaluation run that hit it.
type SourceError struct {
	Path  string // File path, if the source is a file
	Cause error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("dataset source error [path=%s]: %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("dataset source error: %v", e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *SourceError) Unwrap() error {
	return e.Cause
}

// Reader scans a delimited file with a header row and yields one Row per
// record. Short records leave trailing columns empty rather than failing,
// matching how spreadsheet exports commonly trail off.
type Reader struct {
	cr      *csv.Reader
	columns []string
	path    string
}

// NewReader creates a Reader over r and consumes the header row. A UTF-8
// byte order mark on the first header cell is stripped; files exported
// from Windows tooling routinely carry one.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // tolerate ragged rows
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, &SourceError{Cause: errors.New("empty file, no header row")}
		}
		return nil, &SourceError{Cause: err}
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	return &Reader{cr: cr, columns: header}, nil
}

// Columns returns the header columns in file order.
func (r *Reader) Columns() []string {
	return r.columns
}

// Next returns the next row, or io.EOF after the last one. Any other
// error wraps the underlying read failure in a SourceError.
func (r *Reader) Next() (Row, error) {
	record, err := r.cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, &SourceError{Path: r.path, Cause: err}
	}

	row := make(Row, len(r.columns))
	for i, col := range r.columns {
		if i < len(record) {
			row[col] = record[i]
		} else {
			row[col] = ""
		}
	}
	return row, nil
}

// ReadAll drains the reader into a slice. Intended for small datasets and
// tests; evaluation of large files should stream via Next.
func (r *Reader) ReadAll() ([]Row, error) {
	var rows []Row
	for {
		row, err := r.Next()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// FileSource is a Reader over an opened dataset file. Close releases the
// file handle.
type FileSource struct {
	*Reader
	f *os.File
}

// Open opens a dataset file and positions the reader past the header.
func Open(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &SourceError{Path: path, Cause: err}
	}
	r, err := NewReader(f)
	if err != nil {
		f.Close()
		var se *SourceError
		if errors.As(err, &se) {
			se.Path = path
		}
		return nil, err
	}
	r.path = path
	return &FileSource{Reader: r, f: f}, nil
}

// Close releases the underlying file handle.
func (s *FileSource) Close() error {
	return s.f.Close()
}
