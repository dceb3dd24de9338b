package dataset

// Type classifies a dataset as holding leave or benefit records. Only
// rules whose category equals the dataset type apply to it.
type Type string

const (
	// TypeLeave marks a dataset of leave requests.
	TypeLeave Type = "leave"

	// TypeBenefit marks a dataset of benefit claims.
	TypeBenefit Type = "benefit"
)

// Valid reports whether the type is one of the known values.
func (t Type) Valid() bool {
	return t == TypeLeave || t == TypeBenefit
}

// Dataset is the metadata for an uploaded tabular file.
type Dataset struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Type        Type   `json:"dataset_type"`
	FilePath    string `json:"file_path"`
}

// identifierColumns are tried in order when resolving the employee
// identifier for a row.
var identifierColumns = []string{"employee_id", "employee", "emp_id"}

// UnknownEmployee is the identifier used when no identifier column is
// present or populated.
const UnknownEmployee = "UNKNOWN"

// Row is one record of a dataset: column name to raw cell value.
type Row map[string]string

// Get returns the raw value for a column and whether the column exists.
func (r Row) Get(column string) (string, bool) {
	v, ok := r[column]
	return v, ok
}

// EmployeeIdentifier resolves the row's employee identifier by trying
// employee_id, employee, then emp_id. Rows with none populated resolve to
// UnknownEmployee.
func (r Row) EmployeeIdentifier() string {
	for _, col := range identifierColumns {
		if v := r[col]; v != "" {
			return v
		}
	}
	return UnknownEmployee
}

// RowSource is a sequential forward scan over dataset rows. Next returns
// io.EOF after the last row; any other error is fatal to the run.
type RowSource interface {
	Next() (Row, error)
}
