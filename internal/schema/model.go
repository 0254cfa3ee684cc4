package schema

// ColumnInfo is one column as reported by the catalog. The optional
// attributes are nil when the catalog has no value for them.
type ColumnInfo struct {
	Table            string
	Name             string
	DataType         string
	IsNullable       bool
	Default          *string
	CharMaxLength    *int64
	NumericPrecision *int64
	NumericScale     *int64
}

// SampleSet holds up to N distinct non-null values of one column,
// stringified, in the order the sampling query returned them.
type SampleSet struct {
	Table  string
	Column string
	Values []string
}

type ColumnResult struct {
	Info    ColumnInfo
	Samples SampleSet
}

type TableResult struct {
	Name    string
	Columns []ColumnResult
}

// Report is the result of AnalyzeSchema: tables and their columns in
// discovery order.
type Report struct {
	Database   string
	Schema     string
	SampleSize int
	Tables     []TableResult
}

// Table looks up a table by its exact catalog name.
func (r *Report) Table(name string) (TableResult, bool) {
	for _, t := range r.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return TableResult{}, false
}

func (r *Report) TableNames() []string {
	names := make([]string, 0, len(r.Tables))
	for _, t := range r.Tables {
		names = append(names, t.Name)
	}
	return names
}

// ColumnCount is the number of report rows the analysis will flatten to.
func (r *Report) ColumnCount() int {
	n := 0
	for _, t := range r.Tables {
		n += len(t.Columns)
	}
	return n
}
