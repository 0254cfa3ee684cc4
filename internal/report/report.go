package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"column-detector/internal/apperrors"
	"column-detector/internal/schema"
)

// SampleDelimiter joins sample values into one display cell.
const SampleDelimiter = ", "

// Header is the column header of the CSV and spreadsheet outputs
// (table, column, data type, nullable, sample values).
var Header = []string{"テーブル名", "カラム名", "データ型", "NULL許可", "サンプル値"}

// Row is one column of the analyzed schema in flat form.
type Row struct {
	Table    string
	Column   string
	DataType string
	Nullable bool
	Samples  string
}

func (r Row) NullableLabel() string {
	if r.Nullable {
		return "YES"
	}
	return "NO"
}

func (r Row) Cells() []string {
	return []string{r.Table, r.Column, r.DataType, r.NullableLabel(), r.Samples}
}

// Flatten turns the report into one Row per column, keeping table and
// column order.
func Flatten(rep *schema.Report) []Row {
	rows := make([]Row, 0, rep.ColumnCount())
	for _, t := range rep.Tables {
		for _, c := range t.Columns {
			rows = append(rows, Row{
				Table:    t.Name,
				Column:   c.Info.Name,
				DataType: c.Info.DataType,
				Nullable: c.Info.IsNullable,
				Samples:  strings.Join(c.Samples.Values, SampleDelimiter),
			})
		}
	}
	return rows
}

type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "xlsx"
	FormatYAML  Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatExcel, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnsupportedFormat, s)
	}
}

// FormatFromPath infers the format from the file extension, defaulting to CSV.
func FormatFromPath(path string) Format {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return FormatCSV
	}
	return f
}

// Export writes rep to path in the given format, replacing any existing file.
func Export(rep *schema.Report, path string, format Format) error {
	switch format {
	case FormatCSV:
		return ExportCSV(rep, path)
	case FormatExcel:
		return ExportExcel(rep, path)
	case FormatYAML:
		return ExportYAML(rep, path)
	default:
		return fmt.Errorf("%w: %q", apperrors.ErrUnsupportedFormat, format)
	}
}

// writeFile truncates path and hands the file to write. Any failure is
// reported as ErrIO.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrIO, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close %s: %w", apperrors.ErrIO, path, cerr)
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("%w: write %s: %w", apperrors.ErrIO, path, err)
	}
	return nil
}
