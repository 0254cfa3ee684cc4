package report

import (
	"encoding/csv"
	"io"

	"column-detector/internal/schema"
)

// utf8BOM lets spreadsheet applications detect the encoding of the
// Japanese header.
const utf8BOM = "\uFEFF"

// WriteCSV renders rows with a BOM and header row.
func WriteCSV(w io.Writer, rows []Row) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.Cells()); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

// ExportCSV writes the flattened report to path.
func ExportCSV(rep *schema.Report, path string) error {
	rows := Flatten(rep)
	return writeFile(path, func(w io.Writer) error {
		return WriteCSV(w, rows)
	})
}
