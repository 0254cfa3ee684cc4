package report

import (
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"column-detector/internal/apperrors"
	"column-detector/internal/schema"
)

// SheetName is the single worksheet of the spreadsheet export.
const SheetName = "schema_analysis"

// ExportExcel writes the flattened report to an .xlsx workbook with one sheet.
func ExportExcel(rep *schema.Report, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("%w: write header: %w", apperrors.ErrIO, err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(Header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", lastHeader, bold); err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, r := range Flatten(rep) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{r.Table, r.Column, r.DataType, r.NullableLabel(), fitCell(r.Samples)}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("%w: write row %d: %w", apperrors.ErrIO, i+2, err)
		}
	}
	if err := f.SetColWidth(SheetName, "A", "D", 20); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "E", "E", 60); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("%w: save %s: %w", apperrors.ErrIO, path, err)
	}
	return nil
}

// fitCell cuts s to the number of characters a worksheet cell can hold.
func fitCell(s string) string {
	if utf8.RuneCountInString(s) <= excelize.TotalCellChars {
		return s
	}
	runes := []rune(s)
	return string(runes[:excelize.TotalCellChars])
}
