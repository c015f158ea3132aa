package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes a workbook with one sheet per table
func WriteXLSX(w io.Writer, tables ...Table) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	for i, t := range tables {
		sheet := t.Title
		if len(sheet) > 31 {
			sheet = sheet[:31]
		}
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return err
		}

		header := make([]any, len(t.Header))
		for j, h := range t.Header {
			header[j] = h
		}
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return err
		}
		if len(t.Header) > 0 {
			last, err := excelize.CoordinatesToCellName(len(t.Header), 1)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
				return err
			}
		}

		if len(t.Rows) == 0 {
			if err := f.SetCellValue(sheet, "A2", "No data available"); err != nil {
				return err
			}
		}
		for r, row := range t.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			values := row
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return fmt.Errorf("writing %s row %d: %w", t.Name, r+1, err)
			}
		}
		for c := range t.Header {
			col, err := excelize.ColumnNumberToName(c + 1)
			if err != nil {
				return err
			}
			if err := f.SetColWidth(sheet, col, col, 18); err != nil {
				return err
			}
		}
	}

	f.SetActiveSheet(0)
	_, err = f.WriteTo(w)
	return err
}
