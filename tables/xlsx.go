package tables

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/tsawler/pdfextract/model"
)

const sheetName = "Table"

// Workbook renders the table into a single-sheet workbook. Header cells are
// bold. The caller must Close the returned file.
func Workbook(t *model.Table) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	for r, row := range t.Rows {
		for c, cell := range row {
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				f.Close()
				return nil, err
			}
			if err := f.SetCellValue(sheetName, ref, cell.Text); err != nil {
				f.Close()
				return nil, fmt.Errorf("writing cell %s: %w", ref, err)
			}
			if cell.IsHeader {
				if err := f.SetCellStyle(sheetName, ref, ref, headerStyle); err != nil {
					f.Close()
					return nil, fmt.Errorf("styling cell %s: %w", ref, err)
				}
			}
		}
	}
	return f, nil
}

// WriteXLSX writes the table to path as an XLSX workbook
func WriteXLSX(t *model.Table, path string) error {
	f, err := Workbook(t)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}
