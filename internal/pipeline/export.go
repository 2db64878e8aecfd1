package pipeline

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

const (
	nationalSheet = "national"
	stateSheet    = "state"
)

// ExportTablesToXLSX writes both tables into one workbook, one sheet each.
func ExportTablesToXLSX(national, state OutputTable, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), nationalSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(stateSheet); err != nil {
		return err
	}

	writeSheet(f, nationalSheet, national)
	writeSheet(f, stateSheet, state)

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func writeSheet(f *excelize.File, sheet string, table OutputTable) {
	for i, h := range table.Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, row := range table.Rows {
		r := i + 2
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}
}
