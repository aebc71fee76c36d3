package table

import (
	"fmt"
	"slices"

	"github.com/xuri/excelize/v2"
)

// readXLSX returns every row of one worksheet. An empty sheet name selects
// the first sheet in the workbook.
func readXLSX(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	name := sheets[0]
	if sheet != "" {
		if !slices.Contains(sheets, sheet) {
			return nil, fmt.Errorf("sheet %q not found (available: %v)", sheet, sheets)
		}
		name = sheet
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
