package parser

import (
	"fmt"
	"strings"

	"github.com/ministudy/examimport-go/pkg/examimport/models"
	"github.com/xuri/excelize/v2"
)

// ReadSheet reads a worksheet as a table. The header is the first
// non-empty row and columns left of the first non-empty column are
// ignored. An empty sheet name selects the first sheet.
func ReadSheet(f *excelize.File, sheetName string) (*models.Table, error) {
	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrNoHeader
		}
		sheetName = sheets[0]
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}

	headerRow, firstCol := findDataOrigin(rows)
	if headerRow < 0 {
		return nil, ErrNoHeader
	}

	table := &models.Table{
		Name:    sheetName,
		Headers: rows[headerRow][firstCol:],
	}
	for rowIdx := headerRow + 1; rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		if len(row) <= firstCol || isBlank(row[firstCol:]) {
			continue
		}
		table.Rows = append(table.Rows, models.Row{
			Line:   rowIdx + 1, // 1-based sheet row
			Values: row[firstCol:],
		})
	}
	return table, nil
}

// OpenSheet opens a workbook file and reads one sheet from it.
func OpenSheet(path, sheetName string) (*models.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadSheet(f, sheetName)
}

// findDataOrigin returns the index of the first non-empty row and the
// smallest non-empty column index over all rows, or -1, -1 for an empty
// sheet. Whitespace-only cells count as empty.
func findDataOrigin(rows [][]string) (firstRow, firstCol int) {
	firstRow, firstCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if strings.TrimSpace(cell) == "" {
				continue
			}
			if firstRow < 0 {
				firstRow = rowIdx
			}
			if firstCol < 0 || colIdx < firstCol {
				firstCol = colIdx
			}
		}
	}
	return
}
