package xlsx

import (
	"github.com/xuri/excelize/v2"
)

// Sheet describes one worksheet: a styled header row, data rows, and
// optional footer rows separated from the data by one blank line.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
	Footers [][]interface{}
	// Widths maps column letters to widths, e.g. "A": 24.
	Widths map[string]float64
}

// Build renders the sheets into a workbook and returns the xlsx bytes.
func Build(sheets ...Sheet) ([]byte, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	for i, s := range sheets {
		index, err := f.NewSheet(s.Name)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			_ = f.DeleteSheet("Sheet1")
			f.SetActiveSheet(index)
		}

		for c, v := range s.Headers {
			cell, _ := excelize.CoordinatesToCellName(c+1, 1)
			_ = f.SetCellValue(s.Name, cell, v)
		}
		if len(s.Headers) > 0 {
			last, _ := excelize.CoordinatesToCellName(len(s.Headers), 1)
			_ = f.SetCellStyle(s.Name, "A1", last, headerStyle)
		}

		rowIdx := 2
		for _, values := range s.Rows {
			for c, v := range values {
				cell, _ := excelize.CoordinatesToCellName(c+1, rowIdx)
				_ = f.SetCellValue(s.Name, cell, v)
			}
			rowIdx++
		}

		if len(s.Footers) > 0 {
			rowIdx++
			for _, values := range s.Footers {
				for c, v := range values {
					cell, _ := excelize.CoordinatesToCellName(c+1, rowIdx)
					_ = f.SetCellValue(s.Name, cell, v)
				}
				rowIdx++
			}
		}

		for col, width := range s.Widths {
			_ = f.SetColWidth(s.Name, col, col, width)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
