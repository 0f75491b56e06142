package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXExporter renders datasets into a single-sheet spreadsheet.
type XLSXExporter struct {
	SheetName string
}

// NewXLSXExporter constructs a spreadsheet exporter.
func NewXLSXExporter(sheetName string) *XLSXExporter {
	if sheetName == "" {
		sheetName = "Sheet1"
	}
	return &XLSXExporter{SheetName: sheetName}
}

// Render produces XLSX encoded bytes for the dataset.
func (e *XLSXExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one header")
	}
	file := excelize.NewFile()
	defer file.Close() //nolint:errcheck

	index, err := file.NewSheet(e.SheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	file.SetActiveSheet(index)
	if e.SheetName != "Sheet1" {
		_ = file.DeleteSheet("Sheet1")
	}

	headerRow := make([]interface{}, len(data.Headers))
	for i, header := range data.Headers {
		headerRow[i] = header
	}
	if err := writeRow(file, e.SheetName, 1, headerRow); err != nil {
		return nil, err
	}

	for i, row := range data.Rows {
		record := make([]interface{}, len(data.Headers))
		for j, header := range data.Headers {
			record[j] = row[header]
		}
		if err := writeRow(file, e.SheetName, i+2, record); err != nil {
			return nil, err
		}
	}

	buf := &bytes.Buffer{}
	if err := file.Write(buf); err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(file *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("resolve cell: %w", err)
	}
	if err := file.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write xlsx row: %w", err)
	}
	return nil
}
