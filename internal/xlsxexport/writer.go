// Package xlsxexport writes extracted tables as Excel workbooks.
package xlsxexport

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"babinium/internal/domain"
)

// SheetName is the name of the single worksheet in exported workbooks.
const SheetName = "Table"

// ContentType is the MIME type of an .xlsx workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Build creates a workbook with the header row derived from the first row
// followed by every row. Numbers and booleans keep their type; null and
// missing cells are left blank. The caller closes the returned file.
func Build(data domain.TableData) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}

	columns := data.Columns()
	if len(columns) > 0 {
		header := make([]interface{}, len(columns))
		for i, c := range columns {
			header[i] = c
		}
		if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}

	for i := range data {
		for j, c := range columns {
			v, ok := data[i].Get(c)
			if !ok || v == nil {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				_ = f.Close()
				return nil, err
			}
			if err := f.SetCellValue(SheetName, axis, cellValue(v)); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("writing row %d: %w", i+1, err)
			}
		}
	}

	return f, nil
}

// Export writes data to out as an .xlsx workbook.
func Export(out io.Writer, data domain.TableData) error {
	f, err := Build(data)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func cellValue(v any) interface{} {
	switch t := v.(type) {
	case json.RawMessage:
		return string(t)
	default:
		return t
	}
}
