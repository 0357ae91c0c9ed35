package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/vendor-normalizer/internal/types"
)

// DefaultSheet is the worksheet name used when XLSXWriter.Sheet is empty.
const DefaultSheet = "Normalized"

// XLSXWriter writes a single-sheet workbook. Every cell is written as text so
// values such as leading-zero SKUs survive unchanged.
type XLSXWriter struct {
	Sheet string
}

// Extension implements Writer.
func (XLSXWriter) Extension() string { return ".xlsx" }

// Write implements Writer.
func (x XLSXWriter) Write(_ context.Context, path string, ds types.Dataset) error {
	sheet := x.Sheet
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := setRow(f, sheet, 1, ds.Fields); err != nil {
		return err
	}
	for i := 0; i < ds.Len(); i++ {
		if err := setRow(f, sheet, i+2, ds.Record(i)); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}
