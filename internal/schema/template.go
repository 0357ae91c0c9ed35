// =============================================================================
// Vendor Normalizer - Schema Template Loader
// =============================================================================
//
// Loads a custom target schema from an XLSX template. The template layout is:
//
//   Row 1:  header (ignored)       e.g. "Key" | "Label"
//   Row 2+: one required field     e.g. "sku" | "SKU/Product ID"
//
// Column A holds the field key and column B the label. Blank rows and rows
// with an empty key are skipped. Row order becomes the output column order.
//
// =============================================================================

package schema

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// TemplateColumns describes where the key and label live in the template.
type TemplateColumns struct {
	// Sheet is the sheet to read. Empty means the first sheet.
	Sheet string

	// KeyColumn and LabelColumn are zero-based column indices.
	KeyColumn   int
	LabelColumn int

	// DataStartRow is the zero-based index of the first field row.
	DataStartRow int
}

// DefaultTemplateColumns returns the standard template layout.
func DefaultTemplateColumns() TemplateColumns {
	return TemplateColumns{
		KeyColumn:    0,
		LabelColumn:  1,
		DataStartRow: 1,
	}
}

// LoadTemplate reads a registry from the XLSX file at path using the default
// layout.
func LoadTemplate(path string) (*Registry, error) {
	return LoadTemplateWithConfig(path, DefaultTemplateColumns())
}

// LoadTemplateWithConfig reads a registry from the XLSX file at path.
func LoadTemplateWithConfig(path string, columns TemplateColumns) (*Registry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open schema template: %w", err)
	}
	defer f.Close()

	sheet := columns.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, fmt.Errorf("schema template has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	var fields []Field
	for i := columns.DataStartRow; i < len(rows); i++ {
		key := cell(rows[i], columns.KeyColumn)
		if key == "" {
			continue
		}
		fields = append(fields, Field{
			Key:   key,
			Label: cell(rows[i], columns.LabelColumn),
		})
	}

	r, err := New(fields)
	if err != nil {
		return nil, fmt.Errorf("invalid schema template %s: %w", path, err)
	}
	return r, nil
}

// cell safely returns the trimmed value at index i.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
