// =============================================================================
// Vendor Normalizer - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - vendorfile  (produces Tables)
//   - mapping     (reads Table columns)
//   - normalizer  (produces Datasets)
//   - classify, aggregate, export (consume Datasets)
//
// =============================================================================

package types

// =============================================================================
// ROW TYPES
// =============================================================================

// Row is a single record keyed by column or field name.
//
// For raw vendor rows the keys are vendor column names; a key that is not
// present means the value is absent for that row. For normalized rows the
// keys are target field keys and every field of the owning Dataset is set.
type Row map[string]string

// =============================================================================
// TABLE (RAW VENDOR DATA)
// =============================================================================

// Table is a parsed vendor file: an ordered list of distinct column names and
// the data rows keyed by those names.
type Table struct {
	// Source is the name of the file the table was read from.
	Source string

	// Columns are the header names in file order. They are distinct.
	Columns []string

	// Rows are the data rows in file order.
	Rows []Row
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether name is one of the table's columns.
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Head returns at most n rows from the start of the table.
func (t *Table) Head(n int) []Row {
	if t == nil || n <= 0 {
		return nil
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return t.Rows[:n]
}

// =============================================================================
// DATASET (NORMALIZED DATA)
// =============================================================================

// Dataset is the normalized output: rows restricted to Fields, in Fields order
// when serialized.
type Dataset struct {
	// Fields is the output field order: required field keys followed by the
	// selected optional vendor columns.
	Fields []string

	// Rows has exactly one entry per input row, in input order.
	Rows []Row
}

// Len returns the number of rows in the dataset.
func (d Dataset) Len() int {
	return len(d.Rows)
}

// Record returns row i as a slice ordered by Fields.
func (d Dataset) Record(i int) []string {
	row := d.Rows[i]
	record := make([]string, len(d.Fields))
	for j, f := range d.Fields {
		record[j] = row[f]
	}
	return record
}
