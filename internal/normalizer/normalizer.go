// =============================================================================
// Vendor Normalizer - Normalizer Module
// =============================================================================
//
// Turns raw vendor rows into rows of the target schema.
//
// PER-ROW TRANSFORM:
//   1. For each required field (schema order), copy the raw value of the
//      mapped vendor column verbatim. No trimming, no type coercion.
//   2. For each selected optional column (selection order), copy its raw
//      value under the column's own name.
//   3. Any value whose column is absent from the row, or whose field is not
//      mapped, becomes the empty string.
//
// Exactly one output row is produced per input row, in input order. Nothing
// here returns an error: vendor data is expected to be inconsistent and
// missing values degrade to blanks. Callers gate on State.IsComplete before
// offering the result.
//
// =============================================================================

package normalizer

import (
	"github.com/ginjaninja78/vendor-normalizer/internal/mapping"
	"github.com/ginjaninja78/vendor-normalizer/internal/types"
)

// DefaultPreviewRows is how many rows Preview shows by default.
const DefaultPreviewRows = 5

// Normalize applies state to rows.
func Normalize(rows []types.Row, state mapping.State) types.Dataset {
	fields := state.Fields()

	// source[i] is the vendor column feeding fields[i]; "" means unmapped.
	source := make([]string, len(fields))
	registry := state.Registry()
	for i, f := range fields {
		if registry.Has(f) {
			source[i], _ = state.Required(f)
		} else {
			source[i] = f
		}
	}

	out := make([]types.Row, len(rows))
	for i, raw := range rows {
		out[i] = normalizeRow(raw, fields, source)
	}

	return types.Dataset{Fields: fields, Rows: out}
}

func normalizeRow(raw types.Row, fields, source []string) types.Row {
	row := make(types.Row, len(fields))
	for i, f := range fields {
		if source[i] == "" {
			row[f] = ""
			continue
		}
		row[f] = raw[source[i]]
	}
	return row
}

// Preview returns at most n rows of ds, keeping its field list. A
// non-positive n uses DefaultPreviewRows.
func Preview(ds types.Dataset, n int) types.Dataset {
	if n <= 0 {
		n = DefaultPreviewRows
	}
	if n > len(ds.Rows) {
		n = len(ds.Rows)
	}
	return types.Dataset{Fields: ds.Fields, Rows: ds.Rows[:n]}
}

// Summary describes what an export of ds would contain.
type Summary struct {
	Rows   int `json:"rows"`
	Fields int `json:"fields"`
}

// Summarize returns the row and field counts of ds.
func Summarize(ds types.Dataset) Summary {
	return Summary{Rows: len(ds.Rows), Fields: len(ds.Fields)}
}
