// =============================================================================
// Vendor Normalizer - Mapping State
// =============================================================================
//
// State records which vendor column feeds each required field and which
// extra vendor columns the user chose to keep. It is an immutable value:
// every operation returns a new State and leaves the receiver untouched, so a
// caller can keep an old snapshot, recompute from a new one, and never see a
// half-applied edit.
//
// OPERATIONS:
//   SetRequired        - point one required field at a column (or None)
//   ToggleOptional     - add or remove one optional column
//   SelectAllOptional  - every column not already used by a required field
//   SelectNoneOptional - clear the optional selection
//   IsComplete         - every required field has a column
//
// =============================================================================

package mapping

import (
	"github.com/ginjaninja78/vendor-normalizer/internal/schema"
)

// None is the sentinel column value meaning "not mapped".
const None = "__none__"

// State is an immutable snapshot of the user's mapping choices.
type State struct {
	registry *schema.Registry
	columns  []string
	required map[string]string
	optional []string
}

// NewState creates the initial state for an upload: required fields take the
// proposed columns, and no optional column is selected.
func NewState(registry *schema.Registry, columns []string, proposal Proposal) State {
	s := State{
		registry: registry,
		columns:  append([]string(nil), columns...),
		required: make(map[string]string, registry.Len()),
	}
	for _, key := range registry.Keys() {
		if col := proposal[key]; isSet(col) {
			s.required[key] = col
		}
	}
	return s
}

func isSet(column string) bool {
	return column != "" && column != None
}

func (s State) clone() State {
	out := State{
		registry: s.registry,
		columns:  s.columns,
		required: make(map[string]string, len(s.required)),
		optional: append([]string(nil), s.optional...),
	}
	for k, v := range s.required {
		out.required[k] = v
	}
	return out
}

// =============================================================================
// OPERATIONS
// =============================================================================

// SetRequired maps fieldKey to column. An empty column or None unmaps the
// field. The column is not checked against the vendor columns; an unknown
// column simply yields empty values when normalizing.
func (s State) SetRequired(fieldKey, column string) State {
	out := s.clone()
	if isSet(column) {
		out.required[fieldKey] = column
	} else {
		delete(out.required, fieldKey)
	}
	return out
}

// ToggleOptional adds column to the end of the optional selection, or removes
// it if it is already selected.
func (s State) ToggleOptional(column string) State {
	out := s.clone()
	for i, c := range out.optional {
		if c == column {
			out.optional = append(out.optional[:i], out.optional[i+1:]...)
			return out
		}
	}
	out.optional = append(out.optional, column)
	return out
}

// SelectAllOptional selects every vendor column that is not currently a
// required-field target, in column order.
func (s State) SelectAllOptional() State {
	out := s.clone()
	out.optional = s.OptionalCandidates()
	return out
}

// SelectNoneOptional clears the optional selection.
func (s State) SelectNoneOptional() State {
	out := s.clone()
	out.optional = nil
	return out
}

// =============================================================================
// QUERIES
// =============================================================================

// Registry returns the schema the state was built for.
func (s State) Registry() *schema.Registry {
	return s.registry
}

// Required returns the column mapped to fieldKey and whether one is set.
func (s State) Required(fieldKey string) (string, bool) {
	col, ok := s.required[fieldKey]
	return col, ok
}

// RequiredMapping returns a copy of the field key -> column mapping. Unset
// fields are absent.
func (s State) RequiredMapping() map[string]string {
	out := make(map[string]string, len(s.required))
	for k, v := range s.required {
		out[k] = v
	}
	return out
}

// Optional returns the selected optional columns in selection order.
func (s State) Optional() []string {
	return append([]string(nil), s.optional...)
}

// IsOptionalSelected reports whether column is in the optional selection.
func (s State) IsOptionalSelected(column string) bool {
	for _, c := range s.optional {
		if c == column {
			return true
		}
	}
	return false
}

// IsComplete reports whether every required field has a column.
func (s State) IsComplete() bool {
	return len(s.Missing()) == 0
}

// Missing returns the required fields that have no column, in schema order.
func (s State) Missing() []schema.Field {
	var missing []schema.Field
	for _, f := range s.registry.Fields() {
		if _, ok := s.required[f.Key]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

// OptionalCandidates returns the vendor columns not used by any required
// field, in column order.
func (s State) OptionalCandidates() []string {
	used := make(map[string]bool, len(s.required))
	for _, col := range s.required {
		used[col] = true
	}

	var out []string
	for _, col := range s.columns {
		if !used[col] {
			out = append(out, col)
		}
	}
	return out
}

// Fields returns the normalized output field order: every required key in
// schema order, then the selected optional columns in selection order. An
// optional column whose name equals a required key is left out.
func (s State) Fields() []string {
	fields := s.registry.Keys()
	for _, col := range s.optional {
		if s.registry.Has(col) {
			continue
		}
		fields = append(fields, col)
	}
	return fields
}

// DuplicateTargets returns vendor columns that feed more than one required
// field, keyed by column, with the field keys in schema order. Duplicates
// are allowed; this exists so callers can warn about them.
func (s State) DuplicateTargets() map[string][]string {
	byColumn := make(map[string][]string)
	for _, key := range s.registry.Keys() {
		if col, ok := s.required[key]; ok {
			byColumn[col] = append(byColumn[col], key)
		}
	}
	for col, keys := range byColumn {
		if len(keys) < 2 {
			delete(byColumn, col)
		}
	}
	return byColumn
}
