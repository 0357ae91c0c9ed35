// =============================================================================
// Vendor Normalizer - Workspace
// =============================================================================
//
// A Workspace is one uploaded vendor table together with the user's mapping
// choices. Like mapping.State it is an immutable value: every edit returns a
// new Workspace.
//
// The Workspace is where completeness gating happens. Normalize, Fields and
// Chart refuse to run until every required field has a column and return an
// *IncompleteError naming the missing fields.
//
// =============================================================================

package converter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ginjaninja78/vendor-normalizer/internal/aggregate"
	"github.com/ginjaninja78/vendor-normalizer/internal/chart"
	"github.com/ginjaninja78/vendor-normalizer/internal/classify"
	"github.com/ginjaninja78/vendor-normalizer/internal/mapping"
	"github.com/ginjaninja78/vendor-normalizer/internal/normalizer"
	"github.com/ginjaninja78/vendor-normalizer/internal/schema"
	"github.com/ginjaninja78/vendor-normalizer/internal/types"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrIncompleteMapping is returned (wrapped in *IncompleteError) when an
// operation needs every required field mapped.
var ErrIncompleteMapping = errors.New("mapping incomplete")

// IncompleteError lists the required fields that have no column.
type IncompleteError struct {
	Missing []schema.Field
}

func (e *IncompleteError) Error() string {
	labels := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		labels[i] = f.Label
	}
	return fmt.Sprintf("%s: missing %s", ErrIncompleteMapping, strings.Join(labels, ", "))
}

func (e *IncompleteError) Unwrap() error {
	return ErrIncompleteMapping
}

// =============================================================================
// WORKSPACE
// =============================================================================

// Workspace is an uploaded table and its mapping state.
type Workspace struct {
	table *types.Table
	state mapping.State
}

// Load starts a workspace for table: required fields take the columns m
// proposes and no optional column is selected. A nil m uses substring
// matching.
func Load(table *types.Table, registry *schema.Registry, m mapping.Matcher) Workspace {
	if table == nil {
		table = &types.Table{}
	}
	proposal := mapping.Infer(table.Columns, registry, m)
	return Workspace{
		table: table,
		state: mapping.NewState(registry, table.Columns, proposal),
	}
}

// Table returns the uploaded table. Callers must not modify it.
func (w Workspace) Table() *types.Table { return w.table }

// State returns the current mapping state.
func (w Workspace) State() mapping.State { return w.state }

// SetRequired maps fieldKey to column; mapping.None or "" unmaps it.
func (w Workspace) SetRequired(fieldKey, column string) Workspace {
	w.state = w.state.SetRequired(fieldKey, column)
	return w
}

// ToggleOptional adds or removes an optional column.
func (w Workspace) ToggleOptional(column string) Workspace {
	w.state = w.state.ToggleOptional(column)
	return w
}

// SelectAllOptional selects every column not used by a required field.
func (w Workspace) SelectAllOptional() Workspace {
	w.state = w.state.SelectAllOptional()
	return w
}

// SelectNoneOptional clears the optional selection.
func (w Workspace) SelectNoneOptional() Workspace {
	w.state = w.state.SelectNoneOptional()
	return w
}

// IsComplete reports whether every required field has a column.
func (w Workspace) IsComplete() bool { return w.state.IsComplete() }

// Missing returns the required fields that have no column.
func (w Workspace) Missing() []schema.Field { return w.state.Missing() }

// check returns an *IncompleteError unless the mapping is complete.
func (w Workspace) check() error {
	if w.state.IsComplete() {
		return nil
	}
	return &IncompleteError{Missing: w.state.Missing()}
}

// =============================================================================
// DERIVED DATA
// =============================================================================

// Normalize maps every table row onto the output fields.
func (w Workspace) Normalize() (types.Dataset, error) {
	if err := w.check(); err != nil {
		return types.Dataset{}, err
	}
	return normalizer.Normalize(w.table.Rows, w.state), nil
}

// Fields classifies the normalized fields as numeric or categorical. A nil
// classifier uses the first-row rule.
func (w Workspace) Fields(c classify.Classifier) (classify.Classification, error) {
	ds, err := w.Normalize()
	if err != nil {
		return classify.Classification{}, err
	}
	return classify.Partition(ds, c), nil
}

// Chart groups the normalized rows by keyField, sums valueField and
// describes the result as a chart of type t.
func (w Workspace) Chart(t chart.Type, keyField, valueField string) (chart.Chart, error) {
	ds, err := w.Normalize()
	if err != nil {
		return chart.Chart{}, err
	}
	points := aggregate.Aggregate(ds.Rows, keyField, valueField)
	return chart.Build(t, keyField, valueField, points), nil
}
