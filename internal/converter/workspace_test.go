package converter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/vendor-normalizer/internal/aggregate"
	"github.com/ginjaninja78/vendor-normalizer/internal/chart"
	"github.com/ginjaninja78/vendor-normalizer/internal/mapping"
	"github.com/ginjaninja78/vendor-normalizer/internal/schema"
	"github.com/ginjaninja78/vendor-normalizer/internal/types"
)

func vendorTable() *types.Table {
	return &types.Table{
		Source:  "acme.csv",
		Columns: []string{"Item_SKU", "Item Name", "Price", "TransactionDate", "Category"},
		Rows: []types.Row{
			{"Item_SKU": "A1", "Item Name": "Widget", "Price": "10", "TransactionDate": "2024-01-01", "Category": "Tools"},
			{"Item_SKU": "A2", "Item Name": "Gadget", "Price": "5.5", "TransactionDate": "2024-01-02", "Category": "Toys"},
			{"Item_SKU": "A3", "Item Name": "Gizmo", "Price": "x", "TransactionDate": "2024-01-03", "Category": "Tools"},
			{"Item_SKU": "A4", "Item Name": "Doohickey", "Price": "2", "TransactionDate": "2024-01-04"},
		},
	}
}

func TestLoadInfersMapping(t *testing.T) {
	ws := Load(vendorTable(), schema.Default(), nil)

	col, ok := ws.State().Required("sku")
	assert.True(t, ok)
	assert.Equal(t, "Item_SKU", col)
	assert.False(t, ws.IsComplete())
	assert.Empty(t, ws.State().Optional())

	ws = Load(vendorTable(), schema.Default(), mapping.NewSynonymMatcher())
	assert.True(t, ws.IsComplete())
}

func TestNormalizeGatedOnCompleteness(t *testing.T) {
	ws := Load(vendorTable(), schema.Default(), nil)

	_, err := ws.Normalize()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIncompleteMapping))

	var incomplete *IncompleteError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, []schema.Field{
		{Key: "product_name", Label: "Product Name"},
		{Key: "unit_price", Label: "Unit Price"},
	}, incomplete.Missing)
	assert.Equal(t, "mapping incomplete: missing Product Name, Unit Price", err.Error())

	_, err = ws.Fields(nil)
	assert.ErrorIs(t, err, ErrIncompleteMapping)
	_, err = ws.Chart(chart.Bar, "product_name", "unit_price")
	assert.ErrorIs(t, err, ErrIncompleteMapping)
}

func TestWorkspaceIsImmutable(t *testing.T) {
	before := Load(vendorTable(), schema.Default(), nil)
	after := before.
		SetRequired("product_name", "Item Name").
		SetRequired("unit_price", "Price").
		ToggleOptional("Category")

	assert.False(t, before.IsComplete())
	assert.Empty(t, before.State().Optional())
	assert.True(t, after.IsComplete())
	assert.Equal(t, []string{"Category"}, after.State().Optional())

	cleared := after.SetRequired("sku", mapping.None)
	assert.True(t, after.IsComplete())
	assert.False(t, cleared.IsComplete())
}

func complete(t *testing.T) Workspace {
	t.Helper()
	ws := Load(vendorTable(), schema.Default(), nil).
		SetRequired("product_name", "Item Name").
		SetRequired("unit_price", "Price")
	require.True(t, ws.IsComplete())
	return ws
}

func TestNormalizeComplete(t *testing.T) {
	ds, err := complete(t).SelectAllOptional().Normalize()
	require.NoError(t, err)

	assert.Equal(t, []string{"sku", "product_name", "unit_price", "date", "Category"}, ds.Fields)
	require.Equal(t, 4, ds.Len())
	assert.Equal(t, "", ds.Rows[3]["Category"])
	assert.Equal(t, "x", ds.Rows[2]["unit_price"])

	ds, err = complete(t).SelectAllOptional().SelectNoneOptional().Normalize()
	require.NoError(t, err)
	assert.Len(t, ds.Fields, 4)
}

func TestFieldsClassification(t *testing.T) {
	fields, err := complete(t).Fields(nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"unit_price"}, fields.Numeric)
	assert.Equal(t, []string{"sku", "product_name", "date"}, fields.Categorical)
}

func TestChart(t *testing.T) {
	ws := complete(t).ToggleOptional("Category")

	c, err := ws.Chart(chart.Pie, "Category", "unit_price")
	require.NoError(t, err)

	assert.Equal(t, "unit_price by Category (Top 10)", c.Title)
	assert.Equal(t, []aggregate.Point{
		{Name: "Tools", Value: 10},
		{Name: "Toys", Value: 5.5},
		{Name: aggregate.UnknownKey, Value: 2},
	}, c.Points)
	assert.Len(t, c.Colors, 3)
}

func TestChoicesApply(t *testing.T) {
	ws := Load(vendorTable(), schema.Default(), nil)
	ws = Choices{
		Required: map[string]string{"product_name": "Item Name", "unit_price": "Price", "date": mapping.None},
		Optional: []string{"Category", "Category"},
	}.Apply(ws)

	assert.Equal(t, []schema.Field{{Key: "date", Label: "Date"}}, ws.Missing())
	assert.Equal(t, []string{"Category"}, ws.State().Optional())

	ws = Choices{AllOptional: true}.Apply(Load(vendorTable(), schema.Default(), mapping.NewSynonymMatcher()))
	assert.Equal(t, []string{"Category"}, ws.State().Optional())
}
