package classify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ginjaninja78/vendor-normalizer/internal/classify"
	"github.com/ginjaninja78/vendor-normalizer/internal/types"
)

func TestPartitionFirstRow(t *testing.T) {
	ds := types.Dataset{
		Fields: []string{"sku", "unit_price", "date"},
		Rows:   []types.Row{{"sku": "A1", "unit_price": "9.99", "date": "2024-01-01"}},
	}

	got := classify.Partition(ds, classify.FirstRow{})

	assert.Equal(t, []string{"unit_price"}, got.Numeric)
	assert.Equal(t, []string{"sku", "date"}, got.Categorical)
	assert.True(t, got.Has("unit_price", classify.Numeric))
	assert.True(t, got.Has("date", classify.Categorical))
	assert.False(t, got.Has("date", classify.Numeric))
}

func TestPartitionNoRows(t *testing.T) {
	got := classify.Partition(types.Dataset{Fields: []string{"sku"}}, nil)

	assert.Empty(t, got.Numeric)
	assert.Empty(t, got.Categorical)
}

func TestFirstRowBlankSampleIsCategorical(t *testing.T) {
	rows := []types.Row{{"qty": ""}, {"qty": "3"}, {"qty": "4"}}

	assert.Equal(t, classify.Categorical, classify.FirstRow{}.Classify("qty", rows))
	assert.Equal(t, classify.Numeric, classify.FirstRow{}.Classify("qty", rows[1:]))
}

func TestFirstRowToleratesWhitespace(t *testing.T) {
	rows := []types.Row{{"qty": "  12.5 "}}
	assert.Equal(t, classify.Numeric, classify.FirstRow{}.Classify("qty", rows))
}

func TestMajority(t *testing.T) {
	rows := []types.Row{
		{"qty": ""},
		{"qty": "3"},
		{"qty": "4"},
		{"qty": "n/a"},
		{"qty": "5"},
	}

	m := classify.Majority{SampleSize: 10, Threshold: 0.7}
	assert.Equal(t, classify.Numeric, m.Classify("qty", rows))

	strict := classify.Majority{SampleSize: 10, Threshold: 0.9}
	assert.Equal(t, classify.Categorical, strict.Classify("qty", rows))

	firstTwo := classify.Majority{SampleSize: 2, Threshold: 0.8}
	assert.Equal(t, classify.Numeric, firstTwo.Classify("qty", rows))

	assert.Equal(t, classify.Categorical, m.Classify("missing", rows))
}

func TestByName(t *testing.T) {
	c, ok := classify.ByName("", 0, 0)
	assert.True(t, ok)
	assert.IsType(t, classify.FirstRow{}, c)

	c, ok = classify.ByName("majority", 20, 0.8)
	assert.True(t, ok)
	assert.Equal(t, classify.Majority{SampleSize: 20, Threshold: 0.8}, c)

	_, ok = classify.ByName("vote", 0, 0)
	assert.False(t, ok)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "numeric", classify.Numeric.String())
	assert.Equal(t, "categorical", classify.Categorical.String())
}
