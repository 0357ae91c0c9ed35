package chart_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/vendor-normalizer/internal/aggregate"
	"github.com/ginjaninja78/vendor-normalizer/internal/chart"
)

func TestParseType(t *testing.T) {
	for in, want := range map[string]chart.Type{"": chart.Bar, "BAR": chart.Bar, " line": chart.Line, "pie": chart.Pie} {
		got, err := chart.ParseType(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := chart.ParseType("donut")
	assert.ErrorIs(t, err, chart.ErrUnknownType)
}

func TestBuildBar(t *testing.T) {
	points := []aggregate.Point{{Name: "2024-01-01", Value: 8}, {Name: "2024-01-02", Value: 2}}
	c := chart.Build(chart.Bar, "date", "unit_price", points)

	assert.Equal(t, "unit_price by date (Top 10)", c.Title)
	assert.Equal(t, "date", c.XAxis)
	assert.Equal(t, "unit_price", c.SeriesName)
	assert.Equal(t, []string{"#0088FE"}, c.Colors)
	assert.True(t, c.ShowGrid)
	assert.Equal(t, points, c.Points)
}

func TestBuildPieColorsEachSlice(t *testing.T) {
	points := make([]aggregate.Point, 12)
	c := chart.Build(chart.Pie, "k", "v", points)

	require.Len(t, c.Colors, 12)
	assert.Equal(t, chart.Palette[0], c.Colors[10])
	assert.Equal(t, chart.Palette[1], c.Colors[11])
	assert.False(t, c.ShowGrid)
}

func TestBuildJSONShape(t *testing.T) {
	c := chart.Build("", "k", "v", nil)
	data, err := json.Marshal(c)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "bar", decoded["type"])
	assert.Equal(t, []interface{}{}, decoded["points"])
}
