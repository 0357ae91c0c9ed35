// =============================================================================
// Vendor Normalizer - Chart Descriptor
// =============================================================================
//
// Wraps an aggregated series in the metadata a chart widget needs: the chart
// shape, a title, axis names and colors. Rendering is left to the consumer;
// the same series works for every shape.
//
// SHAPES:
//   bar  - categorical bars, single color
//   line - trend line, single color
//   pie  - proportional slices, one palette color per slice
//
// =============================================================================

package chart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ginjaninja78/vendor-normalizer/internal/aggregate"
)

// Type is a chart shape.
type Type string

const (
	Bar  Type = "bar"
	Line Type = "line"
	Pie  Type = "pie"
)

// ErrUnknownType is returned by ParseType for unsupported shapes.
var ErrUnknownType = errors.New("unknown chart type")

// Palette is the color cycle used for pie slices. Bar and line charts use
// the first entry.
var Palette = []string{
	"#0088FE", "#00C49F", "#FFBB28", "#FF8042", "#8884D8",
	"#82CA9D", "#FFC658", "#FF6B6B", "#4ECDC4", "#45B7D1",
}

// ParseType parses a chart shape name. Empty means Bar.
func ParseType(s string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case "", Bar:
		return Bar, nil
	case Line:
		return Line, nil
	case Pie:
		return Pie, nil
	default:
		return "", fmt.Errorf("%w: %q (want bar, line or pie)", ErrUnknownType, s)
	}
}

// Chart is a render-ready description of an aggregated series.
type Chart struct {
	Type       Type              `json:"type"`
	Title      string            `json:"title"`
	XAxis      string            `json:"x_axis"`
	YAxis      string            `json:"y_axis"`
	SeriesName string            `json:"series_name"`
	Points     []aggregate.Point `json:"points"`
	Colors     []string          `json:"colors"`
	ShowGrid   bool              `json:"show_grid"`
}

// Build describes points, grouped by keyField and summing valueField, as a
// chart of type t.
func Build(t Type, keyField, valueField string, points []aggregate.Point) Chart {
	if t == "" {
		t = Bar
	}
	if points == nil {
		points = []aggregate.Point{}
	}

	c := Chart{
		Type:       t,
		Title:      Title(keyField, valueField),
		XAxis:      keyField,
		YAxis:      valueField,
		SeriesName: valueField,
		Points:     points,
		ShowGrid:   t != Pie,
	}

	if t == Pie {
		c.Colors = make([]string, len(points))
		for i := range points {
			c.Colors[i] = Palette[i%len(Palette)]
		}
	} else {
		c.Colors = []string{Palette[0]}
	}
	return c
}

// Title returns "<value> by <key> (Top N)".
func Title(keyField, valueField string) string {
	return fmt.Sprintf("%s by %s (Top %d)", valueField, keyField, aggregate.MaxPoints)
}
