// =============================================================================
// Vendor Normalizer - Aggregator
// =============================================================================
//
// Groups normalized rows by a key field and sums a value field, producing the
// series a chart is drawn from.
//
// RULES:
//   - Groups keep the order in which their key first appears (no sorting).
//   - An empty or absent key is grouped under "Unknown".
//   - A value that does not parse as a number contributes zero.
//   - Sums are exact (decimal arithmetic); Point.Value is the sum converted
//     to float64 at the end.
//   - Only the first MaxPoints groups are returned.
//   - If either field name is empty the result is empty.
//
// =============================================================================

package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/vendor-normalizer/internal/types"
)

// MaxPoints is the number of groups a series is capped at.
const MaxPoints = 10

// UnknownKey is the group name used for rows with an empty key.
const UnknownKey = "Unknown"

// Point is one aggregated group.
type Point struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Aggregate groups rows by keyField and sums valueField, capped at MaxPoints.
func Aggregate(rows []types.Row, keyField, valueField string) []Point {
	return AggregateN(rows, keyField, valueField, MaxPoints)
}

// AggregateN is Aggregate with an explicit cap. A non-positive limit returns
// every group.
func AggregateN(rows []types.Row, keyField, valueField string, limit int) []Point {
	if keyField == "" || valueField == "" {
		return []Point{}
	}

	var order []string
	sums := make(map[string]decimal.Decimal)

	for _, row := range rows {
		key := row[keyField]
		if key == "" {
			key = UnknownKey
		}

		value, _ := types.ParseNumber(row[valueField])

		sum, seen := sums[key]
		if !seen {
			order = append(order, key)
		}
		sums[key] = sum.Add(value)
	}

	if limit > 0 && len(order) > limit {
		order = order[:limit]
	}

	points := make([]Point, len(order))
	for i, key := range order {
		points[i] = Point{Name: key, Value: sums[key].InexactFloat64()}
	}
	return points
}

// Total returns the sum of all point values.
func Total(points []Point) float64 {
	var total float64
	for _, p := range points {
		total += p.Value
	}
	return total
}
