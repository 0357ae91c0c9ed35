// Package classify sorts normalized fields into numeric and categorical ones
// so the chart surface can offer sensible value and group-by choices.
package classify

import (
	"strings"

	"github.com/ginjaninja78/vendor-normalizer/internal/types"
)

// Kind is the classification of one field.
type Kind int

const (
	Categorical Kind = iota
	Numeric
)

func (k Kind) String() string {
	if k == Numeric {
		return "numeric"
	}
	return "categorical"
}

// Classifier decides the kind of a field from sample rows.
type Classifier interface {
	Classify(field string, rows []types.Row) Kind
}

// FirstRow classifies a field by its value in the first row only. A field
// whose first value is blank or non-numeric is categorical even if later
// rows are numeric.
type FirstRow struct{}

// Classify implements Classifier.
func (FirstRow) Classify(field string, rows []types.Row) Kind {
	if len(rows) == 0 {
		return Categorical
	}
	if types.IsNumber(rows[0][field]) {
		return Numeric
	}
	return Categorical
}

// Majority looks at the non-blank values among the first SampleSize rows and
// calls the field numeric when at least Threshold of them parse as numbers.
type Majority struct {
	SampleSize int
	Threshold  float64
}

// Classify implements Classifier.
func (m Majority) Classify(field string, rows []types.Row) Kind {
	n := m.SampleSize
	if n <= 0 || n > len(rows) {
		n = len(rows)
	}

	var seen, numeric int
	for _, row := range rows[:n] {
		v := row[field]
		if strings.TrimSpace(v) == "" {
			continue
		}
		seen++
		if types.IsNumber(v) {
			numeric++
		}
	}
	if seen == 0 {
		return Categorical
	}
	if float64(numeric) >= m.Threshold*float64(seen) {
		return Numeric
	}
	return Categorical
}

// ByName returns the classifier called name: "first_row" (or empty) and
// "majority".
func ByName(name string, sampleSize int, threshold float64) (Classifier, bool) {
	switch name {
	case "", "first_row":
		return FirstRow{}, true
	case "majority":
		return Majority{SampleSize: sampleSize, Threshold: threshold}, true
	default:
		return nil, false
	}
}

// Classification partitions fields by kind. Both lists keep field order.
type Classification struct {
	Numeric     []string `json:"numeric"`
	Categorical []string `json:"categorical"`
}

// Partition classifies every field of ds with c. With no rows both lists are
// empty. A nil classifier uses FirstRow.
func Partition(ds types.Dataset, c Classifier) Classification {
	out := Classification{Numeric: []string{}, Categorical: []string{}}
	if len(ds.Rows) == 0 {
		return out
	}
	if c == nil {
		c = FirstRow{}
	}

	for _, f := range ds.Fields {
		switch c.Classify(f, ds.Rows) {
		case Numeric:
			out.Numeric = append(out.Numeric, f)
		default:
			out.Categorical = append(out.Categorical, f)
		}
	}
	return out
}

// Has reports whether field was classified as kind.
func (c Classification) Has(field string, kind Kind) bool {
	list := c.Categorical
	if kind == Numeric {
		list = c.Numeric
	}
	for _, f := range list {
		if f == field {
			return true
		}
	}
	return false
}
