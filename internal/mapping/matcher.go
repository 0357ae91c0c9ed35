// =============================================================================
// Vendor Normalizer - Column Matchers
// =============================================================================
//
// A Matcher scores how well a vendor column name fits a required field.
// Inference (infer.go) asks the matcher to score every column for every
// field and keeps the best one, so swapping the matcher changes how columns
// are guessed without touching anything downstream.
//
// MATCHERS:
//   SubstringMatcher - the standard heuristic: a column matches when its
//                      lowercase form contains the lowercase field key
//                      ("date" also accepts "transaction"). Scores are 0 or 1,
//                      so the first matching column wins.
//   SynonymMatcher   - Unicode-folded, separator-insensitive comparison
//                      against per-field alias tables, falling back to the
//                      substring rule.
//
// =============================================================================

package mapping

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/ginjaninja78/vendor-normalizer/internal/schema"
)

// Matcher scores a vendor column against a required field. A score of zero
// or less means the column does not match. Higher is better.
type Matcher interface {
	Score(field schema.Field, column string) float64
}

// MatcherFunc adapts a plain function to the Matcher interface.
type MatcherFunc func(field schema.Field, column string) float64

// Score implements Matcher.
func (f MatcherFunc) Score(field schema.Field, column string) float64 {
	return f(field, column)
}

// =============================================================================
// SUBSTRING MATCHER
// =============================================================================

// dateFallback is the extra substring accepted for the "date" field.
const dateFallback = "transaction"

// SubstringMatcher matches columns whose lowercase name contains the
// lowercase field key. It is intentionally naive: there is no ranking, ties
// are broken by column order.
type SubstringMatcher struct{}

// Score implements Matcher.
func (SubstringMatcher) Score(field schema.Field, column string) float64 {
	if substringMatch(field.Key, column) {
		return 1
	}
	return 0
}

func substringMatch(key, column string) bool {
	col := strings.ToLower(column)
	if strings.Contains(col, strings.ToLower(key)) {
		return true
	}
	return key == "date" && strings.Contains(col, dateFallback)
}

// =============================================================================
// SYNONYM MATCHER
// =============================================================================

// Scores returned by SynonymMatcher.
const (
	ScoreExactAlias     = 1.0
	ScoreAliasContained = 0.75
	ScoreSubstring      = 0.5
)

// DefaultAliases lists alternative vendor header spellings for the default
// schema fields. Entries are compared after folding (see fold).
var DefaultAliases = map[string][]string{
	"sku": {
		"sku", "item sku", "product id", "product code", "item id",
		"item code", "item number", "part number", "upc", "article number",
	},
	"product_name": {
		"product name", "item name", "product", "description",
		"item description", "product title", "title", "name",
	},
	"unit_price": {
		"unit price", "price", "unit cost", "cost", "price each",
		"rate", "list price", "sell price",
	},
	"date": {
		"date", "transaction date", "order date", "invoice date",
		"sale date", "ship date", "posted", "timestamp",
	},
}

// SynonymMatcher compares folded column names against alias tables.
//
// SCORING:
//   - exact alias (after folding)           -> ScoreExactAlias
//   - column contains an alias              -> ScoreAliasContained
//   - the SubstringMatcher rule matches     -> ScoreSubstring
//
// The field key and label always count as aliases.
type SynonymMatcher struct {
	// Aliases maps a field key to extra names for it.
	Aliases map[string][]string
}

// NewSynonymMatcher returns a SynonymMatcher using DefaultAliases.
func NewSynonymMatcher() *SynonymMatcher {
	return &SynonymMatcher{Aliases: DefaultAliases}
}

// Score implements Matcher.
func (m *SynonymMatcher) Score(field schema.Field, column string) float64 {
	col := fold(column)
	if col == "" {
		return 0
	}

	aliases := m.aliasesFor(field)
	for _, a := range aliases {
		if col == a {
			return ScoreExactAlias
		}
	}
	for _, a := range aliases {
		if strings.Contains(col, a) {
			return ScoreAliasContained
		}
	}
	if substringMatch(field.Key, column) {
		return ScoreSubstring
	}
	return 0
}

func (m *SynonymMatcher) aliasesFor(field schema.Field) []string {
	candidates := append([]string{field.Key, field.Label}, m.Aliases[field.Key]...)

	out := make([]string, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		f := fold(c)
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// fold applies NFKC normalization, lowercases, and turns every run of
// non-alphanumeric characters into a single space.
func fold(s string) string {
	s = strings.ToLower(norm.NFKC.String(s))
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), " ")
}
