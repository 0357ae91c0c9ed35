package mapping

import (
	"github.com/ginjaninja78/vendor-normalizer/internal/schema"
)

// Proposal maps required field keys to the vendor column guessed for them.
// Fields without a guess are absent.
type Proposal map[string]string

// Infer proposes a vendor column for each required field.
//
// Every column is scored with m for every field; the highest positive score
// wins and ties go to the column that appears first. With the default
// SubstringMatcher this means "first column containing the key". A nil
// matcher uses SubstringMatcher. Infer is deterministic and never fails; at
// worst it returns an empty proposal.
func Infer(columns []string, registry *schema.Registry, m Matcher) Proposal {
	if m == nil {
		m = SubstringMatcher{}
	}

	proposal := make(Proposal, registry.Len())
	for _, field := range registry.Fields() {
		best, bestScore := "", 0.0
		for _, col := range columns {
			if s := m.Score(field, col); s > bestScore {
				best, bestScore = col, s
			}
		}
		if bestScore > 0 {
			proposal[field.Key] = best
		}
	}
	return proposal
}

// MatcherByName returns the matcher registered under name: "substring"
// (or empty) and "synonym".
func MatcherByName(name string) (Matcher, bool) {
	switch name {
	case "", "substring":
		return SubstringMatcher{}, true
	case "synonym":
		return NewSynonymMatcher(), true
	default:
		return nil, false
	}
}
