package types

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// maxExponent bounds the decimal exponent kept from a literal. Values past it
// are taken from their float64 reading instead.
const maxExponent = 330

// ParseNumber parses s as a decimal number literal, ignoring surrounding
// whitespace. It accepts an optional sign, a fractional part and an exponent
// ("9.99", "-3", ".5", "1e3"). Anything else, including the empty string,
// NaN, Inf and literals beyond the float64 range, is reported as not a
// number. A literal too small for float64 reads as zero.
func ParseNumber(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return decimal.NewFromFloat(f), true
	}
	return d, true
}

// IsNumber reports whether s parses with ParseNumber.
func IsNumber(s string) bool {
	_, ok := ParseNumber(s)
	return ok
}
