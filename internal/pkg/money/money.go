package money

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// Amounts are stored as integer cents (bigint columns). Floats only ever
// appear at the JSON boundary and are converted once, here.

// FromFloat converts a JSON number (e.g. 1050.25) to cents.
func FromFloat(v float64) int64 {
	return int64(math.Round(v * 100))
}

// ToFloat converts cents back to the JSON representation.
func ToFloat(cents int64) float64 {
	return float64(cents) / 100
}

// Format renders cents with thousands separators and a currency suffix,
// e.g. Format(123456789, "USD") == "1,234,567.89 USD".
func Format(cents int64, currency string) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	whole := cents / 100
	frac := cents % 100
	if currency == "" {
		return fmt.Sprintf("%s%s.%02d", sign, humanize.Comma(whole), frac)
	}
	return fmt.Sprintf("%s%s.%02d %s", sign, humanize.Comma(whole), frac, currency)
}
