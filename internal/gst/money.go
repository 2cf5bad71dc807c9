package gst

import "github.com/shopspring/decimal"

// Tolerance is one paisa. Totals that differ by no more than this are equal.
var Tolerance = decimal.New(1, -2)

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// Round2 rounds to two decimal places, half-up. Amounts handled by the engine
// are never negative, so decimal's half-away-from-zero rounding is half-up here.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ApproxEqual reports whether a and b differ by at most Tolerance.
func ApproxEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

// Amount formats d as a plain two-decimal string ("1180.00").
func Amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// hasAtMostTwoDecimals reports whether d carries no precision beyond paise.
func hasAtMostTwoDecimals(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(2))
}
