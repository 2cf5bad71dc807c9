package gst

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TaxRate is a statutory GST slab expressed as a whole percentage.
type TaxRate int

const (
	Rate0  TaxRate = 0
	Rate5  TaxRate = 5
	Rate12 TaxRate = 12
	Rate18 TaxRate = 18
	Rate28 TaxRate = 28
)

var statutoryRates = []TaxRate{Rate0, Rate5, Rate12, Rate18, Rate28}

// StatutoryRates returns the valid GST slabs in ascending order.
func StatutoryRates() []TaxRate {
	out := make([]TaxRate, len(statutoryRates))
	copy(out, statutoryRates)
	return out
}

// Valid reports whether r is one of the statutory slabs.
func (r TaxRate) Valid() bool {
	for _, s := range statutoryRates {
		if r == s {
			return true
		}
	}
	return false
}

// Decimal returns the rate as a percentage decimal (18 -> 18).
func (r TaxRate) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(r))
}

// Half returns the CGST/SGST component rate (18 -> 9, 5 -> 2.5).
func (r TaxRate) Half() decimal.Decimal {
	return r.Decimal().Div(two)
}

func (r TaxRate) String() string {
	return fmt.Sprintf("%d%%", int(r))
}

// ParseTaxRate converts a decimal percentage into a TaxRate. Fractional or
// non-statutory values are rejected.
func ParseTaxRate(d decimal.Decimal) (TaxRate, error) {
	if !d.Equal(d.Truncate(0)) {
		return 0, invalidInput("tax_rate", d.String(), "must be one of 0, 5, 12, 18, 28")
	}
	r := TaxRate(d.IntPart())
	if !r.Valid() {
		return 0, invalidInput("tax_rate", d.String(), "must be one of 0, 5, 12, 18, 28")
	}
	return r, nil
}

// RateEntry is one row of the HSN/SAC rate master.
type RateEntry struct {
	Code        string
	Description string
	Rate        decimal.Decimal
}

// RateTable maps 4-digit HSN/SAC prefixes to a default GST rate.
// It is immutable after construction and safe for concurrent reads.
type RateTable struct {
	byPrefix map[string]TaxRate
}

// NewRateTable builds a RateTable from master rows. Rows with a code shorter
// than four digits or a non-statutory rate are skipped. When several rows share
// a prefix the first one wins, so callers control precedence through ordering.
func NewRateTable(entries []RateEntry) *RateTable {
	m := make(map[string]TaxRate, len(entries))
	for idx := range entries {
		e := &entries[idx]
		prefix, ok := hsnPrefix(e.Code)
		if !ok {
			continue
		}
		rate, err := ParseTaxRate(e.Rate)
		if err != nil {
			continue
		}
		if _, exists := m[prefix]; !exists {
			m[prefix] = rate
		}
	}
	return &RateTable{byPrefix: m}
}

// RateFor returns the default rate for an HSN/SAC code, matched on its first
// four digits. The boolean is false when the table has no entry; that is not
// an error and callers fall back to a rate from product master data.
func (t *RateTable) RateFor(hsn string) (TaxRate, bool) {
	if t == nil || len(t.byPrefix) == 0 {
		return 0, false
	}
	prefix, ok := hsnPrefix(hsn)
	if !ok {
		return 0, false
	}
	rate, ok := t.byPrefix[prefix]
	return rate, ok
}

// Len returns the number of prefixes in the table.
func (t *RateTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byPrefix)
}

func hsnPrefix(code string) (string, bool) {
	code = strings.ReplaceAll(strings.TrimSpace(code), " ", "")
	if len(code) < 4 {
		return "", false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return "", false
		}
	}
	return code[:4], true
}

// DefaultRateTable returns a small built-in table covering common goods and
// services. It is used when no HSN master has been loaded.
func DefaultRateTable() *RateTable {
	return NewRateTable([]RateEntry{
		{Code: "0401", Description: "Milk and cream, not concentrated", Rate: decimal.NewFromInt(0)},
		{Code: "1006", Description: "Rice", Rate: decimal.NewFromInt(5)},
		{Code: "0902", Description: "Tea", Rate: decimal.NewFromInt(5)},
		{Code: "1905", Description: "Bread, pastry, cakes, biscuits", Rate: decimal.NewFromInt(18)},
		{Code: "3004", Description: "Medicaments", Rate: decimal.NewFromInt(12)},
		{Code: "4820", Description: "Registers, notebooks, stationery", Rate: decimal.NewFromInt(12)},
		{Code: "6109", Description: "T-shirts, knitted", Rate: decimal.NewFromInt(5)},
		{Code: "8471", Description: "Computers and units thereof", Rate: decimal.NewFromInt(18)},
		{Code: "8517", Description: "Telephone sets, smartphones", Rate: decimal.NewFromInt(18)},
		{Code: "8703", Description: "Motor cars", Rate: decimal.NewFromInt(28)},
		{Code: "2202", Description: "Aerated waters", Rate: decimal.NewFromInt(28)},
		{Code: "9983", Description: "Other professional, technical and business services", Rate: decimal.NewFromInt(18)},
		{Code: "9963", Description: "Accommodation, food and beverage services", Rate: decimal.NewFromInt(5)},
	})
}
