package gst

import "github.com/shopspring/decimal"

// SupplyClassification decides which GST heads apply to a supply.
type SupplyClassification string

const (
	// IntraState supplies are taxed as CGST + SGST.
	IntraState SupplyClassification = "intra_state"
	// InterState supplies are taxed as IGST.
	InterState SupplyClassification = "inter_state"
)

// Valid reports whether s is a known classification.
func (s SupplyClassification) Valid() bool {
	return s == IntraState || s == InterState
}

// ClassifySupply derives the classification from the issuing business's home
// state and the invoice's place of supply.
func ClassifySupply(homeState, placeOfSupply StateCode) SupplyClassification {
	if homeState == placeOfSupply {
		return IntraState
	}
	return InterState
}

// LineItem is one invoice line as handed over by the persistence layer.
type LineItem struct {
	HSNCode     string          `json:"hsn_code"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     TaxRate         `json:"tax_rate"`
}

// BaseAmount is quantity * unit price, unrounded.
func (l *LineItem) BaseAmount() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// Validate enforces the line preconditions: positive quantity, non-negative
// unit price in whole paise, statutory rate.
func (l *LineItem) Validate() error {
	if !l.Quantity.IsPositive() {
		return invalidInput("quantity", l.Quantity.String(), "must be greater than zero")
	}
	if l.UnitPrice.IsNegative() {
		return invalidInput("unit_price", l.UnitPrice.String(), "must not be negative")
	}
	if !hasAtMostTwoDecimals(l.UnitPrice) {
		return invalidInput("unit_price", l.UnitPrice.String(), "must have at most 2 decimal places")
	}
	if !l.TaxRate.Valid() {
		return invalidInput("tax_rate", l.TaxRate.String(), "must be one of 0, 5, 12, 18, 28")
	}
	return nil
}

// LineResult holds the computed amounts for one line. All amounts are rounded
// to two decimals and TotalAmount is the sum of the rounded components.
type LineResult struct {
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	CGSTRate      decimal.Decimal `json:"cgst_rate"`
	CGSTAmount    decimal.Decimal `json:"cgst_amount"`
	SGSTRate      decimal.Decimal `json:"sgst_rate"`
	SGSTAmount    decimal.Decimal `json:"sgst_amount"`
	IGSTRate      decimal.Decimal `json:"igst_rate"`
	IGSTAmount    decimal.Decimal `json:"igst_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// TotalTax is CGST + SGST + IGST.
func (r *LineResult) TotalTax() decimal.Decimal {
	return r.CGSTAmount.Add(r.SGSTAmount).Add(r.IGSTAmount)
}

// ComputeLine computes the taxable value and tax split for one line.
//
// Intra-state tax is split by rounding each half of the total tax on its own;
// the line total is then built from the rounded halves, so it can differ from
// taxable + round2(total tax) by one paisa on odd totals.
func ComputeLine(base decimal.Decimal, rate TaxRate, supply SupplyClassification) (LineResult, error) {
	if base.IsNegative() {
		return LineResult{}, invalidInput("base_amount", base.String(), "must not be negative")
	}
	if !rate.Valid() {
		return LineResult{}, invalidInput("tax_rate", rate.String(), "must be one of 0, 5, 12, 18, 28")
	}
	if !supply.Valid() {
		return LineResult{}, invalidInput("supply", string(supply), "must be intra_state or inter_state")
	}

	res := LineResult{
		TaxableAmount: Round2(base),
		CGSTRate:      decimal.Zero,
		CGSTAmount:    decimal.Zero,
		SGSTRate:      decimal.Zero,
		SGSTAmount:    decimal.Zero,
		IGSTRate:      decimal.Zero,
		IGSTAmount:    decimal.Zero,
	}
	totalTax := Round2(res.TaxableAmount.Mul(rate.Decimal()).Div(hundred))

	switch supply {
	case InterState:
		res.IGSTRate = rate.Decimal()
		res.IGSTAmount = totalTax
	case IntraState:
		half := Round2(totalTax.Div(two))
		res.CGSTRate = rate.Half()
		res.SGSTRate = rate.Half()
		res.CGSTAmount = half
		res.SGSTAmount = half
	}

	res.TotalAmount = res.TaxableAmount.Add(res.CGSTAmount).Add(res.SGSTAmount).Add(res.IGSTAmount)
	return res, nil
}

// ComputeLineItem validates a line item and computes it.
func ComputeLineItem(item *LineItem, supply SupplyClassification) (LineResult, error) {
	if err := item.Validate(); err != nil {
		return LineResult{}, err
	}
	return ComputeLine(item.BaseAmount(), item.TaxRate, supply)
}
