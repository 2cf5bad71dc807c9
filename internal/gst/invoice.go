package gst

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InvoiceTotals sums LineResults across an invoice. It is recomputed on every
// call and never cached.
type InvoiceTotals struct {
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	CGSTAmount    decimal.Decimal `json:"cgst_amount"`
	SGSTAmount    decimal.Decimal `json:"sgst_amount"`
	IGSTAmount    decimal.Decimal `json:"igst_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Count         int             `json:"count"`
}

// TotalTax is CGST + SGST + IGST.
func (t *InvoiceTotals) TotalTax() decimal.Decimal {
	return t.CGSTAmount.Add(t.SGSTAmount).Add(t.IGSTAmount)
}

func (t *InvoiceTotals) addLine(r *LineResult) {
	t.TaxableAmount = t.TaxableAmount.Add(r.TaxableAmount)
	t.CGSTAmount = t.CGSTAmount.Add(r.CGSTAmount)
	t.SGSTAmount = t.SGSTAmount.Add(r.SGSTAmount)
	t.IGSTAmount = t.IGSTAmount.Add(r.IGSTAmount)
	t.TotalAmount = t.TotalAmount.Add(r.TotalAmount)
	t.Count++
}

// AggregateInvoice computes every line and folds the results into invoice
// totals. All lines are validated before anything is summed; on error no
// totals are returned.
func AggregateInvoice(lines []LineItem, supply SupplyClassification) (InvoiceTotals, []LineResult, error) {
	if !supply.Valid() {
		return InvoiceTotals{}, nil, invalidInput("supply", string(supply), "must be intra_state or inter_state")
	}
	for i := range lines {
		if err := lines[i].Validate(); err != nil {
			return InvoiceTotals{}, nil, withLineIndex(err, i)
		}
	}

	var totals InvoiceTotals
	results := make([]LineResult, 0, len(lines))
	for i := range lines {
		r, err := ComputeLine(lines[i].BaseAmount(), lines[i].TaxRate, supply)
		if err != nil {
			return InvoiceTotals{}, nil, withLineIndex(err, i)
		}
		totals.addLine(&r)
		results = append(results, r)
	}
	return totals, results, nil
}

// FieldMismatch describes one field whose computed and declared values differ
// by more than Tolerance.
type FieldMismatch struct {
	Field    string          `json:"field"`
	Computed decimal.Decimal `json:"computed"`
	Declared decimal.Decimal `json:"declared"`
}

// ValidationReport is the non-fatal outcome of comparing totals.
type ValidationReport struct {
	Valid      bool            `json:"valid"`
	Mismatches []string        `json:"mismatches"`
	Details    []FieldMismatch `json:"details,omitempty"`
}

func (r *ValidationReport) check(field string, computed, declared decimal.Decimal) {
	if ApproxEqual(computed, declared) {
		return
	}
	r.Valid = false
	r.Mismatches = append(r.Mismatches, field)
	r.Details = append(r.Details, FieldMismatch{Field: field, Computed: computed, Declared: declared})
}

// ValidateAgainstDeclared compares computed totals with caller-declared totals
// field by field. Differences within one paisa are accepted. Mismatches are
// reported by field name and never returned as an error.
func ValidateAgainstDeclared(computed, declared InvoiceTotals) ValidationReport {
	r := ValidationReport{Valid: true, Mismatches: []string{}}
	r.check("taxable_amount", computed.TaxableAmount, declared.TaxableAmount)
	r.check("cgst_amount", computed.CGSTAmount, declared.CGSTAmount)
	r.check("sgst_amount", computed.SGSTAmount, declared.SGSTAmount)
	r.check("igst_amount", computed.IGSTAmount, declared.IGSTAmount)
	r.check("total_amount", computed.TotalAmount, declared.TotalAmount)
	return r
}

// CheckDeclaredConsistency checks that the declared total equals the declared
// taxable amount plus declared taxes, within one paisa.
func CheckDeclaredConsistency(declared InvoiceTotals) ValidationReport {
	r := ValidationReport{Valid: true, Mismatches: []string{}}
	sum := declared.TaxableAmount.Add(declared.TotalTax())
	r.check("total_amount", sum, declared.TotalAmount)
	return r
}

// Outcome classifies the result of evaluating an invoice.
type Outcome string

const (
	OutcomeComputed               Outcome = "computed"
	OutcomeComputedWithMismatches Outcome = "computed_with_mismatches"
	OutcomeRejected               Outcome = "rejected"
)

// Evaluation bundles everything Evaluate learned about an invoice.
type Evaluation struct {
	Outcome Outcome           `json:"outcome"`
	Totals  InvoiceTotals     `json:"totals"`
	Lines   []LineResult      `json:"lines"`
	Report  *ValidationReport `json:"report,omitempty"`
	Err     error             `json:"-"`
}

// Evaluate aggregates an invoice and, when declared totals are supplied,
// validates them. Invalid input yields OutcomeRejected with Err set.
func Evaluate(lines []LineItem, supply SupplyClassification, declared *InvoiceTotals) Evaluation {
	totals, results, err := AggregateInvoice(lines, supply)
	if err != nil {
		return Evaluation{Outcome: OutcomeRejected, Err: err}
	}
	ev := Evaluation{Outcome: OutcomeComputed, Totals: totals, Lines: results}
	if declared == nil {
		return ev
	}

	report := ValidateAgainstDeclared(totals, *declared)
	consistency := CheckDeclaredConsistency(*declared)
	if !consistency.Valid {
		report.Valid = false
		for _, d := range consistency.Details {
			report.Mismatches = append(report.Mismatches, "declared."+d.Field)
			report.Details = append(report.Details, FieldMismatch{
				Field: "declared." + d.Field, Computed: d.Computed, Declared: d.Declared,
			})
		}
	}
	ev.Report = &report
	if !report.Valid {
		ev.Outcome = OutcomeComputedWithMismatches
	}
	return ev
}

// String renders the report for log lines.
func (r ValidationReport) String() string {
	if r.Valid {
		return "valid"
	}
	return fmt.Sprintf("mismatched fields: %v", r.Mismatches)
}
