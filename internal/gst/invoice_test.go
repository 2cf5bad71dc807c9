package gst_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstbill/internal/gst"
)

func line(hsn, qty, price string, rate gst.TaxRate) gst.LineItem {
	return gst.LineItem{HSNCode: hsn, Quantity: dec(qty), UnitPrice: dec(price), TaxRate: rate}
}

func TestAggregateInvoice_TwoLinesIntraState(t *testing.T) {
	lines := []gst.LineItem{
		line("1006", "1", "500", gst.Rate5),
		line("3004", "1", "2000", gst.Rate12),
	}

	totals, results, err := gst.AggregateInvoice(lines, gst.IntraState)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assertAmount(t, "2500.00", totals.TaxableAmount, "taxable")
	assertAmount(t, "132.50", totals.CGSTAmount, "cgst")
	assertAmount(t, "132.50", totals.SGSTAmount, "sgst")
	assertAmount(t, "0.00", totals.IGSTAmount, "igst")
	assertAmount(t, "2765.00", totals.TotalAmount, "total")
	assert.Equal(t, 2, totals.Count)

	assertAmount(t, "12.50", results[0].CGSTAmount, "line0 cgst")
	assertAmount(t, "120.00", results[1].SGSTAmount, "line1 sgst")
}

func TestAggregateInvoice_Empty(t *testing.T) {
	totals, results, err := gst.AggregateInvoice(nil, gst.InterState)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 0, totals.Count)
	assert.True(t, totals.TotalAmount.IsZero())
}

func TestAggregateInvoice_InvalidLineRejectsWholeInvoice(t *testing.T) {
	lines := []gst.LineItem{
		line("1006", "1", "500", gst.Rate5),
		line("1006", "0", "500", gst.Rate5),
	}
	totals, results, err := gst.AggregateInvoice(lines, gst.IntraState)
	require.Error(t, err)
	assert.Nil(t, results)
	assert.Equal(t, 0, totals.Count)

	var ie *gst.InvalidInputError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "lines[1].quantity", ie.Field)
}

func TestValidateAgainstDeclared(t *testing.T) {
	computed, _, err := gst.AggregateInvoice([]gst.LineItem{line("8471", "1", "1000", gst.Rate18)}, gst.IntraState)
	require.NoError(t, err)

	t.Run("exact_match", func(t *testing.T) {
		r := gst.ValidateAgainstDeclared(computed, computed)
		assert.True(t, r.Valid)
		assert.Empty(t, r.Mismatches)
	})

	t.Run("within_one_paisa", func(t *testing.T) {
		declared := computed
		declared.CGSTAmount = dec("90.01")
		declared.TotalAmount = dec("1179.99")
		r := gst.ValidateAgainstDeclared(computed, declared)
		assert.True(t, r.Valid)
	})

	t.Run("mismatch_reported_by_name", func(t *testing.T) {
		declared := computed
		declared.SGSTAmount = dec("95.00")
		declared.TotalAmount = dec("1185.00")
		r := gst.ValidateAgainstDeclared(computed, declared)
		assert.False(t, r.Valid)
		assert.Equal(t, []string{"sgst_amount", "total_amount"}, r.Mismatches)
		require.Len(t, r.Details, 2)
		assertAmount(t, "90.00", r.Details[0].Computed, "computed")
		assertAmount(t, "95.00", r.Details[0].Declared, "declared")
	})
}

func TestCheckDeclaredConsistency(t *testing.T) {
	declared := gst.InvoiceTotals{
		TaxableAmount: dec("1000"), CGSTAmount: dec("90"), SGSTAmount: dec("90"),
		IGSTAmount: dec("0"), TotalAmount: dec("1180.01"),
	}
	assert.True(t, gst.CheckDeclaredConsistency(declared).Valid)

	declared.TotalAmount = dec("1180.02")
	r := gst.CheckDeclaredConsistency(declared)
	assert.False(t, r.Valid)
	assert.Equal(t, []string{"total_amount"}, r.Mismatches)
}

func TestEvaluate(t *testing.T) {
	lines := []gst.LineItem{line("8471", "1", "1000", gst.Rate18)}

	t.Run("computed", func(t *testing.T) {
		ev := gst.Evaluate(lines, gst.InterState, nil)
		assert.Equal(t, gst.OutcomeComputed, ev.Outcome)
		assert.Nil(t, ev.Report)
		assert.NoError(t, ev.Err)
	})

	t.Run("computed_with_mismatches", func(t *testing.T) {
		declared := gst.InvoiceTotals{
			TaxableAmount: dec("1000"), IGSTAmount: dec("170"), TotalAmount: dec("1170"),
		}
		ev := gst.Evaluate(lines, gst.InterState, &declared)
		assert.Equal(t, gst.OutcomeComputedWithMismatches, ev.Outcome)
		require.NotNil(t, ev.Report)
		assert.Contains(t, ev.Report.Mismatches, "igst_amount")
		assertAmount(t, "1180.00", ev.Totals.TotalAmount, "total")
	})

	t.Run("inconsistent_declared_total", func(t *testing.T) {
		declared := gst.InvoiceTotals{
			TaxableAmount: dec("1000"), IGSTAmount: dec("180"), TotalAmount: dec("1180"),
		}
		declared.TotalAmount = dec("1180")
		ev := gst.Evaluate(lines, gst.InterState, &declared)
		assert.Equal(t, gst.OutcomeComputed, ev.Outcome)

		declared.TotalAmount = dec("1200")
		ev = gst.Evaluate(lines, gst.InterState, &declared)
		assert.Equal(t, gst.OutcomeComputedWithMismatches, ev.Outcome)
		assert.Contains(t, ev.Report.Mismatches, "declared.total_amount")
	})

	t.Run("rejected", func(t *testing.T) {
		bad := []gst.LineItem{line("8471", "1", "1000", gst.TaxRate(3))}
		ev := gst.Evaluate(bad, gst.InterState, nil)
		assert.Equal(t, gst.OutcomeRejected, ev.Outcome)
		assert.Error(t, ev.Err)
	})
}
