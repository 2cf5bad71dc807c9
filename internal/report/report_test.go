package report_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"gstbill/internal/gst"
	"gstbill/internal/report"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var april = report.Period{From: day(2024, time.April, 1), To: day(2024, time.April, 30)}

func sampleSummary(t *testing.T) *gst.GSTSummary {
	t.Helper()
	invs := []gst.Invoice{
		{
			Number: "INV-001", Date: day(2024, time.April, 3),
			CustomerName: "Acme Traders", CustomerGSTIN: "29AABCT1332L1ZP", PlaceOfSupply: "29",
			Lines: []gst.LineItem{
				{HSNCode: "8471", Description: "Laptop", Quantity: dec("2"), UnitPrice: dec("1000"), TaxRate: gst.Rate18},
				{HSNCode: "1006", Description: "Rice", Unit: "KGS", Quantity: dec("10"), UnitPrice: dec("50"), TaxRate: gst.Rate5},
			},
		},
		{
			Number: "INV-002", Date: day(2024, time.April, 10),
			CustomerName: "Delhi Retail", PlaceOfSupply: "07",
			Lines: []gst.LineItem{
				{HSNCode: "8703", Description: "Car", Quantity: dec("1"), UnitPrice: dec("300000"), TaxRate: gst.Rate28},
			},
		},
		{
			Number: "INV-003", Date: day(2024, time.April, 20),
			CustomerName: "Walk-in", PlaceOfSupply: "29",
			Lines: []gst.LineItem{
				{HSNCode: "1006", Description: "Basmati rice", Quantity: dec("4"), UnitPrice: dec("125"), TaxRate: gst.Rate5},
			},
		},
	}
	s, err := gst.Summarize(invs, gst.SummaryOptions{HomeState: "29"})
	require.NoError(t, err)
	return s
}

func malformedCases() map[string]*gst.GSTSummary {
	noRate := gst.NewGSTSummary()
	noRate.RateWise = nil
	noHSN := gst.NewGSTSummary()
	noHSN.HSNWise = nil
	noState := gst.NewGSTSummary()
	noState.StateWise = nil
	noMonth := gst.NewGSTSummary()
	noMonth.MonthWise = nil
	return map[string]*gst.GSTSummary{
		"summary":    nil,
		"rate_wise":  noRate,
		"hsn_wise":   noHSN,
		"state_wise": noState,
		"month_wise": noMonth,
	}
}
