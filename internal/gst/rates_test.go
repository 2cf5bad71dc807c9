package gst_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstbill/internal/gst"
)

func TestRateTable_RateFor(t *testing.T) {
	table := gst.NewRateTable([]gst.RateEntry{
		{Code: "8471", Rate: decimal.NewFromInt(18)},
		{Code: "10063010", Rate: decimal.NewFromInt(5)},
		{Code: "9983", Rate: decimal.NewFromInt(18)},
	})

	tests := []struct {
		name   string
		hsn    string
		want   gst.TaxRate
		wantOK bool
	}{
		{"exact 4 digit", "8471", gst.Rate18, true},
		{"8 digit matches prefix", "84713010", gst.Rate18, true},
		{"seeded from 8 digit row", "1006", gst.Rate5, true},
		{"service code", "998314", gst.Rate18, true},
		{"unknown code", "9999", 0, false},
		{"too short", "847", 0, false},
		{"non numeric", "84AB", 0, false},
		{"empty", "", 0, false},
		{"spaces ignored", " 8471 ", gst.Rate18, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := table.RateFor(tt.hsn)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRateTable_SkipsInvalidRowsAndFirstWins(t *testing.T) {
	table := gst.NewRateTable([]gst.RateEntry{
		{Code: "12", Rate: decimal.NewFromInt(5)},
		{Code: "7113", Rate: decimal.NewFromInt(3)},
		{Code: "6109", Rate: decimal.NewFromInt(5)},
		{Code: "61091000", Rate: decimal.NewFromInt(12)},
	})

	assert.Equal(t, 1, table.Len())
	rate, ok := table.RateFor("61099090")
	require.True(t, ok)
	assert.Equal(t, gst.Rate5, rate)
	_, ok = table.RateFor("7113")
	assert.False(t, ok)
}

func TestRateTable_NilAndEmpty(t *testing.T) {
	var nilTable *gst.RateTable
	_, ok := nilTable.RateFor("8471")
	assert.False(t, ok)
	assert.Equal(t, 0, nilTable.Len())

	_, ok = gst.NewRateTable(nil).RateFor("8471")
	assert.False(t, ok)
}

func TestDefaultRateTable(t *testing.T) {
	table := gst.DefaultRateTable()
	rate, ok := table.RateFor("87032291")
	require.True(t, ok)
	assert.Equal(t, gst.Rate28, rate)

	rate, ok = table.RateFor("0401")
	require.True(t, ok)
	assert.Equal(t, gst.Rate0, rate)
}

func TestParseTaxRate(t *testing.T) {
	r, err := gst.ParseTaxRate(decimal.RequireFromString("12.00"))
	require.NoError(t, err)
	assert.Equal(t, gst.Rate12, r)

	for _, in := range []string{"3", "12.5", "-5", "100"} {
		_, err := gst.ParseTaxRate(decimal.RequireFromString(in))
		var ie *gst.InvalidInputError
		assert.ErrorAs(t, err, &ie, in)
	}
}

func TestTaxRate_Half(t *testing.T) {
	assert.Equal(t, "2.5", gst.Rate5.Half().String())
	assert.Equal(t, "9", gst.Rate18.Half().String())
	assert.Equal(t, "18%", gst.Rate18.String())
	assert.Equal(t, []gst.TaxRate{0, 5, 12, 18, 28}, gst.StatutoryRates())
}
