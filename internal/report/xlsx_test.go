package report_test

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gstbill/internal/report"
)

func TestToXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.ToXLSX(sampleSummary(t), april, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Rate-wise", "State-wise", "HSN-wise", "Month-wise"}, f.GetSheetList())

	v, err := f.GetCellValue("Summary", "A5", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString(v).Equal(decimal.NewFromInt(303000)), v)

	hdr, err := f.GetCellValue("HSN-wise", "A4")
	require.NoError(t, err)
	assert.Equal(t, "HSN/SAC", hdr)

	code, err := f.GetCellValue("HSN-wise", "A5")
	require.NoError(t, err)
	assert.Equal(t, "8471", code)
}

func TestToXLSX_Malformed(t *testing.T) {
	var buf bytes.Buffer
	for key, s := range malformedCases() {
		err := report.ToXLSX(s, april, &buf)
		var me *report.MalformedSummaryError
		require.ErrorAs(t, err, &me, key)
	}
	assert.Zero(t, buf.Len())
}
