package report_test

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstbill/internal/gst"
	"gstbill/internal/report"
)

func TestToCSV_Layout(t *testing.T) {
	out, err := report.ToCSV(sampleSummary(t), april)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "GST Summary Report", lines[0])
	assert.Equal(t, "Period,2024-04-01,2024-04-30", lines[1])
	assert.Equal(t, "", lines[2])
	assert.Equal(t, "Summary", lines[3])
	assert.Equal(t, "Taxable Amount,CGST,SGST,IGST,Total Tax,Total Amount,Invoice Count", lines[4])
	// 2000@18 + 500@5 intra, 300000@28 inter, 500@5 intra
	assert.Equal(t, "303000.00,205.00,205.00,84000.00,84410.00,387410.00,3", lines[5])

	assert.Contains(t, out, "\nRate-wise Summary\nRate,Taxable Amount,CGST,SGST,IGST,Total Tax,Total Amount,Line Count\n18%,2000.00,180.00,180.00,0.00,360.00,2360.00,1\n")
	assert.Contains(t, out, "\n07,Delhi,300000.00,0.00,0.00,84000.00,84000.00,384000.00,1,0.00,300000.00\n")
	assert.Contains(t, out, "\n1006,Rice,KGS,14.00,1000.00,25.00,25.00,0.00,50.00,1050.00,2\n")
	assert.Contains(t, out, "\n2024-04,Apr 2024,")
}

func TestToCSV_HSNQuantityHasTwoDecimals(t *testing.T) {
	s, err := gst.Summarize([]gst.Invoice{{
		Number: "INV-010", Date: day(2024, time.April, 5), PlaceOfSupply: "07",
		Lines: []gst.LineItem{
			{HSNCode: "8471", Description: "Laptop", Quantity: dec("3"), UnitPrice: dec("100"), TaxRate: gst.Rate18},
		},
	}}, gst.SummaryOptions{HomeState: "29"})
	require.NoError(t, err)

	out, err := report.ToCSV(s, april)
	require.NoError(t, err)
	assert.Contains(t, out, "\n8471,Laptop,NOS,3.00,300.00,0.00,0.00,54.00,54.00,354.00,1\n")
}

func TestToCSV_SectionOrder(t *testing.T) {
	out, err := report.ToCSV(sampleSummary(t), april)
	require.NoError(t, err)

	titles := []string{"Summary", "Rate-wise Summary", "State-wise Summary", "HSN-wise Summary", "Month-wise Summary"}
	last := -1
	for _, title := range titles {
		idx := strings.Index(out, "\n"+title+"\n")
		require.NotEqual(t, -1, idx, title)
		assert.Greater(t, idx, last, title)
		last = idx
	}
}

func TestToCSV_ParsesAsCSV(t *testing.T) {
	out, err := report.ToCSV(sampleSummary(t), april)
	require.NoError(t, err)

	r := csv.NewReader(strings.NewReader(out))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)
	assert.Greater(t, len(records), 10)
}

func TestToCSV_Empty(t *testing.T) {
	out, err := report.ToCSV(gst.NewGSTSummary(), april)
	require.NoError(t, err)
	assert.Contains(t, out, "\n0.00,0.00,0.00,0.00,0.00,0.00,0\n")
	assert.NotContains(t, out, "₹")
}

func TestToCSV_Malformed(t *testing.T) {
	for key, s := range malformedCases() {
		t.Run(key, func(t *testing.T) {
			_, err := report.ToCSV(s, april)
			var me *report.MalformedSummaryError
			require.ErrorAs(t, err, &me)
			assert.Equal(t, key, me.Key)
		})
	}
}
