package report

import (
	"encoding/csv"
	"strings"

	"gstbill/internal/gst"
)

// ReportTitle heads every tabular export.
const ReportTitle = "GST Summary Report"

// ToCSV renders the summary as a fixed-layout CSV document: a title and period
// header followed by the overall, rate-wise, state-wise, HSN-wise and
// month-wise sections, separated by blank lines. Amounts are plain decimals
// with exactly two places.
func ToCSV(s *gst.GSTSummary, p Period) (string, error) {
	if err := checkSummary(s); err != nil {
		return "", err
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	records := [][]string{
		{ReportTitle},
		{"Period", p.From.Format(dateLayout), p.To.Format(dateLayout)},
	}
	for _, sec := range buildSections(s) {
		records = append(records, []string{}, []string{sec.Title}, sec.Header)
		records = append(records, sec.Rows...)
	}
	if err := w.WriteAll(records); err != nil {
		return "", err
	}
	return sb.String(), nil
}
