package report

import (
	"strconv"

	"gstbill/internal/gst"
)

// section is one titled table of a tabular report. CSV writes sections one
// after another; XLSX writes one worksheet per section.
type section struct {
	Title  string
	Sheet  string
	Header []string
	Rows   [][]string
}

func buildSections(s *gst.GSTSummary) []section {
	return []section{
		overallSection(s),
		rateSection(s),
		stateSection(s),
		hsnSection(s),
		monthSection(s),
	}
}

func overallSection(s *gst.GSTSummary) section {
	return section{
		Title:  "Summary",
		Sheet:  "Summary",
		Header: []string{"Taxable Amount", "CGST", "SGST", "IGST", "Total Tax", "Total Amount", "Invoice Count"},
		Rows: [][]string{{
			gst.Amount(s.TotalTaxableAmount),
			gst.Amount(s.TotalCGST),
			gst.Amount(s.TotalSGST),
			gst.Amount(s.TotalIGST),
			gst.Amount(s.TotalTax()),
			gst.Amount(s.TotalAmount),
			strconv.Itoa(s.InvoiceCount),
		}},
	}
}

func bucketCells(b *gst.Bucket) []string {
	return []string{
		gst.Amount(b.TaxableAmount),
		gst.Amount(b.CGST),
		gst.Amount(b.SGST),
		gst.Amount(b.IGST),
		gst.Amount(b.TotalTax()),
		gst.Amount(b.TotalAmount),
	}
}

var amountColumns = []string{"Taxable Amount", "CGST", "SGST", "IGST", "Total Tax", "Total Amount"}

func withAmounts(lead []string, tail ...string) []string {
	out := make([]string, 0, len(lead)+len(amountColumns)+len(tail))
	out = append(out, lead...)
	out = append(out, amountColumns...)
	return append(out, tail...)
}

func rateSection(s *gst.GSTSummary) section {
	sec := section{
		Title:  "Rate-wise Summary",
		Sheet:  "Rate-wise",
		Header: withAmounts([]string{"Rate"}, "Line Count"),
	}
	s.RateWise.Each(func(k gst.RateKey, b *gst.Bucket) {
		row := append([]string{k.String()}, bucketCells(b)...)
		sec.Rows = append(sec.Rows, append(row, strconv.Itoa(b.Count)))
	})
	return sec
}

func stateSection(s *gst.GSTSummary) section {
	sec := section{
		Title:  "State-wise Summary",
		Sheet:  "State-wise",
		Header: withAmounts([]string{"State Code", "State"}, "Invoice Count", "Intra-State Taxable", "Inter-State Taxable"),
	}
	s.StateWise.Each(func(k gst.StateKey, b *gst.StateBucket) {
		row := append([]string{k.String(), b.Name}, bucketCells(&b.Bucket)...)
		row = append(row, strconv.Itoa(b.Count), subTaxable(b.Intra), subTaxable(b.Inter))
		sec.Rows = append(sec.Rows, row)
	})
	return sec
}

func subTaxable(b *gst.Bucket) string {
	if b == nil {
		return ""
	}
	return gst.Amount(b.TaxableAmount)
}

func hsnSection(s *gst.GSTSummary) section {
	sec := section{
		Title:  "HSN-wise Summary",
		Sheet:  "HSN-wise",
		Header: withAmounts([]string{"HSN/SAC", "Description", "UQC", "Quantity"}, "Line Count"),
	}
	s.HSNWise.Each(func(k gst.HSNKey, b *gst.HSNBucket) {
		row := append([]string{k.String(), b.Description, b.Unit, gst.Amount(b.Quantity)}, bucketCells(&b.Bucket)...)
		sec.Rows = append(sec.Rows, append(row, strconv.Itoa(b.Count)))
	})
	return sec
}

func monthSection(s *gst.GSTSummary) section {
	sec := section{
		Title:  "Month-wise Summary",
		Sheet:  "Month-wise",
		Header: withAmounts([]string{"Month", "Label"}, "Invoice Count"),
	}
	s.MonthWise.Each(func(k gst.MonthKey, b *gst.MonthBucket) {
		row := append([]string{k.String(), b.Label}, bucketCells(&b.Bucket)...)
		sec.Rows = append(sec.Rows, append(row, strconv.Itoa(b.Count)))
	})
	return sec
}
