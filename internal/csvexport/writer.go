package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"gstbill/internal/domain"
	"gstbill/internal/gst"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the invoice register header row (16 columns).
var columns = []string{
	"Invoice Number",
	"Invoice Date",
	"Status",
	"Customer Name",
	"Customer GSTIN",
	"Invoice Type",
	"Place of Supply",
	"Supply Type",
	"Taxable Amount",
	"CGST",
	"SGST",
	"IGST",
	"Total Tax",
	"Total",
	"Notes",
	"Created At",
}

// Writer wraps csv.Writer for exporting the invoice register as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteInvoices converts a batch of invoices to CSV rows and writes them.
func (w *Writer) WriteInvoices(invoices []domain.Invoice) error {
	for i := range invoices {
		if err := w.csv.Write(invoiceToRow(&invoices[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func invoiceToRow(inv *domain.Invoice) []string {
	invoiceType := "B2C"
	if inv.CustomerGSTIN != "" {
		invoiceType = "B2B"
	}
	tax := inv.CGSTAmount.Add(inv.SGSTAmount).Add(inv.IGSTAmount)

	return []string{
		inv.InvoiceNumber,
		inv.InvoiceDate.Format("2006-01-02"),
		string(inv.Status),
		inv.CustomerName,
		inv.CustomerGSTIN,
		invoiceType,
		inv.PlaceOfSupply.Label(),
		supplyLabel(inv.SupplyType),
		gst.Amount(inv.TaxableAmount),
		gst.Amount(inv.CGSTAmount),
		gst.Amount(inv.SGSTAmount),
		gst.Amount(inv.IGSTAmount),
		gst.Amount(tax),
		gst.Amount(inv.TotalAmount),
		inv.Notes,
		formatTime(inv.CreatedAt),
	}
}

func supplyLabel(s gst.SupplyClassification) string {
	switch s {
	case gst.IntraState:
		return "Intra-State"
	case gst.InterState:
		return "Inter-State"
	default:
		return ""
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_name}_invoices_{YYYY-MM-DD}.csv
func BuildFilename(name string) string {
	sanitized := SanitizeFilename(name)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_invoices_%s.csv", sanitized, date)
}
