// Package pdf renders printable tax invoices.
package pdf

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"gstbill/internal/domain"
	"gstbill/internal/gst"
)

const (
	pageMargin = 10.0
	lineHeight = 6.0
)

type column struct {
	title string
	width float64
	align string
}

// Widths sum to the A4 printable width (190mm).
var itemColumns = []column{
	{"#", 8, "C"},
	{"Description", 44, "L"},
	{"HSN/SAC", 16, "C"},
	{"Qty", 12, "R"},
	{"Rate", 18, "R"},
	{"GST", 10, "R"},
	{"Taxable", 20, "R"},
	{"CGST", 16, "R"},
	{"SGST", 16, "R"},
	{"IGST", 16, "R"},
	{"Total", 14, "R"},
}

// RenderInvoice writes inv as an A4 tax invoice issued by business.
func RenderInvoice(w io.Writer, business *domain.Business, inv *domain.Invoice) error {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetTitle("Tax Invoice "+inv.InvoiceNumber, false)
	doc.SetCreator("gstbill", false)
	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()

	header(doc, business, inv)
	parties(doc, business, inv)
	items(doc, inv)
	totals(doc, inv)

	if inv.Status == domain.InvoiceStatusCancelled {
		doc.SetFont("Arial", "B", 28)
		doc.SetTextColor(200, 0, 0)
		doc.Ln(lineHeight)
		doc.CellFormat(0, 14, "CANCELLED", "", 1, "C", false, 0, "")
		doc.SetTextColor(0, 0, 0)
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("rendering invoice %s: %w", inv.InvoiceNumber, err)
	}
	return nil
}

func header(doc *gofpdf.Fpdf, business *domain.Business, inv *domain.Invoice) {
	doc.SetFont("Arial", "B", 16)
	doc.CellFormat(0, 10, "Tax Invoice", "", 1, "C", false, 0, "")

	doc.SetFont("Arial", "B", 12)
	doc.CellFormat(0, lineHeight, business.Name, "", 1, "L", false, 0, "")
	doc.SetFont("Arial", "", 9)
	if business.Address != "" {
		doc.MultiCell(0, 5, business.Address, "", "L", false)
	}
	doc.CellFormat(0, 5, "GSTIN: "+business.GSTIN+"   State: "+business.StateCode.Label(), "", 1, "L", false, 0, "")
	doc.Ln(2)

	doc.SetFont("Arial", "", 10)
	doc.CellFormat(95, lineHeight, "Invoice No: "+inv.InvoiceNumber, "1", 0, "L", false, 0, "")
	doc.CellFormat(95, lineHeight, "Invoice Date: "+inv.InvoiceDate.Format("02-01-2006"), "1", 1, "L", false, 0, "")
}

func parties(doc *gofpdf.Fpdf, business *domain.Business, inv *domain.Invoice) {
	gstin := inv.CustomerGSTIN
	if gstin == "" {
		gstin = "Unregistered"
	}
	supply := "Intra-state (CGST + SGST)"
	if inv.SupplyType == gst.InterState {
		supply = "Inter-state (IGST)"
	}

	doc.SetFont("Arial", "B", 10)
	doc.CellFormat(0, lineHeight, "Bill To", "LTR", 1, "L", false, 0, "")
	doc.SetFont("Arial", "", 10)
	doc.CellFormat(0, lineHeight, inv.CustomerName, "LR", 1, "L", false, 0, "")
	doc.CellFormat(0, lineHeight, "GSTIN: "+gstin, "LR", 1, "L", false, 0, "")
	doc.CellFormat(0, lineHeight, "Place of Supply: "+inv.PlaceOfSupply.Label()+"   "+supply, "LBR", 1, "L", false, 0, "")
	doc.Ln(3)
}

func items(doc *gofpdf.Fpdf, inv *domain.Invoice) {
	doc.SetFont("Arial", "B", 8)
	doc.SetFillColor(230, 230, 230)
	for _, col := range itemColumns {
		doc.CellFormat(col.width, lineHeight, col.title, "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Arial", "", 8)
	for i := range inv.Items {
		it := &inv.Items[i]
		qty := it.Quantity.String()
		if it.Unit != "" {
			qty += " " + it.Unit
		}
		cells := []string{
			fmt.Sprintf("%d", it.LineNo),
			truncate(doc, it.Description, itemColumns[1].width),
			it.HSNCode,
			qty,
			gst.Amount(it.UnitPrice),
			it.TaxRate.String(),
			gst.Amount(it.TaxableAmount),
			gst.Amount(it.CGSTAmount),
			gst.Amount(it.SGSTAmount),
			gst.Amount(it.IGSTAmount),
			gst.Amount(it.TotalAmount),
		}
		for j, col := range itemColumns {
			doc.CellFormat(col.width, lineHeight, cells[j], "1", 0, col.align, false, 0, "")
		}
		doc.Ln(-1)
	}
	doc.Ln(3)
}

func totals(doc *gofpdf.Fpdf, inv *domain.Invoice) {
	rows := [][2]string{
		{"Taxable Amount", gst.Amount(inv.TaxableAmount)},
		{"CGST", gst.Amount(inv.CGSTAmount)},
		{"SGST", gst.Amount(inv.SGSTAmount)},
		{"IGST", gst.Amount(inv.IGSTAmount)},
		{"Invoice Total (INR)", gst.Amount(inv.TotalAmount)},
	}
	for i, r := range rows {
		style := ""
		if i == len(rows)-1 {
			style = "B"
		}
		doc.SetFont("Arial", style, 10)
		doc.CellFormat(140, lineHeight, r[0], "1", 0, "R", false, 0, "")
		doc.CellFormat(50, lineHeight, r[1], "1", 1, "R", false, 0, "")
	}
	if inv.Notes != "" {
		doc.Ln(3)
		doc.SetFont("Arial", "I", 9)
		doc.MultiCell(0, 5, "Notes: "+inv.Notes, "", "L", false)
	}
}

// truncate shortens s with an ellipsis so it fits in width mm.
func truncate(doc *gofpdf.Fpdf, s string, width float64) string {
	limit := width - 2
	if doc.GetStringWidth(s) <= limit {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && doc.GetStringWidth(string(runes)+"...") > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
