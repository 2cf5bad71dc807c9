package pdf

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstbill/internal/domain"
	"gstbill/internal/gst"
)

func sampleInvoice(status domain.InvoiceStatus) (*domain.Business, *domain.Invoice) {
	business := &domain.Business{
		Name:      "Bengaluru Traders",
		GSTIN:     "29AABCT1332L1ZP",
		StateCode: "29",
		Address:   "12 MG Road, Bengaluru",
	}
	inv := &domain.Invoice{
		InvoiceNumber: "INV-001",
		InvoiceDate:   time.Date(2024, time.April, 3, 0, 0, 0, 0, time.UTC),
		CustomerName:  "Delhi Retail",
		CustomerGSTIN: "07AABCT1332L1ZX",
		PlaceOfSupply: "07",
		SupplyType:    gst.InterState,
		Status:        status,
		TaxableAmount: decimal.RequireFromString("2000"),
		IGSTAmount:    decimal.RequireFromString("360"),
		TotalAmount:   decimal.RequireFromString("2360"),
		Items: []domain.InvoiceItem{{
			LineNo:        1,
			Description:   "Laptop",
			HSNCode:       "8471",
			Unit:          "NOS",
			Quantity:      decimal.NewFromInt(2),
			UnitPrice:     decimal.NewFromInt(1000),
			TaxRate:       gst.Rate18,
			TaxableAmount: decimal.RequireFromString("2000"),
			IGSTAmount:    decimal.RequireFromString("360"),
			TotalAmount:   decimal.RequireFromString("2360"),
		}},
	}
	return business, inv
}

func TestRenderInvoice(t *testing.T) {
	business, inv := sampleInvoice(domain.InvoiceStatusIssued)

	var buf bytes.Buffer
	require.NoError(t, RenderInvoice(&buf, business, inv))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF-"))
	assert.Greater(t, buf.Len(), 500)
}

func TestRenderInvoice_Cancelled(t *testing.T) {
	business, inv := sampleInvoice(domain.InvoiceStatusCancelled)
	inv.Notes = "Returned in full"

	var buf bytes.Buffer
	require.NoError(t, RenderInvoice(&buf, business, inv))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF-"))
}

func TestItemColumnsFitPage(t *testing.T) {
	var total float64
	for _, c := range itemColumns {
		total += c.width
	}
	assert.InDelta(t, 190.0, total, 0.001)
}

func TestTruncate(t *testing.T) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Arial", "", 8)

	assert.Equal(t, "Laptop", truncate(doc, "Laptop", 44))

	long := strings.Repeat("Stainless steel kitchen utensil ", 4)
	got := truncate(doc, long, 44)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, doc.GetStringWidth(got), 42.0)
}
