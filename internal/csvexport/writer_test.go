package csvexport

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstbill/internal/domain"
	"gstbill/internal/gst"
)

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Len(t, row, 16)
	assert.Equal(t, "Invoice Number", row[0])
	assert.Equal(t, "Created At", row[15])
}

func TestWriteInvoices_B2B(t *testing.T) {
	inv := domain.Invoice{
		ID:            uuid.New(),
		InvoiceNumber: "INV-001",
		InvoiceDate:   time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		Status:        domain.InvoiceStatusIssued,
		CustomerName:  "Buyer Inc",
		CustomerGSTIN: "07AABCT1332L1ZX",
		PlaceOfSupply: "07",
		SupplyType:    gst.InterState,
		TaxableAmount: decimal.RequireFromString("10000.5"),
		IGSTAmount:    decimal.RequireFromString("1800.09"),
		TotalAmount:   decimal.RequireFromString("11800.59"),
		Notes:         "Net 30",
		CreatedAt:     time.Date(2025, 1, 14, 8, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteInvoices([]domain.Invoice{inv}))
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"INV-001",
		"2025-01-15",
		"issued",
		"Buyer Inc",
		"07AABCT1332L1ZX",
		"B2B",
		"07-Delhi",
		"Inter-State",
		"10000.50",
		"0.00",
		"0.00",
		"1800.09",
		"1800.09",
		"11800.59",
		"Net 30",
		"2025-01-14T08:00:00Z",
	}, row)
}

func TestWriteInvoices_B2CIntraState(t *testing.T) {
	inv := domain.Invoice{
		InvoiceNumber: "CASH-1",
		InvoiceDate:   time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Status:        domain.InvoiceStatusCancelled,
		CustomerName:  "Walk-in",
		PlaceOfSupply: "29",
		SupplyType:    gst.IntraState,
		TaxableAmount: decimal.NewFromInt(100),
		CGSTAmount:    decimal.RequireFromString("2.5"),
		SGSTAmount:    decimal.RequireFromString("2.5"),
		TotalAmount:   decimal.NewFromInt(105),
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteInvoices([]domain.Invoice{inv}))
	w.Flush()

	row, err := csv.NewReader(&buf).Read()
	require.NoError(t, err)
	assert.Equal(t, "cancelled", row[2])
	assert.Equal(t, "B2C", row[5])
	assert.Equal(t, "Intra-State", row[7])
	assert.Equal(t, "2.50", row[9])
	assert.Equal(t, "5.00", row[12])
	assert.Equal(t, "", row[15]) // created_at unset
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Bengaluru Traders", "Bengaluru_Traders"},
		{"special chars", "FY 2024-25 / Q3 (Oct–Dec)", "FY_2024-25_Q3_Oct_Dec"},
		{"unicode", "कंपनी Invoices", "Invoices"},
		{"hyphens and underscores preserved", "blr-traders_2025", "blr-traders_2025"},
		{"consecutive underscores collapsed", "test___business", "test_business"},
		{"leading/trailing cleaned", "  hello  ", "hello"},
		{
			"long name truncated",
			"abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrstuvwxyz-extra",
			"abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrs",
		},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestBuildFilename(t *testing.T) {
	filename := BuildFilename("blr-traders")
	today := time.Now().Format("2006-01-02")
	assert.Equal(t, "blr-traders_invoices_"+today+".csv", filename)
}
