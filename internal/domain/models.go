package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gstbill/internal/gst"
)

// Business is the GST-registered supplier that owns every other record.
type Business struct {
	ID        uuid.UUID     `db:"id" json:"id"`
	Name      string        `db:"name" json:"name"`
	Slug      string        `db:"slug" json:"slug"`
	GSTIN     string        `db:"gstin" json:"gstin"`
	PAN       string        `db:"pan" json:"pan"`
	StateCode gst.StateCode `db:"state_code" json:"state_code"`
	Address   string        `db:"address" json:"address"`
	Email     string        `db:"email" json:"email"`
	IsActive  bool          `db:"is_active" json:"is_active"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// User is an authenticated member of a business.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	BusinessID   uuid.UUID `db:"business_id" json:"business_id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Customer is a buyer. GSTIN is empty for unregistered (B2C) customers.
type Customer struct {
	ID         uuid.UUID     `db:"id" json:"id"`
	BusinessID uuid.UUID     `db:"business_id" json:"business_id"`
	Name       string        `db:"name" json:"name"`
	GSTIN      string        `db:"gstin" json:"gstin"`
	StateCode  gst.StateCode `db:"state_code" json:"state_code"`
	Email      string        `db:"email" json:"email"`
	Phone      string        `db:"phone" json:"phone"`
	Address    string        `db:"address" json:"address"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at" json:"updated_at"`
}

// Product is an item from the business's catalogue.
type Product struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	BusinessID  uuid.UUID       `db:"business_id" json:"business_id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	HSNCode     string          `db:"hsn_code" json:"hsn_code"`
	Unit        string          `db:"unit" json:"unit"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	TaxRate     gst.TaxRate     `db:"tax_rate" json:"tax_rate"`
	IsActive    bool            `db:"is_active" json:"is_active"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// Invoice is an issued tax invoice. Customer fields are a snapshot taken at
// issue time so later customer edits do not rewrite history.
type Invoice struct {
	ID            uuid.UUID                `db:"id" json:"id"`
	BusinessID    uuid.UUID                `db:"business_id" json:"business_id"`
	CustomerID    *uuid.UUID               `db:"customer_id" json:"customer_id"`
	InvoiceNumber string                   `db:"invoice_number" json:"invoice_number"`
	InvoiceDate   time.Time                `db:"invoice_date" json:"invoice_date"`
	CustomerName  string                   `db:"customer_name" json:"customer_name"`
	CustomerGSTIN string                   `db:"customer_gstin" json:"customer_gstin"`
	PlaceOfSupply gst.StateCode            `db:"place_of_supply" json:"place_of_supply"`
	SupplyType    gst.SupplyClassification `db:"supply_type" json:"supply_type"`
	Status        InvoiceStatus            `db:"status" json:"status"`
	TaxableAmount decimal.Decimal          `db:"taxable_amount" json:"taxable_amount"`
	CGSTAmount    decimal.Decimal          `db:"cgst_amount" json:"cgst_amount"`
	SGSTAmount    decimal.Decimal          `db:"sgst_amount" json:"sgst_amount"`
	IGSTAmount    decimal.Decimal          `db:"igst_amount" json:"igst_amount"`
	TotalAmount   decimal.Decimal          `db:"total_amount" json:"total_amount"`
	Notes         string                   `db:"notes" json:"notes"`
	CreatedBy     uuid.UUID                `db:"created_by" json:"created_by"`
	CreatedAt     time.Time                `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time                `db:"updated_at" json:"updated_at"`

	Items []InvoiceItem `db:"-" json:"items"`
}

// InvoiceItem is one line of an invoice with its computed tax amounts.
type InvoiceItem struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	InvoiceID     uuid.UUID       `db:"invoice_id" json:"invoice_id"`
	BusinessID    uuid.UUID       `db:"business_id" json:"-"`
	LineNo        int             `db:"line_no" json:"line_no"`
	ProductID     *uuid.UUID      `db:"product_id" json:"product_id"`
	Description   string          `db:"description" json:"description"`
	HSNCode       string          `db:"hsn_code" json:"hsn_code"`
	Unit          string          `db:"unit" json:"unit"`
	Quantity      decimal.Decimal `db:"quantity" json:"quantity"`
	UnitPrice     decimal.Decimal `db:"unit_price" json:"unit_price"`
	TaxRate       gst.TaxRate     `db:"tax_rate" json:"tax_rate"`
	TaxableAmount decimal.Decimal `db:"taxable_amount" json:"taxable_amount"`
	CGSTAmount    decimal.Decimal `db:"cgst_amount" json:"cgst_amount"`
	SGSTAmount    decimal.Decimal `db:"sgst_amount" json:"sgst_amount"`
	IGSTAmount    decimal.Decimal `db:"igst_amount" json:"igst_amount"`
	TotalAmount   decimal.Decimal `db:"total_amount" json:"total_amount"`
}

// HSNRate is one row of the HSN/SAC rate master.
type HSNRate struct {
	Code        string          `db:"code" json:"code"`
	Description string          `db:"description" json:"description"`
	Rate        decimal.Decimal `db:"gst_rate" json:"gst_rate"`
}

// LineItem converts the stored item into the engine's input form.
func (it *InvoiceItem) LineItem() gst.LineItem {
	return gst.LineItem{
		HSNCode:     it.HSNCode,
		Description: it.Description,
		Unit:        it.Unit,
		Quantity:    it.Quantity,
		UnitPrice:   it.UnitPrice,
		TaxRate:     it.TaxRate,
	}
}

// ApplyResult copies computed line amounts onto the item.
func (it *InvoiceItem) ApplyResult(r *gst.LineResult) {
	it.TaxableAmount = r.TaxableAmount
	it.CGSTAmount = r.CGSTAmount
	it.SGSTAmount = r.SGSTAmount
	it.IGSTAmount = r.IGSTAmount
	it.TotalAmount = r.TotalAmount
}

// ApplyTotals copies computed invoice totals onto the invoice.
func (inv *Invoice) ApplyTotals(t *gst.InvoiceTotals) {
	inv.TaxableAmount = t.TaxableAmount
	inv.CGSTAmount = t.CGSTAmount
	inv.SGSTAmount = t.SGSTAmount
	inv.IGSTAmount = t.IGSTAmount
	inv.TotalAmount = t.TotalAmount
}

// EngineInvoice converts a stored invoice into the summarizer's input. The
// stored total is passed as declared so B2C classification uses the value
// printed on the invoice.
func (inv *Invoice) EngineInvoice() gst.Invoice {
	lines := make([]gst.LineItem, len(inv.Items))
	for i := range inv.Items {
		lines[i] = inv.Items[i].LineItem()
	}
	return gst.Invoice{
		Number:        inv.InvoiceNumber,
		Date:          inv.InvoiceDate,
		CustomerName:  inv.CustomerName,
		CustomerGSTIN: inv.CustomerGSTIN,
		PlaceOfSupply: inv.PlaceOfSupply,
		Supply:        inv.SupplyType,
		Lines:         lines,
		Declared: &gst.InvoiceTotals{
			TaxableAmount: inv.TaxableAmount,
			CGSTAmount:    inv.CGSTAmount,
			SGSTAmount:    inv.SGSTAmount,
			IGSTAmount:    inv.IGSTAmount,
			TotalAmount:   inv.TotalAmount,
		},
	}
}
