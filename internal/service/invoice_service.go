package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"gstbill/internal/domain"
	"gstbill/internal/gst"
	"gstbill/internal/port"
)

const invoiceDateLayout = "2006-01-02"

// InvoiceItemInput is one line of an invoice request. Fields left empty are
// filled from the referenced product.
type InvoiceItemInput struct {
	ProductID   *uuid.UUID       `json:"product_id"`
	Description string           `json:"description"`
	HSNCode     string           `json:"hsn_code"`
	Unit        string           `json:"unit"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	TaxRate     *gst.TaxRate     `json:"tax_rate"`
}

// DeclaredTotals are invoice totals supplied by the caller, e.g. copied from
// a printed invoice, to be checked against the computed totals.
type DeclaredTotals struct {
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	CGSTAmount    decimal.Decimal `json:"cgst_amount"`
	SGSTAmount    decimal.Decimal `json:"sgst_amount"`
	IGSTAmount    decimal.Decimal `json:"igst_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// CreateInvoiceInput is the DTO for issuing an invoice. Either CustomerID or
// the ad-hoc customer fields identify the buyer. PlaceOfSupply defaults to the
// customer's state, then to the business's own state.
type CreateInvoiceInput struct {
	InvoiceNumber string             `json:"invoice_number" binding:"required"`
	InvoiceDate   string             `json:"invoice_date" binding:"required"`
	CustomerID    *uuid.UUID         `json:"customer_id"`
	CustomerName  string             `json:"customer_name"`
	CustomerGSTIN string             `json:"customer_gstin" binding:"omitempty,gstin"`
	CustomerState string             `json:"customer_state" binding:"omitempty,statecode"`
	PlaceOfSupply string             `json:"place_of_supply" binding:"omitempty,statecode"`
	Notes         string             `json:"notes"`
	Items         []InvoiceItemInput `json:"items" binding:"required,min=1,dive"`
	Declared      *DeclaredTotals    `json:"declared"`
}

// InvoiceResult is returned by Create and Preview.
type InvoiceResult struct {
	Invoice    *domain.Invoice       `json:"invoice"`
	Outcome    gst.Outcome           `json:"outcome"`
	Validation *gst.ValidationReport `json:"validation,omitempty"`
}

// InvoiceService defines the invoicing contract.
type InvoiceService interface {
	Create(ctx context.Context, businessID, userID uuid.UUID, input CreateInvoiceInput) (*InvoiceResult, error)
	Preview(ctx context.Context, businessID uuid.UUID, input CreateInvoiceInput) (*InvoiceResult, error)
	GetByID(ctx context.Context, businessID, invoiceID uuid.UUID) (*domain.Invoice, error)
	List(ctx context.Context, businessID uuid.UUID, filter port.InvoiceFilter, offset, limit int) ([]domain.Invoice, int, error)
	Cancel(ctx context.Context, businessID, invoiceID uuid.UUID) (*domain.Invoice, error)
	RateFor(hsn string) (gst.TaxRate, bool)
}

type invoiceService struct {
	invoiceRepo      port.InvoiceRepository
	customerRepo     port.CustomerRepository
	productRepo      port.ProductRepository
	businessRepo     port.BusinessRepository
	rates            *gst.RateTable
	rejectOnMismatch bool
	log              logrus.FieldLogger
}

// NewInvoiceService creates a new InvoiceService implementation.
func NewInvoiceService(
	invoiceRepo port.InvoiceRepository,
	customerRepo port.CustomerRepository,
	productRepo port.ProductRepository,
	businessRepo port.BusinessRepository,
	rates *gst.RateTable,
	rejectOnMismatch bool,
	log logrus.FieldLogger,
) InvoiceService {
	return &invoiceService{
		invoiceRepo:      invoiceRepo,
		customerRepo:     customerRepo,
		productRepo:      productRepo,
		businessRepo:     businessRepo,
		rates:            rates,
		rejectOnMismatch: rejectOnMismatch,
		log:              log,
	}
}

func (s *invoiceService) Create(ctx context.Context, businessID, userID uuid.UUID, input CreateInvoiceInput) (*InvoiceResult, error) {
	result, err := s.compute(ctx, businessID, input)
	if err != nil {
		return nil, err
	}
	inv := result.Invoice

	if result.Outcome == gst.OutcomeComputedWithMismatches {
		s.log.WithFields(logrus.Fields{
			"business_id":    businessID,
			"invoice_number": inv.InvoiceNumber,
			"mismatches":     result.Validation.Mismatches,
		}).Warn("declared invoice totals differ from computed totals")
		if s.rejectOnMismatch {
			return nil, fmt.Errorf("%w: %s", domain.ErrTotalsMismatch, result.Validation.String())
		}
	}

	inv.CreatedBy = userID
	if err := s.invoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"business_id":    businessID,
		"invoice_id":     inv.ID,
		"invoice_number": inv.InvoiceNumber,
		"total":          gst.Amount(inv.TotalAmount),
	}).Info("invoice issued")
	return result, nil
}

func (s *invoiceService) Preview(ctx context.Context, businessID uuid.UUID, input CreateInvoiceInput) (*InvoiceResult, error) {
	return s.compute(ctx, businessID, input)
}

func (s *invoiceService) GetByID(ctx context.Context, businessID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, businessID, invoiceID)
}

func (s *invoiceService) List(ctx context.Context, businessID uuid.UUID, filter port.InvoiceFilter, offset, limit int) ([]domain.Invoice, int, error) {
	return s.invoiceRepo.List(ctx, businessID, filter, offset, limit)
}

func (s *invoiceService) Cancel(ctx context.Context, businessID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, businessID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status == domain.InvoiceStatusCancelled {
		return nil, domain.ErrInvoiceCancelled
	}
	if err := s.invoiceRepo.UpdateStatus(ctx, businessID, invoiceID, domain.InvoiceStatusCancelled); err != nil {
		return nil, err
	}
	inv.Status = domain.InvoiceStatusCancelled
	s.log.WithFields(logrus.Fields{
		"business_id":    businessID,
		"invoice_id":     invoiceID,
		"invoice_number": inv.InvoiceNumber,
	}).Info("invoice cancelled")
	return inv, nil
}

func (s *invoiceService) RateFor(hsn string) (gst.TaxRate, bool) {
	return s.rates.RateFor(hsn)
}

// compute resolves the buyer, place of supply and item rates, then runs the
// engine. Nothing is persisted.
func (s *invoiceService) compute(ctx context.Context, businessID uuid.UUID, input CreateInvoiceInput) (*InvoiceResult, error) {
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse(invoiceDateLayout, input.InvoiceDate)
	if err != nil {
		return nil, &gst.InvalidInputError{Field: "invoice_date", Value: input.InvoiceDate, Reason: "expected YYYY-MM-DD"}
	}

	inv := &domain.Invoice{
		BusinessID:    businessID,
		InvoiceNumber: strings.TrimSpace(input.InvoiceNumber),
		InvoiceDate:   date,
		Status:        domain.InvoiceStatusIssued,
		Notes:         input.Notes,
	}
	customerState, err := s.resolveCustomer(ctx, businessID, input, inv)
	if err != nil {
		return nil, err
	}

	switch {
	case input.PlaceOfSupply != "":
		pos, ok := gst.ParseStateCode(input.PlaceOfSupply)
		if !ok {
			return nil, fmt.Errorf("place of supply: %w", domain.ErrInvalidStateCode)
		}
		inv.PlaceOfSupply = pos
	case customerState != "":
		inv.PlaceOfSupply = customerState
	default:
		inv.PlaceOfSupply = business.StateCode
	}
	inv.SupplyType = gst.ClassifySupply(business.StateCode, inv.PlaceOfSupply)

	inv.Items = make([]domain.InvoiceItem, len(input.Items))
	lines := make([]gst.LineItem, len(input.Items))
	for i := range input.Items {
		item, err := s.resolveItem(ctx, businessID, &input.Items[i])
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		item.BusinessID = businessID
		item.LineNo = i + 1
		inv.Items[i] = *item
		lines[i] = item.LineItem()
	}

	var declared *gst.InvoiceTotals
	if d := input.Declared; d != nil {
		declared = &gst.InvoiceTotals{
			TaxableAmount: d.TaxableAmount,
			CGSTAmount:    d.CGSTAmount,
			SGSTAmount:    d.SGSTAmount,
			IGSTAmount:    d.IGSTAmount,
			TotalAmount:   d.TotalAmount,
		}
	}

	ev := gst.Evaluate(lines, inv.SupplyType, declared)
	if ev.Outcome == gst.OutcomeRejected {
		return nil, ev.Err
	}
	inv.ApplyTotals(&ev.Totals)
	for i := range ev.Lines {
		inv.Items[i].ApplyResult(&ev.Lines[i])
	}

	return &InvoiceResult{Invoice: inv, Outcome: ev.Outcome, Validation: ev.Report}, nil
}

// resolveCustomer snapshots the buyer onto inv and returns the buyer's state
// (empty for an unregistered buyer without a state).
func (s *invoiceService) resolveCustomer(ctx context.Context, businessID uuid.UUID, input CreateInvoiceInput, inv *domain.Invoice) (gst.StateCode, error) {
	if input.CustomerID != nil {
		c, err := s.customerRepo.GetByID(ctx, businessID, *input.CustomerID)
		if err != nil {
			return "", err
		}
		id := c.ID
		inv.CustomerID = &id
		inv.CustomerName = c.Name
		inv.CustomerGSTIN = c.GSTIN
		return c.StateCode, nil
	}

	inv.CustomerName = strings.TrimSpace(input.CustomerName)
	inv.CustomerGSTIN = normalizeGSTIN(input.CustomerGSTIN)
	if input.CustomerState == "" && inv.CustomerGSTIN == "" {
		return "", nil
	}
	state, err := resolveState(input.CustomerState, inv.CustomerGSTIN)
	if err != nil {
		return "", err
	}
	if err := checkParty(inv.CustomerGSTIN, state); err != nil {
		return "", err
	}
	return state, nil
}

// resolveItem fills an item from its product and picks its rate: explicit
// rate, then product rate, then the HSN master.
func (s *invoiceService) resolveItem(ctx context.Context, businessID uuid.UUID, in *InvoiceItemInput) (*domain.InvoiceItem, error) {
	item := &domain.InvoiceItem{
		Description: in.Description,
		HSNCode:     in.HSNCode,
		Unit:        strings.ToUpper(strings.TrimSpace(in.Unit)),
		Quantity:    in.Quantity,
	}
	if in.UnitPrice != nil {
		item.UnitPrice = *in.UnitPrice
	}

	var product *domain.Product
	if in.ProductID != nil {
		p, err := s.productRepo.GetByID(ctx, businessID, *in.ProductID)
		if err != nil {
			return nil, err
		}
		product = p
		id := p.ID
		item.ProductID = &id
		if item.Description == "" {
			item.Description = p.Name
		}
		if item.HSNCode == "" {
			item.HSNCode = p.HSNCode
		}
		if item.Unit == "" {
			item.Unit = p.Unit
		}
		if in.UnitPrice == nil {
			item.UnitPrice = p.UnitPrice
		}
	}

	switch {
	case in.TaxRate != nil:
		item.TaxRate = *in.TaxRate
	case product != nil:
		item.TaxRate = product.TaxRate
	default:
		rate, ok := s.rates.RateFor(item.HSNCode)
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrRateNotFound, item.HSNCode)
		}
		item.TaxRate = rate
	}
	return item, nil
}
