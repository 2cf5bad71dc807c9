package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gstbill/internal/domain"
)

// InvoiceFilter narrows invoice listings.
type InvoiceFilter struct {
	From       *time.Time
	To         *time.Time
	CustomerID *uuid.UUID
	Status     domain.InvoiceStatus
}

// InvoiceRepository defines the contract for invoice persistence. Invoices
// are stored together with their items.
type InvoiceRepository interface {
	// Create inserts the invoice and its items in one transaction.
	Create(ctx context.Context, invoice *domain.Invoice) error
	GetByID(ctx context.Context, businessID, invoiceID uuid.UUID) (*domain.Invoice, error)
	// List returns invoice headers without items.
	List(ctx context.Context, businessID uuid.UUID, filter InvoiceFilter, offset, limit int) ([]domain.Invoice, int, error)
	// ListForPeriod returns issued invoices dated within [from, to], with
	// items, ordered by invoice date then number. Cancelled invoices are
	// excluded.
	ListForPeriod(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]domain.Invoice, error)
	UpdateStatus(ctx context.Context, businessID, invoiceID uuid.UUID, status domain.InvoiceStatus) error
}
