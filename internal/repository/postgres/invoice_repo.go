package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gstbill/internal/domain"
	"gstbill/internal/port"
)

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a new PostgreSQL-backed InvoiceRepository.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

const insertInvoiceItem = `INSERT INTO invoice_items (id, invoice_id, business_id, line_no, product_id,
	description, hsn_code, unit, quantity, unit_price, tax_rate, taxable_amount, cgst_amount,
	sgst_amount, igst_amount, total_amount)
	VALUES (:id, :invoice_id, :business_id, :line_no, :product_id, :description, :hsn_code, :unit,
	:quantity, :unit_price, :tax_rate, :taxable_amount, :cgst_amount, :sgst_amount, :igst_amount,
	:total_amount)`

func (r *invoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	inv.ID = uuid.New()
	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Create begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `INSERT INTO invoices (id, business_id, customer_id, invoice_number, invoice_date,
		customer_name, customer_gstin, place_of_supply, supply_type, status, taxable_amount,
		cgst_amount, sgst_amount, igst_amount, total_amount, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	_, err = tx.ExecContext(ctx, query,
		inv.ID, inv.BusinessID, inv.CustomerID, inv.InvoiceNumber, inv.InvoiceDate,
		inv.CustomerName, inv.CustomerGSTIN, inv.PlaceOfSupply, inv.SupplyType, inv.Status,
		inv.TaxableAmount, inv.CGSTAmount, inv.SGSTAmount, inv.IGSTAmount, inv.TotalAmount,
		inv.Notes, inv.CreatedBy, inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "invoices_business_number_key") {
			return domain.ErrDuplicateInvoiceNo
		}
		return fmt.Errorf("invoiceRepo.Create: %w", err)
	}

	for i := range inv.Items {
		item := &inv.Items[i]
		item.ID = uuid.New()
		item.InvoiceID = inv.ID
		item.BusinessID = inv.BusinessID
		item.LineNo = i + 1
		if _, err := tx.NamedExecContext(ctx, insertInvoiceItem, item); err != nil {
			return fmt.Errorf("invoiceRepo.Create item %d: %w", item.LineNo, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("invoiceRepo.Create commit: %w", err)
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, businessID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.GetContext(ctx, &inv,
		"SELECT * FROM invoices WHERE id = $1 AND business_id = $2", invoiceID, businessID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", err)
	}

	err = r.db.SelectContext(ctx, &inv.Items,
		"SELECT * FROM invoice_items WHERE invoice_id = $1 AND business_id = $2 ORDER BY line_no",
		invoiceID, businessID)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.GetByID items: %w", err)
	}
	return &inv, nil
}

// buildInvoiceWhere constructs a dynamic WHERE clause for invoice listings.
func buildInvoiceWhere(businessID uuid.UUID, f port.InvoiceFilter) (clause string, args []interface{}) {
	args = []interface{}{businessID}
	clause = "WHERE business_id = $1"
	argN := 2

	if f.From != nil {
		clause += fmt.Sprintf(" AND invoice_date >= $%d", argN)
		args = append(args, *f.From)
		argN++
	}
	if f.To != nil {
		clause += fmt.Sprintf(" AND invoice_date <= $%d", argN)
		args = append(args, *f.To)
		argN++
	}
	if f.CustomerID != nil {
		clause += fmt.Sprintf(" AND customer_id = $%d", argN)
		args = append(args, *f.CustomerID)
		argN++
	}
	if f.Status != "" {
		clause += fmt.Sprintf(" AND status = $%d", argN)
		args = append(args, f.Status)
	}
	return clause, args
}

func (r *invoiceRepo) List(ctx context.Context, businessID uuid.UUID, filter port.InvoiceFilter, offset, limit int) ([]domain.Invoice, int, error) {
	where, args := buildInvoiceWhere(businessID, filter)

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM invoices "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.List count: %w", err)
	}

	n := len(args)
	query := fmt.Sprintf("SELECT * FROM invoices %s ORDER BY invoice_date DESC, invoice_number DESC LIMIT $%d OFFSET $%d",
		where, n+1, n+2)
	var invoices []domain.Invoice
	if err := r.db.SelectContext(ctx, &invoices, query, append(args, limit, offset)...); err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.List: %w", err)
	}
	return invoices, total, nil
}

func (r *invoiceRepo) ListForPeriod(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	err := r.db.SelectContext(ctx, &invoices,
		`SELECT * FROM invoices
		 WHERE business_id = $1 AND status = $2 AND invoice_date >= $3 AND invoice_date <= $4
		 ORDER BY invoice_date, invoice_number`,
		businessID, domain.InvoiceStatusIssued, from, to)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.ListForPeriod: %w", err)
	}
	if len(invoices) == 0 {
		return invoices, nil
	}

	var items []domain.InvoiceItem
	err = r.db.SelectContext(ctx, &items,
		`SELECT ii.* FROM invoice_items ii
		 JOIN invoices i ON i.id = ii.invoice_id
		 WHERE i.business_id = $1 AND i.status = $2 AND i.invoice_date >= $3 AND i.invoice_date <= $4
		 ORDER BY ii.invoice_id, ii.line_no`,
		businessID, domain.InvoiceStatusIssued, from, to)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.ListForPeriod items: %w", err)
	}

	byInvoice := make(map[uuid.UUID][]domain.InvoiceItem, len(invoices))
	for i := range items {
		byInvoice[items[i].InvoiceID] = append(byInvoice[items[i].InvoiceID], items[i])
	}
	for i := range invoices {
		invoices[i].Items = byInvoice[invoices[i].ID]
	}
	return invoices, nil
}

func (r *invoiceRepo) UpdateStatus(ctx context.Context, businessID, invoiceID uuid.UUID, status domain.InvoiceStatus) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE invoices SET status = $1, updated_at = $2 WHERE id = $3 AND business_id = $4",
		status, time.Now().UTC(), invoiceID, businessID)
	if err != nil {
		return fmt.Errorf("invoiceRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
