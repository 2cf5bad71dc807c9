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

type customerRepo struct {
	db *sqlx.DB
}

// NewCustomerRepo creates a new PostgreSQL-backed CustomerRepository.
func NewCustomerRepo(db *sqlx.DB) port.CustomerRepository {
	return &customerRepo{db: db}
}

func (r *customerRepo) Create(ctx context.Context, c *domain.Customer) error {
	c.ID = uuid.New()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	query := `INSERT INTO customers (id, business_id, name, gstin, state_code, email, phone, address,
		created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.BusinessID, c.Name, c.GSTIN, c.StateCode, c.Email, c.Phone, c.Address,
		c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "customers_business_gstin_key") {
			return domain.ErrDuplicateGSTIN
		}
		return fmt.Errorf("customerRepo.Create: %w", err)
	}
	return nil
}

func (r *customerRepo) GetByID(ctx context.Context, businessID, customerID uuid.UUID) (*domain.Customer, error) {
	var c domain.Customer
	err := r.db.GetContext(ctx, &c,
		"SELECT * FROM customers WHERE id = $1 AND business_id = $2", customerID, businessID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("customerRepo.GetByID: %w", err)
	}
	return &c, nil
}

func (r *customerRepo) List(ctx context.Context, businessID uuid.UUID, offset, limit int) ([]domain.Customer, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM customers WHERE business_id = $1", businessID)
	if err != nil {
		return nil, 0, fmt.Errorf("customerRepo.List count: %w", err)
	}

	var customers []domain.Customer
	err = r.db.SelectContext(ctx, &customers,
		"SELECT * FROM customers WHERE business_id = $1 ORDER BY name LIMIT $2 OFFSET $3",
		businessID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("customerRepo.List: %w", err)
	}
	return customers, total, nil
}

func (r *customerRepo) Update(ctx context.Context, c *domain.Customer) error {
	c.UpdatedAt = time.Now().UTC()
	query := `UPDATE customers SET name = $1, gstin = $2, state_code = $3, email = $4, phone = $5,
		address = $6, updated_at = $7 WHERE id = $8 AND business_id = $9`
	result, err := r.db.ExecContext(ctx, query,
		c.Name, c.GSTIN, c.StateCode, c.Email, c.Phone, c.Address, c.UpdatedAt, c.ID, c.BusinessID)
	if err != nil {
		if isUniqueViolation(err, "customers_business_gstin_key") {
			return domain.ErrDuplicateGSTIN
		}
		return fmt.Errorf("customerRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *customerRepo) Delete(ctx context.Context, businessID, customerID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM customers WHERE id = $1 AND business_id = $2", customerID, businessID)
	if err != nil {
		return fmt.Errorf("customerRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
