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

type businessRepo struct {
	db *sqlx.DB
}

// NewBusinessRepo creates a new PostgreSQL-backed BusinessRepository.
func NewBusinessRepo(db *sqlx.DB) port.BusinessRepository {
	return &businessRepo{db: db}
}

func (r *businessRepo) Create(ctx context.Context, b *domain.Business) error {
	b.ID = uuid.New()
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now

	query := `INSERT INTO businesses (id, name, slug, gstin, pan, state_code, address, email,
		is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.Name, b.Slug, b.GSTIN, b.PAN, b.StateCode, b.Address, b.Email,
		b.IsActive, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return mapBusinessWriteErr("businessRepo.Create", err)
	}
	return nil
}

func (r *businessRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Business, error) {
	var b domain.Business
	err := r.db.GetContext(ctx, &b, "SELECT * FROM businesses WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("businessRepo.GetByID: %w", err)
	}
	return &b, nil
}

func (r *businessRepo) GetBySlug(ctx context.Context, slug string) (*domain.Business, error) {
	var b domain.Business
	err := r.db.GetContext(ctx, &b, "SELECT * FROM businesses WHERE slug = $1", slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("businessRepo.GetBySlug: %w", err)
	}
	return &b, nil
}

func (r *businessRepo) Update(ctx context.Context, b *domain.Business) error {
	b.UpdatedAt = time.Now().UTC()
	query := `UPDATE businesses SET name = $1, gstin = $2, pan = $3, state_code = $4, address = $5,
		email = $6, updated_at = $7 WHERE id = $8`
	result, err := r.db.ExecContext(ctx, query,
		b.Name, b.GSTIN, b.PAN, b.StateCode, b.Address, b.Email, b.UpdatedAt, b.ID)
	if err != nil {
		return mapBusinessWriteErr("businessRepo.Update", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func mapBusinessWriteErr(op string, err error) error {
	switch {
	case isUniqueViolation(err, "businesses_slug_key"):
		return domain.ErrDuplicateBusinessSlug
	case isUniqueViolation(err, "businesses_gstin_key"):
		return domain.ErrDuplicateGSTIN
	}
	return fmt.Errorf("%s: %w", op, err)
}
