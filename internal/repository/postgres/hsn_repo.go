package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gstbill/internal/domain"
	"gstbill/internal/port"
)

type hsnRepo struct {
	db *sqlx.DB
}

// NewHSNRepo creates a new PostgreSQL-backed HSNRepository.
func NewHSNRepo(db *sqlx.DB) port.HSNRepository {
	return &hsnRepo{db: db}
}

// LoadAll returns current master rows ordered by code then rate, so the
// lowest rate of a code comes first.
func (r *hsnRepo) LoadAll(ctx context.Context) ([]domain.HSNRate, error) {
	var entries []domain.HSNRate
	err := r.db.SelectContext(ctx, &entries,
		`SELECT code, description, gst_rate
		 FROM hsn_rates
		 WHERE effective_to IS NULL OR effective_to >= CURRENT_DATE
		 ORDER BY code, gst_rate`)
	if err != nil {
		return nil, fmt.Errorf("hsnRepo.LoadAll: %w", err)
	}
	return entries, nil
}
