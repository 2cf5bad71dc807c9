package port

import (
	"context"

	"gstbill/internal/domain"
)

// HSNRepository defines the contract for HSN/SAC rate master access.
type HSNRepository interface {
	LoadAll(ctx context.Context) ([]domain.HSNRate, error)
}
