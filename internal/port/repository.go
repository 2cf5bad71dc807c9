package port

import (
	"context"

	"github.com/google/uuid"

	"gstbill/internal/domain"
)

// BusinessRepository defines the contract for business persistence.
type BusinessRepository interface {
	Create(ctx context.Context, business *domain.Business) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Business, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Business, error)
	Update(ctx context.Context, business *domain.Business) error
}

// UserRepository defines the contract for user persistence.
// All query methods include businessID to enforce isolation at the data layer.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, businessID, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, businessID uuid.UUID, email string) (*domain.User, error)
	List(ctx context.Context, businessID uuid.UUID, offset, limit int) ([]domain.User, int, error)
	Update(ctx context.Context, user *domain.User) error
}

// CustomerRepository defines the contract for customer persistence.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, businessID, customerID uuid.UUID) (*domain.Customer, error)
	List(ctx context.Context, businessID uuid.UUID, offset, limit int) ([]domain.Customer, int, error)
	Update(ctx context.Context, customer *domain.Customer) error
	Delete(ctx context.Context, businessID, customerID uuid.UUID) error
}

// ProductRepository defines the contract for product persistence.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, businessID, productID uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, businessID uuid.UUID, offset, limit int) ([]domain.Product, int, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, businessID, productID uuid.UUID) error
}
