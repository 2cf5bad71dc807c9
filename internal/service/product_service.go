package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gstbill/internal/domain"
	"gstbill/internal/gst"
	"gstbill/internal/port"
)

// CreateProductInput is the DTO for creating a product. When TaxRate is nil
// the rate is looked up from the HSN master.
type CreateProductInput struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	HSNCode     string          `json:"hsn_code" binding:"required,numeric,min=4,max=8"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     *gst.TaxRate    `json:"tax_rate"`
}

// UpdateProductInput is the DTO for updating a product.
type UpdateProductInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	HSNCode     *string          `json:"hsn_code" binding:"omitempty,numeric,min=4,max=8"`
	Unit        *string          `json:"unit"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	TaxRate     *gst.TaxRate     `json:"tax_rate"`
	IsActive    *bool            `json:"is_active"`
}

// ProductService defines the product catalogue contract.
type ProductService interface {
	Create(ctx context.Context, businessID uuid.UUID, input CreateProductInput) (*domain.Product, error)
	GetByID(ctx context.Context, businessID, productID uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, businessID uuid.UUID, offset, limit int) ([]domain.Product, int, error)
	Update(ctx context.Context, businessID, productID uuid.UUID, input UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, businessID, productID uuid.UUID) error
}

type productService struct {
	repo  port.ProductRepository
	rates *gst.RateTable
}

// NewProductService creates a new ProductService implementation.
func NewProductService(repo port.ProductRepository, rates *gst.RateTable) ProductService {
	return &productService{repo: repo, rates: rates}
}

func (s *productService) Create(ctx context.Context, businessID uuid.UUID, input CreateProductInput) (*domain.Product, error) {
	rate, err := s.pickRate(input.HSNCode, input.TaxRate)
	if err != nil {
		return nil, err
	}
	if err := checkUnitPrice(input.UnitPrice); err != nil {
		return nil, err
	}

	unit := strings.ToUpper(strings.TrimSpace(input.Unit))
	if unit == "" {
		unit = gst.DefaultUnit
	}
	product := &domain.Product{
		BusinessID:  businessID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		HSNCode:     input.HSNCode,
		Unit:        unit,
		UnitPrice:   input.UnitPrice,
		TaxRate:     rate,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) GetByID(ctx context.Context, businessID, productID uuid.UUID) (*domain.Product, error) {
	return s.repo.GetByID(ctx, businessID, productID)
}

func (s *productService) List(ctx context.Context, businessID uuid.UUID, offset, limit int) ([]domain.Product, int, error) {
	return s.repo.List(ctx, businessID, offset, limit)
}

func (s *productService) Update(ctx context.Context, businessID, productID uuid.UUID, input UpdateProductInput) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, businessID, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.HSNCode != nil || input.TaxRate != nil {
		if input.HSNCode != nil {
			product.HSNCode = *input.HSNCode
		}
		explicit := input.TaxRate
		if explicit == nil && input.HSNCode == nil {
			explicit = &product.TaxRate
		}
		rate, err := s.pickRate(product.HSNCode, explicit)
		if err != nil {
			return nil, err
		}
		product.TaxRate = rate
	}
	if input.Unit != nil {
		product.Unit = strings.ToUpper(strings.TrimSpace(*input.Unit))
	}
	if input.UnitPrice != nil {
		if err := checkUnitPrice(*input.UnitPrice); err != nil {
			return nil, err
		}
		product.UnitPrice = *input.UnitPrice
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) Delete(ctx context.Context, businessID, productID uuid.UUID) error {
	return s.repo.Delete(ctx, businessID, productID)
}

// pickRate returns the explicit rate when given, else the HSN master rate.
func (s *productService) pickRate(hsn string, explicit *gst.TaxRate) (gst.TaxRate, error) {
	if explicit != nil {
		if !explicit.Valid() {
			return 0, &gst.InvalidInputError{Field: "tax_rate", Value: explicit.String(), Reason: "not a statutory GST slab"}
		}
		return *explicit, nil
	}
	if rate, ok := s.rates.RateFor(hsn); ok {
		return rate, nil
	}
	return 0, domain.ErrRateNotFound
}

func checkUnitPrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return &gst.InvalidInputError{Field: "unit_price", Value: p.String(), Reason: "must not be negative"}
	}
	if !p.Equal(p.Truncate(2)) {
		return &gst.InvalidInputError{Field: "unit_price", Value: p.String(), Reason: "at most 2 decimal places"}
	}
	return nil
}
