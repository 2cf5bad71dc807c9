package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"gstbill/internal/domain"
	"gstbill/internal/port"
)

// CreateCustomerInput is the DTO for creating a customer. State may be a code,
// "29-Karnataka" or a state name; it defaults to the GSTIN's state.
type CreateCustomerInput struct {
	Name      string `json:"name" binding:"required"`
	GSTIN     string `json:"gstin" binding:"omitempty,gstin"`
	StateCode string `json:"state_code" binding:"omitempty,statecode"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// UpdateCustomerInput is the DTO for updating a customer.
type UpdateCustomerInput struct {
	Name      *string `json:"name"`
	GSTIN     *string `json:"gstin" binding:"omitempty,gstin"`
	StateCode *string `json:"state_code" binding:"omitempty,statecode"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
}

// CustomerService defines the customer management contract.
type CustomerService interface {
	Create(ctx context.Context, businessID uuid.UUID, input CreateCustomerInput) (*domain.Customer, error)
	GetByID(ctx context.Context, businessID, customerID uuid.UUID) (*domain.Customer, error)
	List(ctx context.Context, businessID uuid.UUID, offset, limit int) ([]domain.Customer, int, error)
	Update(ctx context.Context, businessID, customerID uuid.UUID, input UpdateCustomerInput) (*domain.Customer, error)
	Delete(ctx context.Context, businessID, customerID uuid.UUID) error
}

type customerService struct {
	repo port.CustomerRepository
}

// NewCustomerService creates a new CustomerService implementation.
func NewCustomerService(repo port.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func (s *customerService) Create(ctx context.Context, businessID uuid.UUID, input CreateCustomerInput) (*domain.Customer, error) {
	gstin := normalizeGSTIN(input.GSTIN)
	state, err := resolveState(input.StateCode, gstin)
	if err != nil {
		return nil, err
	}
	if err := checkParty(gstin, state); err != nil {
		return nil, err
	}

	customer := &domain.Customer{
		BusinessID: businessID,
		Name:       strings.TrimSpace(input.Name),
		GSTIN:      gstin,
		StateCode:  state,
		Email:      input.Email,
		Phone:      input.Phone,
		Address:    input.Address,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) GetByID(ctx context.Context, businessID, customerID uuid.UUID) (*domain.Customer, error) {
	return s.repo.GetByID(ctx, businessID, customerID)
}

func (s *customerService) List(ctx context.Context, businessID uuid.UUID, offset, limit int) ([]domain.Customer, int, error) {
	return s.repo.List(ctx, businessID, offset, limit)
}

func (s *customerService) Update(ctx context.Context, businessID, customerID uuid.UUID, input UpdateCustomerInput) (*domain.Customer, error) {
	customer, err := s.repo.GetByID(ctx, businessID, customerID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		customer.Name = strings.TrimSpace(*input.Name)
	}
	if input.GSTIN != nil {
		customer.GSTIN = normalizeGSTIN(*input.GSTIN)
	}
	if input.StateCode != nil {
		code, err := resolveState(*input.StateCode, customer.GSTIN)
		if err != nil {
			return nil, err
		}
		customer.StateCode = code
	}
	if input.Email != nil {
		customer.Email = *input.Email
	}
	if input.Phone != nil {
		customer.Phone = *input.Phone
	}
	if input.Address != nil {
		customer.Address = *input.Address
	}
	if err := checkParty(customer.GSTIN, customer.StateCode); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) Delete(ctx context.Context, businessID, customerID uuid.UUID) error {
	return s.repo.Delete(ctx, businessID, customerID)
}
