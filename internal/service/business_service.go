package service

import (
	"context"

	"github.com/google/uuid"

	"gstbill/internal/domain"
	"gstbill/internal/port"
)

// UpdateBusinessInput is the DTO for updating the business profile. The slug
// is fixed at registration because users log in with it.
type UpdateBusinessInput struct {
	Name      *string `json:"name"`
	GSTIN     *string `json:"gstin" binding:"omitempty,gstin"`
	StateCode *string `json:"state_code" binding:"omitempty,statecode"`
	Address   *string `json:"address"`
	Email     *string `json:"email" binding:"omitempty,email"`
}

// BusinessService manages the current business profile.
type BusinessService interface {
	Get(ctx context.Context, businessID uuid.UUID) (*domain.Business, error)
	Update(ctx context.Context, businessID uuid.UUID, input UpdateBusinessInput) (*domain.Business, error)
}

type businessService struct {
	repo port.BusinessRepository
}

// NewBusinessService creates a new BusinessService implementation.
func NewBusinessService(repo port.BusinessRepository) BusinessService {
	return &businessService{repo: repo}
}

func (s *businessService) Get(ctx context.Context, businessID uuid.UUID) (*domain.Business, error) {
	return s.repo.GetByID(ctx, businessID)
}

func (s *businessService) Update(ctx context.Context, businessID uuid.UUID, input UpdateBusinessInput) (*domain.Business, error) {
	business, err := s.repo.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		business.Name = *input.Name
	}
	if input.GSTIN != nil {
		business.GSTIN = normalizeGSTIN(*input.GSTIN)
		business.PAN = panFromGSTIN(business.GSTIN)
	}
	if input.StateCode != nil {
		code, err := resolveState(*input.StateCode, business.GSTIN)
		if err != nil {
			return nil, err
		}
		business.StateCode = code
	}
	if input.Address != nil {
		business.Address = *input.Address
	}
	if input.Email != nil {
		business.Email = *input.Email
	}
	if business.GSTIN == "" {
		return nil, domain.ErrInvalidGSTIN
	}
	if err := checkParty(business.GSTIN, business.StateCode); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, business); err != nil {
		return nil, err
	}
	return business, nil
}
