package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"gstbill/internal/domain"
	"gstbill/internal/port"
)

// RegisterInput is the DTO for registering a business and its first admin.
type RegisterInput struct {
	BusinessName string `json:"business_name" binding:"required"`
	BusinessSlug string `json:"business_slug" binding:"required,min=3,max=63"`
	GSTIN        string `json:"gstin" binding:"required,gstin"`
	StateCode    string `json:"state_code" binding:"omitempty,statecode"`
	Address      string `json:"address"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	FullName     string `json:"full_name" binding:"required"`
}

// RegisterOutput contains the results of a successful registration.
type RegisterOutput struct {
	Business *domain.Business `json:"business"`
	User     *domain.User     `json:"user"`
	Tokens   *TokenPair       `json:"tokens"`
}

// RegistrationService defines the self-registration contract.
type RegistrationService interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error)
}

type registrationService struct {
	businessRepo port.BusinessRepository
	userRepo     port.UserRepository
	authSvc      AuthService
}

// NewRegistrationService creates a new RegistrationService.
func NewRegistrationService(
	businessRepo port.BusinessRepository,
	userRepo port.UserRepository,
	authSvc AuthService,
) RegistrationService {
	return &registrationService{
		businessRepo: businessRepo,
		userRepo:     userRepo,
		authSvc:      authSvc,
	}
}

func (s *registrationService) Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	gstin := normalizeGSTIN(input.GSTIN)
	state, err := resolveState(input.StateCode, gstin)
	if err != nil {
		return nil, err
	}
	if err := checkParty(gstin, state); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	business := &domain.Business{
		Name:      input.BusinessName,
		Slug:      strings.ToLower(strings.TrimSpace(input.BusinessSlug)),
		GSTIN:     gstin,
		PAN:       panFromGSTIN(gstin),
		StateCode: state,
		Address:   input.Address,
		Email:     input.Email,
		IsActive:  true,
	}
	if err := s.businessRepo.Create(ctx, business); err != nil {
		return nil, err // ErrDuplicateBusinessSlug / ErrDuplicateGSTIN propagate
	}

	user := &domain.User{
		BusinessID:   business.ID,
		Email:        input.Email,
		PasswordHash: string(hash),
		FullName:     input.FullName,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	tokens, err := s.authSvc.Login(ctx, LoginInput{
		BusinessSlug: business.Slug,
		Email:        input.Email,
		Password:     input.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("generating tokens: %w", err)
	}

	return &RegisterOutput{
		Business: business,
		User:     user,
		Tokens:   tokens,
	}, nil
}
