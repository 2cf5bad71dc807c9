package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"gstbill/internal/domain"
	"gstbill/internal/port"
)

// CreateUserInput is the DTO for adding a member to the business.
type CreateUserInput struct {
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=8"`
	FullName string          `json:"full_name" binding:"required"`
	Role     domain.UserRole `json:"role" binding:"required,oneof=admin member"`
}

// UpdateUserInput is the DTO for updating a member.
type UpdateUserInput struct {
	Email    *string          `json:"email" binding:"omitempty,email"`
	FullName *string          `json:"full_name"`
	Role     *domain.UserRole `json:"role" binding:"omitempty,oneof=admin member"`
	IsActive *bool            `json:"is_active"`
}

// UserService manages the users of a business. Users are never hard-deleted
// because issued invoices reference their creator.
type UserService interface {
	Create(ctx context.Context, businessID uuid.UUID, input CreateUserInput) (*domain.User, error)
	GetByID(ctx context.Context, businessID, userID uuid.UUID) (*domain.User, error)
	List(ctx context.Context, businessID uuid.UUID, offset, limit int) ([]domain.User, int, error)
	Update(ctx context.Context, businessID, actorID, userID uuid.UUID, input UpdateUserInput) (*domain.User, error)
	Deactivate(ctx context.Context, businessID, actorID, userID uuid.UUID) error
}

type userService struct {
	repo port.UserRepository
}

// NewUserService creates a new UserService implementation.
func NewUserService(repo port.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) Create(ctx context.Context, businessID uuid.UUID, input CreateUserInput) (*domain.User, error) {
	if !domain.ValidRoles[input.Role] {
		return nil, domain.ErrForbidden
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &domain.User{
		BusinessID:   businessID,
		Email:        input.Email,
		PasswordHash: string(hash),
		FullName:     input.FullName,
		Role:         input.Role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, businessID, userID uuid.UUID) (*domain.User, error) {
	return s.repo.GetByID(ctx, businessID, userID)
}

func (s *userService) List(ctx context.Context, businessID uuid.UUID, offset, limit int) ([]domain.User, int, error) {
	return s.repo.List(ctx, businessID, offset, limit)
}

func (s *userService) Update(ctx context.Context, businessID, actorID, userID uuid.UUID, input UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, businessID, userID)
	if err != nil {
		return nil, err
	}

	// An admin editing their own account keeps the admin role and stays active.
	if actorID == userID {
		if input.Role != nil && *input.Role != user.Role {
			return nil, domain.ErrSelfModification
		}
		if input.IsActive != nil && !*input.IsActive {
			return nil, domain.ErrSelfModification
		}
	}

	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Role != nil {
		if !domain.ValidRoles[*input.Role] {
			return nil, domain.ErrForbidden
		}
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Deactivate(ctx context.Context, businessID, actorID, userID uuid.UUID) error {
	if actorID == userID {
		return domain.ErrSelfModification
	}
	user, err := s.repo.GetByID(ctx, businessID, userID)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return nil
	}
	user.IsActive = false
	return s.repo.Update(ctx, user)
}
