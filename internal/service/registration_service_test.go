package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"gstbill/internal/domain"
	"gstbill/internal/gst"
	"gstbill/internal/service"
	"gstbill/mocks"
)

func validRegisterInput() service.RegisterInput {
	return service.RegisterInput{
		BusinessName: "Bengaluru Traders",
		BusinessSlug: "BLR-Traders",
		GSTIN:        "29aabct1332l1zp",
		Email:        "owner@blr.test",
		Password:     "s3cret-pass",
		FullName:     "Asha Rao",
	}
}

func TestRegistrationService_Register_Success(t *testing.T) {
	businessRepo := new(mocks.MockBusinessRepo)
	userRepo := new(mocks.MockUserRepo)
	authSvc := new(mocks.MockAuthService)
	svc := service.NewRegistrationService(businessRepo, userRepo, authSvc)

	businessID := uuid.New()
	businessRepo.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Business) bool {
		return b.Slug == "blr-traders" &&
			b.GSTIN == "29AABCT1332L1ZP" &&
			b.PAN == "AABCT1332L" &&
			b.StateCode == gst.StateCode("29") &&
			b.IsActive
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Business).ID = businessID
	}).Return(nil)

	var created *domain.User
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Run(func(args mock.Arguments) {
		created = args.Get(1).(*domain.User)
	}).Return(nil)

	tokens := &service.TokenPair{AccessToken: "a", RefreshToken: "r"}
	authSvc.On("Login", mock.Anything, service.LoginInput{
		BusinessSlug: "blr-traders",
		Email:        "owner@blr.test",
		Password:     "s3cret-pass",
	}).Return(tokens, nil)

	out, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)
	assert.Equal(t, tokens, out.Tokens)
	assert.Equal(t, businessID, out.Business.ID)

	require.NotNil(t, created)
	assert.Equal(t, businessID, created.BusinessID)
	assert.Equal(t, domain.RoleAdmin, created.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("s3cret-pass")))

	businessRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
	authSvc.AssertExpectations(t)
}

func TestRegistrationService_Register_StateMismatch(t *testing.T) {
	businessRepo := new(mocks.MockBusinessRepo)
	svc := service.NewRegistrationService(businessRepo, new(mocks.MockUserRepo), new(mocks.MockAuthService))

	input := validRegisterInput()
	input.StateCode = "07"

	_, err := svc.Register(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrGSTINStateMismatch)
	businessRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegistrationService_Register_InvalidGSTIN(t *testing.T) {
	svc := service.NewRegistrationService(new(mocks.MockBusinessRepo), new(mocks.MockUserRepo), new(mocks.MockAuthService))

	input := validRegisterInput()
	input.GSTIN = "29-NOT-A-GSTIN"
	input.StateCode = "29"

	_, err := svc.Register(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrInvalidGSTIN)
}

func TestRegistrationService_Register_DuplicateSlug(t *testing.T) {
	businessRepo := new(mocks.MockBusinessRepo)
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewRegistrationService(businessRepo, userRepo, new(mocks.MockAuthService))

	businessRepo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateBusinessSlug)

	_, err := svc.Register(context.Background(), validRegisterInput())
	assert.ErrorIs(t, err, domain.ErrDuplicateBusinessSlug)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
