package handler_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gstbill/internal/domain"
	"gstbill/internal/handler"
	"gstbill/internal/service"
	"gstbill/mocks"
)

func newUserHandler() (*handler.UserHandler, *mocks.MockUserService) {
	svc := new(mocks.MockUserService)
	return handler.NewUserHandler(svc), svc
}

func TestUserHandler_Create(t *testing.T) {
	h, svc := newUserHandler()
	businessID, adminID := uuid.New(), uuid.New()

	input := service.CreateUserInput{
		Email: "clerk@example.com", Password: "password123", FullName: "Clerk", Role: domain.RoleMember,
	}
	svc.On("Create", mock.Anything, businessID, input).
		Return(&domain.User{ID: uuid.New(), Email: input.Email, Role: domain.RoleMember}, nil)

	c, w := newContext(http.MethodPost, "/api/v1/users", input)
	setAuthContext(c, businessID, adminID, "admin")
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	svc.AssertExpectations(t)
}

func TestUserHandler_Create_Validation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]string
	}{
		{"bad email", map[string]string{"email": "nope", "password": "password123", "full_name": "A", "role": "member"}},
		{"short password", map[string]string{"email": "a@example.com", "password": "short", "full_name": "A", "role": "member"}},
		{"unknown role", map[string]string{"email": "a@example.com", "password": "password123", "full_name": "A", "role": "owner"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, svc := newUserHandler()
			c, w := newContext(http.MethodPost, "/api/v1/users", tt.body)
			setAuthContext(c, uuid.New(), uuid.New(), "admin")
			h.Create(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUserHandler_List(t *testing.T) {
	h, svc := newUserHandler()
	businessID := uuid.New()

	svc.On("List", mock.Anything, businessID, 0, 20).
		Return([]domain.User{{ID: uuid.New()}, {ID: uuid.New()}}, 2, nil)

	c, w := newContext(http.MethodGet, "/api/v1/users", nil)
	setAuthContext(c, businessID, uuid.New(), "admin")
	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 2, resp.Meta.Total)
}

func TestUserHandler_Update_SelfModification(t *testing.T) {
	h, svc := newUserHandler()
	businessID, adminID := uuid.New(), uuid.New()

	svc.On("Update", mock.Anything, businessID, adminID, adminID, mock.Anything).
		Return(nil, domain.ErrSelfModification)

	c, w := newContext(http.MethodPut, "/api/v1/users/"+adminID.String(), map[string]string{"role": "member"})
	c.Params = gin.Params{{Key: "id", Value: adminID.String()}}
	setAuthContext(c, businessID, adminID, "admin")
	h.Update(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "SELF_MODIFICATION", decodeResponse(t, w).Error.Code)
}

func TestUserHandler_Delete(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		svcErr   error
		wantCode int
	}{
		{"deactivated", uuid.New().String(), nil, http.StatusOK},
		{"not found", uuid.New().String(), domain.ErrNotFound, http.StatusNotFound},
		{"bad id", "abc", nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, svc := newUserHandler()
			businessID, adminID := uuid.New(), uuid.New()
			if id, err := uuid.Parse(tt.id); err == nil {
				svc.On("Deactivate", mock.Anything, businessID, adminID, id).Return(tt.svcErr)
			}

			c, w := newContext(http.MethodDelete, "/api/v1/users/"+tt.id, nil)
			c.Params = gin.Params{{Key: "id", Value: tt.id}}
			setAuthContext(c, businessID, adminID, "admin")
			h.Delete(c)

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}
