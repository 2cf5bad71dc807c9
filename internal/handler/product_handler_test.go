package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gstbill/internal/domain"
	"gstbill/internal/gst"
	"gstbill/internal/handler"
	"gstbill/internal/service"
	"gstbill/mocks"
)

func TestProductHandler_Create_Success(t *testing.T) {
	svc := new(mocks.MockProductService)
	h := handler.NewProductHandler(svc)
	businessID := uuid.New()

	svc.On("Create", mock.Anything, businessID, mock.MatchedBy(func(in service.CreateProductInput) bool {
		return in.HSNCode == "8471" && in.UnitPrice.Equal(decimal.RequireFromString("45000.50")) && in.TaxRate == nil
	})).Return(&domain.Product{Name: "Laptop", HSNCode: "8471", TaxRate: gst.TaxRate(18)}, nil)

	c, w := newContext(http.MethodPost, "/api/v1/products", `{"name":"Laptop","hsn_code":"8471","unit_price":"45000.50"}`)
	setAuthContext(c, businessID, uuid.New(), "member")
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestProductHandler_Create_NonNumericHSN(t *testing.T) {
	svc := new(mocks.MockProductService)
	h := handler.NewProductHandler(svc)

	c, w := newContext(http.MethodPost, "/api/v1/products", `{"name":"Laptop","hsn_code":"84AB","unit_price":"10"}`)
	setAuthContext(c, uuid.New(), uuid.New(), "member")
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductHandler_Create_RateNotFound(t *testing.T) {
	svc := new(mocks.MockProductService)
	h := handler.NewProductHandler(svc)

	svc.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: %q", domain.ErrRateNotFound, "9999"))

	c, w := newContext(http.MethodPost, "/api/v1/products", `{"name":"Widget","hsn_code":"9999","unit_price":"10"}`)
	setAuthContext(c, uuid.New(), uuid.New(), "member")
	h.Create(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "RATE_NOT_FOUND", resp.Error.Code)
}

func TestProductHandler_Create_InvalidTaxRate(t *testing.T) {
	svc := new(mocks.MockProductService)
	h := handler.NewProductHandler(svc)

	svc.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &gst.InvalidInputError{Field: "tax_rate", Value: "7", Reason: "not a statutory GST slab"})

	c, w := newContext(http.MethodPost, "/api/v1/products", `{"name":"Widget","hsn_code":"8471","unit_price":"10","tax_rate":7}`)
	setAuthContext(c, uuid.New(), uuid.New(), "member")
	h.Create(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "tax_rate")
}
