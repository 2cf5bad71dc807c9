package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"gstbill/internal/domain"
	"gstbill/internal/gst"
	"gstbill/internal/handler"
	"gstbill/internal/report"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("repo.GetByID: %w", domain.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{domain.ErrBusinessInactive, http.StatusForbidden, "BUSINESS_INACTIVE"},
		{domain.ErrDuplicateGSTIN, http.StatusConflict, "DUPLICATE_GSTIN"},
		{domain.ErrInvalidGSTIN, http.StatusBadRequest, "INVALID_GSTIN"},
		{domain.ErrInvalidStateCode, http.StatusBadRequest, "INVALID_STATE_CODE"},
		{domain.ErrInvoiceCancelled, http.StatusConflict, "INVOICE_CANCELLED"},
		{fmt.Errorf("%w: %q", domain.ErrRateNotFound, "1234"), http.StatusUnprocessableEntity, "RATE_NOT_FOUND"},
		{domain.ErrInvalidPeriod, http.StatusBadRequest, "INVALID_PERIOD"},
		{domain.ErrSelfModification, http.StatusConflict, "SELF_MODIFICATION"},
		{&gst.InvalidInputError{Field: "rate", Reason: "bad"}, http.StatusUnprocessableEntity, "INVALID_INPUT"},
		{&report.MalformedSummaryError{Key: "hsn_wise"}, http.StatusInternalServerError, "MALFORMED_SUMMARY"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, code, msg := handler.MapDomainError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
			assert.NotEmpty(t, msg)
		})
	}
}
