package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"gstbill/internal/domain"
	"gstbill/internal/gst"
	"gstbill/internal/middleware"
	"gstbill/internal/report"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

var logger logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the logger used for internal errors.
func SetLogger(l logrus.FieldLogger) {
	if l != nil {
		logger = l
	}
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain and engine errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var invalid *gst.InvalidInputError
	if errors.As(err, &invalid) {
		return http.StatusUnprocessableEntity, "INVALID_INPUT", invalid.Error()
	}
	var malformed *report.MalformedSummaryError
	if errors.As(err, &malformed) {
		return http.StatusInternalServerError, "MALFORMED_SUMMARY", "summary is missing a required section"
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"
	case errors.Is(err, domain.ErrBusinessInactive):
		return http.StatusForbidden, "BUSINESS_INACTIVE", "business is inactive"
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusForbidden, "USER_INACTIVE", "user is inactive"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "DUPLICATE_EMAIL", "email already exists for this business"
	case errors.Is(err, domain.ErrDuplicateBusinessSlug):
		return http.StatusConflict, "DUPLICATE_SLUG", "business slug already exists"
	case errors.Is(err, domain.ErrDuplicateGSTIN):
		return http.StatusConflict, "DUPLICATE_GSTIN", "gstin already registered"
	case errors.Is(err, domain.ErrDuplicateInvoiceNo):
		return http.StatusConflict, "DUPLICATE_INVOICE_NUMBER", "invoice number already exists"
	case errors.Is(err, domain.ErrInvalidGSTIN):
		return http.StatusBadRequest, "INVALID_GSTIN", "gstin is not a valid 15 character GST number"
	case errors.Is(err, domain.ErrInvalidStateCode):
		return http.StatusBadRequest, "INVALID_STATE_CODE", "unknown state code"
	case errors.Is(err, domain.ErrGSTINStateMismatch):
		return http.StatusBadRequest, "GSTIN_STATE_MISMATCH", "gstin state does not match state code"
	case errors.Is(err, domain.ErrInvoiceCancelled):
		return http.StatusConflict, "INVOICE_CANCELLED", "invoice is already cancelled"
	case errors.Is(err, domain.ErrTotalsMismatch):
		return http.StatusUnprocessableEntity, "TOTALS_MISMATCH", err.Error()
	case errors.Is(err, domain.ErrRateNotFound):
		return http.StatusUnprocessableEntity, "RATE_NOT_FOUND", err.Error()
	case errors.Is(err, domain.ErrInvalidPeriod):
		return http.StatusBadRequest, "INVALID_PERIOD", err.Error()
	case errors.Is(err, domain.ErrArchiveDisabled):
		return http.StatusNotFound, "ARCHIVE_DISABLED", "report archive is not configured"
	case errors.Is(err, domain.ErrSelfModification):
		return http.StatusConflict, "SELF_MODIFICATION", "cannot change own role or deactivate own account"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusBadGateway, "UPLOAD_FAILED", "report upload to storage failed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// extractAuthContext extracts business ID, user ID, and role from the request context.
// Returns false if auth context is missing (error response already written).
func extractAuthContext(c *gin.Context) (businessID, userID uuid.UUID, role domain.UserRole, ok bool) {
	var err error
	businessID, err = middleware.GetBusinessID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing business context")
		return uuid.Nil, uuid.Nil, "", false
	}
	userID, err = middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return uuid.Nil, uuid.Nil, "", false
	}
	role = domain.UserRole(middleware.GetRole(c))
	return businessID, userID, role, true
}

// parseIDParam parses a UUID path parameter, writing a 400 on failure.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get(middleware.ContextKeyRequestID)
		logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"path":       c.FullPath(),
		}).WithError(err).Error("internal error")
	}
	RespondError(c, status, code, msg)
}
