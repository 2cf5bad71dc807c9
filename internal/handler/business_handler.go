package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gstbill/internal/service"
)

// BusinessHandler serves the current business profile.
type BusinessHandler struct {
	businessService service.BusinessService
}

// NewBusinessHandler creates a new BusinessHandler.
func NewBusinessHandler(businessService service.BusinessService) *BusinessHandler {
	return &BusinessHandler{businessService: businessService}
}

// Get handles GET /api/v1/business
// @Summary Get business profile
// @Tags business
// @Produce json
// @Success 200 {object} Response{data=domain.Business} "Business profile"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Business not found"
// @Security BearerAuth
// @Router /business [get]
func (h *BusinessHandler) Get(c *gin.Context) {
	businessID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	business, err := h.businessService.Get(c.Request.Context(), businessID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, business)
}

// Update handles PUT /api/v1/business
// @Summary Update business profile
// @Description Update name, GSTIN, state or contact details (admin only)
// @Tags business
// @Accept json
// @Produce json
// @Param request body service.UpdateBusinessInput true "Fields to update"
// @Success 200 {object} Response{data=domain.Business} "Updated profile"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Forbidden - admin only"
// @Failure 409 {object} ErrorResponseBody "GSTIN already registered"
// @Security BearerAuth
// @Router /business [put]
func (h *BusinessHandler) Update(c *gin.Context) {
	businessID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.UpdateBusinessInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	business, err := h.businessService.Update(c.Request.Context(), businessID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, business)
}
