package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gstbill/internal/csvexport"
	"gstbill/internal/domain"
	"gstbill/internal/gst"
	"gstbill/internal/pdf"
	"gstbill/internal/port"
	"gstbill/internal/service"
)

const exportBatchSize = 200

// InvoiceHandler handles invoice endpoints.
type InvoiceHandler struct {
	invoiceService  service.InvoiceService
	businessService service.BusinessService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService, businessService service.BusinessService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, businessService: businessService}
}

// HSNRateResponse is the result of a rate table lookup.
type HSNRateResponse struct {
	Code    string      `json:"code" example:"8471"`
	Rate    gst.TaxRate `json:"rate" example:"18"`
	Display string      `json:"display" example:"18%"`
}

// Create handles POST /api/v1/invoices
// @Summary Issue an invoice
// @Description Computes line and invoice tax, compares against declared totals when given, and stores the invoice
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body service.CreateInvoiceInput true "Invoice"
// @Success 201 {object} Response{data=service.InvoiceResult} "Invoice issued"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 409 {object} ErrorResponseBody "Invoice number already exists"
// @Failure 422 {object} ErrorResponseBody "Invalid line or declared totals mismatch"
// @Security BearerAuth
// @Router /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	businessID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.CreateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.invoiceService.Create(c.Request.Context(), businessID, userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, result)
}

// Preview handles POST /api/v1/invoices/preview
// @Summary Preview an invoice
// @Description Same computation as issuing, without storing anything
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body service.CreateInvoiceInput true "Invoice"
// @Success 200 {object} Response{data=service.InvoiceResult} "Computed invoice"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 422 {object} ErrorResponseBody "Invalid line"
// @Security BearerAuth
// @Router /invoices/preview [post]
func (h *InvoiceHandler) Preview(c *gin.Context) {
	businessID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.CreateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.invoiceService.Preview(c.Request.Context(), businessID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// List handles GET /api/v1/invoices
// @Summary List invoices
// @Tags invoices
// @Produce json
// @Param from query string false "Invoice date from (YYYY-MM-DD)"
// @Param to query string false "Invoice date to (YYYY-MM-DD)"
// @Param customer_id query string false "Customer UUID"
// @Param status query string false "issued or cancelled"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Invoice,meta=PagMeta} "Invoices"
// @Failure 400 {object} ErrorResponseBody "Invalid filter"
// @Security BearerAuth
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	businessID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	filter, err := parseInvoiceFilter(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	offset, limit := parsePagination(c)
	invoices, total, err := h.invoiceService.List(c.Request.Context(), businessID, filter, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, invoices, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/invoices/:id
// @Summary Get an invoice
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID (UUID)"
// @Success 200 {object} Response{data=domain.Invoice} "Invoice with items"
// @Failure 404 {object} ErrorResponseBody "Invoice not found"
// @Security BearerAuth
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	businessID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), businessID, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, invoice)
}

// Cancel handles POST /api/v1/invoices/:id/cancel
// @Summary Cancel an invoice
// @Description Cancelled invoices keep their number but drop out of reports
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID (UUID)"
// @Success 200 {object} Response{data=domain.Invoice} "Cancelled invoice"
// @Failure 404 {object} ErrorResponseBody "Invoice not found"
// @Failure 409 {object} ErrorResponseBody "Already cancelled"
// @Security BearerAuth
// @Router /invoices/{id}/cancel [post]
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	businessID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Cancel(c.Request.Context(), businessID, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, invoice)
}

// PDF handles GET /api/v1/invoices/:id/pdf
// @Summary Download invoice PDF
// @Tags invoices
// @Produce application/pdf
// @Param id path string true "Invoice ID (UUID)"
// @Success 200 {file} file "Invoice PDF"
// @Failure 404 {object} ErrorResponseBody "Invoice not found"
// @Security BearerAuth
// @Router /invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *gin.Context) {
	businessID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	invoice, err := h.invoiceService.GetByID(ctx, businessID, id)
	if err != nil {
		HandleError(c, err)
		return
	}
	business, err := h.businessService.Get(ctx, businessID)
	if err != nil {
		HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := pdf.RenderInvoice(&buf, business, invoice); err != nil {
		HandleError(c, err)
		return
	}

	filename := csvexport.SanitizeFilename(invoice.InvoiceNumber) + ".pdf"
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// ExportCSV handles GET /api/v1/invoices/export
// @Summary Export invoice register as CSV
// @Description Accepts the same filters as the list endpoint
// @Tags invoices
// @Produce text/csv
// @Param from query string false "Invoice date from (YYYY-MM-DD)"
// @Param to query string false "Invoice date to (YYYY-MM-DD)"
// @Param customer_id query string false "Customer UUID"
// @Param status query string false "issued or cancelled"
// @Success 200 {file} file "CSV file"
// @Failure 400 {object} ErrorResponseBody "Invalid filter"
// @Security BearerAuth
// @Router /invoices/export [get]
func (h *InvoiceHandler) ExportCSV(c *gin.Context) {
	businessID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	filter, err := parseInvoiceFilter(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	ctx := c.Request.Context()
	business, err := h.businessService.Get(ctx, businessID)
	if err != nil {
		HandleError(c, err)
		return
	}

	// All pages are read before the first byte of CSV is written.
	var all []domain.Invoice
	for offset := 0; ; offset += exportBatchSize {
		page, total, err := h.invoiceService.List(ctx, businessID, filter, offset, exportBatchSize)
		if err != nil {
			HandleError(c, err)
			return
		}
		all = append(all, page...)
		if len(page) == 0 || offset+len(page) >= total {
			break
		}
	}

	var buf bytes.Buffer
	buf.Write(csvexport.BOM)
	w := csvexport.NewWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		HandleError(c, err)
		return
	}
	if err := w.WriteInvoices(all); err != nil {
		HandleError(c, err)
		return
	}
	w.Flush()
	if err := w.Error(); err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, csvexport.BuildFilename(business.Name)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// HSNRate handles GET /api/v1/hsn/:code/rate
// @Summary Look up the GST rate for an HSN/SAC code
// @Tags hsn
// @Produce json
// @Param code path string true "HSN or SAC code (4 to 8 digits)"
// @Success 200 {object} Response{data=HSNRateResponse} "Rate"
// @Failure 404 {object} ErrorResponseBody "No rate for code"
// @Security BearerAuth
// @Router /hsn/{code}/rate [get]
func (h *InvoiceHandler) HSNRate(c *gin.Context) {
	code := c.Param("code")
	rate, found := h.invoiceService.RateFor(code)
	if !found {
		RespondError(c, http.StatusNotFound, "RATE_NOT_FOUND", "no tax rate for hsn code "+code)
		return
	}
	RespondOK(c, HSNRateResponse{Code: code, Rate: rate, Display: rate.String()})
}

func parseInvoiceFilter(c *gin.Context) (port.InvoiceFilter, error) {
	var filter port.InvoiceFilter
	if fromStr := c.Query("from"); fromStr != "" {
		t, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return filter, errors.New("invalid 'from' date: must be YYYY-MM-DD")
		}
		filter.From = &t
	}
	if toStr := c.Query("to"); toStr != "" {
		t, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return filter, errors.New("invalid 'to' date: must be YYYY-MM-DD")
		}
		filter.To = &t
	}
	if cidStr := c.Query("customer_id"); cidStr != "" {
		cid, err := uuid.Parse(cidStr)
		if err != nil {
			return filter, errors.New("invalid 'customer_id': must be a valid UUID")
		}
		filter.CustomerID = &cid
	}
	switch status := domain.InvoiceStatus(c.Query("status")); status {
	case "":
	case domain.InvoiceStatusIssued, domain.InvoiceStatusCancelled:
		filter.Status = status
	default:
		return filter, errors.New("invalid 'status': must be issued or cancelled")
	}
	return filter, nil
}
