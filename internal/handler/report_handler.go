package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"gstbill/internal/domain"
	"gstbill/internal/report"
	"gstbill/internal/service"
)

// ReportHandler handles GST report endpoints.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ArchiveRequest asks for a report to be stored and linked.
type ArchiveRequest struct {
	From   string `json:"from" binding:"required" example:"2024-04-01"`
	To     string `json:"to" binding:"required" example:"2024-04-30"`
	Format string `json:"format" binding:"required,oneof=json csv xlsx gstr1" example:"gstr1"`
}

// parsePeriod reads the from/to query parameters.
func parsePeriod(c *gin.Context) (report.Period, error) {
	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		return report.Period{}, fmt.Errorf("%w: 'from' and 'to' are required (YYYY-MM-DD)", domain.ErrInvalidPeriod)
	}
	period, err := report.ParsePeriod(from, to)
	if err != nil {
		return report.Period{}, fmt.Errorf("%w: %v", domain.ErrInvalidPeriod, err)
	}
	return period, nil
}

// Summary handles GET /api/v1/reports/summary
// @Summary      GST summary
// @Description  Totals by rate, HSN, state and month for issued invoices in the period
// @Tags         reports
// @Produce      json
// @Param        from query string true "Start date (YYYY-MM-DD)"
// @Param        to query string true "End date (YYYY-MM-DD)"
// @Success      200 {object} Response{data=gst.GSTSummary}
// @Failure      400 {object} ErrorResponseBody
// @Failure      401 {object} ErrorResponseBody
// @Security     BearerAuth
// @Router       /reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	businessID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	period, err := parsePeriod(c)
	if err != nil {
		HandleError(c, err)
		return
	}

	summary, err := h.reportService.Summary(c.Request.Context(), businessID, period)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, summary)
}

// SummaryCSV handles GET /api/v1/reports/summary.csv
// @Summary      GST summary as CSV
// @Tags         reports
// @Produce      text/csv
// @Param        from query string true "Start date (YYYY-MM-DD)"
// @Param        to query string true "End date (YYYY-MM-DD)"
// @Success      200 {file} file
// @Failure      400 {object} ErrorResponseBody
// @Security     BearerAuth
// @Router       /reports/summary.csv [get]
func (h *ReportHandler) SummaryCSV(c *gin.Context) {
	h.download(c, domain.ReportFormatCSV)
}

// SummaryXLSX handles GET /api/v1/reports/summary.xlsx
// @Summary      GST summary as an Excel workbook
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        from query string true "Start date (YYYY-MM-DD)"
// @Param        to query string true "End date (YYYY-MM-DD)"
// @Success      200 {file} file
// @Failure      400 {object} ErrorResponseBody
// @Security     BearerAuth
// @Router       /reports/summary.xlsx [get]
func (h *ReportHandler) SummaryXLSX(c *gin.Context) {
	h.download(c, domain.ReportFormatXLSX)
}

// GSTR1 handles GET /api/v1/reports/gstr1
// @Summary      GSTR-1 return
// @Description  Pass download=true to receive the bare GSTR-1 JSON as a file
// @Tags         reports
// @Produce      json
// @Param        from query string true "Start date (YYYY-MM-DD)"
// @Param        to query string true "End date (YYYY-MM-DD)"
// @Param        download query bool false "Return as attachment"
// @Success      200 {object} Response{data=report.GSTR1Document}
// @Failure      400 {object} ErrorResponseBody
// @Security     BearerAuth
// @Router       /reports/gstr1 [get]
func (h *ReportHandler) GSTR1(c *gin.Context) {
	if c.Query("download") == "true" {
		h.download(c, domain.ReportFormatGSTR1)
		return
	}

	businessID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	period, err := parsePeriod(c)
	if err != nil {
		HandleError(c, err)
		return
	}

	doc, err := h.reportService.GSTR1(c.Request.Context(), businessID, period)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// Archive handles POST /api/v1/reports/archive
// @Summary      Archive a report
// @Description  Stores the rendered report in object storage and returns a time-limited download link
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        request body ArchiveRequest true "Period and format"
// @Success      201 {object} Response{data=service.ArchiveResult}
// @Failure      400 {object} ErrorResponseBody
// @Failure      404 {object} ErrorResponseBody "Archive not configured"
// @Failure      502 {object} ErrorResponseBody "Upload failed"
// @Security     BearerAuth
// @Router       /reports/archive [post]
func (h *ReportHandler) Archive(c *gin.Context) {
	businessID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req ArchiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	period, err := report.ParsePeriod(req.From, req.To)
	if err != nil {
		HandleError(c, fmt.Errorf("%w: %v", domain.ErrInvalidPeriod, err))
		return
	}

	result, err := h.reportService.Archive(c.Request.Context(), businessID, userID, period, domain.ReportFormat(req.Format))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, result)
}

func (h *ReportHandler) download(c *gin.Context, format domain.ReportFormat) {
	businessID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	period, err := parsePeriod(c)
	if err != nil {
		HandleError(c, err)
		return
	}

	file, err := h.reportService.Export(c.Request.Context(), businessID, period, format)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Body)
}
