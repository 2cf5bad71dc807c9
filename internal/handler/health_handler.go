package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	db        *sqlx.DB
	rateCount int
}

// NewHealthHandler creates a new HealthHandler. rateCount is the number of
// HSN prefixes loaded into the rate table at boot.
func NewHealthHandler(db *sqlx.DB, rateCount int) *HealthHandler {
	return &HealthHandler{db: db, rateCount: rateCount}
}

// Liveness handles GET /healthz
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Readiness handles GET /readyz
// @Summary Readiness probe
// @Description Checks the database and that a rate table is loaded
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.rateCount == 0 {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Error: "rate table is empty"})
		return
	}
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Error: "database not reachable"})
		return
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", HSNPrefixes: h.rateCount})
}
