package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"gstbill/internal/middleware"
)

func hit(r *gin.Engine, remoteAddr string) int {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/login", http.NoBody)
	req.RemoteAddr = remoteAddr
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiter_BurstThenReject(t *testing.T) {
	r := gin.New()
	r.POST("/login", middleware.RateLimiter(0.001, 2), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1:1234"))

	// Limits are per client.
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.2:1234"))
}

func TestRateLimiter_Disabled(t *testing.T) {
	r := gin.New()
	r.POST("/login", middleware.RateLimiter(0, 0), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 20; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1:1234"))
	}
}
