package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newLimitedRouter(cfg RateLimiterConfig) *gin.Engine {
	r := gin.New()
	r.Use(RateLimitMiddleware(cfg))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func hit(r *gin.Engine, ip string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Forwarded-For", ip)
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitAllowsWithinBurst(t *testing.T) {
	r := newLimitedRouter(RateLimiterConfig{RequestsPerSecond: 1, BurstSize: 3})

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1"))
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1"))
}

func TestRateLimitIsPerIP(t *testing.T) {
	r := newLimitedRouter(RateLimiterConfig{RequestsPerSecond: 1, BurstSize: 1})

	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1"))
	// A different client still has its own budget.
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.2"))
}

func TestHeavyEndpointLimiterIsShared(t *testing.T) {
	r := gin.New()
	r.Use(HeavyEndpointRateLimitMiddleware(1, 1))
	r.GET("/export", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	req1 := httptest.NewRequest(http.MethodGet, "/export", nil)
	req1.Header.Set("X-Forwarded-For", "10.0.0.1")
	r.ServeHTTP(first, req1)
	assert.Equal(t, http.StatusOK, first.Code)

	// Different IP, same shared budget.
	second := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/export", nil)
	req2.Header.Set("X-Forwarded-For", "10.0.0.2")
	r.ServeHTTP(second, req2)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
