package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/paintworks/pw_backend/internal/middleware"
)

func TestRateLimitBlocksAfterBudget(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rate, err := limiter.NewRateFromFormatted("2-M")
	assert.NoError(t, err)
	ipLimiter := limiter.New(memory.NewStore(), rate)

	router := gin.New()
	router.POST("/login", middleware.RateLimit(ipLimiter), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	hit := func(ip string) int {
		req, _ := http.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":51000"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1"))

	// Budgets are per client IP; a different caller is unaffected.
	assert.Equal(t, http.StatusOK, hit("10.0.0.2"))
}
