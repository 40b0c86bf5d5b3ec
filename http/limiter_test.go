package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	vhttp "github.com/fwojciec/veracity/http"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestClientLimiter(t *testing.T) {
	t.Parallel()

	t.Run("allows burst then rejects", func(t *testing.T) {
		t.Parallel()

		limiter := vhttp.NewClientLimiter(0.001, 2)

		assert.True(t, limiter.Allow("10.0.0.1"))
		assert.True(t, limiter.Allow("10.0.0.1"))
		assert.False(t, limiter.Allow("10.0.0.1"))
	})

	t.Run("different clients have independent limits", func(t *testing.T) {
		t.Parallel()

		limiter := vhttp.NewClientLimiter(0.001, 1)

		assert.True(t, limiter.Allow("10.0.0.1"))
		assert.False(t, limiter.Allow("10.0.0.1"))
		assert.True(t, limiter.Allow("10.0.0.2"))
	})

	t.Run("middleware answers 429 over the limit", func(t *testing.T) {
		t.Parallel()

		r := gin.New()
		r.Use(vhttp.NewClientLimiter(0.001, 1).Middleware())
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		first := httptest.NewRecorder()
		r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
		second := httptest.NewRecorder()
		r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
		assert.Contains(t, second.Body.String(), "Too many requests")
	})
}
