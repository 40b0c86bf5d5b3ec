package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/veracity"
	vhttp "github.com/fwojciec/veracity/http"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid", veracity.Reasonf(veracity.EINVALID, veracity.ReasonTooShort, "short"), http.StatusBadRequest},
		{"extraction", veracity.Reasonf(veracity.EEXTRACTION, veracity.ReasonForbidden, "blocked"), http.StatusBadRequest},
		{"config", veracity.ErrMissingCredential, http.StatusInternalServerError},
		{"auth", veracity.Reasonf(veracity.EMODEL, veracity.ReasonAuthFailed, "auth"), http.StatusInternalServerError},
		{"schema", veracity.Reasonf(veracity.EMODEL, veracity.ReasonSchemaViolation, "schema"), http.StatusInternalServerError},
		{"rate limited", veracity.Reasonf(veracity.EMODEL, veracity.ReasonRateLimited, "busy"), http.StatusTooManyRequests},
		{"timeout", veracity.Reasonf(veracity.ETIMEOUT, veracity.ReasonTimeout, "slow"), http.StatusRequestTimeout},
		{"not found", veracity.Errorf(veracity.ENOTFOUND, "gone"), http.StatusNotFound},
		{"internal", veracity.Errorf(veracity.EINTERNAL, "oops"), http.StatusInternalServerError},
		{"untyped", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, vhttp.ErrorStatusCode(tt.err))
		})
	}
}

func serveError(err error) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/", func(c *gin.Context) { vhttp.Error(c, err) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestError(t *testing.T) {
	t.Parallel()

	t.Run("surfaces typed error message", func(t *testing.T) {
		t.Parallel()

		w := serveError(veracity.Reasonf(veracity.EEXTRACTION, veracity.ReasonForbidden,
			"Access denied. The website may be blocking automated requests."))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Access denied. The website may be blocking automated requests.", decodeError(t, w))
	})

	t.Run("hides untyped error details", func(t *testing.T) {
		t.Parallel()

		w := serveError(errors.New("dial tcp 10.0.0.1:443: secret detail"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, vhttp.GenericErrorMessage, decodeError(t, w))
	})
}
