package http

import (
	"log/slog"
	"net/http"

	"github.com/fwojciec/veracity"
	"github.com/gin-gonic/gin"
)

// GenericErrorMessage is shown for failures that carry no user-facing message.
const GenericErrorMessage = "Analysis failed due to an unexpected error. Please try again later."

// ErrorStatusCode returns the HTTP status for err.
func ErrorStatusCode(err error) int {
	switch veracity.ErrorCode(err) {
	case veracity.EINVALID, veracity.EEXTRACTION:
		return http.StatusBadRequest
	case veracity.EMODEL:
		if veracity.ErrorReason(err) == veracity.ReasonRateLimited {
			return http.StatusTooManyRequests
		}
		return http.StatusInternalServerError
	case veracity.ETIMEOUT:
		return http.StatusRequestTimeout
	case veracity.ENOTFOUND:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as a JSON error response and aborts the request.
// Internal errors are logged and replaced with GenericErrorMessage.
func Error(c *gin.Context, err error) {
	message := veracity.ErrorMessage(err)
	if veracity.ErrorCode(err) == veracity.EINTERNAL {
		loggerFrom(c).Error("internal error",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"err", err,
		)
		message = GenericErrorMessage
	}
	c.AbortWithStatusJSON(ErrorStatusCode(err), gin.H{"error": message})
}

const loggerKey = "veracity.logger"

// loggerFrom returns the request-scoped logger set by the request logging
// middleware.
func loggerFrom(c *gin.Context) *slog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if logger, ok := v.(*slog.Logger); ok {
			return logger
		}
	}
	return slog.Default()
}
