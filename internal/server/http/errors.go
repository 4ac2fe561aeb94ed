package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/and161185/goalplay-inventory/internal/errs"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Error      string `json:"error"`
}

// statusFor maps service errors to an HTTP status and client-facing message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, errs.ErrNotAuthorized):
		return http.StatusForbidden, "Player not owned by user"
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, "Base player not found"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Request timed out"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func abortWithStatus(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, errorBody{StatusCode: code, Message: msg, Error: http.StatusText(code)})
}

// writeError responds with the mapped status; causes of 5xx responses are logged.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	code, msg := statusFor(err)
	if code >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	abortWithStatus(c, code, msg)
}
