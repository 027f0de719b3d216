// Package api holds the helpers every gin handler shares: parameter parsing,
// JSON binding and the error middleware that turns wrapped sentinel errors
// into HTTP responses.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ukemeny/internal/shared"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Path      string `json:"path"`
}

// StatusFor maps an error to the HTTP status it should surface as.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, shared.ErrValidation):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// ErrorHandler writes the last error recorded on the context with c.Error.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status := StatusFor(err)
		message := err.Error()
		if status == http.StatusInternalServerError {
			logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
			message = "Unexpected error"
		}

		c.JSON(status, ErrorBody{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Status:    status,
			Error:     http.StatusText(status),
			Message:   message,
			Path:      c.Request.URL.Path,
		})
	}
}

// Fail records err on the context and aborts the handler chain.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ParamID parses a positive integer path parameter.
func ParamID(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", shared.ErrValidation, name, raw)
	}
	return id, nil
}

// BindJSON decodes the request body into dst.
func BindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	return nil
}
