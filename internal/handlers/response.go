// Package handlers fronts the services with gin request/response endpoints.
package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/duo_finder/pkg/errors"
	"github.com/mroshb/duo_finder/pkg/logger"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

var statusByCode = map[string]int{
	errors.ErrCodeInvalidIdentifier:     http.StatusBadRequest,
	errors.ErrCodeValidation:            http.StatusBadRequest,
	errors.ErrCodeNotFound:              http.StatusNotFound,
	errors.ErrCodeNotWaiting:            http.StatusConflict,
	errors.ErrCodeConflict:              http.StatusConflict,
	errors.ErrCodeForbidden:             http.StatusForbidden,
	errors.ErrCodeUnauthorized:          http.StatusUnauthorized,
	errors.ErrCodeDependencyUnavailable: http.StatusServiceUnavailable,
	errors.ErrCodeRateLimitExceeded:     http.StatusTooManyRequests,
}

// StatusFor maps an error code to its HTTP status.
func StatusFor(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// RespondError writes err in the error envelope. Internal errors hide their cause.
func RespondError(c *gin.Context, err error) {
	code := errors.CodeOf(err)
	status := StatusFor(code)

	msg := "internal error"
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) && status != http.StatusInternalServerError {
		msg = appErr.Message
	}
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	}

	c.JSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func badRequest(c *gin.Context, err error) {
	RespondError(c, errors.Wrap(err, errors.ErrCodeValidation, "invalid request body"))
}
