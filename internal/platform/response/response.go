package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/siamroads/service-trip/internal/platform/domain"
)

// Envelope is the JSON shape of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// Meta carries pagination details.
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success writes a 200 response.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 response.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Paginated writes a 200 response with pagination metadata.
func Paginated(c *gin.Context, data interface{}, total int64, page, limit int) {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    data,
		Meta:    &Meta{Total: total, Page: page, Limit: limit, TotalPages: totalPages},
	})
}

// BadRequest writes a 400 response.
func BadRequest(c *gin.Context, msg string) {
	abort(c, http.StatusBadRequest, string(domain.KindValidation), msg)
}

// Unauthorized writes a 401 response.
func Unauthorized(c *gin.Context, msg string) {
	abort(c, http.StatusUnauthorized, string(domain.KindUnauthorized), msg)
}

// Forbidden writes a 403 response.
func Forbidden(c *gin.Context, msg string) {
	abort(c, http.StatusForbidden, string(domain.KindForbidden), msg)
}

// TooManyRequests writes a 429 response.
func TooManyRequests(c *gin.Context) {
	abort(c, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests")
}

// Error maps an error to a status code. Unknown errors become a generic 500.
func Error(c *gin.Context, err error) {
	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		_ = c.Error(err)
		abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Kind {
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindValidation:
		status = http.StatusBadRequest
	case domain.KindConflict:
		status = http.StatusConflict
	case domain.KindForbidden:
		status = http.StatusForbidden
	case domain.KindUnauthorized:
		status = http.StatusUnauthorized
	}
	abort(c, status, string(appErr.Kind), appErr.Message)
}

func abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: msg},
	})
}
