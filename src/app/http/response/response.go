// Package response defines the JSON envelope shared by every endpoint:
// {"data": ...} on success and {"error": {...}} on failure.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"thethird/src/core/domain"
)

// Success represents a successful response with data.
type Success struct {
	Data any `json:"data"`
}

// Error represents an error response.
type Error struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	// Code is a machine-readable error code (e.g., "NOT_FOUND", "VALIDATION_ERROR")
	Code string `json:"code"`

	Message string `json:"message"`

	// Field is the offending input field, set for validation errors.
	Field string `json:"field,omitempty"`

	RequestID string `json:"request_id,omitempty"`
}

// OK sends a 200 response with data.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Success{Data: data})
}

// Created sends a 201 response with the created resource.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Success{Data: data})
}

func abort(c *gin.Context, status int, detail ErrorDetail) {
	c.AbortWithStatusJSON(status, Error{Error: detail})
}

// BadRequest sends a 400 response.
func BadRequest(c *gin.Context, message, requestID string) {
	abort(c, http.StatusBadRequest, ErrorDetail{Code: "BAD_REQUEST", Message: message, RequestID: requestID})
}

// ValidationError sends a 400 response for validation failures.
func ValidationError(c *gin.Context, field, message, requestID string) {
	abort(c, http.StatusBadRequest, ErrorDetail{Code: "VALIDATION_ERROR", Message: message, Field: field, RequestID: requestID})
}

// NotFound sends a 404 response.
func NotFound(c *gin.Context, message, requestID string) {
	abort(c, http.StatusNotFound, ErrorDetail{Code: "NOT_FOUND", Message: message, RequestID: requestID})
}

// Conflict sends a 409 response.
func Conflict(c *gin.Context, message, requestID string) {
	abort(c, http.StatusConflict, ErrorDetail{Code: "CONFLICT", Message: message, RequestID: requestID})
}

// Forbidden sends a 403 response.
func Forbidden(c *gin.Context, message, requestID string) {
	abort(c, http.StatusForbidden, ErrorDetail{Code: "FORBIDDEN", Message: message, RequestID: requestID})
}

// Unauthorized sends a 401 response.
func Unauthorized(c *gin.Context, message, requestID string) {
	abort(c, http.StatusUnauthorized, ErrorDetail{Code: "UNAUTHORIZED", Message: message, RequestID: requestID})
}

// InternalError sends a 500 response. Details stay in the logs.
func InternalError(c *gin.Context, requestID string) {
	abort(c, http.StatusInternalServerError, ErrorDetail{
		Code:      "INTERNAL_ERROR",
		Message:   "An unexpected error occurred",
		RequestID: requestID,
	})
}

// FromDomainError converts a domain error to an HTTP response.
// Unknown errors become a 500 and are attached to the context for the
// logging middleware.
func FromDomainError(c *gin.Context, err error, requestID string) {
	var de *domain.DomainError
	message := err.Error()
	if errors.As(err, &de) {
		message = de.Message
	}

	switch {
	case domain.IsNotFound(err):
		if de != nil && de.Message != "" {
			message = de.Message + " not found"
		}
		NotFound(c, message, requestID)
	case domain.IsValidationError(err):
		field := ""
		if de != nil {
			field = de.Field
		}
		ValidationError(c, field, message, requestID)
	case domain.IsConflict(err):
		Conflict(c, message, requestID)
	case domain.IsForbidden(err):
		Forbidden(c, message, requestID)
	case domain.IsUnauthorized(err):
		Unauthorized(c, message, requestID)
	default:
		_ = c.Error(err)
		InternalError(c, requestID)
	}
}
