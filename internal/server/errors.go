package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes returned in apiError bodies.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeBadRequest   = "BAD_REQUEST"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeConflict     = "CONFLICT"
	CodeRateLimited  = "RATE_LIMITED"
	CodeInternal     = "INTERNAL_ERROR"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Status  int    `json:"status"`
}

func (e *apiError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
}

func validationError(details string) *apiError {
	return &apiError{Code: CodeValidation, Message: "invalid result", Details: details, Status: http.StatusBadRequest}
}

func badRequest(message string) *apiError {
	return &apiError{Code: CodeBadRequest, Message: message, Status: http.StatusBadRequest}
}

func notFound(resource string) *apiError {
	return &apiError{Code: CodeNotFound, Message: resource + " not found", Status: http.StatusNotFound}
}

func unauthorized(message string) *apiError {
	return &apiError{Code: CodeUnauthorized, Message: message, Status: http.StatusUnauthorized}
}

func conflict(message string) *apiError {
	return &apiError{Code: CodeConflict, Message: message, Status: http.StatusConflict}
}

func rateLimited() *apiError {
	return &apiError{Code: CodeRateLimited, Message: "too many submissions", Status: http.StatusTooManyRequests}
}

func internal(details string) *apiError {
	return &apiError{Code: CodeInternal, Message: "internal server error", Details: details, Status: http.StatusInternalServerError}
}

func abortWith(c *gin.Context, err *apiError) {
	c.AbortWithStatusJSON(err.Status, err)
}
