package app_error

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
)

// ValidationError signals bad or missing input shape.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// AuthorizationError signals that the actor lacks rights over a resource.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

func NewAuthorizationError(format string, args ...any) *AuthorizationError {
	return &AuthorizationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError signals that a top-level resource id does not resolve.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(format string, args ...any) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

func HTTPStatus(err error) int {
	var validationErr *ValidationError
	var authorizationErr *AuthorizationError
	var notFoundErr *NotFoundError
	switch {
	case errors.As(err, &validationErr):
		return 400
	case errors.As(err, &authorizationErr):
		return 403
	case errors.As(err, &notFoundErr):
		return 404
	default:
		return 500
	}
}

func Abort(c *gin.Context, err error) {
	c.JSON(HTTPStatus(err), gin.H{"error": err.Error()})
}
