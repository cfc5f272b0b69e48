package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the common failure categories. Wrapped errors can be
// classified with errors.Is regardless of how much context was added on the
// way up.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInternal      = errors.New("internal error")

	// Authentication/authorization failure kinds. ErrTokenExpired is kept
	// separate from ErrTokenInvalid because the client recovery differs:
	// an expired access token should trigger a refresh, anything else a
	// re-login. All other verification failures deliberately collapse into
	// ErrTokenInvalid so the response never reveals which check failed.
	ErrIncorrectCredentials = errors.New("incorrect credentials")
	ErrTokenExpired         = errors.New("token expired")
	ErrTokenInvalid         = errors.New("invalid token")
	ErrIdentityNotFound     = errors.New("identity not found")
	ErrOwnership            = errors.New("ownership violation")
)

// AppError is a structured application error carrying a stable machine code,
// a user-facing message, and the HTTP status it maps to.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error for a missing resource.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// AlreadyExists creates a 409 error for a uniqueness conflict.
func AlreadyExists(resource, field, value string) *AppError {
	return &AppError{
		Code:    "ALREADY_EXISTS",
		Message: fmt.Sprintf("%s with %s %q already exists", resource, field, value),
		Status:  http.StatusConflict,
		Err:     ErrAlreadyExists,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// IncorrectCredentials creates a 401 error for a failed login. The message is
// fixed so that an unknown identifier and a wrong password are
// indistinguishable from the outside.
func IncorrectCredentials() *AppError {
	return &AppError{
		Code:    "INCORRECT_CREDENTIALS",
		Message: "incorrect email or password",
		Status:  http.StatusUnauthorized,
		Err:     ErrIncorrectCredentials,
	}
}

// TokenExpired creates a 401 error for a token past its expiry instant.
func TokenExpired() *AppError {
	return &AppError{
		Code:    "TOKEN_EXPIRED",
		Message: "token has expired",
		Status:  http.StatusUnauthorized,
		Err:     ErrTokenExpired,
	}
}

// TokenInvalid creates a 401 error for any non-expiry token verification
// failure.
func TokenInvalid() *AppError {
	return &AppError{
		Code:    "TOKEN_INVALID",
		Message: "invalid token",
		Status:  http.StatusUnauthorized,
		Err:     ErrTokenInvalid,
	}
}

// IdentityNotFound creates a 401 error for a verified token whose subject no
// longer exists. This is intentionally a 401 rather than a 404: an
// authenticated-but-deleted subject is an authentication failure from the
// caller's perspective.
func IdentityNotFound() *AppError {
	return &AppError{
		Code:    "IDENTITY_NOT_FOUND",
		Message: "authenticated user no longer exists",
		Status:  http.StatusUnauthorized,
		Err:     ErrIdentityNotFound,
	}
}

// OwnershipViolation creates a 403 error for a caller acting on a resource
// owned by someone else.
func OwnershipViolation() *AppError {
	return &AppError{
		Code:    "OWNERSHIP_VIOLATION",
		Message: "you do not have access to this resource",
		Status:  http.StatusForbidden,
		Err:     ErrOwnership,
	}
}

// Internal creates a 500 error, hiding the underlying cause from the client.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists reports whether err wraps ErrAlreadyExists.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrIncorrectCredentials),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrTokenInvalid),
		errors.Is(err, ErrIdentityNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, ErrOwnership):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
