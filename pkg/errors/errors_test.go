package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_UnwrapsToSentinel(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		sentinel error
	}{
		{"not found", NotFound("item", "i-1"), ErrNotFound},
		{"already exists", AlreadyExists("user", "email", "a@b.c"), ErrAlreadyExists},
		{"invalid input", InvalidInput("bad"), ErrInvalidInput},
		{"incorrect credentials", IncorrectCredentials(), ErrIncorrectCredentials},
		{"token expired", TokenExpired(), ErrTokenExpired},
		{"token invalid", TokenInvalid(), ErrTokenInvalid},
		{"identity not found", IdentityNotFound(), ErrIdentityNotFound},
		{"ownership violation", OwnershipViolation(), ErrOwnership},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.sentinel))
			// Wrapping with extra context must preserve the classification.
			wrapped := fmt.Errorf("handler: %w", tt.err)
			assert.True(t, errors.Is(wrapped, tt.sentinel))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("item", "x")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(AlreadyExists("user", "email", "x")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(InvalidInput("x")))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(IncorrectCredentials()))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(TokenExpired()))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(TokenInvalid()))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(IdentityNotFound()))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(OwnershipViolation()))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestHTTPStatus_WrappedSentinels(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(fmt.Errorf("repo: %w", ErrNotFound)))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(fmt.Errorf("auth: %w", ErrTokenExpired)))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(fmt.Errorf("gate: %w", ErrOwnership)))
}

func TestTokenExpired_DistinctFromTokenInvalid(t *testing.T) {
	// The two kinds must never satisfy each other; clients branch on them.
	assert.False(t, errors.Is(TokenExpired(), ErrTokenInvalid))
	assert.False(t, errors.Is(TokenInvalid(), ErrTokenExpired))
}
