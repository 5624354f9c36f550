package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		errType ErrorType
		want    int
	}{
		{AuthError, http.StatusUnauthorized},
		{ForbiddenError, http.StatusForbidden},
		{NotFoundError, http.StatusNotFound},
		{ValidationError, http.StatusBadRequest},
		{BadRequestError, http.StatusBadRequest},
		{ConflictError, http.StatusConflict},
		{DatabaseError, http.StatusInternalServerError},
		{ConfigError, http.StatusInternalServerError},
		{InternalError, http.StatusInternalServerError},
		{MigrationError, http.StatusInternalServerError},
		{UnknownError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		err := New(tt.errType, "boom", nil)
		assert.Equal(t, tt.want, err.StatusCode())
	}
}

func TestErrorIncludesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewDatabaseError("failed to query users", cause)
	assert.Equal(t, "failed to query users: connection refused", err.Error())

	bare := NewValidationError("amount is required", nil)
	assert.Equal(t, "amount is required", bare.Error())
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewInternalError("wrapper", cause)
	assert.True(t, errors.Is(err, cause))
}

func TestToResponseHidesCause(t *testing.T) {
	err := NewDatabaseError("failed to query users", errors.New("dsn contains a password"))
	assert.Equal(t, ErrorResponse{Error: "failed to query users"}, err.ToResponse())
}

func TestFromError(t *testing.T) {
	appErr := NewNotFoundError("budget not found", nil)

	got, ok := FromError(appErr)
	require.True(t, ok)
	assert.Equal(t, appErr, got)

	// Recovered through wrapping as well.
	wrapped := fmt.Errorf("while deleting: %w", appErr)
	got, ok = FromError(wrapped)
	require.True(t, ok)
	assert.Equal(t, NotFoundError, got.Type)

	_, ok = FromError(errors.New("plain"))
	assert.False(t, ok)

	_, ok = FromError(nil)
	assert.False(t, ok)
}

func TestTypePredicates(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFoundError("x", nil)))
	assert.True(t, IsAuthError(NewAuthError("x", nil)))
	assert.True(t, IsForbidden(NewForbiddenError("x", nil)))
	assert.True(t, IsValidationError(NewValidationError("x", nil)))
	assert.True(t, IsConflict(NewConflictError("x", nil)))

	assert.False(t, IsNotFound(NewConflictError("x", nil)))
	assert.False(t, IsConflict(errors.New("plain")))
	assert.False(t, IsValidationError(nil))
}
