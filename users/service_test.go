package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/user/finflow-go/apperror"
)

// Validation happens before any database access, so a nil pool suffices.
func validationOnlyService() *serviceImpl {
	return &serviceImpl{db: nil}
}

func strPtr(s string) *string { return &s }

func TestUpdateProfileValidation(t *testing.T) {
	s := validationOnlyService()
	ctx := context.Background()

	tests := []struct {
		name string
		req  UpdateUserProfileRequest
	}{
		{"no fields", UpdateUserProfileRequest{}},
		{"blank fullname", UpdateUserProfileRequest{Fullname: strPtr("   ")}},
		{"bad dateofbirth", UpdateUserProfileRequest{DateOfBirth: strPtr("31-12-1990")}},
		{"dateofbirth with time", UpdateUserProfileRequest{DateOfBirth: strPtr("1990-12-31T00:00:00Z")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.UpdateProfile(ctx, 1, &tt.req)
			assert.True(t, apperror.IsValidationError(err), "expected validation error, got %v", err)
		})
	}
}

func TestChangePasswordValidation(t *testing.T) {
	s := validationOnlyService()
	ctx := context.Background()

	tests := []struct {
		name string
		req  ChangePasswordRequest
	}{
		{"missing current", ChangePasswordRequest{NewPassword: "new-secret"}},
		{"missing new", ChangePasswordRequest{CurrentPassword: "old-secret"}},
		{"both missing", ChangePasswordRequest{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.ChangePassword(ctx, 1, &tt.req)
			assert.True(t, apperror.IsValidationError(err), "expected validation error, got %v", err)
		})
	}
}
