package transactions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/user/finflow-go/apperror"
)

// Validation happens before any database access, so a service with a nil
// pool is enough to exercise the rejection paths.
func validationOnlyService() *serviceImpl {
	return &serviceImpl{db: nil, now: func() time.Time {
		return time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)
	}}
}

func floatPtr(f float64) *float64 { return &f }

func TestCreateValidation(t *testing.T) {
	s := validationOnlyService()
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateTransactionRequest
	}{
		{"missing amount", CreateTransactionRequest{Date: "2026-08-29", CategoryID: 1}},
		{"negative amount", CreateTransactionRequest{Amount: floatPtr(-1), Date: "2026-08-29", CategoryID: 1}},
		{"missing category", CreateTransactionRequest{Amount: floatPtr(10), Date: "2026-08-29"}},
		{"missing date", CreateTransactionRequest{Amount: floatPtr(10), CategoryID: 1}},
		{"bad date", CreateTransactionRequest{Amount: floatPtr(10), Date: "29/08/2026", CategoryID: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(ctx, 1, tt.req)
			assert.True(t, apperror.IsValidationError(err), "expected validation error, got %v", err)
		})
	}
}

func TestUpdateValidation(t *testing.T) {
	s := validationOnlyService()
	ctx := context.Background()

	_, err := s.Update(ctx, 1, 1, UpdateTransactionRequest{})
	assert.True(t, apperror.IsValidationError(err), "empty update must be rejected")

	_, err = s.Update(ctx, 1, 1, UpdateTransactionRequest{Amount: floatPtr(-5)})
	assert.True(t, apperror.IsValidationError(err))

	bad := "yesterday"
	_, err = s.Update(ctx, 1, 1, UpdateTransactionRequest{Date: &bad})
	assert.True(t, apperror.IsValidationError(err))
}

func TestCurrentMonthRejectsUnknownType(t *testing.T) {
	s := validationOnlyService()
	_, err := s.CurrentMonth(context.Background(), 1, "SAVINGS")
	assert.True(t, apperror.IsValidationError(err))
}
