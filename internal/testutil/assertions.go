package testutil

import (
	"errors"
	"testing"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
)

// AssertAppError fails unless err is an *AppError carrying expectedCode.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertAmount compares a money value by its two-decimal rendering.
func AssertAmount(t *testing.T, got models.Amount, want string) {
	t.Helper()

	if got.String() != want {
		t.Errorf("expected amount %s, got %s", want, got)
	}
}
