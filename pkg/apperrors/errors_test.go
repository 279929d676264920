package apperrors

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppError(t *testing.T) {
	cause := errors.New("connection refused")
	appErr := New("failed to resolve user role", http.StatusInternalServerError, ErrProvider, cause)

	if appErr.Message() != "failed to resolve user role" {
		t.Errorf("Message() = %q", appErr.Message())
	}
	if appErr.StatusCode() != http.StatusInternalServerError {
		t.Errorf("StatusCode() = %d", appErr.StatusCode())
	}
	if appErr.Code() != ErrProvider {
		t.Errorf("Code() = %s", appErr.Code())
	}
	if !errors.Is(appErr, cause) {
		t.Error("AppError must unwrap to its cause")
	}
	if !Is(appErr, ErrProvider) {
		t.Error("Is must match the carried code")
	}
	if Is(appErr, ErrNotFound) {
		t.Error("Is must not match a different code")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "x", http.StatusInternalServerError, ErrInternal) != nil {
		t.Error("Wrap(nil) must be nil")
	}

	original := New("Invalid token", http.StatusUnauthorized, ErrUnauthorized, nil)
	wrapped := Wrap(original, "other", http.StatusInternalServerError, ErrInternal)
	if wrapped.StatusCode() != http.StatusUnauthorized {
		t.Error("Wrap must keep an existing AppError unchanged")
	}

	plain := Wrap(errors.New("boom"), "something broke", http.StatusInternalServerError, ErrInternal)
	if plain.Message() != "something broke" || plain.Code() != ErrInternal {
		t.Errorf("Wrap produced %+v", plain)
	}
}
