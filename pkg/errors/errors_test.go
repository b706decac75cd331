package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := New("TEST_CODE", "test message", http.StatusBadRequest)
	want := "TEST_CODE: test message"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestErrorStringWithWrapped(t *testing.T) {
	inner := errors.New("connection refused")
	err := Wrap(inner, "DATABASE_ERROR", "Database error", http.StatusInternalServerError)
	want := "DATABASE_ERROR: Database error: connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("inner")
	err := ErrDatabaseError.WithError(inner)
	if !errors.Is(err, inner) {
		t.Error("errors.Is() should find the wrapped error")
	}
}

func TestWithDetailsDoesNotMutatePredefined(t *testing.T) {
	detailed := ErrValidationFailed.WithDetails([]string{"name is required"})
	if detailed.Details == nil {
		t.Error("WithDetails() should carry details")
	}
	if ErrValidationFailed.Details != nil {
		t.Error("WithDetails() must not mutate the shared predefined error")
	}
}

func TestWithErrorDoesNotMutatePredefined(t *testing.T) {
	wrapped := ErrInternal.WithError(errors.New("boom"))
	if wrapped.Err == nil {
		t.Error("WithError() should wrap the error")
	}
	if ErrInternal.Err != nil {
		t.Error("WithError() must not mutate the shared predefined error")
	}
}

func TestIsError(t *testing.T) {
	if !IsError(ErrOTPExpired, ErrOTPExpired) {
		t.Error("IsError() should match the same code")
	}
	if IsError(ErrOTPExpired, ErrOTPInvalid) {
		t.Error("IsError() should not match different codes")
	}
	if IsError(errors.New("plain"), ErrInternal) {
		t.Error("IsError() should not match plain errors")
	}
}

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"app error", ErrArtistNotFound, http.StatusNotFound},
		{"conflict", ErrEmailTaken, http.StatusConflict},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetHTTPStatus(tt.err); got != tt.want {
				t.Errorf("GetHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(ErrOTPNotFound); got != ErrCodeOTPNotFound {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeOTPNotFound)
	}
	if got := GetCode(errors.New("plain")); got != ErrCodeInternal {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeInternal)
	}
}
