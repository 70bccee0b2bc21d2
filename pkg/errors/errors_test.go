package errors

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "reservation validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "reservation validation failed" {
		t.Errorf("unexpected message %q", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("mongo: connection refused")
	wrapped := Wrap(cause, CodeInternal, "Failed to create reservation", http.StatusInternalServerError)

	if wrapped.Err != cause {
		t.Errorf("expected wrapped error to keep the cause")
	}
	if unwrapped := errors.Unwrap(wrapped); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want original cause", unwrapped)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "Reservation not found",
			},
			expected: "NOT_FOUND: Reservation not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "Failed to list tables",
				Err:     errors.New("mongo: connection refused"),
			},
			expected: "INTERNAL_ERROR: Failed to list tables (caused by: mongo: connection refused)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"NotFound", NotFound("Reservation"), CodeNotFound, http.StatusNotFound},
		{"Validation", Validation("validation failed", map[string]any{"field": "guest_count"}), CodeValidation, http.StatusUnprocessableEntity},
		{"InvalidInput", InvalidInput("Date must be in YYYY-MM-DD format"), CodeInvalidInput, http.StatusBadRequest},
		{"Unauthorized", Unauthorized("authentication required"), CodeUnauthorized, http.StatusUnauthorized},
		{"Forbidden", Forbidden("access denied"), CodeForbidden, http.StatusForbidden},
		{"Conflict", Conflict("Table is already reserved"), CodeConflict, http.StatusConflict},
		{"Internal", Internal("Failed to create reservation", errors.New("boom")), CodeInternal, http.StatusInternalServerError},
		{"Timeout", Timeout("request timed out"), CodeTimeout, http.StatusGatewayTimeout},
		{"Unavailable", Unavailable("Kafka"), CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.wantCode)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("status = %d, want %d", tt.err.StatusCode(), tt.wantStatus)
			}
		})
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Reservation", "64f1000000000000000000aa")

	if err.Code != CodeNotFound {
		t.Errorf("expected code %s, got %s", CodeNotFound, err.Code)
	}
	if err.Details["id"] != "64f1000000000000000000aa" {
		t.Errorf("unexpected id detail %v", err.Details["id"])
	}
	if err.Details["resource"] != "Reservation" {
		t.Errorf("unexpected resource detail %v", err.Details["resource"])
	}
}

func TestWithDetails(t *testing.T) {
	err := Validation("validation failed", nil).WithDetails(map[string]any{
		"field": "customer_phone",
		"error": "must be in E.164 format",
	})

	if err.Details["field"] != "customer_phone" {
		t.Errorf("unexpected field detail %v", err.Details["field"])
	}
	if err.Details["error"] != "must be in E.164 format" {
		t.Errorf("unexpected error detail %v", err.Details["error"])
	}
}

func TestIsAppError(t *testing.T) {
	if !IsAppError(NotFound("Table")) {
		t.Errorf("IsAppError() should be true for AppError")
	}
	if IsAppError(errors.New("plain error")) {
		t.Errorf("IsAppError() should be false for plain error")
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("Table")
	if got := AsAppError(appErr); got != appErr {
		t.Errorf("AsAppError() should return the same AppError")
	}

	plain := errors.New("plain error")
	got := AsAppError(plain)
	if got.Code != CodeInternal {
		t.Errorf("AsAppError() should wrap plain errors as internal, got %s", got.Code)
	}
	if got.Err != plain {
		t.Errorf("AsAppError() should keep the original error")
	}
}

func TestToJSON(t *testing.T) {
	jsonStr := string(NotFoundWithID("Reservation", "64f1000000000000000000aa").ToJSON())

	if !strings.Contains(jsonStr, "NOT_FOUND") {
		t.Errorf("ToJSON() should contain the error code, got %s", jsonStr)
	}
	if !strings.Contains(jsonStr, "not found") {
		t.Errorf("ToJSON() should contain the message, got %s", jsonStr)
	}
}
