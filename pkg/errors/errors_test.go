package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	appErr := New(CodeValidation, "bad input", http.StatusBadRequest)
	if appErr.Error() != "VALIDATION_ERROR: bad input" {
		t.Errorf("unexpected error string: %q", appErr.Error())
	}

	wrapped := Wrap(errors.New("disk full"), CodeInternal, "save failed", http.StatusInternalServerError)
	if wrapped.Error() != "INTERNAL_ERROR: save failed (caused by: disk full)" {
		t.Errorf("unexpected wrapped error string: %q", wrapped.Error())
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	appErr := Internal("store unavailable", cause)

	if !errors.Is(appErr, cause) {
		t.Error("expected errors.Is to find the cause through Unwrap")
	}
}

func TestConstructors(t *testing.T) {
	cases := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"not found", NotFound("Booking"), CodeNotFound, http.StatusNotFound},
		{"not found with id", NotFoundWithID("Booking", "abc"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("start time must be in the future", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad id"), CodeInvalidInput, http.StatusBadRequest},
		{"conflict", Conflict("resource busy"), CodeConflict, http.StatusConflict},
		{"internal", Internal("boom", errors.New("cause")), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("lock wait"), CodeTimeout, http.StatusGatewayTimeout},
		{"unavailable", Unavailable("kafka"), CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.HTTPStatus != tc.httpStatus {
				t.Errorf("expected status %d, got %d", tc.httpStatus, tc.err.HTTPStatus)
			}
		})
	}
}

func TestNotFoundWithID_Details(t *testing.T) {
	appErr := NotFoundWithID("Resource", "65f000000000000000000001")
	if appErr.Details["id"] != "65f000000000000000000001" {
		t.Errorf("expected id in details, got %v", appErr.Details)
	}
}

func TestIsAppError(t *testing.T) {
	if !IsAppError(Validation("nope", nil)) {
		t.Error("expected IsAppError true for AppError")
	}
	if IsAppError(errors.New("plain")) {
		t.Error("expected IsAppError false for plain error")
	}

	conflict := Conflict("busy")
	if got := AsAppError(conflict); got != conflict {
		t.Errorf("expected AsAppError to pass AppErrors through, got %v", got)
	}

	// Plain errors are converted, never dropped.
	plain := errors.New("plain")
	got := AsAppError(plain)
	if got.Code != CodeInternal {
		t.Errorf("expected plain error converted to internal, got %v", got)
	}
	if !errors.Is(got, plain) {
		t.Error("expected converted error to keep its cause")
	}
}

func TestToJSON(t *testing.T) {
	appErr := Validation("invalid booking request", map[string]any{"field": "start_time"})

	var decoded struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	}
	if err := json.Unmarshal(appErr.ToJSON(), &decoded); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if decoded.Code != CodeValidation || decoded.Message != "invalid booking request" {
		t.Errorf("unexpected payload: %+v", decoded)
	}
	if decoded.Details["field"] != "start_time" {
		t.Errorf("expected details preserved, got %v", decoded.Details)
	}
}
