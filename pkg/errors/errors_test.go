package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			appErr:   &AppError{Code: CodeNotFound, Message: "hotel not found"},
			expected: "NOT_FOUND: hotel not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeTransport,
				Message: "could not reach the server",
				Err:     errors.New("connection refused"),
			},
			expected: "TRANSPORT_ERROR: could not reach the server (caused by: connection refused)",
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

func TestFromResponse(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		serverMessage string
		wantCode      string
		wantMessage   string
	}{
		{"unauthorized", http.StatusUnauthorized, "Token missing", CodeUnauthorized, "Token missing"},
		{"forbidden", http.StatusForbidden, "", CodeForbidden, "Forbidden"},
		{"not found", http.StatusNotFound, "Hotel not found", CodeNotFound, "Hotel not found"},
		{"conflict", http.StatusConflict, "Hotel is already reserved", CodeConflict, "Hotel is already reserved"},
		{"unprocessable", http.StatusUnprocessableEntity, "", CodeValidation, "Unprocessable Entity"},
		{"other 4xx", http.StatusBadRequest, "bad id", CodeBadRequest, "bad id"},
		{"5xx", http.StatusBadGateway, "", CodeServer, "Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromResponse(tt.status, tt.serverMessage)
			if err.Code != tt.wantCode {
				t.Errorf("Code = %s, want %s", err.Code, tt.wantCode)
			}
			if err.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMessage)
			}
			if err.HTTPStatus != tt.status {
				t.Errorf("HTTPStatus = %d, want %d", err.HTTPStatus, tt.status)
			}
			if err.ServerMessage != tt.serverMessage {
				t.Errorf("ServerMessage = %q, want %q", err.ServerMessage, tt.serverMessage)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server message wins", FromResponse(http.StatusConflict, "Hotel is already reserved"), "Hotel is already reserved"},
		{"no server message", FromResponse(http.StatusInternalServerError, ""), "Booking failed"},
		{"transport error", Transport(errors.New("dial tcp: refused")), "Booking failed"},
		{"wrapped app error", fmt.Errorf("book: %w", FromResponse(http.StatusBadRequest, "Invalid dates")), "Invalid dates"},
		{"plain error", errors.New("boom"), "Booking failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err, "Booking failed"); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTransportUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Transport(cause)

	if !errors.Is(err, cause) {
		t.Errorf("Transport error should unwrap to its cause")
	}
	if err.HTTPStatus != 0 {
		t.Errorf("Transport error should carry no status, got %d", err.HTTPStatus)
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("cancel: %w", NotFound("Booking"))

	if !HasCode(err, CodeNotFound) {
		t.Errorf("HasCode() should find wrapped code")
	}
	if HasCode(err, CodeConflict) {
		t.Errorf("HasCode() matched the wrong code")
	}
	if HasCode(errors.New("plain"), CodeNotFound) {
		t.Errorf("HasCode() should be false for non-AppError")
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("Hotel")
	if got := AsAppError(fmt.Errorf("wrapped: %w", appErr)); got != appErr {
		t.Errorf("AsAppError() should find the wrapped AppError")
	}

	regularErr := errors.New("regular error")
	result := AsAppError(regularErr)
	if result.Code != CodeInternal {
		t.Errorf("AsAppError() should wrap regular error as internal error")
	}
	if result.Err != regularErr {
		t.Errorf("AsAppError() should wrap the original error")
	}
}

func TestAppError_ToJSON(t *testing.T) {
	body := string(NotFoundWithID("Hotel", "64b7f0c2a1b2c3d4e5f60718").ToJSON())

	if !strings.Contains(body, "NOT_FOUND") {
		t.Errorf("ToJSON() should contain error code, got %s", body)
	}
	if !strings.Contains(body, `"message":"Hotel not found"`) {
		t.Errorf("ToJSON() should contain message, got %s", body)
	}
}
