package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeSubscriptionRequired, "pro only", http.StatusForbidden)
	if err.Code != ErrCodeSubscriptionRequired {
		t.Errorf("expected code %s, got %s", ErrCodeSubscriptionRequired, err.Code)
	}
	if err.Message != "pro only" {
		t.Errorf("expected message 'pro only', got %q", err.Message)
	}
	if err.HTTPStatus != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, err.HTTPStatus)
	}
	if err.Retryable {
		t.Error("SUBSCRIPTION_REQUIRED should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeTimeout, "timed out", 0)
	if !err.Retryable {
		t.Error("TIMEOUT should be retryable")
	}
}

func TestAppError_CauseKept(t *testing.T) {
	cause := fmt.Errorf("dial tcp: %w", context.DeadlineExceeded)
	for _, err := range []*AppError{ConnectionFailed(cause), Timeout(cause), UnexpectedResponse(cause)} {
		if !stderrors.Is(err, context.DeadlineExceeded) {
			t.Errorf("%s: expected cause reachable", err.Code)
		}
	}
}

func TestAppError_Error_IncludesCause(t *testing.T) {
	cause := fmt.Errorf("server said no")
	err := InvalidCredentials(cause)
	if !strings.Contains(err.Error(), "INVALID_CREDENTIALS") {
		t.Errorf("expected code in message, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "server said no") {
		t.Errorf("expected cause in message, got %q", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
}

func TestAppError_Builders(t *testing.T) {
	err := Validation("bad").WithStatus(422).WithDetail("field", "email")
	if err.HTTPStatus != 422 {
		t.Errorf("expected 422, got %d", err.HTTPStatus)
	}
	if err.Details["field"] != "email" {
		t.Errorf("expected field=email, got %v", err.Details["field"])
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name      string
		err       *AppError
		code      ErrorCode
		retryable bool
	}{
		{"connection", ConnectionFailed(nil), ErrCodeConnectionFailed, true},
		{"timeout", Timeout(nil), ErrCodeTimeout, true},
		{"validation", Validation("email must be an email"), ErrCodeInvalidInput, false},
		{"invalid format", InvalidFormat("date", "2006-01-02"), ErrCodeInvalidFormat, false},
		{"unauthorized", Unauthorized(""), ErrCodeUnauthorized, false},
		{"expired", TokenExpired(nil), ErrCodeTokenExpired, false},
		{"subscription", SubscriptionRequired("Chat", nil), ErrCodeSubscriptionRequired, false},
		{"unexpected", UnexpectedResponse(nil), ErrCodeUnexpectedResponse, false},
		{"storage", Storage(nil), ErrCodeStorage, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, tt.err.Code)
			}
			if tt.err.Retryable != tt.retryable {
				t.Errorf("expected retryable=%v, got %v", tt.retryable, tt.err.Retryable)
			}
			if tt.err.Message == "" {
				t.Error("expected a message")
			}
		})
	}
}

func TestAsAppError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("loading: %w", TokenExpired(nil))
	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AppError through wrapping")
	}
	if appErr.Code != ErrCodeTokenExpired {
		t.Errorf("expected TOKEN_EXPIRED, got %s", appErr.Code)
	}
	if !IsAppError(wrapped) {
		t.Error("expected IsAppError=true")
	}
	if !HasCode(wrapped, ErrCodeTokenExpired) {
		t.Error("expected HasCode TOKEN_EXPIRED")
	}
	if HasCode(stderrors.New("plain"), ErrCodeTokenExpired) {
		t.Error("expected HasCode=false for a plain error")
	}
}

type describedError struct{ msg string }

func (e describedError) Error() string       { return "described: " + e.msg }
func (e describedError) UserMessage() string { return e.msg }

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"app error", InvalidCredentials(describedError{"Invalid credentials"}), "Invalid email or password."},
		{"describer", fmt.Errorf("wrap: %w", describedError{"Not found"}), "Not found"},
		{"cancelled", fmt.Errorf("op: %w", context.Canceled), "The request was cancelled."},
		{"deadline", context.DeadlineExceeded, "The request took too long. Please try again."},
		{"plain", stderrors.New("disk full"), "disk full"},
		{"empty describer", describedError{""}, "described: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
