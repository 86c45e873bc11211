package httpclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	apperrors "github.com/unitrack/unitrack/errors"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindTransport, "transport"},
		{KindServer, "server"},
		{KindDecoding, "decoding"},
		{KindEncoding, "encoding"},
		{Kind(0), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestNewServerError(t *testing.T) {
	err := NewServerError(401, []byte(`{"error":"Invalid credentials"}`))
	if err.Kind != KindServer || err.StatusCode != 401 || err.Message != "Invalid credentials" {
		t.Errorf("unexpected error %+v", err)
	}
	if !strings.Contains(err.Error(), "HTTP 401") {
		t.Errorf("expected status in %q", err.Error())
	}
	if string(err.Body) != `{"error":"Invalid credentials"}` {
		t.Errorf("expected raw body kept, got %s", err.Body)
	}
}

func TestClassification_ThroughWrapping(t *testing.T) {
	base := NewServerError(404, []byte(`{"message":"Not found"}`))
	wrapped := fmt.Errorf("load portfolio: %w", base)

	if !IsServer(wrapped) || !IsNotFound(wrapped) {
		t.Error("expected wrapped server 404 to classify")
	}
	if IsTransport(wrapped) || IsDecoding(wrapped) || IsUnauthorized(wrapped) {
		t.Error("expected no other classification")
	}
	if StatusCode(wrapped) != 404 {
		t.Errorf("expected 404, got %d", StatusCode(wrapped))
	}
	if Message(wrapped) != "Not found" {
		t.Errorf("expected 'Not found', got %q", Message(wrapped))
	}
}

func TestHelpers_ForeignErrors(t *testing.T) {
	err := errors.New("plain")
	if IsServer(err) || IsTransport(err) || IsDecoding(err) || IsEncoding(err) {
		t.Error("expected plain error unclassified")
	}
	if StatusCode(err) != 0 {
		t.Errorf("expected 0, got %d", StatusCode(err))
	}
	if Message(err) != "plain" {
		t.Errorf("expected 'plain', got %q", Message(err))
	}
	if Message(nil) != "" {
		t.Errorf("expected empty message for nil")
	}
}

func TestTransportError_Unwraps(t *testing.T) {
	err := NewTransportError(fmt.Errorf("dial: %w", context.DeadlineExceeded))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected cause reachable through Unwrap")
	}
	if err.StatusCode != 0 {
		t.Errorf("expected no status, got %d", err.StatusCode)
	}
}

func TestDecodingError_Unwraps(t *testing.T) {
	err := NewDecodingError(200, nil, ErrEmptyBody)
	if !errors.Is(err, ErrEmptyBody) {
		t.Error("expected ErrEmptyBody in chain")
	}
	if !strings.HasPrefix(err.Message, "decode response:") {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server", NewServerError(409, []byte(`{"error":"Email already registered"}`)), "Email already registered"},
		{"transport", NewTransportError(errors.New("connection refused")), "Unable to reach Unitrack. Check your connection and try again."},
		{"decoding", NewDecodingError(200, []byte("x"), errors.New("bad")), "Received an unexpected response from Unitrack."},
		{"encoding", NewEncodingError(errors.New("bad")), "Received an unexpected response from Unitrack."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := apperrors.UserMessage(fmt.Errorf("ctx: %w", tt.err)); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
