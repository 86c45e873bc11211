package services

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/unitrack/unitrack/credentials"
	apperrors "github.com/unitrack/unitrack/errors"
	"github.com/unitrack/unitrack/httpclient"
	"github.com/unitrack/unitrack/logger"
	"github.com/unitrack/unitrack/testutil"
)

func TestDescribe(t *testing.T) {
	server := httpclient.NewServerError(404, []byte(`{"message":"Not found"}`))
	expired := apperrors.TokenExpired(server)
	cancelled := httpclient.NewTransportError(fmt.Errorf("get: %w", context.Canceled))

	tests := []struct {
		name string
		err  error
		code apperrors.ErrorCode
	}{
		{"transport", httpclient.NewTransportError(errors.New("connection refused")), apperrors.ErrCodeConnectionFailed},
		{"deadline", httpclient.NewTransportError(fmt.Errorf("get: %w", context.DeadlineExceeded)), apperrors.ErrCodeTimeout},
		{"decoding", httpclient.NewDecodingError(200, []byte("OK"), errors.New("bad")), apperrors.ErrCodeUnexpectedResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Describe(fmt.Errorf("load: %w", tt.err))
			if !apperrors.HasCode(got, tt.code) {
				t.Fatalf("expected %s, got %v", tt.code, got)
			}
			if !errors.Is(got, tt.err) {
				t.Error("expected the client error kept as cause")
			}
		})
	}

	for _, err := range []error{nil, server, expired, cancelled} {
		if got := Describe(err); got != err {
			t.Errorf("expected %v unchanged, got %v", err, got)
		}
	}
}

func TestDescribe_LiveFailures(t *testing.T) {
	b := testutil.NewBackend(t)
	ctx := context.Background()

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(nil)
		url := srv.URL
		srv.Close()
		client, err := httpclient.New(httpclient.Config{BaseURL: url, Timeout: time.Second}, credentials.NewMemoryStore(),
			httpclient.WithLogger(logger.Nop()))
		if err != nil {
			t.Fatal(err)
		}
		defer client.Close()

		_, err = NewMarketService(client).Asset(ctx, "AAPL")
		got := Describe(err)
		if !apperrors.HasCode(got, apperrors.ErrCodeConnectionFailed) || !httpclient.IsTransport(got) {
			t.Errorf("expected CONNECTION_FAILED over a transport error, got %v", got)
		}
	})

	t.Run("slow", func(t *testing.T) {
		b.Stub("GET", "/market/assets/AAPL", testutil.Stub{Delay: 2 * time.Second})
		client, err := httpclient.New(httpclient.Config{BaseURL: b.URL(), Timeout: 50 * time.Millisecond}, credentials.NewMemoryStore(),
			httpclient.WithLogger(logger.Nop()))
		if err != nil {
			t.Fatal(err)
		}
		defer client.Close()

		_, err = NewMarketService(client).Asset(ctx, "AAPL")
		if got := Describe(err); !apperrors.HasCode(got, apperrors.ErrCodeTimeout) {
			t.Errorf("expected TIMEOUT, got %v", got)
		}
	})

	t.Run("garbled", func(t *testing.T) {
		svc, _ := signedIn(t, b, testutil.SeedEmail)
		b.Stub("GET", "/portfolio", testutil.Stub{Status: 200, Body: `OK`})

		_, err := svc.Portfolio.List(ctx)
		got := Describe(err)
		if !apperrors.HasCode(got, apperrors.ErrCodeUnexpectedResponse) || !httpclient.IsDecoding(got) {
			t.Errorf("expected UNEXPECTED_RESPONSE over a decoding error, got %v", got)
		}
	})
}
