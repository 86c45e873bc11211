package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/unitrack/unitrack/logger"
	"github.com/unitrack/unitrack/observability"
	"github.com/unitrack/unitrack/security/tlstest"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, url string, tokens TokenSource, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithLogger(logger.Nop())}, opts...)
	c, err := New(Config{BaseURL: url, Timeout: 5 * time.Second}, tokens, opts...)
	if err != nil {
		t.Fatalf("unexpected error creating client: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestNew_Defaults(t *testing.T) {
	c, err := New(Config{}, nil, WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg := c.Config()
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("expected base URL %s, got %s", DefaultBaseURL, cfg.BaseURL)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.Timeout)
	}
	if !strings.HasPrefix(cfg.UserAgent, "unitrack-go/") {
		t.Errorf("expected unitrack-go user agent, got %q", cfg.UserAgent)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(Config{BaseURL: "ftp://example.com"}, nil); err == nil {
		t.Error("expected error for non-http base URL")
	}
}

func TestClient_Headers(t *testing.T) {
	var got http.Header
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c, err := New(Config{
		BaseURL: server.URL + "/v1/",
		Headers: map[string]string{"X-Client": "cli", "Authorization": "Basic nope"},
	}, staticToken("abc"), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.Do(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "/market/search",
		Query:  map[string]string{"q": "apple inc"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/v1/market/search" {
		t.Errorf("expected path /v1/market/search, got %s", gotPath)
	}
	if gotQuery != "q=apple+inc" {
		t.Errorf("expected query q=apple+inc, got %s", gotQuery)
	}
	checks := map[string]string{
		"Content-Type":  "application/json",
		"Accept":        "application/json",
		"Authorization": "Bearer abc",
		"X-Client":      "cli",
	}
	for k, want := range checks {
		if got.Get(k) != want {
			t.Errorf("expected %s %q, got %q", k, want, got.Get(k))
		}
	}
	if got.Get("X-Request-ID") == "" {
		t.Error("expected a request ID")
	}
	if !strings.HasPrefix(got.Get("User-Agent"), "unitrack-go/") {
		t.Errorf("expected unitrack-go user agent, got %q", got.Get("User-Agent"))
	}
}

func TestClient_Authorization(t *testing.T) {
	tests := []struct {
		name     string
		tokens   TokenSource
		skipAuth bool
		want     string
	}{
		{"token stored", staticToken("T1"), false, "Bearer T1"},
		{"empty token", staticToken(""), false, ""},
		{"no token source", nil, false, ""},
		{"skip auth", staticToken("T1"), true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				got = r.Header.Get("Authorization")
				w.WriteHeader(http.StatusNoContent)
			}))
			defer server.Close()

			c := newTestClient(t, server.URL, tt.tokens)
			_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/user/me", SkipAuth: tt.skipAuth})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if atomic.LoadInt32(&calls) != 1 {
				t.Errorf("expected the request to be sent once, got %d", calls)
			}
			if got != tt.want {
				t.Errorf("expected Authorization %q, got %q", tt.want, got)
			}
		})
	}
}

func TestClient_EncodesBody(t *testing.T) {
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, nil)
	payload := struct {
		PublicToken string   `json:"publicToken"`
		AccountIDs  []string `json:"accountIds"`
	}{"pub", []string{"a1"}}
	if _, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/plaid/exchange", Body: payload}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"account_ids":["a1"],"public_token":"pub"}`
	if body != want {
		t.Errorf("expected body %s, got %s", want, body)
	}
}

func TestClient_NilBodySendsNothing(t *testing.T) {
	type logoutBody struct {
		RefreshToken string `json:"refreshToken"`
	}
	tests := []struct {
		name string
		body any
	}{
		{"untyped nil", nil},
		{"nil pointer", (*logoutBody)(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				b, _ := io.ReadAll(r.Body)
				body = string(b)
				w.WriteHeader(http.StatusNoContent)
			}))
			defer server.Close()

			c := newTestClient(t, server.URL, nil)
			if err := PostVoid(context.Background(), c, "/auth/logout", tt.body); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if body != "" {
				t.Errorf("expected empty body, got %q", body)
			}
		})
	}
}

func TestClient_EncodingErrorSendsNothing(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, nil)
	_, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/x", Body: map[string]any{"f": func() {}}})
	if !IsEncoding(err) {
		t.Fatalf("expected encoding error, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Errorf("expected no request, got %d", calls)
	}
}

func TestClient_ServerErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"error field", http.StatusUnauthorized, `{"error":"Invalid credentials"}`, "Invalid credentials"},
		{"message field", http.StatusNotFound, `{"message":"Not found"}`, "Not found"},
		{"error wins over message", http.StatusBadRequest, `{"error":"first","message":"second"}`, "first"},
		{"null error falls back to message", http.StatusConflict, `{"error":null,"message":"Email taken"}`, "Email taken"},
		{"blank error falls back to message", http.StatusConflict, `{"error":"  ","message":"Email taken"}`, "Email taken"},
		{"empty error without message", http.StatusBadRequest, `{"error":""}`, "Server returned status code 400"},
		{"empty error and message", http.StatusBadRequest, `{"error":"","message":""}`, "Server returned status code 400"},
		{"no envelope fields", http.StatusInternalServerError, `{"detail":"x"}`, "Server returned status code 500"},
		{"not json", http.StatusBadGateway, `<html>bad gateway</html>`, "Server returned status code 502"},
		{"empty body", http.StatusServiceUnavailable, ``, "Server returned status code 503"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := newTestClient(t, server.URL, nil)
			resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"})
			if !IsServer(err) {
				t.Fatalf("expected server error, got %v", err)
			}
			if resp == nil || resp.StatusCode != tt.status {
				t.Errorf("expected response with status %d, got %+v", tt.status, resp)
			}
			if StatusCode(err) != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, StatusCode(err))
			}
			if Message(err) != tt.wantMsg {
				t.Errorf("expected message %q, got %q", tt.wantMsg, Message(err))
			}
		})
	}
}

func TestClient_SingleAttempt(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, nil)
	_, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/portfolio", Body: map[string]string{"name": "x"}})
	if !IsServer(err) {
		t.Fatalf("expected server error, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("expected exactly 1 attempt, got %d", n)
	}
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := newTestClient(t, url, nil)
	resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"})
	if !IsTransport(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if resp != nil {
		t.Errorf("expected no response, got %+v", resp)
	}
	if StatusCode(err) != 0 {
		t.Errorf("expected status 0, got %d", StatusCode(err))
	}
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	c, err := New(Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond}, nil, WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/slow"})
	if !IsTransport(err) {
		t.Errorf("expected transport error on timeout, got %v", err)
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/x"})
	if !IsTransport(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got %v", err)
	}
}

func TestClient_MaxConcurrent(t *testing.T) {
	var inFlight, peak int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c, err := New(Config{BaseURL: server.URL, MaxConcurrent: 2}, nil, WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"}); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if p := atomic.LoadInt32(&peak); p > 2 {
		t.Errorf("expected at most 2 concurrent requests, got %d", p)
	}
}

func TestClient_Telemetry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not found"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	c := newTestClient(t, server.URL, nil, WithTracerProvider(tp), WithMeterProvider(mp))
	ctx := context.Background()
	_, _ = c.Do(ctx, Request{Method: http.MethodGet, Path: "/ok"})
	_, _ = c.Do(ctx, Request{Method: http.MethodGet, Path: "/fail"})

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Name() != "GET /ok" {
		t.Errorf("expected span name 'GET /ok', got %q", spans[0].Name())
	}
	if spans[0].Status().Code == codes.Error {
		t.Error("expected successful span without error status")
	}
	if spans[1].Status().Code != codes.Error || spans[1].Status().Description != "Not found" {
		t.Errorf("expected error status 'Not found', got %+v", spans[1].Status())
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	outcomes := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if md.Name != observability.MetricClientRequests {
				continue
			}
			sum := md.Data.(metricdata.Sum[int64])
			for _, dp := range sum.DataPoints {
				v, _ := dp.Attributes.Value("outcome")
				outcomes[v.AsString()] += dp.Value
			}
		}
	}
	if outcomes["ok"] != 1 || outcomes["server"] != 1 {
		t.Errorf("expected one ok and one server outcome, got %v", outcomes)
	}
}

func TestClient_PrivateCA(t *testing.T) {
	bundle := tlstest.NewBundle(t)
	server := bundle.NewServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	untrusted := newTestClient(t, server.URL, nil)
	if _, err := untrusted.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"}); !IsTransport(err) {
		t.Errorf("expected transport error without the CA, got %v", err)
	}

	c, err := New(Config{BaseURL: server.URL, TLS: &TLSConfig{CAFile: bundle.CAFile}}, nil, WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()
	if _, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"}); err != nil {
		t.Errorf("expected success with the CA trusted, got %v", err)
	}
}
