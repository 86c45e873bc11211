package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/unitrack/unitrack/logger"
	"github.com/unitrack/unitrack/observability"
	"github.com/unitrack/unitrack/resilience"
)

const instrumentationName = "github.com/unitrack/unitrack/httpclient"

// TokenSource supplies the bearer token attached to authenticated requests.
// An empty token means none is stored; the request is still sent.
type TokenSource interface {
	Token() string
}

// Client performs single-attempt JSON exchanges against the Unitrack API.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	config     Config
	tokens     TokenSource
	rl         *resilience.RateLimiter
	limiter    *resilience.ConcurrencyLimiter
	log        *logger.Logger
	tracer     trace.Tracer
	metrics    *observability.ClientMetrics
}

// Option customizes a Client.
type Option func(*clientOptions)

type clientOptions struct {
	log            *logger.Logger
	transport      http.RoundTripper
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// WithLogger sets the logger. Defaults to the "httpclient" named logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *clientOptions) { o.log = l }
}

// WithTransport replaces the HTTP transport. TLS settings from Config are
// ignored when a transport is supplied.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *clientOptions) { o.transport = rt }
}

// WithTracerProvider sets the tracer provider. Defaults to the global one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *clientOptions) { o.tracerProvider = tp }
}

// WithMeterProvider sets the meter provider. Defaults to the global one.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *clientOptions) { o.meterProvider = mp }
}

// New creates a new client. tokens may be nil, in which case no request
// carries an Authorization header.
func New(cfg Config, tokens TokenSource, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := clientOptions{
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Get("httpclient")
	}

	transport := o.transport
	if transport == nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		if cfg.TLS != nil {
			tlsCfg, err := cfg.TLS.Build()
			if err != nil {
				return nil, err
			}
			if tlsCfg != nil {
				t.TLSClientConfig = tlsCfg
			}
		}
		transport = t
	}

	metrics, err := observability.NewClientMetrics(o.meterProvider.Meter(instrumentationName))
	if err != nil {
		return nil, fmt.Errorf("httpclient: %w", err)
	}

	c := &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		config:  cfg,
		tokens:  tokens,
		log:     o.log.WithFields(logger.Fields("client", cfg.Name)),
		tracer:  o.tracerProvider.Tracer(instrumentationName),
		metrics: metrics,
	}
	if cfg.RateLimiter != nil {
		c.rl = resilience.NewRateLimiter(*cfg.RateLimiter)
	}
	if cfg.MaxConcurrent > 0 {
		c.limiter = resilience.NewConcurrencyLimiter(cfg.MaxConcurrent)
	}
	return c, nil
}

// Config returns the effective configuration, defaults applied.
func (c *Client) Config() Config {
	return c.config
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// Do performs exactly one exchange. A non-2xx status returns both the
// response and a server error. On transport and encoding errors the
// response is nil.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, NewEncodingError(err)
	}

	requestID := uuid.NewString()
	ctx = logger.ContextWithRequestID(ctx, requestID)
	ctx, span := c.tracer.Start(ctx, req.Method+" "+req.Path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.Path),
			attribute.String(observability.AttrRequestID, requestID),
		),
	)
	defer span.End()

	c.metrics.RecordRequestStart(ctx)
	start := time.Now()
	resp, err := c.exchange(ctx, req, body, requestID)
	c.observe(ctx, span, req, resp, err, time.Since(start))
	return resp, err
}

func (c *Client) exchange(ctx context.Context, req Request, body []byte, requestID string) (*Response, error) {
	if c.limiter != nil {
		release, err := c.limiter.Acquire(ctx)
		if err != nil {
			return nil, NewTransportError(err)
		}
		defer release()
	}
	if c.rl != nil {
		if err := c.rl.Wait(ctx); err != nil {
			return nil, NewTransportError(err)
		}
	}

	httpReq, err := c.buildRequest(ctx, req, body, requestID)
	if err != nil {
		return nil, NewTransportError(err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, NewTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewTransportError(fmt.Errorf("read response body: %w", err))
	}
	// The caller gave up while the body was in flight; nothing else happens.
	if err := ctx.Err(); err != nil {
		return nil, NewTransportError(err)
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       raw,
	}
	if !result.IsSuccess() {
		return result, NewServerError(resp.StatusCode, raw)
	}
	return result, nil
}

func (c *Client) buildRequest(ctx context.Context, req Request, body []byte, requestID string) (*http.Request, error) {
	target := strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(req.Path, "/")

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	for k, v := range c.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.config.UserAgent)
	httpReq.Header.Set("X-Request-ID", requestID)

	httpReq.Header.Del("Authorization")
	if !req.SkipAuth && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))
	return httpReq, nil
}

func (c *Client) observe(ctx context.Context, span trace.Span, req Request, resp *Response, err error, elapsed time.Duration) {
	status := 0
	if resp != nil {
		status = resp.StatusCode
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	outcome := "ok"
	if err != nil {
		outcome = kindOf(err).String()
		span.RecordError(err)
		span.SetStatus(codes.Error, Message(err))
	}
	c.metrics.RecordRequestEnd(ctx, c.config.Name, req.Method, outcome, elapsed)

	fields := logger.Fields(
		logger.FieldMethod, req.Method,
		logger.FieldPath, req.Path,
		logger.FieldStatus, status,
		logger.FieldKind, outcome,
		logger.FieldDuration, elapsed.Milliseconds(),
	)
	if sc := span.SpanContext(); sc.HasTraceID() {
		fields[logger.FieldTraceID] = sc.TraceID().String()
	}
	log := c.log.WithContext(ctx)
	switch {
	case IsTransport(err):
		log.WithError(err).Warn("request failed", fields)
	case err != nil:
		log.Debug("request rejected", logger.Fields(logger.FieldError, Message(err)), fields)
	default:
		log.Debug("request completed", fields)
	}
}

// encodeBody serializes a request body with snake_case keys. A nil body,
// including a typed nil pointer, sends nothing.
func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	if rv := reflect.ValueOf(body); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, nil
	}
	return Marshal(body)
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
