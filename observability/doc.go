// Package observability wires OpenTelemetry tracing and metrics export.
//
// Telemetry is opt-in. When disabled, the global no-op providers stay in
// place and the API client's spans and instruments cost nothing.
//
//	shutdown, err := observability.Setup(ctx, cfg.Telemetry)
//	defer shutdown(context.Background())
//
//	ctx, span := observability.StartSpan(ctx, "portfolio.summary")
//	defer func() { observability.EndSpan(span, err) }()
package observability
