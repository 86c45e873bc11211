package observability

import (
	"context"
	"errors"
)

// ShutdownFunc flushes and stops the installed providers.
type ShutdownFunc func(context.Context) error

// Setup installs tracer and meter providers when cfg.Enabled is set. With
// telemetry disabled it installs nothing and returns a no-op shutdown.
func Setup(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	tp, err := InitTracer(ctx, cfg)
	if err != nil {
		return nil, err
	}
	mp, err := InitMeter(ctx, cfg)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}
