// ABOUTME: Sentry SDK initialization for the gateway and the fake backend
// ABOUTME: An empty DSN leaves the SDK unconfigured and returns a no-op flush

package tracing

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/2389/board-gateway/internal/config"
)

// flushTimeout bounds how long shutdown waits for buffered events.
const flushTimeout = 2 * time.Second

// Init configures the global Sentry client from cfg and returns a flush func to
// call on shutdown.
func Init(cfg config.SentryConfig) (func(), error) {
	if cfg.DSN == "" {
		return func() {}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		Debug:            cfg.Debug,
		EnableTracing:    cfg.TracesSampleRate > 0,
		TracesSampleRate: cfg.TracesSampleRate,
		AttachStacktrace: true,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing sentry: %w", err)
	}

	return func() {
		sentry.Flush(flushTimeout)
	}, nil
}
