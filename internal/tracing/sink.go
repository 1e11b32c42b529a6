// ABOUTME: Error-capture sinks receiving remote call failures
// ABOUTME: SentrySink reports to the hub on the context, NopSink discards

package tracing

import (
	"context"

	"github.com/getsentry/sentry-go"
)

// ErrorSink receives remote call errors. Implementations must not block.
type ErrorSink interface {
	Capture(ctx context.Context, err error)
}

// SentrySink reports errors through Sentry.
type SentrySink struct{}

func (SentrySink) Capture(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(err)
}

// NopSink drops every error.
type NopSink struct{}

func (NopSink) Capture(context.Context, error) {}
