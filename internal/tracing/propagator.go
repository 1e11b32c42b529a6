// ABOUTME: Trace propagator opening client spans and writing trace metadata for remote calls
// ABOUTME: Tracing failures are recovered and logged so they never fail the call itself

package tracing

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"google.golang.org/grpc/metadata"
)

// Metadata keys carrying the trace context on outgoing calls.
const (
	MetadataTraceID = "traceid"
	MetadataSpanID  = "spanid"
)

// Span operation names.
const (
	OpClient = "grpc.client"
	OpServer = "grpc.server"
)

// Propagator opens one client span per remote call when an ambient span exists.
type Propagator struct {
	sink   ErrorSink
	logger *slog.Logger
}

// NewPropagator creates a Propagator reporting errors to sink. A nil sink discards errors.
func NewPropagator(sink ErrorSink, logger *slog.Logger) *Propagator {
	if sink == nil {
		sink = NopSink{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Propagator{
		sink:   sink,
		logger: logger,
	}
}

// Begin starts a child span named after method under the ambient span in ctx.
// It returns nil when ctx carries no span.
func (p *Propagator) Begin(ctx context.Context, method string) (span *Span) {
	defer p.recover("begin", method)

	parent := sentry.SpanFromContext(ctx)
	if parent == nil {
		return nil
	}
	// StartSpan keeps ctx (and its deadline) as the child's context.
	child := sentry.StartSpan(ctx, OpClient, sentry.WithDescription(method))
	return newSpan(child)
}

// Attach writes the span identifiers into md and returns it. A nil span leaves md untouched.
func (p *Propagator) Attach(span *Span, md metadata.MD) metadata.MD {
	if span == nil {
		return md
	}
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(MetadataTraceID, span.TraceID())
	md.Set(MetadataSpanID, span.SpanID())
	return md
}

// End closes span with a status derived from err and reports err to the sink.
// The sink is notified even when span is nil.
func (p *Propagator) End(ctx context.Context, method string, span *Span, err error) {
	if err != nil {
		p.capture(ctx, method, err)
	}
	if span == nil {
		return
	}

	defer p.recover("end", method)

	st := StatusOK
	if err != nil {
		st = StatusError
	}
	if !span.finish(st, SpanStatus(err)) {
		p.logger.Debug("span already closed", "method", method)
	}
}

// Wrap runs fn inside a client span for method. fn receives the span context and
// the metadata to attach to its outgoing call.
func (p *Propagator) Wrap(ctx context.Context, method string, fn func(ctx context.Context, md metadata.MD) error) error {
	span := p.Begin(ctx, method)
	md := p.Attach(span, nil)

	callCtx := ctx
	if span != nil {
		callCtx = span.Sentry().Context()
	}

	var err error
	defer func() {
		p.End(ctx, method, span, err)
	}()
	err = fn(callCtx, md)
	return err
}

func (p *Propagator) capture(ctx context.Context, method string, err error) {
	defer p.recover("capture", method)
	p.sink.Capture(ctx, err)
}

func (p *Propagator) recover(stage, method string) {
	if r := recover(); r != nil {
		p.logger.Debug("tracing failure suppressed", "stage", stage, "method", method, "panic", r)
	}
}
