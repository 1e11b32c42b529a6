// ABOUTME: Server interceptor continuing the caller's trace from traceid/spanid metadata
// ABOUTME: Used by the fake backend so gateway and backend spans share one trace

package tracing

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// UnaryServerInterceptor starts a server transaction per call, parented to the
// span named in the incoming metadata when present.
func UnaryServerInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		hub := sentry.GetHubFromContext(ctx)
		if hub == nil {
			hub = sentry.CurrentHub().Clone()
			ctx = sentry.SetHubOnContext(ctx, hub)
		}

		opts := []sentry.SpanOption{
			sentry.WithOpName(OpServer),
			sentry.WithDescription(info.FullMethod),
			sentry.WithTransactionSource(sentry.SourceRoute),
		}
		if trace, ok := incomingTrace(ctx); ok {
			opts = append(opts, sentry.ContinueFromTrace(trace))
		}

		tx := sentry.StartTransaction(ctx, info.FullMethod, opts...)
		defer tx.Finish()

		resp, err := handler(tx.Context(), req)
		tx.Status = SpanStatus(err)
		if err != nil {
			logger.Debug("call failed", "method", info.FullMethod, "code", Code(err).String(), "error", err)
		}
		return resp, err
	}
}

// incomingTrace builds a sentry-trace value from the propagated identifiers.
func incomingTrace(ctx context.Context) (string, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", false
	}
	traceID := md.Get(MetadataTraceID)
	spanID := md.Get(MetadataSpanID)
	if len(traceID) == 0 || len(spanID) == 0 {
		return "", false
	}
	return traceID[0] + "-" + spanID[0], true
}
