// Package tracing propagates the ambient Sentry trace across backend calls.
//
// Each remote call gets one child span (op "grpc.client", description set to
// the full method name) when the caller's context carries a span. The span's
// identifiers travel to the backend as the "traceid" and "spanid" metadata
// entries, where UnaryServerInterceptor continues the trace.
//
// A span is closed exactly once: ok on success, error with a status mapped from
// the gRPC code otherwise. Errors are also handed to an ErrorSink. Failures
// inside tracing itself are recovered and logged at debug level.
package tracing
