// ABOUTME: Maps remote call errors to gRPC codes and Sentry span statuses
// ABOUTME: Context errors are normalised to DeadlineExceeded and Canceled

package tracing

import (
	"github.com/getsentry/sentry-go"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Code returns the gRPC code carried by err. Bare context errors map to their
// gRPC equivalents; anything else without a status is Unknown.
func Code(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	if s, ok := status.FromError(err); ok {
		return s.Code()
	}
	return status.FromContextError(err).Code()
}

var spanStatuses = map[codes.Code]sentry.SpanStatus{
	codes.OK:                 sentry.SpanStatusOK,
	codes.Canceled:           sentry.SpanStatusCanceled,
	codes.Unknown:            sentry.SpanStatusUnknown,
	codes.InvalidArgument:    sentry.SpanStatusInvalidArgument,
	codes.DeadlineExceeded:   sentry.SpanStatusDeadlineExceeded,
	codes.NotFound:           sentry.SpanStatusNotFound,
	codes.AlreadyExists:      sentry.SpanStatusAlreadyExists,
	codes.PermissionDenied:   sentry.SpanStatusPermissionDenied,
	codes.ResourceExhausted:  sentry.SpanStatusResourceExhausted,
	codes.FailedPrecondition: sentry.SpanStatusFailedPrecondition,
	codes.Aborted:            sentry.SpanStatusAborted,
	codes.OutOfRange:         sentry.SpanStatusOutOfRange,
	codes.Unimplemented:      sentry.SpanStatusUnimplemented,
	codes.Internal:           sentry.SpanStatusInternalError,
	codes.Unavailable:        sentry.SpanStatusUnavailable,
	codes.DataLoss:           sentry.SpanStatusDataLoss,
	codes.Unauthenticated:    sentry.SpanStatusUnauthenticated,
}

// SpanStatus returns the Sentry status for the outcome err.
func SpanStatus(err error) sentry.SpanStatus {
	if s, ok := spanStatuses[Code(err)]; ok {
		return s
	}
	return sentry.SpanStatusUnknown
}
