// ABOUTME: Client span handle wrapping a Sentry child span
// ABOUTME: Guarantees the span is finished exactly once and records its terminal status

package tracing

import (
	"sync"

	"github.com/getsentry/sentry-go"
)

// Status is the terminal state of a span.
type Status int

const (
	StatusUnset Status = iota
	StatusOK
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusError:
		return "error"
	default:
		return "unset"
	}
}

// Span is one client span opened for a single remote call. It is never reused.
type Span struct {
	inner *sentry.Span

	mu     sync.Mutex
	once   sync.Once
	status Status
	closed bool
}

func newSpan(inner *sentry.Span) *Span {
	return &Span{inner: inner}
}

// TraceID returns the hex encoded trace identifier.
func (s *Span) TraceID() string {
	return s.inner.TraceID.String()
}

// SpanID returns the hex encoded span identifier.
func (s *Span) SpanID() string {
	return s.inner.SpanID.String()
}

// Status returns the recorded status; StatusUnset until the span is closed.
func (s *Span) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Closed reports whether finish has run.
func (s *Span) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Sentry returns the underlying Sentry span.
func (s *Span) Sentry() *sentry.Span {
	return s.inner
}

// finish closes the span with st. Later calls are ignored and report false.
func (s *Span) finish(st Status, sentryStatus sentry.SpanStatus) bool {
	done := false
	s.once.Do(func() {
		s.mu.Lock()
		s.status = st
		s.closed = true
		s.mu.Unlock()

		s.inner.Status = sentryStatus
		s.inner.Finish()
		done = true
	})
	return done
}
