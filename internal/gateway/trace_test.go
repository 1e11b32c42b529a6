// ABOUTME: End-to-end test of trace propagation from an HTTP request to the backend
// ABOUTME: The incoming sentry-trace header must reach the backend as traceid/spanid metadata

package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/board-gateway/internal/board"
)

type traceCapture struct {
	*board.MemoryServer
	seen chan *sentry.Span
}

func (c traceCapture) GetSubject(ctx context.Context, id int64) (board.Subject, error) {
	c.seen <- sentry.TransactionFromContext(ctx)
	return c.MemoryServer.GetSubject(ctx, id)
}

func TestTracePropagatesToBackend(t *testing.T) {
	const traceID = "0123456789abcdef0123456789abcdef"

	capture := traceCapture{MemoryServer: seededBackend(), seen: make(chan *sentry.Span, 1)}
	gw := newTestGateway(t, capture)

	req := httptest.NewRequest(http.MethodGet, query("getSubject", `{"id":1}`), nil)
	req.Header.Set(sentry.SentryTraceHeader, traceID+"-0123456789abcdef-1")
	rec := httptest.NewRecorder()
	gw.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	select {
	case tx := <-capture.seen:
		require.NotNil(t, tx)
		assert.Equal(t, traceID, tx.TraceID.String())
		assert.NotEqual(t, "0123456789abcdef", tx.ParentSpanID.String(), "backend must be parented to the client span")
	case <-time.After(5 * time.Second):
		t.Fatal("backend was not called")
	}
}
