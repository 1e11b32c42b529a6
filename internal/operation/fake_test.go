// ABOUTME: Substitute backend client for operation tests
// ABOUTME: Records every call and answers through a scripted reply function

package operation

import (
	"context"
	"errors"
	"sync"

	"github.com/getsentry/sentry-go"
	"google.golang.org/grpc/metadata"

	"github.com/2389/board-gateway/internal/board"
)

type recordedCall struct {
	Method string
	Arg    any
	MD     metadata.MD
	Span   *sentry.Span
}

// fakeClient implements board.Client. A nil reply leaves every callback pending.
type fakeClient struct {
	mu    sync.Mutex
	calls []recordedCall

	reply      func(method string, arg any) (any, error)
	gate       chan struct{}
	doubleFire bool
}

func (f *fakeClient) record(ctx context.Context, method string, arg any, md metadata.MD) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, recordedCall{
		Method: method,
		Arg:    arg,
		MD:     md,
		Span:   sentry.SpanFromContext(ctx),
	})
}

func (f *fakeClient) recorded() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedCall(nil), f.calls...)
}

func respond[T any](ctx context.Context, f *fakeClient, method string, arg any, md metadata.MD, cb board.Callback[T]) {
	f.record(ctx, method, arg, md)
	if f.reply == nil {
		return
	}
	go func() {
		if f.gate != nil {
			<-f.gate
		}
		v, err := f.reply(method, arg)
		var out T
		if v != nil {
			out = v.(T)
		}
		cb(out, err)
		if f.doubleFire {
			cb(out, errors.New("second callback"))
		}
	}()
}

func (f *fakeClient) ListSubjects(ctx context.Context, md metadata.MD, cb board.Callback[[]board.Subject]) {
	respond(ctx, f, board.MethodListSubjects, nil, md, cb)
}

func (f *fakeClient) GetSubject(ctx context.Context, md metadata.MD, id int64, cb board.Callback[board.Subject]) {
	respond(ctx, f, board.MethodGetSubject, id, md, cb)
}

func (f *fakeClient) ListQuestions(ctx context.Context, md metadata.MD, subjectID int64, cb board.Callback[[]board.Question]) {
	respond(ctx, f, board.MethodListQuestions, subjectID, md, cb)
}

func (f *fakeClient) CreateQuestion(ctx context.Context, md metadata.MD, q board.NewQuestion, cb board.Callback[board.Question]) {
	respond(ctx, f, board.MethodCreateQuestion, q, md, cb)
}

func (f *fakeClient) Like(ctx context.Context, md metadata.MD, id int64, cb board.Callback[struct{}]) {
	respond(ctx, f, board.MethodLike, id, md, cb)
}

var _ board.Client = (*fakeClient)(nil)

// recordingSink collects errors handed to the error-capture sink.
type recordingSink struct {
	mu   sync.Mutex
	errs []error
}

func (s *recordingSink) Capture(_ context.Context, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, err)
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.errs)
}
