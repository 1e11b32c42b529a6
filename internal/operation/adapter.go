// ABOUTME: Operation adapter turning callback-style backend calls into single results
// ABOUTME: Every call is traced, bounded by a deadline and resolved exactly once

package operation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"

	"github.com/2389/board-gateway/internal/board"
	"github.com/2389/board-gateway/internal/tracing"
)

// ServiceConfig wires a Service.
type ServiceConfig struct {
	Client      board.Client
	Propagator  *tracing.Propagator
	CallTimeout time.Duration
	Metrics     *Metrics
	Logger      *slog.Logger
}

// Service exposes the typed board operations.
type Service struct {
	client     board.Client
	propagator *tracing.Propagator
	timeout    time.Duration
	metrics    *Metrics
	logger     *slog.Logger
}

// NewService creates a Service. Client and a positive CallTimeout are required.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Client == nil {
		return nil, errors.New("operation: backend client is required")
	}
	if cfg.CallTimeout <= 0 {
		return nil, errors.New("operation: call timeout must be positive")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	propagator := cfg.Propagator
	if propagator == nil {
		propagator = tracing.NewPropagator(tracing.NopSink{}, logger)
	}

	return &Service{
		client:     cfg.Client,
		propagator: propagator,
		timeout:    cfg.CallTimeout,
		metrics:    cfg.Metrics,
		logger:     logger.With("component", "operation"),
	}, nil
}

// ListSubjects returns every subject in backend order.
func (s *Service) ListSubjects(ctx context.Context) ([]board.Subject, error) {
	return call(ctx, s, NameListSubjects, board.MethodListSubjects,
		func(ctx context.Context, md metadata.MD, cb board.Callback[[]board.Subject]) {
			s.client.ListSubjects(ctx, md, cb)
		})
}

// GetSubject returns one subject. Results are never cached.
func (s *Service) GetSubject(ctx context.Context, id int64) (board.Subject, error) {
	return call(ctx, s, NameGetSubject, board.MethodGetSubject,
		func(ctx context.Context, md metadata.MD, cb board.Callback[board.Subject]) {
			s.client.GetSubject(ctx, md, id, cb)
		})
}

// ListQuestions returns the questions of a subject in backend order.
func (s *Service) ListQuestions(ctx context.Context, subjectID int64) ([]board.Question, error) {
	return call(ctx, s, NameListQuestions, board.MethodListQuestions,
		func(ctx context.Context, md metadata.MD, cb board.Callback[[]board.Question]) {
			s.client.ListQuestions(ctx, md, subjectID, cb)
		})
}

// CreateQuestion returns only after the backend has confirmed the question.
func (s *Service) CreateQuestion(ctx context.Context, q board.NewQuestion) (board.Question, error) {
	return call(ctx, s, NameCreateQuestion, board.MethodCreateQuestion,
		func(ctx context.Context, md metadata.MD, cb board.Callback[board.Question]) {
			s.client.CreateQuestion(ctx, md, q, cb)
		})
}

// Like returns only after the backend has acknowledged the like.
func (s *Service) Like(ctx context.Context, id int64) error {
	_, err := call(ctx, s, NameLike, board.MethodLike,
		func(ctx context.Context, md metadata.MD, cb board.Callback[struct{}]) {
			s.client.Like(ctx, md, id, cb)
		})
	return err
}

type dispatchFunc[T any] func(ctx context.Context, md metadata.MD, cb board.Callback[T])

// call issues exactly one traced backend call under the service deadline.
func call[T any](ctx context.Context, s *Service, op, method string, dispatch dispatchFunc[T]) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	var value T
	err := s.propagator.Wrap(ctx, method, func(callCtx context.Context, md metadata.MD) error {
		v, err := await(callCtx, func(cb board.Callback[T]) {
			dispatch(callCtx, md, cb)
		})
		value = v
		return err
	})
	elapsed := time.Since(start)

	if err != nil {
		rerr := newRemoteCallError(op, method, err)
		s.metrics.observeCall(op, rerr.Code, elapsed)
		s.logger.Debug("backend call failed",
			"operation", op,
			"code", rerr.Code.String(),
			"duration", elapsed,
			"error", rerr.Message,
		)
		var zero T
		return zero, rerr
	}

	s.metrics.observeCall(op, codes.OK, elapsed)
	s.logger.Debug("backend call completed", "operation", op, "duration", elapsed)
	return value, nil
}

type outcome[T any] struct {
	value T
	err   error
}

// await resolves with the first callback or with ctx's error, whichever comes first.
// The channel holds one outcome; later callbacks are dropped.
func await[T any](ctx context.Context, dispatch func(cb board.Callback[T])) (T, error) {
	done := make(chan outcome[T], 1)
	dispatch(func(v T, err error) {
		select {
		case done <- outcome[T]{value: v, err: err}:
		default:
		}
	})

	select {
	case o := <-done:
		return o.value, o.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
