// ABOUTME: Static registry of the named operations exposed by the gateway
// ABOUTME: Built once at startup, then only read; lookups and invocation by name

package operation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2389/board-gateway/internal/board"
)

// Operation names.
const (
	NameListSubjects   = "listSubjects"
	NameGetSubject     = "getSubject"
	NameListQuestions  = "listQuestions"
	NameCreateQuestion = "createQuestion"
	NameLike           = "like"
)

// Kind separates read-only queries from state-changing mutations.
type Kind string

const (
	KindQuery    Kind = "query"
	KindMutation Kind = "mutation"
)

// Operation describes one registered operation.
type Operation struct {
	Name   string   `json:"name"`
	Kind   Kind     `json:"kind"`
	Method string   `json:"method"`
	Input  []string `json:"input"`

	handler handlerFunc
}

type handlerFunc func(ctx context.Context, raw json.RawMessage) (any, error)

// Ack is the result of mutations that return no data.
type Ack struct {
	OK bool `json:"ok"`
}

type (
	noInput struct{}

	idInput struct {
		ID *int64 `json:"id" validate:"required"`
	}

	subjectInput struct {
		SubjectID *int64 `json:"subjectId" validate:"required"`
	}

	createQuestionInput struct {
		Text      *string `json:"text" validate:"required"`
		SubjectID *int64  `json:"subjectId" validate:"required"`
	}
)

// Registry maps operation names to their handlers.
type Registry struct {
	ops     []Operation
	byName  map[string]int
	metrics *Metrics
}

// NewRegistry builds the registry over svc.
func NewRegistry(svc *Service) *Registry {
	ops := []Operation{
		{
			Name:   NameListSubjects,
			Kind:   KindQuery,
			Method: board.MethodListSubjects,
			Input:  []string{},
			handler: bind(NameListSubjects, func(ctx context.Context, _ noInput) (any, error) {
				return svc.ListSubjects(ctx)
			}),
		},
		{
			Name:   NameGetSubject,
			Kind:   KindQuery,
			Method: board.MethodGetSubject,
			Input:  []string{"id"},
			handler: bind(NameGetSubject, func(ctx context.Context, in idInput) (any, error) {
				return svc.GetSubject(ctx, *in.ID)
			}),
		},
		{
			Name:   NameListQuestions,
			Kind:   KindQuery,
			Method: board.MethodListQuestions,
			Input:  []string{"subjectId"},
			handler: bind(NameListQuestions, func(ctx context.Context, in subjectInput) (any, error) {
				return svc.ListQuestions(ctx, *in.SubjectID)
			}),
		},
		{
			Name:   NameCreateQuestion,
			Kind:   KindMutation,
			Method: board.MethodCreateQuestion,
			Input:  []string{"text", "subjectId"},
			handler: bind(NameCreateQuestion, func(ctx context.Context, in createQuestionInput) (any, error) {
				return svc.CreateQuestion(ctx, board.NewQuestion{Text: *in.Text, SubjectID: *in.SubjectID})
			}),
		},
		{
			Name:   NameLike,
			Kind:   KindMutation,
			Method: board.MethodLike,
			Input:  []string{"id"},
			handler: bind(NameLike, func(ctx context.Context, in idInput) (any, error) {
				if err := svc.Like(ctx, *in.ID); err != nil {
					return nil, err
				}
				return Ack{OK: true}, nil
			}),
		},
	}

	byName := make(map[string]int, len(ops))
	for i, op := range ops {
		byName[op.Name] = i
	}
	return &Registry{
		ops:     ops,
		byName:  byName,
		metrics: svc.metrics,
	}
}

// Lookup returns the operation registered under name.
func (r *Registry) Lookup(name string) (Operation, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Operation{}, false
	}
	return r.ops[i], true
}

// Operations returns the registered operations in registration order.
func (r *Registry) Operations() []Operation {
	out := make([]Operation, len(r.ops))
	copy(out, r.ops)
	return out
}

// Invoke validates raw against the operation's input and runs it.
func (r *Registry) Invoke(ctx context.Context, name string, raw json.RawMessage) (any, error) {
	op, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, name)
	}

	result, err := op.handler(ctx, raw)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			r.metrics.observeValidation(name)
		}
		return nil, err
	}
	return result, nil
}

// bind decodes and validates the input before calling fn.
func bind[In any](op string, fn func(ctx context.Context, in In) (any, error)) handlerFunc {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var in In
		if err := decodeInput(op, raw, &in); err != nil {
			return nil, err
		}
		return fn(ctx, in)
	}
}
