// ABOUTME: Failure taxonomy returned by operations
// ABOUTME: ValidationError never reaches the backend, RemoteCallError carries the backend status

package operation

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/2389/board-gateway/internal/tracing"
)

// ErrUnknownOperation is returned when no operation is registered under a name.
var ErrUnknownOperation = errors.New("unknown operation")

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports input that does not match an operation's declared shape.
type ValidationError struct {
	Operation string
	Message   string
	Fields    []FieldError
	Err       error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: invalid input: %s", e.Operation, e.Message)
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s %s", f.Field, f.Message))
	}
	return fmt.Sprintf("%s: invalid input: %s", e.Operation, strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// RemoteCallError reports a failed backend call. Code and Message are taken from
// the backend status; deadline expiry and cancellation use their gRPC codes.
type RemoteCallError struct {
	Operation string
	Method    string
	Code      codes.Code
	Message   string
	Err       error
}

func newRemoteCallError(op, method string, err error) *RemoteCallError {
	msg := err.Error()
	if s, ok := status.FromError(err); ok {
		msg = s.Message()
	}
	return &RemoteCallError{
		Operation: op,
		Method:    method,
		Code:      tracing.Code(err),
		Message:   msg,
		Err:       err,
	}
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Operation, e.Code, e.Message)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}
