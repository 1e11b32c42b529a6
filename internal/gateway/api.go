// ABOUTME: HTTP API handlers exposing registry operations by name
// ABOUTME: Queries are served on GET with ?input=, mutations on POST with a JSON body

package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"google.golang.org/grpc/codes"

	"github.com/2389/board-gateway/internal/operation"
)

// maxInputBytes bounds mutation request bodies.
const maxInputBytes = 1 << 20

// Error kinds reported in API error bodies.
const (
	kindValidation       = "validation"
	kindRemote           = "remote"
	kindNotFound         = "not_found"
	kindMethodNotAllowed = "method_not_allowed"
	kindInternal         = "internal"
)

// ResultResponse wraps a successful operation result.
type ResultResponse struct {
	Result any `json:"result"`
}

// ErrorResponse wraps a failed operation.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody describes a failure.
type ErrorBody struct {
	Kind      string                 `json:"kind"`
	Operation string                 `json:"operation,omitempty"`
	Message   string                 `json:"message"`
	Code      string                 `json:"code,omitempty"`
	Fields    []operation.FieldError `json:"fields,omitempty"`
	RequestID string                 `json:"requestId,omitempty"`
}

// OperationsResponse is the JSON response for GET /api/operations.
type OperationsResponse struct {
	Operations []operation.Operation `json:"operations"`
}

// handleOperations lists the registered operations.
func (g *Gateway) handleOperations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, OperationsResponse{Operations: g.registry.Operations()})
}

// handleOperation serves /api/{operation}.
func (g *Gateway) handleOperation(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("operation")

	op, ok := g.registry.Lookup(name)
	if !ok {
		g.sendJSONError(w, r, http.StatusNotFound, ErrorBody{
			Kind:      kindNotFound,
			Operation: name,
			Message:   "unknown operation",
		})
		return
	}

	var raw json.RawMessage
	switch op.Kind {
	case operation.KindQuery:
		if r.Method != http.MethodGet {
			g.methodNotAllowed(w, r, name, http.MethodGet)
			return
		}
		raw = json.RawMessage(r.URL.Query().Get("input"))
	case operation.KindMutation:
		if r.Method != http.MethodPost {
			g.methodNotAllowed(w, r, name, http.MethodPost)
			return
		}
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxInputBytes))
		if err != nil {
			g.sendJSONError(w, r, http.StatusRequestEntityTooLarge, ErrorBody{
				Kind:      kindValidation,
				Operation: name,
				Message:   "request body too large",
			})
			return
		}
		raw = body
	}

	result, err := g.registry.Invoke(r.Context(), name, raw)
	if err != nil {
		g.sendOperationError(w, r, name, err)
		return
	}

	writeJSON(w, http.StatusOK, ResultResponse{Result: result})
}

func (g *Gateway) methodNotAllowed(w http.ResponseWriter, r *http.Request, name, allowed string) {
	w.Header().Set("Allow", allowed)
	g.sendJSONError(w, r, http.StatusMethodNotAllowed, ErrorBody{
		Kind:      kindMethodNotAllowed,
		Operation: name,
		Message:   "use " + allowed + " for this operation",
	})
}

// sendOperationError maps operation failures onto HTTP responses.
func (g *Gateway) sendOperationError(w http.ResponseWriter, r *http.Request, name string, err error) {
	var verr *operation.ValidationError
	var rerr *operation.RemoteCallError

	switch {
	case errors.As(err, &verr):
		g.sendJSONError(w, r, http.StatusBadRequest, ErrorBody{
			Kind:      kindValidation,
			Operation: name,
			Message:   verr.Message,
			Fields:    verr.Fields,
		})
	case errors.As(err, &rerr):
		g.sendJSONError(w, r, httpStatusForCode(rerr.Code), ErrorBody{
			Kind:      kindRemote,
			Operation: name,
			Message:   rerr.Message,
			Code:      rerr.Code.String(),
		})
	default:
		g.logger.Error("operation failed", "operation", name, "error", err)
		g.sendJSONError(w, r, http.StatusInternalServerError, ErrorBody{
			Kind:      kindInternal,
			Operation: name,
			Message:   "internal error",
		})
	}
}

// httpStatusForCode maps backend status codes to HTTP statuses.
func httpStatusForCode(code codes.Code) int {
	switch code {
	case codes.NotFound:
		return http.StatusNotFound
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.FailedPrecondition:
		return http.StatusConflict
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.Canceled:
		return 499
	default:
		return http.StatusBadGateway
	}
}

// sendJSONError writes a JSON error response tagged with the request ID.
func (g *Gateway) sendJSONError(w http.ResponseWriter, r *http.Request, status int, body ErrorBody) {
	body.RequestID = RequestIDFromContext(r.Context())
	writeJSON(w, status, ErrorResponse{Error: body})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
