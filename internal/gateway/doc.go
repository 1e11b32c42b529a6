// Package gateway serves the board operations over HTTP.
//
// # Overview
//
// The Gateway owns the backend transport binding, the operation registry and
// the HTTP server. Each inbound request names one operation and becomes
// exactly one deadline-bounded call to the board backend.
//
//	type Gateway struct {
//	    config      *config.Config
//	    binding     *transport.Binding
//	    registry    *operation.Registry
//	    metrics     *prometheus.Registry
//	    httpServer  *http.Server
//	    tsnetServer *tsnet.Server
//	    // ...
//	}
//
// # HTTP API
//
//	GET  /health                    liveness
//	GET  /health/ready              backend connection usable
//	GET  /api/operations            registered operations
//	GET  /api/{query}?input=<json>  listSubjects, getSubject, listQuestions
//	POST /api/{mutation}            createQuestion, like (JSON body)
//	GET  /metrics                   Prometheus exposition (when enabled)
//
// Successful operations answer 200 with {"result": ...}. Failures answer with
// {"error": {"kind", "operation", "message", "code", "fields", "requestId"}}.
// Validation failures are 400; backend failures map from the gRPC code:
//
//	NotFound            404
//	InvalidArgument     400
//	FailedPrecondition  409
//	Canceled            499
//	Unavailable         503
//	DeadlineExceeded    504
//	anything else       502
//
// # Middleware
//
// Requests pass through a Sentry transaction (so operations have an ambient
// span to propagate), request ID assignment (X-Request-ID), access logging and
// Prometheus instrumentation, in that order.
//
// # Lifecycle
//
//	gw, err := gateway.New(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return gw.Run(ctx) // blocks until ctx is cancelled
//
// When tailscale.enabled is set the HTTP server listens on the tailnet through
// tsnet instead of a TCP address.
package gateway
