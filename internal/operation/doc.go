// Package operation exposes the gateway's named operations.
//
// # Operations
//
//	listSubjects    query     no input
//	getSubject      query     {"id": int}
//	listQuestions   query     {"subjectId": int}
//	createQuestion  mutation  {"text": string, "subjectId": int}
//	like            mutation  {"id": int}
//
// # Invocation
//
// Registry.Invoke strictly decodes the raw JSON input and validates it. Invalid
// input fails with *ValidationError before any backend traffic. Valid input
// results in exactly one backend call, traced by the tracing package and bounded
// by the configured call timeout. Backend failures, deadline expiry and
// cancellation surface as *RemoteCallError carrying the gRPC code.
//
// Mutations return only after the backend callback has fired.
package operation
