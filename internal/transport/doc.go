// Package transport owns the single long-lived gRPC connection between the
// gateway and the board backend.
//
// # Credential Modes
//
//   - insecure: plaintext, no verification; only for trusted internal networks.
//   - secure: TLS with the base64-decoded PEM bundle as trust roots. Missing or
//     unparsable material fails Dial instead of falling back to empty roots.
//
// # Authority Override
//
// When set, the override is used both as the TLS server name and as the HTTP/2
// :authority, for deployments where the dialled name and the certificate name
// differ (for example sidecar routing).
//
// # Lifecycle
//
// Dial is called once at startup; the Binding is injected into every component
// that issues calls and closed during shutdown. There is no reconnect logic
// beyond what gRPC itself does.
package transport
