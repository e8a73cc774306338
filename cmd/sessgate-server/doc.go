// Package main provides the entry point for sessgate-server.
//
// The server owns the session table for a stateful request/response
// protocol front end:
//
//   - Capacity-bounded session creation with counter-issued identifiers
//   - Lookup by session identifier or authentication token
//   - Periodic reclamation of expired sessions
//   - Administrative HTTP API for status, diagnostics, and metrics
//
// Usage:
//
//	sessgate-server run [flags]
//	sessgate-server run --config /path/to/config.yaml
//
// The server loads configuration, initializes infrastructure components,
// and starts the sweeper and the administrative listener.
package main
