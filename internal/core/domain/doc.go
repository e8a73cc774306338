// Package domain defines the core domain models for SessGate.
//
// Domain models are pure value objects and entities without any
// IO dependencies or framework coupling. This package contains:
//
//   - Session: server-side session entity with lifecycle state
//   - Channel: the transport-side contract for session binding
//   - Errors: domain-specific error definitions
//
// Sessions are identified by a namespace-qualified numeric ID and
// carry a separate authentication token so that knowing the session
// identifier alone is not sufficient to authenticate as that session.
package domain
