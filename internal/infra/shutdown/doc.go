// Package shutdown provides graceful shutdown for SessGate.
//
// This package handles process termination signals:
//
//   - Signal handling (SIGINT, SIGTERM)
//   - Timeout-based forced shutdown
//   - Cleanup callback registration
//   - Shutdown coordination
//
// Hooks registered with OnShutdown run in reverse order of
// registration, so dependents stop before their dependencies.
package shutdown
