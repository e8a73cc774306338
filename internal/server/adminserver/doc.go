// Package adminserver provides the administrative HTTP server for SessGate.
//
// Session creation and authorization happen on transport channels, not
// over HTTP; this server exposes the operational surface only:
//
//   - GET /health, GET /ready: liveness and readiness probes
//   - GET /status: session counts, capacity, and build information
//   - GET /sessions: diagnostic view of the live sessions
//   - GET /sessions/{id}: one session's diagnostic record
//   - POST /sessions/{id}/close: explicit session removal
//   - POST /gc/trigger: on-demand expiration sweep
//   - GET /metrics: Prometheus exposition
package adminserver
