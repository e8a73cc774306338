// Package metric provides Prometheus metrics for SessGate.
//
// It exposes session lifecycle counters, the live session gauge and
// sweep timings in Prometheus format for monitoring. Metrics live in a
// dedicated registry so tests and embedders stay isolated from the
// global default registry.
package metric
