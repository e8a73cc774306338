// Package logger provides structured logging for SessGate.
//
// It wraps log/slog for structured JSON logging with automatic
// redaction of token-bearing attributes:
//
//   - logger.go: slog wrapper, level control, global default
//   - context.go: context-aware logging with request/channel IDs
//   - redact.go: sensitive attribute redaction
package logger
