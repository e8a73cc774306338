// Package config defines the server configuration structure.
package config

// Sanitize returns a copy of the config with sensitive fields masked.
//
// This is used for logging configuration without exposing secrets.
// The current configuration surface carries no secrets, but loaders
// log through this path so future sensitive fields stay covered.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	sanitized := *cfg
	return &sanitized
}
