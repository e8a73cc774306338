// Package config defines the server configuration structure.
package config

import "time"

// ServerConfig is the root configuration for sessgate-server.
type ServerConfig struct {
	Server   ServerSection   `koanf:"server"`
	Sessions SessionsSection `koanf:"sessions"`
	Log      LogSection      `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	Admin AdminConfig `koanf:"admin"`
}

// AdminConfig configures the administrative HTTP server.
type AdminConfig struct {
	Addr string `koanf:"addr"`
}

// SessionsSection configures the session table and its sweeper.
type SessionsSection struct {
	// MaxCount is the maximum number of concurrent sessions.
	MaxCount int `koanf:"max_count"`

	// MaxLifetime caps the per-session inactivity timeout. Requested
	// timeouts above this value are clamped down to it.
	MaxLifetime time.Duration `koanf:"max_lifetime"`

	// StartSessionID seeds the session identifier counter.
	StartSessionID uint32 `koanf:"start_session_id"`

	// SweepInterval is how often expired sessions are reclaimed.
	SweepInterval time.Duration `koanf:"sweep_interval"`

	// CreateRate limits session creations per second. Zero disables
	// the limiter.
	CreateRate float64 `koanf:"create_rate"`

	// CreateBurst is the burst size for the creation rate limiter.
	CreateBurst int `koanf:"create_burst"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
