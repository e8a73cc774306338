// Package config defines the server configuration structure.
package config

import "time"

// Default configuration values.
const (
	DefaultAdminAddr = "127.0.0.1:5480"

	DefaultMaxSessionCount = 1000
	DefaultMaxLifetime     = time.Hour
	DefaultStartSessionID  = 1
	DefaultSweepInterval   = 10 * time.Second
	DefaultCreateBurst     = 16

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Admin: AdminConfig{
				Addr: DefaultAdminAddr,
			},
		},
		Sessions: SessionsSection{
			MaxCount:       DefaultMaxSessionCount,
			MaxLifetime:    DefaultMaxLifetime,
			StartSessionID: DefaultStartSessionID,
			SweepInterval:  DefaultSweepInterval,
			CreateRate:     0,
			CreateBurst:    DefaultCreateBurst,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
