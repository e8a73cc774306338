// Package config defines the server configuration structure.
package config

import (
	"errors"
	"net"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifySessions(&cfg.Sessions); err != nil {
		return err
	}
	return nil
}

func verifyServer(cfg *ServerSection) error {
	if cfg.Admin.Addr == "" {
		return errors.New("server.admin.addr is required")
	}
	if _, _, err := net.SplitHostPort(cfg.Admin.Addr); err != nil {
		return errors.New("server.admin.addr is not a valid host:port: " + err.Error())
	}
	return nil
}

func verifySessions(cfg *SessionsSection) error {
	if cfg.MaxCount < 1 {
		return errors.New("sessions.max_count must be at least 1")
	}
	if cfg.MaxLifetime <= 0 {
		return errors.New("sessions.max_lifetime must be positive")
	}
	if cfg.SweepInterval <= 0 {
		return errors.New("sessions.sweep_interval must be positive")
	}
	if cfg.CreateRate < 0 {
		return errors.New("sessions.create_rate must not be negative")
	}
	if cfg.CreateRate > 0 && cfg.CreateBurst < 1 {
		return errors.New("sessions.create_burst must be at least 1 when create_rate is set")
	}
	return nil
}
