// Package domain defines the core domain models for SessGate.
package domain

import (
	"testing"
	"time"

	"github.com/yndnr/sessgate-go/pkg/ident"
)

func TestClampTimeout(t *testing.T) {
	max := time.Hour

	tests := []struct {
		name      string
		requested time.Duration
		want      time.Duration
	}{
		{"zero falls back to max", 0, max},
		{"negative falls back to max", -time.Minute, max},
		{"above max is clamped", 2 * time.Hour, max},
		{"within range wins", 30 * time.Minute, 30 * time.Minute},
		{"exactly max wins", max, max},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampTimeout(tt.requested, max); got != tt.want {
				t.Errorf("ClampTimeout(%v, %v) = %v, want %v", tt.requested, max, got, tt.want)
			}
		})
	}
}

func TestSession_SetExpiration(t *testing.T) {
	now := time.Now()
	s := &Session{Timeout: 30 * time.Minute}
	s.SetExpiration(now)

	if want := now.Add(30 * time.Minute); !s.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", s.ExpiresAt, want)
	}
}

func TestSession_IsExpired(t *testing.T) {
	now := time.Now()
	s := &Session{Timeout: time.Minute}
	s.SetExpiration(now)

	if s.IsExpired(now) {
		t.Error("session should not be expired at creation time")
	}
	if s.IsExpired(now.Add(59 * time.Second)) {
		t.Error("session should not be expired before the deadline")
	}
	if !s.IsExpired(now.Add(61 * time.Second)) {
		t.Error("session should be expired after the deadline")
	}
}

func TestSession_Touch(t *testing.T) {
	now := time.Now()
	s := &Session{Timeout: time.Minute}
	s.SetExpiration(now)

	later := now.Add(50 * time.Second)
	s.Touch(later)

	if !s.LastActive.Equal(later) {
		t.Errorf("LastActive = %v, want %v", s.LastActive, later)
	}
	if want := later.Add(time.Minute); !s.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt after touch = %v, want %v", s.ExpiresAt, want)
	}
}

func TestSession_ReleaseResources(t *testing.T) {
	s := &Session{ID: ident.Numeric(IdentifierNamespace, 1)}

	if s.Released() {
		t.Error("new session should not be released")
	}

	s.ReleaseResources()
	if !s.Released() {
		t.Error("session should be released after ReleaseResources")
	}

	// Idempotent.
	s.ReleaseResources()
	if !s.Released() {
		t.Error("second ReleaseResources must keep the released state")
	}
}
