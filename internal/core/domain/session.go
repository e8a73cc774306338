package domain

import (
	"time"

	"github.com/yndnr/sessgate-go/pkg/ident"
)

// IdentifierNamespace is the namespace index for session identifiers
// and authentication tokens issued by this server.
const IdentifierNamespace uint16 = 1

// Channel is the transport side of a session binding.
//
// A channel holds at most one forward reference to a session; the
// session holds a non-owning back-reference to the channel. Neither
// side owns the other: whichever side tears down first must detach the
// other so that no dangling reference survives.
type Channel interface {
	// DetachSession clears the channel's forward reference to its
	// session. It must be safe to call when no session is bound.
	DetachSession()
}

// Session represents one authenticated session on the server.
//
// A Session is owned exclusively by the session table while live. The
// table hands out references on lookup but retains ownership; callers
// must not retain a reference across any operation that could remove
// the session.
type Session struct {
	// ID is the unique session identifier.
	ID ident.ID

	// AuthToken is the authentication token for this session. It is
	// distinct from ID for every session; requests may authorize by
	// token instead of (or in addition to) the session identifier.
	AuthToken ident.ID

	// Channel is the non-owning back-reference to the transport
	// channel the session was created on, or nil after detach.
	Channel Channel

	// Timeout is the effective session lifetime, already clamped to
	// the server's configured maximum.
	Timeout time.Duration

	// ExpiresAt is the absolute deadline derived from Timeout. It is
	// refreshed on activity; enforcement happens in the periodic
	// sweep, never in lookups.
	ExpiresAt time.Time

	// CreatedAt is the session creation timestamp.
	CreatedAt time.Time

	// LastActive is the timestamp of the last observed activity.
	LastActive time.Time

	released bool
}

// ClampTimeout returns the effective session lifetime for a requested
// value: the request wins when it is positive and within max,
// otherwise the configured maximum applies.
func ClampTimeout(requested, max time.Duration) time.Duration {
	if requested > 0 && requested <= max {
		return requested
	}
	return max
}

// SetExpiration derives a fresh absolute deadline from the session's
// effective timeout.
func (s *Session) SetExpiration(now time.Time) {
	s.ExpiresAt = now.Add(s.Timeout)
}

// IsExpired reports whether the session's deadline has passed.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Touch records activity and pushes the deadline out by the effective
// timeout.
func (s *Session) Touch(now time.Time) {
	s.LastActive = now
	s.SetExpiration(now)
}

// ReleaseResources tears down session-owned state independent of table
// membership. It is idempotent and does not touch the channel
// back-reference; detaching is the table's job and must happen before
// release.
func (s *Session) ReleaseResources() {
	s.released = true
}

// Released reports whether ReleaseResources has run.
func (s *Session) Released() bool {
	return s.released
}
