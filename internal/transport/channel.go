package transport

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/sessgate-go/internal/core/domain"
)

// Channel is an opaque handle for one transport connection.
//
// It carries a correlation ID for logging, the peer address, and a
// single mutable slot holding the currently bound session or none.
type Channel struct {
	id         string
	remoteAddr string
	openedAt   time.Time

	// session is the forward reference to the bound session, or nil.
	// If set, the session's own Channel field points back here; the
	// pair is kept consistent by whichever side detaches first.
	session *domain.Session
}

var _ domain.Channel = (*Channel)(nil)

// NewChannel creates a channel handle for a connection from remoteAddr.
func NewChannel(remoteAddr string) (*Channel, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return nil, domain.ErrInternalServer.WithCause(err)
	}

	return &Channel{
		id:         id.String(),
		remoteAddr: remoteAddr,
		openedAt:   time.Now(),
	}, nil
}

// ID returns the channel's correlation identifier.
func (c *Channel) ID() string {
	return c.id
}

// RemoteAddr returns the peer address the channel was opened from.
func (c *Channel) RemoteAddr() string {
	return c.remoteAddr
}

// OpenedAt returns the time the channel handle was created.
func (c *Channel) OpenedAt() time.Time {
	return c.openedAt
}

// BindSession points the channel's session slot at s.
func (c *Channel) BindSession(s *domain.Session) {
	c.session = s
}

// DetachSession clears the session slot. Safe to call when no session
// is bound. The channel is then no longer attached to a session.
func (c *Channel) DetachSession() {
	c.session = nil
}

// Session returns the currently bound session, or nil.
func (c *Channel) Session() *domain.Session {
	return c.session
}
