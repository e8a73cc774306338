package registry

import (
	"time"

	"github.com/yndnr/sessgate-go/internal/core/domain"
	"github.com/yndnr/sessgate-go/pkg/ident"
)

// Table is the session table contract.
//
// Registry implements it without synchronization; Guarded wraps any
// Table with a single mutex for multi-threaded callers.
type Table interface {
	// Create admits a new session bound to the given channel, or
	// fails with ErrTooManySessions when the capacity bound is
	// reached. The requested timeout is clamped to the configured
	// maximum lifetime.
	Create(ch domain.Channel, requestedTimeout time.Duration) (*domain.Session, error)

	// GetByID returns the live session with exactly this identifier.
	GetByID(id ident.ID) (*domain.Session, error)

	// GetByToken returns the live session holding exactly this
	// authentication token.
	GetByToken(token ident.ID) (*domain.Session, error)

	// Remove detaches and releases the session with this identifier.
	Remove(id ident.ID) error

	// Len returns the live session count.
	Len() int

	// Range calls fn for every live session until fn returns false.
	// fn must not create or remove sessions.
	Range(fn func(*domain.Session) bool)

	// Close tears down every live session unconditionally and leaves
	// the table empty.
	Close()
}

// Config holds the table's fixed configuration.
type Config struct {
	// MaxSessionCount is the upper bound on simultaneously live
	// sessions.
	MaxSessionCount int

	// MaxSessionLifetime is the ceiling on any session's requested
	// timeout.
	MaxSessionLifetime time.Duration

	// StartSessionID seeds the identifier counter.
	StartSessionID uint32
}

// Registry is the unsynchronized session table.
//
// The zero value is an invalid handle; use New. All state lives behind
// one struct so that ownership is unambiguous: sessions are reachable
// only through the table, and only the table frees them.
type Registry struct {
	sessions map[ident.ID]*domain.Session
	tokens   map[ident.ID]ident.ID // auth token -> session id

	maxSessionCount    int
	maxSessionLifetime time.Duration

	// lastSessionID seeds both identifiers of the next session. It is
	// monotonically increasing and wraps only at the numeric limit,
	// so identifiers are not reused while derived sessions are live.
	lastSessionID uint32
}

var _ Table = (*Registry)(nil)

// New establishes an empty session table with the given configuration.
func New(cfg Config) *Registry {
	return &Registry{
		sessions:           make(map[ident.ID]*domain.Session),
		tokens:             make(map[ident.ID]ident.ID),
		maxSessionCount:    cfg.MaxSessionCount,
		maxSessionLifetime: cfg.MaxSessionLifetime,
		lastSessionID:      cfg.StartSessionID,
	}
}

// valid reports whether the receiver is a usable table handle.
func (r *Registry) valid() bool {
	return r != nil && r.sessions != nil
}

// Create admits a new session bound to ch.
//
// The identifier is taken from the current counter value, the counter
// advances exactly once, and the authentication token is read from the
// advanced value without a further increment. The two identifiers of
// one session are therefore adjacent-but-distinct, and the token value
// is never reissued as a later session identifier.
func (r *Registry) Create(ch domain.Channel, requestedTimeout time.Duration) (*domain.Session, error) {
	if !r.valid() {
		return nil, domain.ErrTableInvalid
	}

	// Admission control: reject before any mutation so a failed
	// create leaves no trace.
	if len(r.sessions) >= r.maxSessionCount {
		return nil, domain.ErrTooManySessions
	}

	now := time.Now()
	s := &domain.Session{
		ID:         ident.Numeric(domain.IdentifierNamespace, r.lastSessionID),
		Channel:    ch,
		Timeout:    domain.ClampTimeout(requestedTimeout, r.maxSessionLifetime),
		CreatedAt:  now,
		LastActive: now,
	}
	r.lastSessionID++
	s.AuthToken = ident.Numeric(domain.IdentifierNamespace, r.lastSessionID)
	s.SetExpiration(now)

	r.sessions[s.ID] = s
	r.tokens[s.AuthToken] = s.ID
	return s, nil
}

// GetByID returns the session with exactly the given identifier.
//
// Lifetime is not evaluated here: expiry is enforced by the periodic
// sweep, so an expired-but-unswept session is still found. The table
// retains ownership of the returned session.
func (r *Registry) GetByID(id ident.ID) (*domain.Session, error) {
	if !r.valid() {
		return nil, domain.ErrTableInvalid
	}

	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound.WithDetails("id " + id.String())
	}
	return s, nil
}

// GetByToken returns the session holding exactly the given
// authentication token. Same lifetime contract as GetByID.
func (r *Registry) GetByToken(token ident.ID) (*domain.Session, error) {
	if !r.valid() {
		return nil, domain.ErrTableInvalid
	}

	id, ok := r.tokens[token]
	if !ok {
		return nil, domain.ErrTokenUnknown
	}
	s, ok := r.sessions[id]
	if !ok {
		// Index inconsistency; drop the orphaned token entry.
		delete(r.tokens, token)
		return nil, domain.ErrTokenUnknown
	}
	return s, nil
}

// Remove detaches and releases the session with the given identifier.
//
// The channel's reverse pointer is cleared before anything else so no
// path can observe the session mid-teardown through the transport
// side; only then are the session's resources released and the record
// dropped. A second Remove for the same identifier fails with
// ErrSessionNotFound.
func (r *Registry) Remove(id ident.ID) error {
	if !r.valid() {
		return domain.ErrTableInvalid
	}

	s, ok := r.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound.WithDetails("id " + id.String())
	}

	detach(s)
	s.ReleaseResources()
	delete(r.tokens, s.AuthToken)
	delete(r.sessions, id)
	return nil
}

// Len returns the live session count.
func (r *Registry) Len() int {
	if !r.valid() {
		return 0
	}
	return len(r.sessions)
}

// Range calls fn for every live session until fn returns false.
func (r *Registry) Range(fn func(*domain.Session) bool) {
	if !r.valid() {
		return
	}
	for _, s := range r.sessions {
		if !fn(s) {
			return
		}
	}
}

// Close tears down every live session unconditionally: detach, release,
// drop. It visits each entry exactly once, performs no lifetime checks
// and leaves the table empty. Safe to call more than once.
func (r *Registry) Close() {
	if !r.valid() {
		return
	}

	for id, s := range r.sessions {
		detach(s)
		s.ReleaseResources()
		delete(r.sessions, id)
	}
	clear(r.tokens)
}

// detach severs both sides of the channel binding. The channel's
// forward reference is cleared first.
func detach(s *domain.Session) {
	if s.Channel == nil {
		return
	}
	s.Channel.DetachSession()
	s.Channel = nil
}
