package registry

import (
	"sync"
	"time"

	"github.com/yndnr/sessgate-go/internal/core/domain"
	"github.com/yndnr/sessgate-go/pkg/ident"
)

// Guarded wraps a Table with one table-wide mutex.
//
// This is the caller-side serialization layer for multi-threaded
// access: every operation is serialized against every other, matching
// the sequential history the unsynchronized table assumes. Note that a
// session reference returned by a lookup is only valid until the next
// operation on the table; callers holding one across a release point
// must re-validate it.
type Guarded struct {
	mu    sync.Mutex
	inner Table
}

var _ Table = (*Guarded)(nil)

// NewGuarded wraps inner with a table-wide mutex.
func NewGuarded(inner Table) *Guarded {
	return &Guarded{inner: inner}
}

// Create admits a new session. See Table.
func (g *Guarded) Create(ch domain.Channel, requestedTimeout time.Duration) (*domain.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inner.Create(ch, requestedTimeout)
}

// GetByID looks up a session by identifier. See Table.
func (g *Guarded) GetByID(id ident.ID) (*domain.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inner.GetByID(id)
}

// GetByToken looks up a session by authentication token. See Table.
func (g *Guarded) GetByToken(token ident.ID) (*domain.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inner.GetByToken(token)
}

// Remove detaches and releases a session. See Table.
func (g *Guarded) Remove(id ident.ID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inner.Remove(id)
}

// Len returns the live session count.
func (g *Guarded) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inner.Len()
}

// Range iterates live sessions while holding the table lock; fn must
// not call back into the table.
func (g *Guarded) Range(fn func(*domain.Session) bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inner.Range(fn)
}

// Close tears down every live session. See Table.
func (g *Guarded) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inner.Close()
}
