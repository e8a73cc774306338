package registry

import (
	"errors"
	"testing"
	"time"

	"github.com/yndnr/sessgate-go/internal/core/domain"
	"github.com/yndnr/sessgate-go/pkg/ident"
)

// fakeChannel records the transport side of a session binding.
type fakeChannel struct {
	session  *domain.Session
	detached int
}

func (c *fakeChannel) DetachSession() {
	c.session = nil
	c.detached++
}

func newTable(maxCount int) *Registry {
	return New(Config{
		MaxSessionCount:    maxCount,
		MaxSessionLifetime: time.Hour,
		StartSessionID:     1,
	})
}

func TestCreate_UniqueIdentifiers(t *testing.T) {
	r := newTable(32)

	ids := make(map[ident.ID]bool)
	tokens := make(map[ident.ID]bool)

	for i := 0; i < 32; i++ {
		s, err := r.Create(&fakeChannel{}, 0)
		if err != nil {
			t.Fatalf("Create() #%d error = %v", i, err)
		}
		if s.ID == s.AuthToken {
			t.Errorf("session id %v equals its auth token", s.ID)
		}
		if ids[s.ID] {
			t.Errorf("duplicate session id %v", s.ID)
		}
		if tokens[s.AuthToken] {
			t.Errorf("duplicate auth token %v", s.AuthToken)
		}
		ids[s.ID] = true
		tokens[s.AuthToken] = true
	}

	if got := r.Len(); got != 32 {
		t.Errorf("Len() = %d, want 32", got)
	}
}

func TestCreate_AdjacentCounterValues(t *testing.T) {
	r := newTable(4)

	s, err := r.Create(&fakeChannel{}, 0)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// The token is read from the once-advanced counter; no second
	// increment happens.
	if s.AuthToken.Numeric != s.ID.Numeric+1 {
		t.Errorf("auth token numeric = %d, want %d", s.AuthToken.Numeric, s.ID.Numeric+1)
	}
	if s.ID.Namespace != domain.IdentifierNamespace || s.AuthToken.Namespace != domain.IdentifierNamespace {
		t.Errorf("identifiers must be issued in namespace %d", domain.IdentifierNamespace)
	}

	// The next session continues from the prior increment.
	s2, err := r.Create(&fakeChannel{}, 0)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if s2.ID.Numeric != s.ID.Numeric+1 {
		t.Errorf("second session id numeric = %d, want %d", s2.ID.Numeric, s.ID.Numeric+1)
	}
}

func TestCreate_CapacityBound(t *testing.T) {
	r := newTable(2)

	for i := 0; i < 2; i++ {
		if _, err := r.Create(&fakeChannel{}, 0); err != nil {
			t.Fatalf("Create() #%d error = %v", i, err)
		}
	}

	_, err := r.Create(&fakeChannel{}, 0)
	if !errors.Is(err, domain.ErrTooManySessions) {
		t.Fatalf("Create() beyond capacity error = %v, want ErrTooManySessions", err)
	}
	if got := r.Len(); got != 2 {
		t.Errorf("Len() after rejected create = %d, want 2", got)
	}

	// Capacity frees up again after a removal.
	var any *domain.Session
	r.Range(func(s *domain.Session) bool { any = s; return false })
	if err := r.Remove(any.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := r.Create(&fakeChannel{}, 0); err != nil {
		t.Errorf("Create() after removal error = %v", err)
	}
}

func TestCreate_TimeoutClamping(t *testing.T) {
	tests := []struct {
		name      string
		requested time.Duration
		want      time.Duration
	}{
		{"zero requests the maximum", 0, time.Hour},
		{"above maximum is clamped", 2 * time.Hour, time.Hour},
		{"within range is honored", 20 * time.Minute, 20 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTable(1)
			s, err := r.Create(&fakeChannel{}, tt.requested)
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if s.Timeout != tt.want {
				t.Errorf("Timeout = %v, want %v", s.Timeout, tt.want)
			}
			if want := s.CreatedAt.Add(tt.want); !s.ExpiresAt.Equal(want) {
				t.Errorf("ExpiresAt = %v, want %v", s.ExpiresAt, want)
			}
		})
	}
}

func TestGetByID(t *testing.T) {
	r := newTable(4)
	s, _ := r.Create(&fakeChannel{}, 0)

	got, err := r.GetByID(s.ID)
	if err != nil {
		t.Fatalf("GetByID(%v) error = %v", s.ID, err)
	}
	if got != s {
		t.Error("GetByID should return the identical live record")
	}

	// Exact structural equality: the same numeric value in another
	// namespace must not match.
	_, err = r.GetByID(ident.Numeric(2, s.ID.Numeric))
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("GetByID with wrong namespace error = %v, want ErrSessionNotFound", err)
	}

	_, err = r.GetByID(ident.Numeric(domain.IdentifierNamespace, 9999))
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("GetByID for never-issued id error = %v, want ErrSessionNotFound", err)
	}
}

func TestGetByToken(t *testing.T) {
	r := newTable(4)
	s, _ := r.Create(&fakeChannel{}, 0)

	got, err := r.GetByToken(s.AuthToken)
	if err != nil {
		t.Fatalf("GetByToken(%v) error = %v", s.AuthToken, err)
	}
	if got != s {
		t.Error("GetByToken should return the identical live record")
	}

	// A session id is not a valid token for itself.
	if _, err := r.GetByToken(s.ID); !errors.Is(err, domain.ErrTokenUnknown) {
		t.Errorf("GetByToken(session id) error = %v, want ErrTokenUnknown", err)
	}

	if _, err := r.GetByToken(ident.Numeric(domain.IdentifierNamespace, 9999)); !errors.Is(err, domain.ErrTokenUnknown) {
		t.Errorf("GetByToken for never-issued token error = %v, want ErrTokenUnknown", err)
	}
}

func TestLookupFindsExpiredSession(t *testing.T) {
	r := newTable(1)
	s, _ := r.Create(&fakeChannel{}, 0)

	// Lifetime handling belongs to the periodic sweep. A session past
	// its deadline but not yet reaped is still found.
	s.ExpiresAt = time.Now().Add(-time.Minute)

	if _, err := r.GetByID(s.ID); err != nil {
		t.Errorf("GetByID on expired-but-unswept session error = %v", err)
	}
	if _, err := r.GetByToken(s.AuthToken); err != nil {
		t.Errorf("GetByToken on expired-but-unswept session error = %v", err)
	}
}

func TestRemove(t *testing.T) {
	r := newTable(4)
	ch := &fakeChannel{}
	s, _ := r.Create(ch, 0)
	ch.session = s

	if err := r.Remove(s.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	if got := r.Len(); got != 0 {
		t.Errorf("Len() after remove = %d, want 0", got)
	}
	if ch.session != nil {
		t.Error("channel's session slot should be cleared on remove")
	}
	if ch.detached != 1 {
		t.Errorf("channel detached %d times, want 1", ch.detached)
	}
	if s.Channel != nil {
		t.Error("session's channel back-reference should be cleared")
	}
	if !s.Released() {
		t.Error("session resources should be released on remove")
	}

	// The token index must not outlive the session.
	if _, err := r.GetByToken(s.AuthToken); !errors.Is(err, domain.ErrTokenUnknown) {
		t.Errorf("GetByToken after remove error = %v, want ErrTokenUnknown", err)
	}

	// Second remove fails cleanly.
	if err := r.Remove(s.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("second Remove() error = %v, want ErrSessionNotFound", err)
	}
}

func TestRemove_WithoutChannel(t *testing.T) {
	r := newTable(1)
	s, _ := r.Create(nil, 0)

	if err := r.Remove(s.ID); err != nil {
		t.Fatalf("Remove() of channel-less session error = %v", err)
	}
}

func TestClose(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		r := newTable(8)
		channels := make([]*fakeChannel, n)
		sessions := make([]*domain.Session, n)

		for i := range channels {
			ch := &fakeChannel{}
			s, err := r.Create(ch, 0)
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			ch.session = s
			channels[i] = ch
			sessions[i] = s
		}

		r.Close()

		if got := r.Len(); got != 0 {
			t.Errorf("n=%d: Len() after Close = %d, want 0", n, got)
		}
		for i, ch := range channels {
			if ch.session != nil {
				t.Errorf("n=%d: channel %d still references a session after Close", n, i)
			}
			if ch.detached != 1 {
				t.Errorf("n=%d: channel %d detached %d times, want exactly 1", n, i, ch.detached)
			}
		}
		for i, s := range sessions {
			if !s.Released() {
				t.Errorf("n=%d: session %d not released after Close", n, i)
			}
		}

		// Close is safe to call again.
		r.Close()
	}
}

func TestInvalidTableHandle(t *testing.T) {
	var nilTable *Registry
	zeroTable := &Registry{}

	for name, r := range map[string]*Registry{"nil": nilTable, "zero": zeroTable} {
		if _, err := r.Create(&fakeChannel{}, 0); !errors.Is(err, domain.ErrTableInvalid) {
			t.Errorf("%s: Create() error = %v, want ErrTableInvalid", name, err)
		}
		if _, err := r.GetByID(ident.Numeric(1, 1)); !errors.Is(err, domain.ErrTableInvalid) {
			t.Errorf("%s: GetByID() error = %v, want ErrTableInvalid", name, err)
		}
		if _, err := r.GetByToken(ident.Numeric(1, 1)); !errors.Is(err, domain.ErrTableInvalid) {
			t.Errorf("%s: GetByToken() error = %v, want ErrTableInvalid", name, err)
		}
		if err := r.Remove(ident.Numeric(1, 1)); !errors.Is(err, domain.ErrTableInvalid) {
			t.Errorf("%s: Remove() error = %v, want ErrTableInvalid", name, err)
		}
		if got := r.Len(); got != 0 {
			t.Errorf("%s: Len() = %d, want 0", name, got)
		}

		// Must report, not crash.
		r.Range(func(*domain.Session) bool { return true })
		r.Close()
	}
}

// TestSeededLifecycle walks the canonical create/reject/remove/create
// sequence with a single-slot table seeded at id 100.
func TestSeededLifecycle(t *testing.T) {
	r := New(Config{
		MaxSessionCount:    1,
		MaxSessionLifetime: 3600 * time.Second,
		StartSessionID:     100,
	})

	chA := &fakeChannel{}
	s, err := r.Create(chA, 0)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	chA.session = s

	if want := ident.Numeric(1, 100); s.ID != want {
		t.Errorf("session id = %v, want %v", s.ID, want)
	}
	if want := ident.Numeric(1, 101); s.AuthToken != want {
		t.Errorf("auth token = %v, want %v", s.AuthToken, want)
	}
	if s.Timeout != 3600*time.Second {
		t.Errorf("timeout = %v, want %v", s.Timeout, 3600*time.Second)
	}

	if _, err := r.Create(&fakeChannel{}, 0); !errors.Is(err, domain.ErrTooManySessions) {
		t.Fatalf("second Create() error = %v, want ErrTooManySessions", err)
	}

	if err := r.Remove(ident.Numeric(1, 100)); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
	if chA.session != nil {
		t.Error("channel A's session slot should be cleared")
	}

	s3, err := r.Create(&fakeChannel{}, 0)
	if err != nil {
		t.Fatalf("third Create() error = %v", err)
	}
	if want := ident.Numeric(1, 101); s3.ID != want {
		t.Errorf("third session id = %v, want %v (counter continues from prior increment)", s3.ID, want)
	}
}

func BenchmarkCreateRemove(b *testing.B) {
	r := newTable(b.N + 1)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s, err := r.Create(nil, 0)
		if err != nil {
			b.Fatal(err)
		}
		if err := r.Remove(s.ID); err != nil {
			b.Fatal(err)
		}
	}
}
