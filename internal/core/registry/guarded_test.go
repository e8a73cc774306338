package registry

import (
	"sync"
	"testing"
	"time"

	"github.com/yndnr/sessgate-go/internal/core/domain"
)

func TestGuarded_BasicOperations(t *testing.T) {
	g := NewGuarded(newTable(4))

	s, err := g.Create(&fakeChannel{}, 30*time.Minute)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if got, err := g.GetByID(s.ID); err != nil || got != s {
		t.Errorf("GetByID() = %v, %v", got, err)
	}
	if got, err := g.GetByToken(s.AuthToken); err != nil || got != s {
		t.Errorf("GetByToken() = %v, %v", got, err)
	}
	if got := g.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}

	seen := 0
	g.Range(func(*domain.Session) bool { seen++; return true })
	if seen != 1 {
		t.Errorf("Range visited %d sessions, want 1", seen)
	}

	if err := g.Remove(s.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	g.Close()
}

func TestGuarded_ConcurrentCreateRemove(t *testing.T) {
	const workers = 8
	const perWorker = 50

	g := NewGuarded(New(Config{
		MaxSessionCount:    workers * perWorker,
		MaxSessionLifetime: time.Hour,
		StartSessionID:     1,
	}))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				s, err := g.Create(&fakeChannel{}, 0)
				if err != nil {
					t.Errorf("Create() error = %v", err)
					return
				}
				if err := g.Remove(s.ID); err != nil {
					t.Errorf("Remove(%v) error = %v", s.ID, err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if got := g.Len(); got != 0 {
		t.Errorf("Len() after concurrent churn = %d, want 0", got)
	}
}
