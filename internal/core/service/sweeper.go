package service

import (
	"context"
	"time"

	"github.com/yndnr/sessgate-go/internal/core/domain"
	"github.com/yndnr/sessgate-go/internal/telemetry/logger"
	"github.com/yndnr/sessgate-go/pkg/ident"
)

// GC performs one expiration sweep: every session whose deadline has
// passed is removed, which detaches its channel back-reference the
// same way an explicit close does. Returns the number of sessions
// reclaimed.
func (s *SessionService) GC(_ context.Context) (int, error) {
	start := time.Now()

	var expired []ident.ID
	s.table.Range(func(sess *domain.Session) bool {
		if sess.IsExpired(start) {
			expired = append(expired, sess.ID)
		}
		return true
	})

	reclaimed := 0
	for _, id := range expired {
		if err := s.table.Remove(id); err != nil {
			// Gone already, e.g. closed between scan and remove.
			if domain.IsDomainError(err, domain.ErrSessionNotFound.Code) {
				continue
			}
			return reclaimed, err
		}
		reclaimed++
	}

	if s.metrics != nil {
		s.metrics.SessionsExpired.Add(float64(reclaimed))
		s.metrics.SweepDuration.Observe(time.Since(start).Seconds())
	}
	return reclaimed, nil
}

// Sweeper runs the periodic expiration sweep.
type Sweeper struct {
	svc      *SessionService
	interval time.Duration
	log      logger.Logger
}

// NewSweeper creates a sweeper driving svc.GC every interval.
func NewSweeper(svc *SessionService, interval time.Duration) *Sweeper {
	return &Sweeper{
		svc:      svc,
		interval: interval,
		log:      logger.Default(),
	}
}

// Run blocks, sweeping until the context is cancelled.
func (w *Sweeper) Run(ctx context.Context) error {
	w.log.Info("expiration sweeper started", "interval", w.interval.String())

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("expiration sweeper stopped")
			return nil
		case <-ticker.C:
			n, err := w.svc.GC(ctx)
			if err != nil {
				w.log.Error("expiration sweep failed", "error", err)
				continue
			}
			if n > 0 {
				w.log.Info("reclaimed expired sessions", "count", n)
			}
		}
	}
}
