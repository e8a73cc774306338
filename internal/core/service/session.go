package service

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/sessgate-go/internal/core/domain"
	"github.com/yndnr/sessgate-go/internal/core/registry"
	"github.com/yndnr/sessgate-go/internal/telemetry/logger"
	"github.com/yndnr/sessgate-go/internal/telemetry/metric"
	"github.com/yndnr/sessgate-go/pkg/ident"
)

// BindableChannel is a transport channel whose forward session
// reference can be set. Binding happens here, in the same step as
// creation, so the channel/session reference pair is never observable
// half-set.
type BindableChannel interface {
	domain.Channel

	// BindSession points the channel's session slot at s.
	BindSession(s *domain.Session)
}

// SessionService handles session lifecycle operations on top of the
// session table. It works against the registry.Table interface, so the
// unsynchronized table and the mutex-guarded one are interchangeable.
type SessionService struct {
	table   registry.Table
	limiter *rate.Limiter
	metrics *metric.Metrics
	log     logger.Logger
}

// Option configures the SessionService.
type Option func(*SessionService)

// WithCreateRateLimit guards session creation with a token bucket.
// Creations beyond the sustained rate r (with the given burst) fail
// with ErrRateLimited before reaching the table.
func WithCreateRateLimit(r rate.Limit, burst int) Option {
	return func(s *SessionService) {
		s.limiter = rate.NewLimiter(r, burst)
	}
}

// WithMetrics attaches lifecycle metrics.
func WithMetrics(m *metric.Metrics) Option {
	return func(s *SessionService) {
		s.metrics = m
	}
}

// WithLogger sets the service logger.
func WithLogger(l logger.Logger) Option {
	return func(s *SessionService) {
		s.log = l
	}
}

// NewSessionService creates a SessionService over the given table.
func NewSessionService(table registry.Table, opts ...Option) *SessionService {
	s := &SessionService{
		table: table,
		log:   logger.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ============================================================================
// Session Create Operation
// ============================================================================

// CreateSessionRequest contains parameters for session creation.
type CreateSessionRequest struct {
	// Channel is the transport channel the session is created on.
	Channel BindableChannel

	// RequestedTimeout is the client-requested session lifetime. Zero
	// or out-of-range values fall back to the configured maximum.
	RequestedTimeout time.Duration
}

// CreateSessionResponse contains the result of session creation.
type CreateSessionResponse struct {
	SessionID      ident.ID
	AuthToken      ident.ID
	RevisedTimeout time.Duration // The effective, clamped lifetime
	ExpiresAt      time.Time
	Session        *domain.Session
}

// Create creates a new session bound to the request's channel.
func (s *SessionService) Create(ctx context.Context, req *CreateSessionRequest) (*CreateSessionResponse, error) {
	// 1. Validate required fields
	if req.Channel == nil {
		return nil, domain.ErrMissingArgument.WithDetails("channel is required")
	}

	// 2. Rate guard, ahead of the table's admission control
	if s.limiter != nil && !s.limiter.Allow() {
		s.rejected(metric.ReasonRateLimited)
		return nil, domain.ErrRateLimited.WithDetails("session creation rate exceeded")
	}

	// 3. Admit into the table
	sess, err := s.table.Create(req.Channel, req.RequestedTimeout)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrTooManySessions.Code) {
			s.rejected(metric.ReasonCapacity)
		}
		return nil, err
	}

	// 4. Set the channel's forward reference; the table already holds
	// the back-reference, so the pair is consistent from here on.
	req.Channel.BindSession(sess)

	if s.metrics != nil {
		s.metrics.SessionsCreated.Inc()
	}
	logger.L(ctx).Debug("session created",
		"session_id", sess.ID.String(),
		"timeout", sess.Timeout.String(),
	)

	// 5. Return the issued identifiers and the revised lifetime
	return &CreateSessionResponse{
		SessionID:      sess.ID,
		AuthToken:      sess.AuthToken,
		RevisedTimeout: sess.Timeout,
		ExpiresAt:      sess.ExpiresAt,
		Session:        sess,
	}, nil
}

// ============================================================================
// Session Query Operations
// ============================================================================

// GetSessionRequest contains parameters for session retrieval.
type GetSessionRequest struct {
	SessionID ident.ID
}

// Get retrieves a session by identifier. Expired-but-unswept sessions
// are still returned; expiry enforcement belongs to the sweep.
func (s *SessionService) Get(_ context.Context, req *GetSessionRequest) (*domain.Session, error) {
	return s.table.GetByID(req.SessionID)
}

// AuthorizeRequest contains parameters for token-based authorization.
type AuthorizeRequest struct {
	AuthToken ident.ID
}

// Authorize resolves an incoming authentication token to its session.
// Used for requests that carry a token instead of (or in addition to)
// a session identifier.
func (s *SessionService) Authorize(_ context.Context, req *AuthorizeRequest) (*domain.Session, error) {
	return s.table.GetByToken(req.AuthToken)
}

// ============================================================================
// Session Lifecycle Operations
// ============================================================================

// RenewSessionRequest contains parameters for activity renewal.
type RenewSessionRequest struct {
	SessionID ident.ID
}

// RenewSessionResponse contains the result of activity renewal.
type RenewSessionResponse struct {
	ExpiresAt time.Time
}

// Renew records activity on a session and pushes its deadline out by
// the effective timeout.
func (s *SessionService) Renew(_ context.Context, req *RenewSessionRequest) (*RenewSessionResponse, error) {
	sess, err := s.table.GetByID(req.SessionID)
	if err != nil {
		return nil, err
	}

	sess.Touch(time.Now())
	return &RenewSessionResponse{ExpiresAt: sess.ExpiresAt}, nil
}

// CloseSessionRequest contains parameters for explicit removal.
type CloseSessionRequest struct {
	SessionID ident.ID
}

// Close removes a session explicitly: the channel back-reference is
// detached and the record is released. Closing an unknown or
// already-closed session fails with ErrSessionNotFound.
func (s *SessionService) Close(ctx context.Context, req *CloseSessionRequest) error {
	if err := s.table.Remove(req.SessionID); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.SessionsClosed.Inc()
	}
	logger.L(ctx).Debug("session closed", "session_id", req.SessionID.String())
	return nil
}

// Shutdown tears down every live session. Run once at server shutdown.
func (s *SessionService) Shutdown() {
	n := s.table.Len()
	s.table.Close()
	if n > 0 {
		s.log.Info("session table torn down", "sessions", n)
	}
}

// Len returns the live session count.
func (s *SessionService) Len() int {
	return s.table.Len()
}

// Snapshot returns a point-in-time view of the live sessions for
// diagnostics. Auth tokens are deliberately not part of the view.
func (s *SessionService) Snapshot() []SessionInfo {
	infos := make([]SessionInfo, 0, s.table.Len())
	s.table.Range(func(sess *domain.Session) bool {
		infos = append(infos, SessionInfo{
			SessionID:  sess.ID.String(),
			CreatedAt:  sess.CreatedAt,
			LastActive: sess.LastActive,
			ExpiresAt:  sess.ExpiresAt,
			Timeout:    sess.Timeout,
			Bound:      sess.Channel != nil,
		})
		return true
	})
	return infos
}

// SessionInfo is a diagnostic summary of one live session.
type SessionInfo struct {
	SessionID  string        `json:"session_id"`
	CreatedAt  time.Time     `json:"created_at"`
	LastActive time.Time     `json:"last_active"`
	ExpiresAt  time.Time     `json:"expires_at"`
	Timeout    time.Duration `json:"timeout"`
	Bound      bool          `json:"bound"`
}

func (s *SessionService) rejected(reason string) {
	if s.metrics != nil {
		s.metrics.SessionsRejected.WithLabelValues(reason).Inc()
	}
}
