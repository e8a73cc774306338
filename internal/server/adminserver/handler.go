// Package adminserver provides the administrative HTTP server for SessGate.
package adminserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/yndnr/sessgate-go/internal/core/domain"
	"github.com/yndnr/sessgate-go/internal/core/service"
	"github.com/yndnr/sessgate-go/internal/infra/buildinfo"
	"github.com/yndnr/sessgate-go/internal/telemetry/logger"
	"github.com/yndnr/sessgate-go/internal/telemetry/metric"
	"github.com/yndnr/sessgate-go/pkg/ident"
)

// HandlerConfig holds the dependencies of the admin handler.
type HandlerConfig struct {
	// SessionService handles session operations.
	SessionService *service.SessionService

	// MaxSessions is the configured table capacity, reported by /status.
	MaxSessions int

	// Metrics serves the /metrics endpoint. Optional.
	Metrics *metric.Metrics

	// Logger for request logging.
	Logger logger.Logger
}

// Handler is the admin HTTP handler that routes requests to appropriate handlers.
type Handler struct {
	svc         *service.SessionService
	maxSessions int
	metrics     *metric.Metrics
	log         logger.Logger
	startedAt   time.Time
	mux         *http.ServeMux
}

// NewHandler creates the admin handler with all routes registered.
func NewHandler(cfg *HandlerConfig) *Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	h := &Handler{
		svc:         cfg.SessionService,
		maxSessions: cfg.MaxSessions,
		metrics:     cfg.Metrics,
		log:         log,
		startedAt:   time.Now(),
		mux:         http.NewServeMux(),
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	Chain(h.mux, RequestID(), Recover(h.log)).ServeHTTP(w, r)
}

// registerRoutes registers all HTTP routes.
func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /ready", h.handleReady)
	h.mux.HandleFunc("GET /status", h.handleStatus)

	h.mux.HandleFunc("GET /sessions", h.handleListSessions)
	h.mux.HandleFunc("GET /sessions/{id}", h.handleGetSession)
	h.mux.HandleFunc("POST /sessions/{id}/close", h.handleCloseSession)

	h.mux.HandleFunc("POST /gc/trigger", h.handleGCTrigger)

	if h.metrics != nil {
		h.mux.Handle("GET /metrics", h.metrics.Handler())
	}
}

// handleHealth handles GET /health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReady handles GET /ready.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleStatus handles GET /status.
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, &StatusResponse{
		ActiveSessions: h.svc.Len(),
		MaxSessions:    h.maxSessions,
		UptimeSeconds:  int64(time.Since(h.startedAt).Seconds()),
		Build:          buildinfo.Get(),
	})
}

// handleListSessions handles GET /sessions.
func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	items := h.svc.Snapshot()
	h.writeJSON(w, r, http.StatusOK, &ListSessionsResponse{
		Items: items,
		Total: len(items),
	})
}

// handleGetSession handles GET /sessions/{id}.
func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, err := ident.Parse(r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrInvalidArgument.Code, err.Error(), nil)
		return
	}

	sess, err := h.svc.Get(r.Context(), &service.GetSessionRequest{SessionID: id})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, service.SessionInfo{
		SessionID:  sess.ID.String(),
		CreatedAt:  sess.CreatedAt,
		LastActive: sess.LastActive,
		ExpiresAt:  sess.ExpiresAt,
		Timeout:    sess.Timeout,
		Bound:      sess.Channel != nil,
	})
}

// handleCloseSession handles POST /sessions/{id}/close.
func (h *Handler) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	id, err := ident.Parse(r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrInvalidArgument.Code, err.Error(), nil)
		return
	}

	if err := h.svc.Close(r.Context(), &service.CloseSessionRequest{SessionID: id}); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]string{"closed": id.String()})
}

// handleGCTrigger handles POST /gc/trigger.
func (h *Handler) handleGCTrigger(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.GC(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, &GCTriggerResponse{Reclaimed: n})
}

// writeJSON writes a JSON response with standard envelope format.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := logger.RequestIDFromContext(r.Context())
	response := NewResponse(requestID, data)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error("failed to encode response", "error", err)
	}
}

// writeError writes an error response with standard envelope format.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	requestID := logger.RequestIDFromContext(r.Context())
	response := NewErrorResponse(requestID, code, message, details)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// handleServiceError converts service errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if domain.IsDomainError(err, "") {
		code := domain.GetErrorCode(err)
		status := errorCodeToHTTPStatus(code)
		h.writeError(w, r, status, code, err.Error(), nil)
		return
	}

	h.log.Error("internal error", "error", err)
	h.writeError(w, r, http.StatusInternalServerError, domain.ErrInternalServer.Code, "internal server error", nil)
}

// errorCodeToHTTPStatus maps error codes to HTTP status codes.
func errorCodeToHTTPStatus(code string) int {
	switch {
	case strings.HasSuffix(code, "-4040"), strings.HasSuffix(code, "-4041"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "-4290"):
		return http.StatusTooManyRequests
	case strings.HasPrefix(code, "SG-ARG-"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
