// Package service provides domain services for SessGate.
//
// SessionService fronts the session table for the request dispatch,
// connection-close and cleanup collaborators: creation with admission
// control and an optional rate guard, lookup by identifier or by
// authentication token, activity renewal, explicit close, and the
// periodic expiration sweep.
package service
