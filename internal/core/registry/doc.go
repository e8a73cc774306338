// Package registry implements the session table for SessGate.
//
// The table is the sole owner and sole mutator of the live session
// collection. It enforces the capacity bound on creation, issues
// session identifiers and authentication tokens from one monotonic
// counter, and severs the channel back-reference before a session is
// released on any removal path.
//
// Registry performs no internal locking: every operation assumes
// exclusive, non-reentrant access. Callers that need concurrent access
// must layer serialization on top; Guarded provides the standard
// variant with one table-wide mutex. Both satisfy Table, so callers
// are written against the interface and the concurrency strategy can
// be swapped without touching them.
package registry
