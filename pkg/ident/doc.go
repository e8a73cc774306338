// Package ident provides namespace-qualified numeric identifiers.
//
// Identifiers of this shape name sessions and authentication tokens on
// the wire: a small namespace index plus a numeric value, compared by
// exact structural equality. The package has no dependencies and is
// safe to use from any layer.
package ident
