package ident

import (
	"fmt"
	"strconv"
	"strings"
)

// ID is a namespace-qualified numeric identifier.
//
// The zero value means "no identity" and never names a live session or
// token. Two IDs are equal exactly when both fields are equal; there is
// no prefix or namespace-only matching.
type ID struct {
	// Namespace is the namespace index the numeric value belongs to.
	Namespace uint16

	// Numeric is the identifier value within the namespace.
	Numeric uint32
}

// Numeric returns an ID in the given namespace.
func Numeric(namespace uint16, value uint32) ID {
	return ID{Namespace: namespace, Numeric: value}
}

// IsZero reports whether the ID is the zero "no identity" value.
func (id ID) IsZero() bool {
	return id == ID{}
}

// String formats the ID as "ns=<namespace>;i=<numeric>".
func (id ID) String() string {
	return fmt.Sprintf("ns=%d;i=%d", id.Namespace, id.Numeric)
}

// Parse parses the textual form produced by String.
func Parse(s string) (ID, error) {
	nsPart, numPart, ok := strings.Cut(s, ";")
	if !ok {
		return ID{}, fmt.Errorf("ident: malformed id %q", s)
	}

	nsStr, hasNS := strings.CutPrefix(nsPart, "ns=")
	numStr, hasNum := strings.CutPrefix(numPart, "i=")
	if !hasNS || !hasNum {
		return ID{}, fmt.Errorf("ident: malformed id %q", s)
	}

	ns, err := strconv.ParseUint(nsStr, 10, 16)
	if err != nil {
		return ID{}, fmt.Errorf("ident: bad namespace in %q: %w", s, err)
	}
	num, err := strconv.ParseUint(numStr, 10, 32)
	if err != nil {
		return ID{}, fmt.Errorf("ident: bad numeric value in %q: %w", s, err)
	}

	return ID{Namespace: uint16(ns), Numeric: uint32(num)}, nil
}
