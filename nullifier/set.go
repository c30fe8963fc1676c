// Copyright 2020-2024 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package nullifier

import (
	"strings"

	"github.com/zkTerm/zkToolkit/field"
)

// Set tracks spent nullifiers for one scope. It is the only mutable resource
// in the core and is not internally synchronized: concurrent writers must be
// serialized by the caller.
//
// Membership keys are canonical hex — parse-to-integer then re-encode — so
// case and padding differences cannot cause a double spend to slip through.
type Set struct {
	scope   string
	members map[string]struct{}
}

// NewSet creates an empty set. The scope is informational; it is not
// enforced against added nullifiers.
func NewSet(scope string) *Set {
	return &Set{scope: scope, members: make(map[string]struct{})}
}

// Add inserts a nullifier and reports whether it was new. A false return is
// the double-spend signal: the set is left unchanged and the caller must
// not discard the result.
func (s *Set) Add(nullifierHex string) bool {
	key := normalize(nullifierHex)
	if _, ok := s.members[key]; ok {
		return false
	}
	s.members[key] = struct{}{}
	return true
}

// Contains reports membership without mutating the set.
func (s *Set) Contains(nullifierHex string) bool {
	_, ok := s.members[normalize(nullifierHex)]
	return ok
}

// Len returns the number of tracked nullifiers.
func (s *Set) Len() int { return len(s.members) }

// Scope returns the context string the set was created for.
func (s *Set) Scope() string { return s.scope }

// normalize maps a nullifier string to its canonical form. Unparsable input
// falls back to plain lowercasing so membership checks on garbage still
// fail closed instead of erroring.
func normalize(s string) string {
	if canonical, err := field.Normalize(s); err == nil {
		return canonical
	}
	return strings.ToLower(s)
}
