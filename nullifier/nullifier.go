// Copyright 2020-2024 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package nullifier derives deterministic double-spend tokens from a secret
// and a scope, and tracks spent tokens in caller-owned sets.
//
// A nullifier is hash(encode(secret), encode(scope)): unlinkable to the
// secret, deterministic per (secret, scope), and distinct across scopes for
// the same secret by the collision resistance of the oracle.
package nullifier

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkTerm/zkToolkit/field"
	"github.com/zkTerm/zkToolkit/hash"
)

// Nullifier is a deterministic token scoped to a context string.
type Nullifier struct {
	Nullifier fr.Element
	Scope     string
}

// Hex returns the nullifier in canonical hex form.
func (n Nullifier) Hex() string { return field.ToHex(n.Nullifier) }

// VerifyResult reports a recompute-and-compare verification.
type VerifyResult struct {
	Valid             bool
	ExpectedNullifier fr.Element
}

// New derives the nullifier for (secret, scope).
func New(o hash.Oracle, secret, scope string) (Nullifier, error) {
	n, err := o.Hash(field.Encode(secret), field.Encode(scope))
	if err != nil {
		return Nullifier{}, err
	}
	return Nullifier{Nullifier: n, Scope: scope}, nil
}

// Verify recomputes the nullifier for (secret, scope) and compares it, as
// integers, to the claimed hex. Malformed hex verifies false.
func Verify(o hash.Oracle, nullifierHex, secret, scope string) (VerifyResult, error) {
	expected, err := o.Hash(field.Encode(secret), field.Encode(scope))
	if err != nil {
		return VerifyResult{}, err
	}
	res := VerifyResult{ExpectedNullifier: expected}
	claimed, perr := field.FromHex(nullifierHex)
	if perr != nil {
		return res, nil
	}
	res.Valid = expected.Equal(&claimed)
	return res, nil
}

// Batch derives independent per-scope nullifiers for the same secret,
// preserving input order.
func Batch(o hash.Oracle, secret string, scopes []string) ([]Nullifier, error) {
	out := make([]Nullifier, len(scopes))
	for i, scope := range scopes {
		n, err := New(o, secret, scope)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// GenerateSecret returns 32 bytes of cryptographically secure randomness,
// hex-encoded.
func GenerateSecret() (string, error) {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf[:]), nil
}
