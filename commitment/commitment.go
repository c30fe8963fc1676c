// Copyright 2020-2024 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package commitment implements a salted hash commitment scheme: a value is
// hidden behind hash(encode(value), salt) and can later be opened with the
// salt (or the secret the salt was derived from).
//
// Binding reduces to the collision resistance of the hash oracle. Hiding
// depends entirely on salt entropy: a short or reused secret materially
// weakens it.
package commitment

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkTerm/zkToolkit/field"
	"github.com/zkTerm/zkToolkit/hash"
	"github.com/zkTerm/zkToolkit/logger"
)

// secrets shorter than this trigger a debug warning; they are accepted, the
// weakened hiding is the caller's call to make.
const weakSecretBytes = 16

// Scheme commits to values under an injected hash oracle.
type Scheme struct {
	h    hash.Oracle
	rand io.Reader
}

// Option configures a Scheme.
type Option func(*Scheme)

// WithRand overrides the randomness source used for salts. Intended for
// deterministic tests; the default is crypto/rand.
func WithRand(r io.Reader) Option {
	return func(s *Scheme) { s.rand = r }
}

// NewScheme creates a commitment scheme bound to the given oracle.
func NewScheme(o hash.Oracle, opts ...Option) *Scheme {
	s := &Scheme{h: o, rand: rand.Reader}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Commitment is the opening material returned by Commit. Value is kept for
// audit and display only — it is the committed value in the clear, never
// treat it as secret.
type Commitment struct {
	Commitment fr.Element
	Salt       fr.Element
	Value      string
}

// Hex returns the commitment in canonical hex form.
func (c Commitment) Hex() string { return field.ToHex(c.Commitment) }

// SaltHex returns the salt in canonical hex form.
func (c Commitment) SaltHex() string { return field.ToHex(c.Salt) }

// RevealResult reports an opening attempt against a secret phrase.
type RevealResult struct {
	Valid         bool
	RevealedValue string
	Salt          fr.Element
}

// VerifyResult reports an opening attempt against a raw salt.
type VerifyResult struct {
	Valid              bool
	ExpectedCommitment fr.Element
}

// Commit hides value behind a fresh 32-byte random salt.
func (s *Scheme) Commit(value string) (Commitment, error) {
	var buf [fr.Bytes]byte
	if _, err := io.ReadFull(s.rand, buf[:]); err != nil {
		return Commitment{}, err
	}
	var salt fr.Element
	salt.SetBytes(buf[:])
	return s.commit(value, salt)
}

// CommitWithSecret derives the salt deterministically from a secret phrase,
// so the same (value, secret) pair always yields the same commitment and the
// secret alone suffices to reveal it later.
func (s *Scheme) CommitWithSecret(value, secret string) (Commitment, error) {
	if len(secret) < weakSecretBytes {
		log := logger.For("commitment")
		log.Debug().Int("len", len(secret)).Msg("short secret weakens hiding")
	}
	return s.commit(value, deriveSalt(secret))
}

func (s *Scheme) commit(value string, salt fr.Element) (Commitment, error) {
	c, err := s.h.Hash(field.Encode(value), salt)
	if err != nil {
		return Commitment{}, err
	}
	return Commitment{Commitment: c, Salt: salt, Value: value}, nil
}

// Reveal recomputes the commitment for (value, secret) and compares it, as
// integers, to the claimed commitment hex. Mismatches and malformed hex
// return Valid=false; the error is reserved for oracle failure.
func (s *Scheme) Reveal(commitment, value, secret string) (RevealResult, error) {
	salt := deriveSalt(secret)
	expected, err := s.h.Hash(field.Encode(value), salt)
	if err != nil {
		return RevealResult{}, err
	}
	res := RevealResult{RevealedValue: value, Salt: salt}
	claimed, perr := field.FromHex(commitment)
	if perr != nil {
		return res, nil
	}
	res.Valid = expected.Equal(&claimed)
	return res, nil
}

// Verify is the raw-salt variant of Reveal, for salts exchanged out-of-band
// rather than derived from a passphrase.
func (s *Scheme) Verify(commitment, value string, salt fr.Element) (VerifyResult, error) {
	expected, err := s.h.Hash(field.Encode(value), salt)
	if err != nil {
		return VerifyResult{}, err
	}
	res := VerifyResult{ExpectedCommitment: expected}
	claimed, perr := field.FromHex(commitment)
	if perr != nil {
		return res, nil
	}
	res.Valid = expected.Equal(&claimed)
	return res, nil
}

// deriveSalt hex-encodes the secret and right-pads (or truncates) it to the
// element hex width before parsing, matching the wire-level salt derivation
// used by every implementation of this scheme.
func deriveSalt(secret string) fr.Element {
	h := hex.EncodeToString([]byte(secret))
	if len(h) > 2*fr.Bytes {
		h = h[:2*fr.Bytes]
	} else {
		h += strings.Repeat("0", 2*fr.Bytes-len(h))
	}
	salt, _ := field.FromHex("0x" + h)
	return salt
}
