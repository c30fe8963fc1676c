// Copyright 2020-2024 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package rangeproof proves that a committed value lies in [min, max] by
// committing to each bit of the normalized value individually.
//
// This is a bit-commitment scheme, not a succinct range proof: the bits are
// public and only the value commitment hides the value. Each bit commitment
// binds its position — hash(bit, salt, i) — so bits cannot be reordered, and
// the aggregate value commitment binds the reconstruction, so consistent bit
// commitments cannot be presented for a different value.
package rangeproof

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkTerm/zkToolkit/field"
	"github.com/zkTerm/zkToolkit/hash"
)

// DefaultUpperBound is the ceiling used by ProveGreaterThan when no explicit
// bound is configured. 2^32 is carried over from the original 32-bit
// decomposition scheme; the decomposition itself is arbitrary-precision, so
// callers proving larger ranges raise it with WithUpperBound.
var DefaultUpperBound = new(big.Int).Lsh(big.NewInt(1), 32)

// Engine proves and verifies range statements under an injected hash oracle.
type Engine struct {
	h          hash.Oracle
	rand       io.Reader
	upperBound *big.Int
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand overrides the randomness source used for salts.
func WithRand(r io.Reader) Option {
	return func(e *Engine) { e.rand = r }
}

// WithUpperBound sets the ceiling used by ProveGreaterThan.
func WithUpperBound(bound *big.Int) Option {
	return func(e *Engine) { e.upperBound = new(big.Int).Set(bound) }
}

// NewEngine creates a range-proof engine bound to the given oracle.
func NewEngine(o hash.Oracle, opts ...Option) *Engine {
	e := &Engine{h: o, rand: rand.Reader, upperBound: DefaultUpperBound}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Proof is a bit-commitment range proof. When Valid is false no proof was
// constructed (the value was outside [Min, Max]) and the arrays are empty.
type Proof struct {
	ValueCommitment fr.Element
	Min             *big.Int
	Max             *big.Int
	Bits            []uint8
	BitCommitments  []fr.Element
	Salt            fr.Element
	Valid           bool
}

// Result reports the three verification checks individually. Checks
// short-circuit: a failed check leaves the later ones false.
type Result struct {
	Valid            bool
	BitsValid        bool
	InRange          bool
	CommitmentsValid bool
	Reconstructed    *big.Int
}

// Prove decomposes value-min into ceil(log2(max-min+1)) bits, each committed
// with its position bound in, plus an aggregate commitment to the value
// itself. A value outside [min, max] is a legitimate outcome, not an error:
// the returned proof carries Valid=false and empty arrays.
func (e *Engine) Prove(value, min, max *big.Int) (Proof, error) {
	if value == nil || min == nil || max == nil {
		return Proof{}, nil
	}
	out := Proof{Min: new(big.Int).Set(min), Max: new(big.Int).Set(max)}
	if value.Cmp(min) < 0 || value.Cmp(max) > 0 {
		return out, nil
	}

	rangeSize := new(big.Int).Sub(max, min)
	bitWidth := rangeSize.BitLen()
	if bitWidth == 0 {
		bitWidth = 1
	}
	normalized := new(big.Int).Sub(value, min)

	var buf [fr.Bytes]byte
	if _, err := io.ReadFull(e.rand, buf[:]); err != nil {
		return Proof{}, err
	}
	var salt fr.Element
	salt.SetBytes(buf[:])

	valueCommitment, err := e.h.Hash(field.FromBigInt(value), salt)
	if err != nil {
		return Proof{}, err
	}

	bits := bitset.New(uint(bitWidth))
	for i := 0; i < bitWidth; i++ {
		if normalized.Bit(i) == 1 {
			bits.Set(uint(i))
		}
	}

	out.Bits = make([]uint8, bitWidth)
	out.BitCommitments = make([]fr.Element, bitWidth)
	for i := 0; i < bitWidth; i++ {
		var b uint8
		if bits.Test(uint(i)) {
			b = 1
		}
		out.Bits[i] = b
		c, err := e.h.Hash(field.FromInt(b), salt, field.FromInt(i))
		if err != nil {
			return Proof{}, err
		}
		out.BitCommitments[i] = c
	}

	out.ValueCommitment = valueCommitment
	out.Salt = salt
	out.Valid = true
	return out, nil
}

// Verify runs three checks, failing fast: (a) every bit is 0 or 1, (b) the
// bits reconstruct to a value inside [Min, Max], (c) every bit commitment
// and the value commitment recompute. Valid is their conjunction. Malformed
// proofs verify false; the error return is reserved for oracle failure.
func (e *Engine) Verify(p Proof) (Result, error) {
	var res Result
	if p.Min == nil || p.Max == nil || len(p.Bits) == 0 || len(p.Bits) != len(p.BitCommitments) {
		return res, nil
	}

	bits := bitset.New(uint(len(p.Bits)))
	for i, b := range p.Bits {
		if b > 1 {
			return res, nil
		}
		if b == 1 {
			bits.Set(uint(i))
		}
	}
	res.BitsValid = true

	reconstructed := new(big.Int)
	for i, ok := bits.NextSet(0); ok; i, ok = bits.NextSet(i + 1) {
		reconstructed.SetBit(reconstructed, int(i), 1)
	}
	reconstructed.Add(reconstructed, p.Min)
	res.Reconstructed = reconstructed
	if reconstructed.Cmp(p.Min) < 0 || reconstructed.Cmp(p.Max) > 0 {
		return res, nil
	}
	res.InRange = true

	for i, b := range p.Bits {
		c, err := e.h.Hash(field.FromInt(b), p.Salt, field.FromInt(i))
		if err != nil {
			return res, err
		}
		if !c.Equal(&p.BitCommitments[i]) {
			return res, nil
		}
	}
	vc, err := e.h.Hash(field.FromBigInt(reconstructed), p.Salt)
	if err != nil {
		return res, err
	}
	if !vc.Equal(&p.ValueCommitment) {
		return res, nil
	}
	res.CommitmentsValid = true

	res.Valid = true
	return res, nil
}

// ProveGreaterThan proves value > threshold, i.e. value in
// [threshold+1, upperBound].
func (e *Engine) ProveGreaterThan(value, threshold *big.Int) (Proof, error) {
	min := new(big.Int).Add(threshold, big.NewInt(1))
	return e.Prove(value, min, e.upperBound)
}

// ProveLessThan proves value < threshold, i.e. value in [0, threshold-1].
func (e *Engine) ProveLessThan(value, threshold *big.Int) (Proof, error) {
	max := new(big.Int).Sub(threshold, big.NewInt(1))
	return e.Prove(value, big.NewInt(0), max)
}
