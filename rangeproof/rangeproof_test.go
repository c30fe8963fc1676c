// Copyright 2020-2024 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package rangeproof

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/zkTerm/zkToolkit/hash"
)

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	o, err := hash.MIMC_BN254.New()
	require.NoError(t, err)
	return NewEngine(o, opts...)
}

func TestProveInRange(t *testing.T) {
	assert := require.New(t)
	e := newEngine(t)

	proof, err := e.Prove(big.NewInt(25), big.NewInt(18), big.NewInt(100))
	assert.NoError(err)
	assert.True(proof.Valid)
	// range size 82 decomposes into 7 bits
	assert.Len(proof.Bits, 7)
	assert.Len(proof.BitCommitments, 7)

	res, err := e.Verify(proof)
	assert.NoError(err)
	assert.True(res.BitsValid)
	assert.True(res.InRange)
	assert.True(res.CommitmentsValid)
	assert.True(res.Valid)
	assert.Zero(res.Reconstructed.Cmp(big.NewInt(25)), "bits must reconstruct the proven value")
}

func TestProveOutOfRange(t *testing.T) {
	assert := require.New(t)
	e := newEngine(t)

	proof, err := e.Prove(big.NewInt(15), big.NewInt(18), big.NewInt(100))
	assert.NoError(err, "an out-of-range value is a legitimate outcome, not an error")
	assert.False(proof.Valid)
	assert.Empty(proof.Bits)
	assert.Empty(proof.BitCommitments)

	res, err := e.Verify(proof)
	assert.NoError(err)
	assert.False(res.Valid)
}

func TestDegenerateRange(t *testing.T) {
	assert := require.New(t)
	e := newEngine(t)

	proof, err := e.Prove(big.NewInt(5), big.NewInt(5), big.NewInt(5))
	assert.NoError(err)
	assert.True(proof.Valid)
	assert.Len(proof.Bits, 1, "an empty range still carries one bit")

	res, err := e.Verify(proof)
	assert.NoError(err)
	assert.True(res.Valid)
	assert.Zero(res.Reconstructed.Cmp(big.NewInt(5)))
}

func TestVerifyChecksShortCircuit(t *testing.T) {
	assert := require.New(t)
	e := newEngine(t)

	base, err := e.Prove(big.NewInt(25), big.NewInt(18), big.NewInt(100))
	assert.NoError(err)

	// (a) non-boolean bit
	p := clone(base)
	p.Bits[0] = 2
	res, err := e.Verify(p)
	assert.NoError(err)
	assert.False(res.BitsValid)
	assert.False(res.Valid)

	// (c) flipped bit: reconstruction changes, its commitment no longer matches
	p = clone(base)
	p.Bits[0] ^= 1
	res, err = e.Verify(p)
	assert.NoError(err)
	assert.True(res.BitsValid)
	assert.False(res.CommitmentsValid)
	assert.False(res.Valid)

	// (b) bits reconstructing outside the range
	p = clone(base)
	for i := range p.Bits {
		p.Bits[i] = 1
	}
	res, err = e.Verify(p)
	assert.NoError(err)
	assert.True(res.BitsValid)
	assert.False(res.InRange, "all-ones reconstructs 127+18 > 100")
	assert.False(res.Valid)

	// (c) tampered salt
	p = clone(base)
	p.Salt.SetUint64(1234)
	res, err = e.Verify(p)
	assert.NoError(err)
	assert.False(res.CommitmentsValid)
	assert.False(res.Valid)

	// malformed shapes fail closed
	p = clone(base)
	p.BitCommitments = p.BitCommitments[:3]
	res, err = e.Verify(p)
	assert.NoError(err)
	assert.False(res.Valid)
}

func TestThresholdProofs(t *testing.T) {
	assert := require.New(t)
	e := newEngine(t)

	gt, err := e.ProveGreaterThan(big.NewInt(100), big.NewInt(18))
	assert.NoError(err)
	assert.True(gt.Valid)
	assert.Zero(gt.Min.Cmp(big.NewInt(19)))
	assert.Zero(gt.Max.Cmp(DefaultUpperBound))
	res, err := e.Verify(gt)
	assert.NoError(err)
	assert.True(res.Valid)

	// equality is not greater-than
	eq, err := e.ProveGreaterThan(big.NewInt(18), big.NewInt(18))
	assert.NoError(err)
	assert.False(eq.Valid)

	lt, err := e.ProveLessThan(big.NewInt(5), big.NewInt(18))
	assert.NoError(err)
	assert.True(lt.Valid)
	assert.Zero(lt.Max.Cmp(big.NewInt(17)))
	res, err = e.Verify(lt)
	assert.NoError(err)
	assert.True(res.Valid)
}

func TestUpperBoundIsExplicit(t *testing.T) {
	assert := require.New(t)

	// beyond the default 2^32 ceiling the proof fails closed...
	e := newEngine(t)
	big40 := new(big.Int).Lsh(big.NewInt(1), 40)
	proof, err := e.ProveGreaterThan(big40, big.NewInt(100))
	assert.NoError(err)
	assert.False(proof.Valid)

	// ...and a raised ceiling admits the same value
	wide := newEngine(t, WithUpperBound(new(big.Int).Lsh(big.NewInt(1), 64)))
	proof, err = wide.ProveGreaterThan(big40, big.NewInt(100))
	assert.NoError(err)
	assert.True(proof.Valid)
	res, err := wide.Verify(proof)
	assert.NoError(err)
	assert.True(res.Valid)
}

func TestProofCBORRoundTrip(t *testing.T) {
	assert := require.New(t)
	e := newEngine(t)

	proof, err := e.Prove(big.NewInt(25), big.NewInt(18), big.NewInt(100))
	assert.NoError(err)

	data, err := proof.MarshalCBOR()
	assert.NoError(err)

	var back Proof
	assert.NoError(back.UnmarshalCBOR(data))

	bigIntCmp := cmp.Comparer(func(a, b *big.Int) bool {
		if a == nil || b == nil {
			return a == b
		}
		return a.Cmp(b) == 0
	})
	assert.Empty(cmp.Diff(proof, back, bigIntCmp))

	res, err := e.Verify(back)
	assert.NoError(err)
	assert.True(res.Valid, "a deserialized proof must still verify")
}

func TestRangeRoundTripProperty(t *testing.T) {
	e := newEngine(t)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)
	properties.Property("prove/verify round-trips for any value in range", prop.ForAll(
		func(value, a, b uint32) bool {
			min, max := int64(a), int64(b)
			if min > max {
				min, max = max, min
			}
			v := min + int64(value)%(max-min+1)
			proof, err := e.Prove(big.NewInt(v), big.NewInt(min), big.NewInt(max))
			if err != nil || !proof.Valid {
				return false
			}
			res, err := e.Verify(proof)
			return err == nil && res.Valid && res.Reconstructed.Cmp(big.NewInt(v)) == 0
		},
		gen.UInt32(),
		gen.UInt32(),
		gen.UInt32(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func clone(p Proof) Proof {
	out := p
	out.Bits = append([]uint8(nil), p.Bits...)
	out.BitCommitments = append([]fr.Element(nil), p.BitCommitments...)
	out.Min = new(big.Int).Set(p.Min)
	out.Max = new(big.Int).Set(p.Max)
	return out
}
