// Copyright 2020-2024 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package nullifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zkTerm/zkToolkit/hash"
)

func newOracle(t *testing.T) hash.Oracle {
	t.Helper()
	o, err := hash.MIMC_BN254.New()
	require.NoError(t, err)
	return o
}

func TestDeterminism(t *testing.T) {
	assert := require.New(t)
	o := newOracle(t)

	a, err := New(o, "my-secret", "vote:2024-q3")
	assert.NoError(err)
	b, err := New(o, "my-secret", "vote:2024-q3")
	assert.NoError(err)
	assert.True(a.Nullifier.Equal(&b.Nullifier))
	assert.Equal(a.Hex(), b.Hex())
	assert.Equal("vote:2024-q3", a.Scope)
}

func TestScopeSeparation(t *testing.T) {
	assert := require.New(t)
	o := newOracle(t)

	q3, err := New(o, "my-secret", "vote:2024-q3")
	assert.NoError(err)
	q4, err := New(o, "my-secret", "vote:2024-q4")
	assert.NoError(err)
	assert.False(q3.Nullifier.Equal(&q4.Nullifier), "same secret must yield distinct nullifiers per scope")

	other, err := New(o, "other-secret", "vote:2024-q3")
	assert.NoError(err)
	assert.False(q3.Nullifier.Equal(&other.Nullifier))
}

func TestVerify(t *testing.T) {
	assert := require.New(t)
	o := newOracle(t)

	n, err := New(o, "my-secret", "airdrop")
	assert.NoError(err)

	res, err := Verify(o, n.Hex(), "my-secret", "airdrop")
	assert.NoError(err)
	assert.True(res.Valid)
	assert.True(res.ExpectedNullifier.Equal(&n.Nullifier))

	res, err = Verify(o, n.Hex(), "wrong-secret", "airdrop")
	assert.NoError(err)
	assert.False(res.Valid)

	res, err = Verify(o, n.Hex(), "my-secret", "faucet")
	assert.NoError(err)
	assert.False(res.Valid)

	// case and padding differences are equal as integers
	res, err = Verify(o, strings.ToUpper(n.Hex()), "my-secret", "airdrop")
	assert.NoError(err)
	assert.True(res.Valid)

	// malformed hex verifies false, never errors
	res, err = Verify(o, "0xNOTHEX", "my-secret", "airdrop")
	assert.NoError(err)
	assert.False(res.Valid)
}

func TestBatch(t *testing.T) {
	assert := require.New(t)
	o := newOracle(t)

	scopes := []string{"vote:a", "vote:b", "vote:c"}
	batch, err := Batch(o, "my-secret", scopes)
	assert.NoError(err)
	assert.Len(batch, len(scopes))

	seen := make(map[string]struct{})
	for i, n := range batch {
		assert.Equal(scopes[i], n.Scope, "batch must preserve input order")
		single, err := New(o, "my-secret", scopes[i])
		assert.NoError(err)
		assert.True(n.Nullifier.Equal(&single.Nullifier))
		seen[n.Hex()] = struct{}{}
	}
	assert.Len(seen, len(scopes), "batch nullifiers must be pairwise distinct")
}

func TestSetDoubleSpend(t *testing.T) {
	assert := require.New(t)
	o := newOracle(t)

	n, err := New(o, "my-secret", "vote:2024-q3")
	assert.NoError(err)

	set := NewSet("vote:2024-q3")
	assert.Equal("vote:2024-q3", set.Scope())
	assert.False(set.Contains(n.Hex()))

	assert.True(set.Add(n.Hex()), "first spend is accepted")
	assert.False(set.Add(n.Hex()), "second spend is the double-spend signal")
	assert.Equal(1, set.Len())
	assert.True(set.Contains(n.Hex()))
}

func TestSetNormalizesMembership(t *testing.T) {
	assert := require.New(t)
	o := newOracle(t)

	n, err := New(o, "my-secret", "vote:2024-q3")
	assert.NoError(err)
	canonical := n.Hex()

	set := NewSet("vote:2024-q3")
	assert.True(set.Add(canonical))

	// uppercase, no prefix, and stripped leading zeros all hit the same entry
	upper := "0x" + strings.ToUpper(canonical[2:])
	assert.True(set.Contains(upper))
	assert.False(set.Add(upper))

	bare := strings.TrimLeft(canonical[2:], "0")
	assert.True(set.Contains(bare))
	assert.False(set.Add(bare))

	assert.Equal(1, set.Len())
}

func TestSetContainsIsPure(t *testing.T) {
	assert := require.New(t)
	set := NewSet("airdrop")
	assert.False(set.Contains("0x01"))
	assert.Equal(0, set.Len(), "Contains must not insert")
	assert.True(set.Add("0x01"))
	assert.Equal(1, set.Len())
}

func TestGenerateSecret(t *testing.T) {
	assert := require.New(t)

	a, err := GenerateSecret()
	assert.NoError(err)
	assert.Len(a, 64)
	assert.NotContains(a, "0x")

	b, err := GenerateSecret()
	assert.NoError(err)
	assert.NotEqual(a, b)
}
