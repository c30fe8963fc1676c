// Copyright 2020-2024 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package merkle builds Merkle trees over the field-hash oracle and
// produces/verifies O(log n) inclusion proofs.
//
// Leaves are padded with the "0" sentinel to a power-of-two count (minimum
// 2), every level is retained in full so proof generation is a lookup, and
// verification fail-closes: malformed proofs verify false, they never error.
package merkle

import (
	"errors"
	"math/bits"
	"runtime"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"golang.org/x/sync/errgroup"

	"github.com/zkTerm/zkToolkit/field"
	"github.com/zkTerm/zkToolkit/hash"
	"github.com/zkTerm/zkToolkit/logger"
)

var (
	// ErrEmptyLeaves tree construction needs at least one leaf
	ErrEmptyLeaves = errors.New("merkle: empty leaf set")

	// ErrIndexOutOfBounds proof generation for a leaf outside the tree
	ErrIndexOutOfBounds = errors.New("merkle: leaf index out of bounds")
)

// PaddingLeaf is the sentinel appended to the leaf set until its length is a
// power of two.
const PaddingLeaf = "0"

// levels with at least this many parent nodes hash in parallel; shorter
// levels hash serially.
const parallelThreshold = 512

// Tree is an immutable Merkle tree. levels[0] holds the hashed (padded)
// leaves, each subsequent level halves the previous by pairwise hashing, and
// the last level is the root.
type Tree struct {
	h      hash.Oracle
	levels [][]fr.Element
	depth  int
}

// NewTree hashes every (possibly padded) leaf individually with
// hash(encode(leaf)) and combines pairs upward until one element remains.
// A single leaf is doubled: there is no 1-leaf tree.
func NewTree(o hash.Oracle, leaves []string) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptyLeaves
	}

	padded := make([]string, len(leaves), nextPowerOfTwo(len(leaves)))
	copy(padded, leaves)
	for len(padded) < 2 || len(padded)&(len(padded)-1) != 0 {
		padded = append(padded, PaddingLeaf)
	}

	level0 := make([]fr.Element, len(padded))
	for i, leaf := range padded {
		h, err := o.Hash(field.Encode(leaf))
		if err != nil {
			return nil, err
		}
		level0[i] = h
	}

	levels := [][]fr.Element{level0}
	current := level0
	for len(current) > 1 {
		next, err := hashLevel(o, current)
		if err != nil {
			return nil, err
		}
		levels = append(levels, next)
		current = next
	}

	t := &Tree{h: o, levels: levels, depth: len(levels) - 1}
	log := logger.For("merkle")
	log.Debug().Int("leaves", len(padded)).Int("depth", t.depth).Msg("tree built")
	return t, nil
}

// hashLevel computes the parent level by pairwise hashing.
func hashLevel(o hash.Oracle, level []fr.Element) ([]fr.Element, error) {
	next := make([]fr.Element, len(level)/2)
	if len(next) >= parallelThreshold {
		g := new(errgroup.Group)
		g.SetLimit(runtime.NumCPU())
		for i := range next {
			g.Go(func() error {
				h, err := o.Hash(level[2*i], level[2*i+1])
				next[i] = h
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return next, nil
	}
	for i := range next {
		h, err := o.Hash(level[2*i], level[2*i+1])
		if err != nil {
			return nil, err
		}
		next[i] = h
	}
	return next, nil
}

// Root returns the tree root.
func (t *Tree) Root() fr.Element {
	return t.levels[len(t.levels)-1][0]
}

// RootHex returns the root in canonical hex form.
func (t *Tree) RootHex() string {
	return field.ToHex(t.Root())
}

// Depth returns the number of levels above the leaves.
func (t *Tree) Depth() int {
	return t.depth
}

// NumLeaves returns the padded leaf count.
func (t *Tree) NumLeaves() int {
	return len(t.levels[0])
}

// Leaves returns a copy of the hashed (padded) leaves.
func (t *Tree) Leaves() []fr.Element {
	out := make([]fr.Element, len(t.levels[0]))
	copy(out, t.levels[0])
	return out
}

// Levels returns a copy of every retained level, leaves first.
func (t *Tree) Levels() [][]fr.Element {
	out := make([][]fr.Element, len(t.levels))
	for i, lvl := range t.levels {
		out[i] = make([]fr.Element, len(lvl))
		copy(out[i], lvl)
	}
	return out
}

func nextPowerOfTwo(n int) int {
	if n < 2 {
		return 2
	}
	if n&(n-1) == 0 {
		return n
	}
	return 1 << bits.Len(uint(n))
}
