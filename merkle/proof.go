// Copyright 2020-2024 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package merkle

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkTerm/zkToolkit/field"
	"github.com/zkTerm/zkToolkit/hash"
)

// Proof is an inclusion path from a leaf to the root. PathIndices[i] = 1
// means the leaf-side node at level i was the right child.
type Proof struct {
	Leaf         fr.Element
	Index        int
	PathElements []fr.Element
	PathIndices  []int
	Root         fr.Element
}

// Result reports a verification outcome together with the recomputed root.
type Result struct {
	Valid        bool
	ComputedRoot fr.Element
}

// Prove walks from the leaf at index to the root, recording the sibling at
// each level (indices differing by parity) and whether the current node was
// the right child.
func (t *Tree) Prove(index int) (Proof, error) {
	if index < 0 || index >= t.NumLeaves() {
		return Proof{}, ErrIndexOutOfBounds
	}

	path := make([]fr.Element, t.depth)
	dirs := make([]int, t.depth)
	idx := index
	for lvl := 0; lvl < t.depth; lvl++ {
		path[lvl] = t.levels[lvl][idx^1]
		dirs[lvl] = idx & 1
		idx >>= 1
	}

	return Proof{
		Leaf:         t.levels[0][index],
		Index:        index,
		PathElements: path,
		PathIndices:  dirs,
		Root:         t.Root(),
	}, nil
}

// Verify recomputes a running hash from hash(encode(leaf)) through the path
// and compares it, as integers, to root. Malformed proofs (mismatched array
// lengths, directions outside {0,1}) verify false — they never error. The
// error return is reserved for oracle failure.
func Verify(o hash.Oracle, root fr.Element, leaf string, proof Proof) (Result, error) {
	if len(proof.PathElements) != len(proof.PathIndices) {
		return Result{}, nil
	}

	current, err := o.Hash(field.Encode(leaf))
	if err != nil {
		return Result{}, err
	}

	for i, sibling := range proof.PathElements {
		switch proof.PathIndices[i] {
		case 0:
			current, err = o.Hash(current, sibling)
		case 1:
			current, err = o.Hash(sibling, current)
		default:
			return Result{}, nil
		}
		if err != nil {
			return Result{}, err
		}
	}

	return Result{Valid: current.Equal(&root), ComputedRoot: current}, nil
}
