// Copyright 2020-2024 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package merkle

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkTerm/zkToolkit/internal/ioutils"
)

// ErrCorruptTree is returned when a serialized tree does not decode to a
// well-formed level pyramid.
var ErrCorruptTree = errors.New("merkle: corrupt serialized tree")

// Serialize writes every retained level to w, leaves first. Levels travel as
// compressed limb streams; hashed node values compress poorly individually
// but the shared-prefix padding nodes and the limb layout still shrink the
// stream for real trees.
func (t *Tree) Serialize(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, uint64(len(t.levels))); err != nil {
		return err
	}
	for _, lvl := range t.levels {
		if err := ioutils.WriteElements(w, lvl); err != nil {
			return err
		}
	}
	return nil
}

// Deserialize reconstructs a tree written by Serialize, validating the level
// pyramid: a power-of-two leaf count of at least 2, each level half the
// previous, a single root. Trees failing validation return ErrCorruptTree.
func Deserialize(r io.Reader) (*Tree, error) {
	var numLevels uint64
	if err := binary.Read(r, binary.LittleEndian, &numLevels); err != nil {
		return nil, err
	}
	if numLevels < 2 {
		return nil, ErrCorruptTree
	}

	levels := make([][]fr.Element, numLevels)
	for i := range levels {
		lvl, err := ioutils.ReadElements(r)
		if err != nil {
			return nil, err
		}
		levels[i] = lvl
	}

	n := len(levels[0])
	if n < 2 || n&(n-1) != 0 {
		return nil, ErrCorruptTree
	}
	for i := 1; i < len(levels); i++ {
		if len(levels[i]) != len(levels[i-1])/2 {
			return nil, ErrCorruptTree
		}
	}
	if len(levels[len(levels)-1]) != 1 {
		return nil, ErrCorruptTree
	}

	return &Tree{levels: levels, depth: len(levels) - 1}, nil
}
