// Copyright 2020-2024 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package ioutils implements the binary layout shared by zkToolkit
// serializers: field-element streams travel as intcomp-compressed uint64
// limb slices, length-prefixed with little-endian counts.
package ioutils

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/ronanh/intcomp"
)

// ErrCorruptStream is returned when a compressed element stream does not
// decode to the announced element count.
var ErrCorruptStream = errors.New("ioutils: corrupt element stream")

// WriteElements flattens the elements into their uint64 limbs, compresses
// the limb stream and writes it to w, prefixed with the element count and
// the compressed word count.
func WriteElements(w io.Writer, elements []fr.Element) error {
	limbs := make([]uint64, 0, len(elements)*fr.Limbs)
	for i := range elements {
		limbs = append(limbs, elements[i][:]...)
	}
	compressed := intcomp.CompressUint64(limbs, nil)

	if err := binary.Write(w, binary.LittleEndian, uint64(len(elements))); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(compressed))); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, compressed)
}

// ReadElements reads a stream written by WriteElements and reconstructs the
// elements.
func ReadElements(r io.Reader) ([]fr.Element, error) {
	var count, words uint64
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &words); err != nil {
		return nil, err
	}
	compressed := make([]uint64, words)
	if err := binary.Read(r, binary.LittleEndian, compressed); err != nil {
		return nil, err
	}

	limbs := intcomp.UncompressUint64(compressed, nil)
	if uint64(len(limbs)) != count*fr.Limbs {
		return nil, ErrCorruptStream
	}
	elements := make([]fr.Element, count)
	for i := range elements {
		copy(elements[i][:], limbs[i*fr.Limbs:(i+1)*fr.Limbs])
	}
	return elements, nil
}
