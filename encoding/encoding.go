// Copyright 2020-2024 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package encoding offers (de)serialization APIs for zkToolkit proof objects.
// It uses CBOR and prefixes every stream with the hash-oracle ID the object
// was built under, so a proof cannot silently be verified against the wrong
// oracle.
package encoding

import (
	"errors"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"

	"github.com/zkTerm/zkToolkit/hash"
)

// ErrHashMismatch is returned when deserializing an object serialized under
// a different hash oracle.
var ErrHashMismatch = errors.New("trying to deserialize an object serialized with another hash oracle")

var encMode = func() cbor.EncMode {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// Write serializes object into a file.
func Write(path string, from any, h hash.Hash) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return Serialize(f, from, h)
}

// Read reads and deserializes a file into object. The provided interface
// must be a pointer.
func Read(path string, into any, expected hash.Hash) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return Deserialize(f, into, expected)
}

// Serialize writes object into the provided writer, encoding the hash ID in
// the first bytes.
func Serialize(w io.Writer, from any, h hash.Hash) error {
	encoder := encMode.NewEncoder(w)

	if err := encoder.Encode(h); err != nil {
		return err
	}
	return encoder.Encode(from)
}

// Deserialize reads bytes from the reader and reconstructs the object,
// ensuring the stream was written under the expected hash oracle.
func Deserialize(r io.Reader, into any, expected hash.Hash) error {
	decoder := cbor.NewDecoder(r)

	var h hash.Hash
	if err := decoder.Decode(&h); err != nil {
		return err
	}
	if h != expected {
		return ErrHashMismatch
	}

	return decoder.Decode(into)
}

// PeekHashID reads the first bytes of the file and returns the hash ID the
// object was serialized under.
func PeekHashID(path string) (hash.Hash, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var h hash.Hash
	if err := cbor.NewDecoder(f).Decode(&h); err != nil {
		return 0, err
	}
	return h, nil
}
