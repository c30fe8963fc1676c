// Copyright 2020-2024 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package hash defines the field-hash oracle consumed by every zkToolkit
// proof structure, and a registry of the algebraic hash functions backing it.
//
// The structure of the package is similar to what can be found in golang's
// crypto/ package: a Hash enum names each supported function and New
// constructs the oracle handle. Construction is memoized — concurrent callers
// racing to initialize the same oracle observe exactly one initialization and
// share its result.
package hash

import (
	"errors"
	"hash"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/poseidon2"

	"github.com/zkTerm/zkToolkit/logger"
)

// MaxInputs is the largest input sequence an oracle accepts.
const MaxInputs = 16

var (
	// ErrEmptyInput no field elements to hash
	ErrEmptyInput = errors.New("empty input: at least one field element required")

	// ErrTooManyInputs input sequence longer than MaxInputs
	ErrTooManyInputs = errors.New("too many inputs: maximum 16 field elements")

	// ErrUnknownHash hash ID outside the registry
	ErrUnknownHash = errors.New("unknown hash ID")
)

// Oracle hashes an ordered sequence of 1 to MaxInputs field elements into a
// single field element. Implementations are collision-resistant and safe for
// concurrent use.
type Oracle interface {
	Hash(elements ...fr.Element) (fr.Element, error)
}

// Hash identifies a supported field-hash function.
type Hash uint

const (
	MIMC_BN254 Hash = iota
	POSEIDON2_BN254
	maxHash
)

// size of digests in bytes
var digestSize = []uint8{
	MIMC_BN254:      fr.Bytes,
	POSEIDON2_BN254: fr.Bytes,
}

// construction cells; sync.OnceValues guarantees at-most-one initialization
// per backend, with all concurrent callers awaiting the same result.
var oracles = [maxHash]func() (Oracle, error){
	MIMC_BN254: sync.OnceValues(func() (Oracle, error) {
		log := logger.For("hash")
		log.Debug().Str("hash", "MIMC_BN254").Msg("initializing oracle")
		return &frOracle{newHash: func() hash.Hash { return mimc.NewMiMC() }}, nil
	}),
	POSEIDON2_BN254: sync.OnceValues(func() (Oracle, error) {
		log := logger.For("hash")
		log.Debug().Str("hash", "POSEIDON2_BN254").Msg("initializing oracle")
		return &frOracle{newHash: func() hash.Hash { return poseidon2.NewMerkleDamgardHasher() }}, nil
	}),
}

// New returns the memoized oracle for the hash ID. Unknown IDs return
// ErrUnknownHash so callers can probe availability without committing.
func (h Hash) New() (Oracle, error) {
	if h >= maxHash {
		return nil, ErrUnknownHash
	}
	return oracles[h]()
}

// String returns the hash ID in string format.
func (h Hash) String() string {
	switch h {
	case MIMC_BN254:
		return "MIMC_BN254"
	case POSEIDON2_BN254:
		return "POSEIDON2_BN254"
	default:
		return "UNKNOWN"
	}
}

// Size returns the size of the digest of the corresponding hash function.
func (h Hash) Size() int {
	if h >= maxHash {
		return 0
	}
	return int(digestSize[h])
}

// frOracle adapts a gnark-crypto field hasher to the Oracle interface. A
// fresh hasher instance is created per call, which makes the oracle safe for
// concurrent use.
type frOracle struct {
	newHash func() hash.Hash
}

func (o *frOracle) Hash(elements ...fr.Element) (fr.Element, error) {
	var res fr.Element
	if len(elements) == 0 {
		return res, ErrEmptyInput
	}
	if len(elements) > MaxInputs {
		return res, ErrTooManyInputs
	}
	hasher := o.newHash()
	for i := range elements {
		b := elements[i].Bytes()
		if _, err := hasher.Write(b[:]); err != nil {
			return res, err
		}
	}
	res.SetBytes(hasher.Sum(nil))
	return res, nil
}
