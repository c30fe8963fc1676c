// Package zktoolkit provides zero-knowledge-friendly proof data structures:
// salted hash commitments, Merkle membership proofs, bounded-range proofs and
// nullifier registries, all composed over a pluggable field-hash oracle.
//
// zkToolkit supports the following field-hash functions:
//   - MiMC (BN254)
//   - Poseidon2 (BN254)
//
// The algebraic permutations and EdDSA curve math come from
// github.com/consensys/gnark-crypto; zkToolkit is the protocol composition
// layer on top.
package zktoolkit

import (
	"github.com/blang/semver/v4"

	"github.com/zkTerm/zkToolkit/hash"
)

var Version = semver.MustParse("0.1.0")

// Hashes returns the field-hash oracles supported by zkToolkit.
func Hashes() []hash.Hash {
	return []hash.Hash{
		hash.MIMC_BN254,
		hash.POSEIDON2_BN254,
	}
}
