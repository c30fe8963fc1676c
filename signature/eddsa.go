// Copyright 2020-2024 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package signature wraps the EdDSA signature oracle at its interface
// boundary. The curve math lives in gnark-crypto; zkToolkit only fixes how
// field-element messages are absorbed (element-wise through MiMC) and how
// keys are derived and exchanged.
package signature

import (
	"bytes"
	"io"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards/eddsa"
	"golang.org/x/crypto/blake2b"
)

// PrivateKey is an EdDSA signing key over the BN254 twisted Edwards curve.
type PrivateKey struct {
	sk *eddsa.PrivateKey
}

// PublicKey is the verifying half of a keypair.
type PublicKey struct {
	pk eddsa.PublicKey
}

// GenerateKey draws a keypair from r, which must supply cryptographically
// secure bytes.
func GenerateKey(r io.Reader) (*PrivateKey, error) {
	sk, err := eddsa.GenerateKey(r)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{sk: sk}, nil
}

// NewKeyFromSeed derives a deterministic keypair by expanding seed with
// blake2b-512. The same seed always yields the same keypair.
func NewKeyFromSeed(seed []byte) (*PrivateKey, error) {
	h := blake2b.Sum512(seed)
	return GenerateKey(bytes.NewReader(h[:]))
}

// Public returns the verifying key.
func (priv *PrivateKey) Public() PublicKey {
	return PublicKey{pk: priv.sk.PublicKey}
}

// Sign signs a field-element message. The message is absorbed element-wise
// through MiMC before signing, so signer and verifier agree on the digest
// for any element sequence.
func (priv *PrivateKey) Sign(msg []fr.Element) ([]byte, error) {
	return priv.sk.Sign(digest(msg), mimc.NewMiMC())
}

// Verify checks sig over msg for this key.
func (pub PublicKey) Verify(sig []byte, msg []fr.Element) (bool, error) {
	return pub.pk.Verify(sig, digest(msg), mimc.NewMiMC())
}

// Bytes returns the compressed public key for out-of-band exchange.
func (pub PublicKey) Bytes() []byte {
	return pub.pk.Bytes()
}

// SetBytes reconstructs a public key exchanged with Bytes.
func (pub *PublicKey) SetBytes(b []byte) error {
	_, err := pub.pk.SetBytes(b)
	return err
}

func digest(msg []fr.Element) []byte {
	h := mimc.NewMiMC()
	for i := range msg {
		b := msg[i].Bytes()
		_, _ = h.Write(b[:])
	}
	return h.Sum(nil)
}
