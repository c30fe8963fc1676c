// Copyright 2020-2024 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package rangeproof

import (
	"bytes"
	"errors"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/fxamacker/cbor/v2"
	"github.com/icza/bitio"
)

// ErrCorruptProof is returned when a serialized proof cannot be decoded.
var ErrCorruptProof = errors.New("rangeproof: corrupt serialized proof")

var encMode = func() cbor.EncMode {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// proofWire is the CBOR layout of a Proof. Bits travel packed, one bit each,
// alongside their explicit width.
type proofWire struct {
	ValueCommitment fr.Element
	Min             *big.Int
	Max             *big.Int
	BitWidth        int
	PackedBits      []byte
	BitCommitments  []fr.Element
	Salt            fr.Element
	Valid           bool
}

// MarshalCBOR implements cbor.Marshaler.
func (p Proof) MarshalCBOR() ([]byte, error) {
	w := proofWire{
		ValueCommitment: p.ValueCommitment,
		Min:             p.Min,
		Max:             p.Max,
		BitWidth:        len(p.Bits),
		PackedBits:      packBits(p.Bits),
		BitCommitments:  p.BitCommitments,
		Salt:            p.Salt,
		Valid:           p.Valid,
	}
	return encMode.Marshal(w)
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (p *Proof) UnmarshalCBOR(data []byte) error {
	var w proofWire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return err
	}
	bits, err := unpackBits(w.PackedBits, w.BitWidth)
	if err != nil {
		return err
	}
	p.ValueCommitment = w.ValueCommitment
	p.Min = w.Min
	p.Max = w.Max
	p.Bits = bits
	p.BitCommitments = w.BitCommitments
	p.Salt = w.Salt
	p.Valid = w.Valid
	return nil
}

func packBits(bits []uint8) []byte {
	if len(bits) == 0 {
		return nil
	}
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	for _, b := range bits {
		_ = w.WriteBool(b == 1)
	}
	_ = w.Close()
	return buf.Bytes()
}

func unpackBits(data []byte, width int) ([]uint8, error) {
	if width == 0 {
		return nil, nil
	}
	if width < 0 || len(data)*8 < width {
		return nil, ErrCorruptProof
	}
	r := bitio.NewReader(bytes.NewReader(data))
	out := make([]uint8, width)
	for i := range out {
		set, err := r.ReadBool()
		if err != nil {
			return nil, ErrCorruptProof
		}
		if set {
			out[i] = 1
		}
	}
	return out, nil
}
