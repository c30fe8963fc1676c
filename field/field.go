// Copyright 2020-2024 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package field canonicalizes caller inputs (strings, integers, byte
// buffers, hex) into BN254 scalar field elements and back into the fixed
// 0x-prefixed lowercase hex form used at every external edge of zkToolkit.
//
// The codec is pure: it never reduces errors into panics and never talks to
// the hash oracle.
package field

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"golang.org/x/exp/constraints"
)

// Bytes is the canonical byte width of an encoded element.
const Bytes = fr.Bytes

// MaxStringBytes is the number of leading bytes of a plain string that
// contribute to its encoding. 31 bytes keep the base-256 accumulation below
// the 254-bit BN254 modulus. The truncation is silent: strings sharing their
// first 31 bytes encode to the same element. Downstream consumers rely on
// this exact behavior, so it is documented here rather than widened.
const MaxStringBytes = 31

// ErrInvalidHex is returned when a hex string cannot be parsed into an element.
var ErrInvalidHex = errors.New("field: invalid hex element")

// FromString encodes a plain string by big-endian base-256 accumulation of
// its first MaxStringBytes bytes. See MaxStringBytes for the truncation rule.
func FromString(s string) fr.Element {
	b := []byte(s)
	if len(b) > MaxStringBytes {
		b = b[:MaxStringBytes]
	}
	var e fr.Element
	e.SetBytes(b)
	return e
}

// FromBytes converts a byte buffer directly, interpreting it as a big-endian
// integer. Buffers encoding a value at or above the field modulus reduce mod p.
func FromBytes(b []byte) fr.Element {
	var e fr.Element
	e.SetBytes(b)
	return e
}

// FromInt converts any integer type. Negative values map to their additive
// inverse mod p.
func FromInt[T constraints.Integer](v T) fr.Element {
	var e fr.Element
	if v < 0 {
		var b big.Int
		b.SetInt64(int64(v))
		e.SetBigInt(&b)
		return e
	}
	e.SetUint64(uint64(v))
	return e
}

// FromBigInt converts a big integer, reducing mod p when out of range.
func FromBigInt(b *big.Int) fr.Element {
	var e fr.Element
	e.SetBigInt(b)
	return e
}

// Encode is the dynamic entry point used at the oracle boundary. Strings
// prefixed 0x parse as hex integers; other strings follow FromString; byte
// buffers, integers and big integers convert directly; elements pass through.
// Encoding is best-effort and never fails: unparsable hex falls back to the
// plain-string rule, and unknown types encode their fmt representation.
func Encode(v any) fr.Element {
	switch t := v.(type) {
	case fr.Element:
		return t
	case *fr.Element:
		return *t
	case string:
		if strings.HasPrefix(t, "0x") || strings.HasPrefix(t, "0X") {
			if e, err := FromHex(t); err == nil {
				return e
			}
		}
		return FromString(t)
	case []byte:
		return FromBytes(t)
	case *big.Int:
		return FromBigInt(t)
	case big.Int:
		return FromBigInt(&t)
	case int:
		return FromInt(t)
	case int8:
		return FromInt(t)
	case int16:
		return FromInt(t)
	case int32:
		return FromInt(t)
	case int64:
		return FromInt(t)
	case uint:
		return FromInt(t)
	case uint8:
		return FromInt(t)
	case uint16:
		return FromInt(t)
	case uint32:
		return FromInt(t)
	case uint64:
		return FromInt(t)
	default:
		return FromString(fmt.Sprint(v))
	}
}

// ToHex returns the canonical external form: 0x followed by 2*Bytes lowercase
// hex characters, zero-padded big-endian.
func ToHex(e fr.Element) string {
	b := e.Bytes()
	return "0x" + hex.EncodeToString(b[:])
}

// FromHex parses a hex string into an element. The 0x prefix is optional and
// case-insensitive, and missing left padding is tolerated. Values at or above
// the field modulus reduce mod p (gnark-crypto semantics); callers remain
// responsible for supplying canonical in-range values.
func FromHex(s string) (fr.Element, error) {
	var e fr.Element
	t := strings.TrimSpace(s)
	if len(t) >= 2 && (t[:2] == "0x" || t[:2] == "0X") {
		t = t[2:]
	}
	if t == "" {
		return e, ErrInvalidHex
	}
	b, ok := new(big.Int).SetString(t, 16)
	if !ok || b.Sign() < 0 {
		return e, ErrInvalidHex
	}
	e.SetBigInt(b)
	return e, nil
}

// Normalize re-encodes a hex string into its canonical form, erasing case
// and padding differences.
func Normalize(s string) (string, error) {
	e, err := FromHex(s)
	if err != nil {
		return "", err
	}
	return ToHex(e), nil
}

// EqualHex compares two hex strings as integers. Malformed input on either
// side compares unequal.
func EqualHex(a, b string) bool {
	ea, err := FromHex(a)
	if err != nil {
		return false
	}
	eb, err := FromHex(b)
	if err != nil {
		return false
	}
	return ea.Equal(&eb)
}
