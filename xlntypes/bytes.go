// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package xlntypes holds the fixed-size identifiers and numeric types shared
// by every layer of the R/E/A frame engine: EntityId, SignerId, TokenId,
// U256 and I256 amounts, and the jurisdiction-wide Params.
package xlntypes

import (
	"encoding/hex"
	"errors"
	"strings"
)

// Bytes32Length is the length in bytes of a Bytes32.
const Bytes32Length = 32

// Bytes32 is a 32-byte content-addressed value: a state hash, frame hash,
// or entity id.
type Bytes32 [Bytes32Length]byte

// String renders the hex representation with a 0x prefix.
func (b Bytes32) String() string {
	return "0x" + hex.EncodeToString(b[:])
}

// IsZero reports whether b is the zero value.
func (b Bytes32) IsZero() bool {
	return b == Bytes32{}
}

// Bytes returns a copy of the underlying bytes.
func (b Bytes32) Bytes() []byte {
	out := make([]byte, Bytes32Length)
	copy(out, b[:])
	return out
}

// BytesToBytes32 left-pads or truncates b to fit a Bytes32.
func BytesToBytes32(b []byte) (bz Bytes32) {
	if len(b) > Bytes32Length {
		b = b[len(b)-Bytes32Length:]
	}
	copy(bz[Bytes32Length-len(b):], b)
	return
}

// ParseBytes32 parses a hex string (with or without 0x prefix) into a Bytes32.
func ParseBytes32(s string) (Bytes32, error) {
	var out Bytes32
	s = strings.TrimPrefix(s, "0x")
	if len(s) != Bytes32Length*2 {
		return out, errors.New("xlntypes: invalid bytes32 length")
	}
	if _, err := hex.Decode(out[:], []byte(s)); err != nil {
		return out, err
	}
	return out, nil
}

// EntityId uniquely identifies an entity within a jurisdiction.
type EntityId = Bytes32

// AddressLength is the length in bytes of a SignerId.
const AddressLength = 20

// SignerId is a 20-byte validator/signer address, recovered from an ECDSA
// signature the same way go-ethereum recovers an account address.
type SignerId [AddressLength]byte

// String renders the hex representation with a 0x prefix.
func (a SignerId) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// IsZero reports whether a is the zero value.
func (a SignerId) IsZero() bool {
	return a == SignerId{}
}

// Bytes returns a copy of the underlying bytes.
func (a SignerId) Bytes() []byte {
	out := make([]byte, AddressLength)
	copy(out, a[:])
	return out
}

// BytesToSignerId left-pads or truncates b to fit a SignerId.
func BytesToSignerId(b []byte) (a SignerId) {
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return
}

// ParseSignerId parses a hex string (with or without 0x prefix) into a SignerId.
func ParseSignerId(s string) (SignerId, error) {
	var out SignerId
	s = strings.TrimPrefix(s, "0x")
	if len(s) != AddressLength*2 {
		return out, errors.New("xlntypes: invalid signer id length")
	}
	if _, err := hex.Decode(out[:], []byte(s)); err != nil {
		return out, err
	}
	return out, nil
}

// TokenId identifies a fungible asset class understood by the jurisdiction.
type TokenId uint32

// AccountKey canonically designates the account between two entities: the
// party with the lexicographically smaller EntityId is always left.
type AccountKey struct {
	Left  EntityId
	Right EntityId
}

// Less reports the canonical byte ordering used to pick left/right.
func Less(a, b EntityId) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// CanonicalAccountKey orients (a, b) so Left is always the lexicographically
// smaller id, and reports whether the input was already in that order.
func CanonicalAccountKey(a, b EntityId) (key AccountKey, aIsLeft bool) {
	if Less(a, b) || a == b {
		return AccountKey{Left: a, Right: b}, true
	}
	return AccountKey{Left: b, Right: a}, false
}

// ReplicaKey identifies an entity replica held by a specific signer.
type ReplicaKey struct {
	EntityId EntityId
	SignerId SignerId
}

// Less orders replica keys by (entityId, signerId), the explicit sort order
// the runtime iterates replicas in.
func (k ReplicaKey) Less(o ReplicaKey) bool {
	if k.EntityId != o.EntityId {
		return Less(k.EntityId, o.EntityId)
	}
	for i := range k.SignerId {
		if k.SignerId[i] != o.SignerId[i] {
			return k.SignerId[i] < o.SignerId[i]
		}
	}
	return false
}
