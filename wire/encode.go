// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package wire implements the canonical, deterministic record encoding.
// Big integers are *big.Int fields, which rlp writes as minimal-length
// big-endian strings, not fixed-width fields; hash domain prefixes are
// added by crypto.DomainHash, not here. Built on github.com/ethereum/go-ethereum/rlp,
// which the teacher already depends on for exactly this kind of
// structural, order-preserving encoding (block/header.go, block/approval.go).
//
// Go maps have randomized iteration order, which spec.md explicitly calls
// out as a source of nondeterminism (§9 "Nested Map/Set keyed by
// stringified bigints"): every encoded record here is a flat struct of
// slices that callers must have already sorted into canonical order
// (tokenIds ascending, deltas parallel to tokenIds) before calling Encode.
package wire

import (
	"github.com/ethereum/go-ethereum/rlp"
)

// Encode canonically serializes val, which must be an RLP-encodable struct
// (rlp natively supports uint64/uint32/[]byte/*big.Int/slices/nested
// structs — no maps).
func Encode(val interface{}) ([]byte, error) {
	return rlp.EncodeToBytes(val)
}

// Decode parses data produced by Encode into val.
func Decode(data []byte, val interface{}) error {
	return rlp.DecodeBytes(data, val)
}
