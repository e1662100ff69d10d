// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package crypto provides the hashing and signature primitives the rest of
// the module builds on: keccak256, domain-separated structured hashing, and
// ECDSA secp256k1 sign/recover. Grounded on the teacher's cry package
// (cry.VSha3, cry.AddressToBytes, TestEcdsa) but built on
// github.com/ethereum/go-ethereum/crypto directly rather than re-deriving
// the primitives by hand.
package crypto

import (
	gethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/xlnfinance/xln-sub011/xlntypes"
)

// Keccak256 hashes the concatenation of data.
func Keccak256(data ...[]byte) xlntypes.Bytes32 {
	return xlntypes.BytesToBytes32(gethcrypto.Keccak256(data...))
}

// Frame domain tag, spec.md §6: "xln.frame/v1".
const FrameDomainTag = "xln.frame/v1"

// Account signature domain tag, spec.md §6: "xln.account/v1".
const AccountDomainTag = "xln.account/v1"

// Entity commit signature domain tag, spec.md §6: "xln.entity/v1".
const EntityDomainTag = "xln.entity/v1"

// Runtime snapshot digest domain tag, used to assert replay byte-identity.
const RuntimeDomainTag = "xln.runtime/v1"

// DomainHash computes keccak256(domain ‖ data...), the pattern used for
// every domain-separated hash in this system (frame hashes, account and
// entity signature preimages).
func DomainHash(domain string, data ...[]byte) xlntypes.Bytes32 {
	all := make([][]byte, 0, len(data)+1)
	all = append(all, []byte(domain))
	all = append(all, data...)
	return Keccak256(all...)
}
