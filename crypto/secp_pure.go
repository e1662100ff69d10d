// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package crypto

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/pkg/errors"

	"github.com/xlnfinance/xln-sub011/xlntypes"
)

// PureRecover recovers a SignerId from a 65-byte compact signature using the
// pure-Go decred secp256k1 implementation, independent of go-ethereum's
// cgo-accelerated path. Used exclusively by the Hanko aggregate-verification
// path (hanko.Verify), which may run many independent recoveries per commit
// and should not depend on a C toolchain being available.
func PureRecover(hash xlntypes.Bytes32, sig []byte) (xlntypes.SignerId, error) {
	if len(sig) != 65 {
		return xlntypes.SignerId{}, errors.New("crypto: signature must be 65 bytes")
	}
	// decred's compact signatures place the recovery id (offset by 27)
	// first, but go-ethereum's Sign() output places it last; normalize.
	compact := make([]byte, 65)
	compact[0] = sig[64] + 27
	copy(compact[1:], sig[:64])

	pub, _, err := ecdsa.RecoverCompact(compact, hash[:])
	if err != nil {
		return xlntypes.SignerId{}, errors.Wrap(err, "crypto: pure recover")
	}
	return pubkeyToSignerId(pub), nil
}

// pubkeyToSignerId derives the 20-byte SignerId from an uncompressed
// secp256k1 public key the same way go-ethereum derives account addresses:
// keccak256(x‖y)[12:].
func pubkeyToSignerId(pub *secp256k1.PublicKey) xlntypes.SignerId {
	uncompressed := pub.SerializeUncompressed() // 0x04 || X || Y
	h := Keccak256(uncompressed[1:])
	return xlntypes.BytesToSignerId(h[12:])
}
