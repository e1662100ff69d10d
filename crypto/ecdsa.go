// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package crypto

import (
	"crypto/ecdsa"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/xlnfinance/xln-sub011/xlntypes"
)

// PrivateKey is a secp256k1 signing key, one per SignerId.
type PrivateKey struct {
	key *ecdsa.PrivateKey
}

// GenerateKey creates a fresh signing key (CSPRNG-backed; not used on any
// consensus-observable path).
func GenerateKey() (*PrivateKey, error) {
	key, err := gethcrypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key: key}, nil
}

// SignerId derives the 20-byte SignerId for this key, the same derivation
// go-ethereum uses for account addresses.
func (p *PrivateKey) SignerId() xlntypes.SignerId {
	return xlntypes.BytesToSignerId(gethcrypto.PubkeyToAddress(p.key.PublicKey).Bytes())
}

// Sign produces a 65-byte recoverable ECDSA signature over hash.
func (p *PrivateKey) Sign(hash xlntypes.Bytes32) ([]byte, error) {
	sig, err := gethcrypto.Sign(hash[:], p.key)
	if err != nil {
		return nil, errors.Wrap(err, "crypto: sign")
	}
	return sig, nil
}

// Recover recovers the SignerId that produced sig over hash.
func Recover(hash xlntypes.Bytes32, sig []byte) (xlntypes.SignerId, error) {
	if len(sig) != 65 {
		return xlntypes.SignerId{}, errors.New("crypto: signature must be 65 bytes")
	}
	pub, err := gethcrypto.SigToPub(hash[:], sig)
	if err != nil {
		return xlntypes.SignerId{}, errors.Wrap(err, "crypto: recover")
	}
	return xlntypes.BytesToSignerId(gethcrypto.PubkeyToAddress(*pub).Bytes()), nil
}

// Verify reports whether sig over hash recovers to signer.
func Verify(hash xlntypes.Bytes32, sig []byte, signer xlntypes.SignerId) bool {
	recovered, err := Recover(hash, sig)
	if err != nil {
		return false
	}
	return recovered == signer
}
