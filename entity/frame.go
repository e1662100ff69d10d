// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entity

import (
	"sort"

	"github.com/xlnfinance/xln-sub011/crypto"
	"github.com/xlnfinance/xln-sub011/xlntypes"
)

// EntityFrame is one BFT-committed batch of EntityTxs (spec.md §4.2).
type EntityFrame struct {
	Height        uint64
	Txs           []EntityTx
	PrevStateHash xlntypes.Bytes32
	NewStateRoot  xlntypes.Bytes32
}

// orderTxs sorts txs by (signerId, nonce) ascending, the tie-break spec.md
// §4.2 requires for frame construction.
func orderTxs(txs []EntityTx) []EntityTx {
	out := append([]EntityTx{}, txs...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Signer != b.Signer {
			return signerLess(a.Signer, b.Signer)
		}
		return a.Nonce < b.Nonce
	})
	return out
}

// frameCommitHash is the hash signed by propose/sign/commit participants,
// domain-separated over (prevStateHash, newStateRoot, height).
func frameCommitHash(f EntityFrame) xlntypes.Bytes32 {
	heightBytes := xlntypes.U256FromUint64(f.Height).Bytes32()
	return crypto.DomainHash(crypto.EntityDomainTag, f.PrevStateHash.Bytes(), f.NewStateRoot.Bytes(), heightBytes[:])
}
