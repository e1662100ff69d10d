// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package account

import (
	"sort"

	"github.com/xlnfinance/xln-sub011/crypto"
	"github.com/xlnfinance/xln-sub011/delta"
	"github.com/xlnfinance/xln-sub011/wire"
	"github.com/xlnfinance/xln-sub011/xlntypes"
)

// AccountFrame is one committed (or proposed) batch of AccountTxs
// together with the resulting per-token delta snapshot (spec.md §3).
type AccountFrame struct {
	Height        uint64
	Timestamp     int64
	Txs           []AccountTx
	PrevFrameHash xlntypes.Bytes32
	StateHash     xlntypes.Bytes32
	TokenIds      []xlntypes.TokenId
	Deltas        []delta.Delta
}

// sortedTokenDeltas returns deltas ordered by ascending TokenId, matching
// the order their TokenIds appear in tokenIds.
func sortedTokenDeltas(deltas map[xlntypes.TokenId]delta.Delta) ([]xlntypes.TokenId, []delta.Delta) {
	ids := make([]xlntypes.TokenId, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]delta.Delta, len(ids))
	for i, id := range ids {
		out[i] = deltas[id]
	}
	return ids, out
}

// computeStateHash implements spec.md §6: stateHash =
// keccak256("xln.frame/v1" ‖ encode(tokenIds_sorted, deltas_parallel,
// prevFrameHash, height)).
func computeStateHash(tokenIds []xlntypes.TokenId, deltas []delta.Delta, prevFrameHash xlntypes.Bytes32, height uint64) (xlntypes.Bytes32, error) {
	ids := make([]uint32, len(tokenIds))
	for i, id := range tokenIds {
		ids[i] = uint32(id)
	}
	records := make([]wire.DeltaRecord, len(deltas))
	for i, d := range deltas {
		records[i] = d.ToRecord()
	}
	fields := wire.FrameFields{
		TokenIds:      ids,
		Deltas:        records,
		PrevFrameHash: prevFrameHash.Bytes(),
		Height:        height,
	}
	encoded, err := wire.Encode(fields)
	if err != nil {
		return xlntypes.Bytes32{}, err
	}
	return crypto.DomainHash(crypto.FrameDomainTag, encoded), nil
}

// frameSigningHash is the hash signed by Propose/Ack participants:
// domain-separated over the frame's stateHash, height and the signer's
// direction (0 = left, 1 = right), so a left signature can never be
// replayed as a right signature or vice versa.
func frameSigningHash(stateHash xlntypes.Bytes32, height uint64, left bool) xlntypes.Bytes32 {
	dir := byte(1)
	if left {
		dir = byte(0)
	}
	heightBytes := xlntypes.U256FromUint64(height).Bytes32()
	return crypto.DomainHash(crypto.AccountDomainTag, stateHash.Bytes(), heightBytes[:], []byte{dir})
}
