// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package hanko

import (
	"math/big"

	"github.com/xlnfinance/xln-sub011/wire"
	"github.com/xlnfinance/xln-sub011/xlntypes"
)

// ToRecord converts h to its canonical wire representation.
func (h Hanko) ToRecord() wire.HankoRecord {
	signers := make([][]byte, len(h.Signed))
	sigs := make([][]byte, len(h.Signed))
	for i, s := range h.Signed {
		signers[i] = s.SignerId.Bytes()
		sigs[i] = s.Sig
	}
	shareSigners := make([][]byte, len(h.Shares))
	shareWeights := make([]*big.Int, len(h.Shares))
	for i, s := range h.Shares {
		shareSigners[i] = s.SignerId.Bytes()
		shareWeights[i] = s.Weight.Big()
	}
	return wire.HankoRecord{
		Signers:      signers,
		Sigs:         sigs,
		Threshold:    h.Threshold.Big(),
		ShareSigners: shareSigners,
		ShareWeights: shareWeights,
	}
}

// HankoFromRecord reconstructs a Hanko from its wire representation.
func HankoFromRecord(r wire.HankoRecord) Hanko {
	signed := make([]Signed, len(r.Signers))
	for i := range r.Signers {
		signed[i] = Signed{SignerId: xlntypes.BytesToSignerId(r.Signers[i]), Sig: r.Sigs[i]}
	}
	shares := make([]Share, len(r.ShareSigners))
	for i := range r.ShareSigners {
		shares[i] = Share{SignerId: xlntypes.BytesToSignerId(r.ShareSigners[i]), Weight: xlntypes.U256FromBig(r.ShareWeights[i])}
	}
	return Hanko{
		Signed:    signed,
		Threshold: xlntypes.U256FromBig(r.Threshold),
		Shares:    shares,
	}
}
