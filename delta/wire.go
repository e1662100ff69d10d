// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delta

import (
	"math/big"

	"github.com/xlnfinance/xln-sub011/wire"
	"github.com/xlnfinance/xln-sub011/xlntypes"
)

// ToRecord converts d to its canonical wire representation.
func (d Delta) ToRecord() wire.DeltaRecord {
	ondeltaSign, ondeltaAbs := signAbs(d.Ondelta)
	offdeltaSign, offdeltaAbs := signAbs(d.Offdelta)
	return wire.DeltaRecord{
		TokenId:          uint32(d.TokenId),
		Collateral:       d.Collateral.Big(),
		OndeltaSign:      ondeltaSign,
		OndeltaAbs:       ondeltaAbs,
		OffdeltaSign:     offdeltaSign,
		OffdeltaAbs:      offdeltaAbs,
		LeftCreditLimit:  d.LeftCreditLimit.Big(),
		RightCreditLimit: d.RightCreditLimit.Big(),
		LeftAllowance:    d.LeftAllowance.Big(),
		RightAllowance:   d.RightAllowance.Big(),
	}
}

// DeltaFromRecord reconstructs a Delta from its canonical wire representation.
func DeltaFromRecord(r wire.DeltaRecord) Delta {
	return Delta{
		TokenId:          xlntypes.TokenId(r.TokenId),
		Collateral:       xlntypes.U256FromBig(r.Collateral),
		Ondelta:          signedFromAbs(r.OndeltaSign, r.OndeltaAbs),
		Offdelta:         signedFromAbs(r.OffdeltaSign, r.OffdeltaAbs),
		LeftCreditLimit:  xlntypes.U256FromBig(r.LeftCreditLimit),
		RightCreditLimit: xlntypes.U256FromBig(r.RightCreditLimit),
		LeftAllowance:    xlntypes.U256FromBig(r.LeftAllowance),
		RightAllowance:   xlntypes.U256FromBig(r.RightAllowance),
	}
}

func signAbs(v xlntypes.I256) (uint8, *big.Int) {
	if v.Sign() < 0 {
		return 1, v.Neg().Big()
	}
	return 0, v.Big()
}

func signedFromAbs(sign uint8, abs *big.Int) xlntypes.I256 {
	v := xlntypes.I256FromBig(abs)
	if sign == 1 {
		return v.Neg()
	}
	return v
}
