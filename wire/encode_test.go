// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package wire

import (
	"math/big"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
)

func TestFrameFieldsRoundTrip(t *testing.T) {
	f := fuzz.New().NilChance(0).NumElements(1, 5)

	for i := 0; i < 50; i++ {
		var in FrameFields
		f.Fuzz(&in.TokenIds)
		in.PrevFrameHash = make([]byte, 32)
		f.Fuzz(&in.PrevFrameHash)
		f.Fuzz(&in.Height)

		in.Deltas = make([]DeltaRecord, len(in.TokenIds))
		for j := range in.Deltas {
			in.Deltas[j] = randomDelta(f, in.TokenIds[j])
		}

		data, err := Encode(&in)
		assert.NoError(t, err)

		var out FrameFields
		assert.NoError(t, Decode(data, &out))
		assert.Equal(t, in.Height, out.Height)
		assert.Equal(t, in.TokenIds, out.TokenIds)
		assert.Equal(t, in.PrevFrameHash, out.PrevFrameHash)
		assert.Equal(t, len(in.Deltas), len(out.Deltas))
		for j := range in.Deltas {
			assert.Equal(t, in.Deltas[j].TokenId, out.Deltas[j].TokenId)
			assert.Equal(t, 0, in.Deltas[j].Collateral.Cmp(out.Deltas[j].Collateral))
			assert.Equal(t, in.Deltas[j].OndeltaSign, out.Deltas[j].OndeltaSign)
			assert.Equal(t, 0, in.Deltas[j].OndeltaAbs.Cmp(out.Deltas[j].OndeltaAbs))
		}
	}
}

func randomDelta(f *fuzz.Fuzzer, tokenId uint32) DeltaRecord {
	var u1, u2, u3, u4, u5, u6 uint64
	f.Fuzz(&u1)
	f.Fuzz(&u2)
	f.Fuzz(&u3)
	f.Fuzz(&u4)
	f.Fuzz(&u5)
	f.Fuzz(&u6)
	return DeltaRecord{
		TokenId:          tokenId,
		Collateral:       new(big.Int).SetUint64(u1),
		OndeltaSign:      uint8(u2 % 2),
		OndeltaAbs:       new(big.Int).SetUint64(u2),
		OffdeltaSign:     uint8(u3 % 2),
		OffdeltaAbs:      new(big.Int).SetUint64(u3),
		LeftCreditLimit:  new(big.Int).SetUint64(u4),
		RightCreditLimit: new(big.Int).SetUint64(u5),
		LeftAllowance:    new(big.Int).SetUint64(u6),
		RightAllowance:   new(big.Int).SetUint64(u6),
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	var out FrameFields
	err := Decode([]byte{0xff, 0xff, 0xff}, &out)
	assert.Error(t, err)
}
