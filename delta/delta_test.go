// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delta

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xlnfinance/xln-sub011/xlntypes"
)

func mk(collateral, leftCredit, rightCredit uint64, net int64) Delta {
	return Delta{
		TokenId:          1,
		Collateral:       xlntypes.U256FromUint64(collateral),
		Ondelta:          xlntypes.I256FromInt64(net),
		Offdelta:         xlntypes.ZeroI256,
		LeftCreditLimit:  xlntypes.U256FromUint64(leftCredit),
		RightCreditLimit: xlntypes.U256FromUint64(rightCredit),
	}
}

func TestDerivedCapacitiesConservation(t *testing.T) {
	d := mk(1000, 200, 300, 0)
	caps := DerivedCapacities(d)
	// |delta| <= collateral: left+right == collateral + leftCredit + rightCredit
	total := caps.Left.Add(caps.Right)
	assert.Equal(t, 0, total.Cmp(xlntypes.U256FromUint64(1500)))
	assert.Equal(t, 0, caps.Left.Cmp(xlntypes.U256FromUint64(700)))  // 200 + 1000/2
	assert.Equal(t, 0, caps.Right.Cmp(xlntypes.U256FromUint64(800))) // 300 + 1000/2
}

func TestDerivedCapacitiesShiftsWithDelta(t *testing.T) {
	d := mk(1000, 0, 0, 400) // right is owed 400
	caps := DerivedCapacities(d)
	assert.Equal(t, 0, caps.Left.Cmp(xlntypes.U256FromUint64(300)))  // (1000-400)/2
	assert.Equal(t, 0, caps.Right.Cmp(xlntypes.U256FromUint64(700))) // (1000+400)/2
}

func TestApplyPaymentRejectsOverCapacity(t *testing.T) {
	d := mk(100, 0, 0, 0)
	_, err := ApplyPayment(d, xlntypes.U256FromUint64(51), LeftToRight)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestApplyPaymentSucceedsWithinCapacity(t *testing.T) {
	d := mk(100, 0, 0, 0)
	out, err := ApplyPayment(d, xlntypes.U256FromUint64(40), LeftToRight)
	assert.NoError(t, err)
	assert.Equal(t, int64(40), out.Net().Big().Int64())
}

func TestApplyPaymentRejectsZeroAmount(t *testing.T) {
	d := mk(100, 0, 0, 0)
	_, err := ApplyPayment(d, xlntypes.ZeroU256, LeftToRight)
	assert.ErrorIs(t, err, ErrNonPositiveAmount)
}

func TestApplyExtendCreditRejectsBelowUtilization(t *testing.T) {
	d := mk(0, 500, 0, 300) // right currently owed 300, drawn against leftCreditLimit
	_, err := ApplyExtendCredit(d, xlntypes.U256FromUint64(200), true)
	assert.ErrorIs(t, err, ErrCreditBelowUsage)

	out, err := ApplyExtendCredit(d, xlntypes.U256FromUint64(400), true)
	assert.NoError(t, err)
	assert.Equal(t, 0, out.LeftCreditLimit.Cmp(xlntypes.U256FromUint64(400)))
}

func TestApplyRequestWithdrawalRejectsOverCollateral(t *testing.T) {
	d := mk(100, 0, 0, 0)
	_, err := ApplyRequestWithdrawal(d, xlntypes.U256FromUint64(101), true)
	assert.ErrorIs(t, err, ErrAllowanceExceeded)
}

func TestDeltaRecordRoundTrip(t *testing.T) {
	d := mk(1000, 200, 300, -150)
	d.Offdelta = xlntypes.I256FromInt64(25)
	r := d.ToRecord()
	back := DeltaFromRecord(r)
	assert.Equal(t, d.TokenId, back.TokenId)
	assert.Equal(t, 0, d.Collateral.Cmp(back.Collateral))
	assert.Equal(t, 0, d.Ondelta.Cmp(back.Ondelta))
	assert.Equal(t, 0, d.Offdelta.Cmp(back.Offdelta))
}
