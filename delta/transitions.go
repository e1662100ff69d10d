// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delta

import (
	"github.com/xlnfinance/xln-sub011/xlntypes"
)

// Direction is which side of the canonical orientation sends a payment.
type Direction uint8

const (
	// LeftToRight moves value from the left party to the right party.
	LeftToRight Direction = iota
	// RightToLeft moves value from the right party to the left party.
	RightToLeft
)

// ApplyPayment moves amount in direction dir, rejecting the transition if
// it would drive the sender's capacity below zero, i.e. if amount exceeds
// the sender's capacity before the payment (spec.md §4.3).
func ApplyPayment(d Delta, amount xlntypes.U256, dir Direction) (Delta, error) {
	if amount.IsZero() {
		return d, ErrNonPositiveAmount
	}
	shift := i256FromU256(amount)
	out := d
	switch dir {
	case LeftToRight:
		out.Offdelta = d.Offdelta.Add(shift)
	case RightToLeft:
		out.Offdelta = d.Offdelta.Sub(shift)
	default:
		return d, ErrUnknownDirection
	}

	signed := derivedSigned(d)
	var senderCapacity xlntypes.I256
	if dir == LeftToRight {
		senderCapacity = signed.Left
	} else {
		senderCapacity = signed.Right
	}
	if senderCapacity.Cmp(shift) < 0 {
		return d, ErrCapacityExceeded
	}
	return out, nil
}

// currentUtilization returns how much of side's extended credit is
// currently drawn: max(0, net position against that side).
func currentUtilization(d Delta, left bool) xlntypes.U256 {
	net := d.Net()
	if left {
		// left's credit is drawn when net is positive (right is owed).
		if net.Sign() <= 0 {
			return xlntypes.ZeroU256
		}
		return xlntypes.U256FromBig(net.Big())
	}
	if net.Sign() >= 0 {
		return xlntypes.ZeroU256
	}
	return xlntypes.U256FromBig(net.Neg().Big())
}

// ApplyExtendCredit sets a new credit limit on one side, rejecting limits
// below the currently drawn utilization (spec.md §4.3).
func ApplyExtendCredit(d Delta, newLimit xlntypes.U256, left bool) (Delta, error) {
	utilization := currentUtilization(d, left)
	if newLimit.Cmp(utilization) < 0 {
		return d, ErrCreditBelowUsage
	}
	out := d
	if left {
		out.LeftCreditLimit = newLimit
	} else {
		out.RightCreditLimit = newLimit
	}
	return out, nil
}

// ApplyRequestWithdrawal reserves amount as an allowance pending an
// on-chain counter-signature, rejecting the request if the reservation
// would exceed collateral (spec.md §4.3: "allowance + pendingRequests <=
// collateral").
func ApplyRequestWithdrawal(d Delta, amount xlntypes.U256, left bool) (Delta, error) {
	if amount.IsZero() {
		return d, ErrNonPositiveAmount
	}
	out := d
	var newAllowance xlntypes.U256
	if left {
		newAllowance = d.LeftAllowance.Add(amount)
	} else {
		newAllowance = d.RightAllowance.Add(amount)
	}
	if newAllowance.Cmp(d.Collateral) > 0 {
		return d, ErrAllowanceExceeded
	}
	if left {
		out.LeftAllowance = newAllowance
	} else {
		out.RightAllowance = newAllowance
	}
	return out, nil
}

// ApplyWithdrawalExecuted finalizes a previously-accepted withdrawal once
// the corresponding JEventSource WithdrawalExecuted event is observed:
// collateral and the matching allowance both decrease by amount.
func ApplyWithdrawalExecuted(d Delta, amount xlntypes.U256, left bool) (Delta, error) {
	if amount.Cmp(d.Collateral) > 0 {
		return d, ErrCapacityExceeded
	}
	out := d
	out.Collateral = d.Collateral.Sub(amount)
	if left {
		if amount.Cmp(d.LeftAllowance) > 0 {
			return d, ErrAllowanceExceeded
		}
		out.LeftAllowance = d.LeftAllowance.Sub(amount)
	} else {
		if amount.Cmp(d.RightAllowance) > 0 {
			return d, ErrAllowanceExceeded
		}
		out.RightAllowance = d.RightAllowance.Sub(amount)
	}
	return out, nil
}

// ApplyCollateralPosted applies a JEventSource CollateralPosted event,
// increasing collateral once a requestRebalance lands on-chain.
func ApplyCollateralPosted(d Delta, amount xlntypes.U256) Delta {
	out := d
	out.Collateral = d.Collateral.Add(amount)
	return out
}
